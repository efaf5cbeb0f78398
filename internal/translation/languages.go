package translation

import (
	"sort"
	"strings"
)

// LanguageOption is one entry of the supported-language catalog exposed to
// API consumers.
type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

type languageLabel struct {
	english string
	native  string
}

var catalogLanguageLabels = map[string]languageLabel{
	"bn": {english: "Bengali", native: "বাংলা"},
	"de": {english: "German", native: "Deutsch"},
	"en": {english: "English", native: "English"},
	"es": {english: "Spanish", native: "Español"},
	"fr": {english: "French", native: "Français"},
	"gu": {english: "Gujarati", native: "ગુજરાતી"},
	"hi": {english: "Hindi", native: "हिन्दी"},
	"ja": {english: "Japanese", native: "日本語"},
	"kn": {english: "Kannada", native: "ಕನ್ನಡ"},
	"ml": {english: "Malayalam", native: "മലയാളം"},
	"mr": {english: "Marathi", native: "मराठी"},
	"pa": {english: "Punjabi", native: "ਪੰਜਾਬੀ"},
	"ta": {english: "Tamil", native: "தமிழ்"},
	"te": {english: "Telugu", native: "తెలుగు"},
	"ur": {english: "Urdu", native: "اردو"},
	"zh": {english: "Chinese", native: "中文"},
}

// SupportedLanguageCodes lists catalog codes in sorted order.
func SupportedLanguageCodes() []string {
	codes := make([]string, 0, len(catalogLanguageLabels))
	for code := range catalogLanguageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// IsSupportedLanguage reports whether the code is part of the catalog.
func IsSupportedLanguage(code string) bool {
	_, ok := catalogLanguageLabels[normalizeLangCode(code)]
	return ok
}

// LanguageLabel returns the English display name for a code, falling back
// to the upper-cased code for anything outside the catalog.
func LanguageLabel(code string) string {
	normalized := normalizeLangCode(code)
	if labels, ok := catalogLanguageLabels[normalized]; ok {
		return labels.english
	}
	fallback := strings.ToUpper(strings.TrimSpace(code))
	if fallback == "" {
		fallback = "English"
	}
	return fallback
}

// LanguageOptions returns catalog entries for the language selector.
func LanguageOptions() []LanguageOption {
	codes := SupportedLanguageCodes()
	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		labels := catalogLanguageLabels[code]
		options = append(options, LanguageOption{
			Code:   code,
			Label:  labels.english,
			Native: labels.native,
		})
	}
	return options
}
