package translation

import (
	"context"
	"errors"

	"mav.press/pressroom/internal/language"
)

// PivotLang is the language every narrative is generated in. Requests
// targeting it never reach a provider.
const PivotLang = "en"

// Provider identifiers reported in results alongside real backend names.
const (
	ProviderNoop = "noop"
	ProviderNone = "none"
)

// ErrInvalidRequest reports a request missing required fields. It is the
// only error Chain.Translate returns; provider failures degrade instead.
var ErrInvalidRequest = errors.New("invalid translation request")

// Backend translates free-form text between languages. An error from
// Attempt is a soft failure: the chain logs it and tries the next backend.
type Backend interface {
	Attempt(ctx context.Context, req Request) (*Result, error)
	Name() string
	Supports(sourceLang, targetLang string) bool
	MaxTextLen() int
}

// Request describes one translation request.
type Request struct {
	Text       string
	SourceLang string // ISO 639-1 (for example: "en", "hi")
	TargetLang string
}

// Result contains translated text and provider metadata. Text is always
// populated; a degraded result carries the original text plus a note.
type Result struct {
	Text        string
	SourceLang  string
	TargetLang  string
	Provider    string
	LatencyMs   int64
	Truncated   bool
	TruncatedAt int
	Fallback    bool
	Cached      bool
	Note        string
}

// Translator resolves translation requests. Chain and Manager both satisfy
// it; handlers and the narrative client depend on this interface.
type Translator interface {
	Translate(ctx context.Context, req Request) (*Result, error)
}

func normalizeLangCode(raw string) string {
	return language.NormalizeCode(raw)
}
