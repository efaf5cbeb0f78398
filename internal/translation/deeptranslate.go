package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultDeepTranslateEndpoint is the RapidAPI Deep Translate v2 endpoint.
	DefaultDeepTranslateEndpoint = "https://deep-translate1.p.rapidapi.com/language/translate/v2"
	// DeepTranslateMaxTextLen is the largest input the provider accepts.
	DeepTranslateMaxTextLen = 4500

	deepTranslateHost = "deep-translate1.p.rapidapi.com"
)

// deepTranslateCodes maps catalog codes to the provider's own code set.
// Codes outside this table make the backend soft-fail so the chain moves on.
var deepTranslateCodes = map[string]string{
	"bn": "bn",
	"de": "de",
	"en": "en",
	"es": "es",
	"fr": "fr",
	"gu": "gu",
	"hi": "hi",
	"ja": "ja",
	"kn": "kn",
	"ml": "ml",
	"mr": "mr",
	"pa": "pa",
	"ta": "ta",
	"te": "te",
	"ur": "ur",
	"zh": "zh-CN",
}

// DeepTranslateBackend is the primary paid provider, reached through
// RapidAPI. A missing API key makes every pair unsupported.
type DeepTranslateBackend struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewDeepTranslateBackend(apiKey string) *DeepTranslateBackend {
	return NewDeepTranslateBackendWithEndpoint(apiKey, DefaultDeepTranslateEndpoint)
}

// NewDeepTranslateBackendWithEndpoint overrides the provider URL, used by
// tests to point at a stub server.
func NewDeepTranslateBackendWithEndpoint(apiKey, endpoint string) *DeepTranslateBackend {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		trimmedEndpoint = DefaultDeepTranslateEndpoint
	}
	return &DeepTranslateBackend{
		endpoint: trimmedEndpoint,
		apiKey:   strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (b *DeepTranslateBackend) Name() string {
	return "deep-translate"
}

func (b *DeepTranslateBackend) MaxTextLen() int {
	return DeepTranslateMaxTextLen
}

func (b *DeepTranslateBackend) Supports(sourceLang, targetLang string) bool {
	if b == nil || b.apiKey == "" {
		return false
	}
	_, sourceOK := deepTranslateCodes[normalizeLangCode(sourceLang)]
	_, targetOK := deepTranslateCodes[normalizeLangCode(targetLang)]
	return sourceOK && targetOK
}

func (b *DeepTranslateBackend) Attempt(ctx context.Context, req Request) (*Result, error) {
	if b == nil {
		return nil, fmt.Errorf("deep-translate backend is nil")
	}
	if b.apiKey == "" {
		return nil, fmt.Errorf("deep-translate API key is not configured")
	}

	sourceCode, ok := deepTranslateCodes[normalizeLangCode(req.SourceLang)]
	if !ok {
		return nil, fmt.Errorf("deep-translate has no code for source language %q", req.SourceLang)
	}
	targetCode, ok := deepTranslateCodes[normalizeLangCode(req.TargetLang)]
	if !ok {
		return nil, fmt.Errorf("deep-translate has no code for target language %q", req.TargetLang)
	}

	body, err := json.Marshal(deepTranslateRequest{
		Q:      req.Text,
		Source: sourceCode,
		Target: targetCode,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal deep-translate request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build deep-translate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-RapidAPI-Key", b.apiKey)
	httpReq.Header.Set("X-RapidAPI-Host", deepTranslateHost)

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send deep-translate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read deep-translate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("deep-translate status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed deepTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode deep-translate response: %w", err)
	}
	// The provider reports some failures inside a 200 body.
	if msg := strings.TrimSpace(parsed.Error.Message); msg != "" {
		return nil, fmt.Errorf("deep-translate error payload: %s", msg)
	}

	translated := strings.TrimSpace(parsed.Data.Translations.TranslatedText)
	if translated == "" {
		return nil, fmt.Errorf("deep-translate response was empty")
	}

	return &Result{
		Text:      translated,
		Provider:  b.Name(),
		LatencyMs: time.Since(started).Milliseconds(),
	}, nil
}

type deepTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type deepTranslateResponse struct {
	Data struct {
		Translations struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
