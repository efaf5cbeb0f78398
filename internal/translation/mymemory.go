package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mav.press/pressroom/internal/language"
)

const (
	// DefaultMyMemoryEndpoint is the MyMemory free-tier GET endpoint.
	DefaultMyMemoryEndpoint = "https://api.mymemory.translated.net/get"
	// MyMemoryMaxTextLen is the free-tier per-request input limit.
	MyMemoryMaxTextLen = 500
)

// MyMemoryBackend is the restrictive free-tier fallback. It only accepts
// requests out of the pivot language into catalog languages.
type MyMemoryBackend struct {
	endpoint string
	email    string
	client   *http.Client
}

func NewMyMemoryBackend(contactEmail string) *MyMemoryBackend {
	return NewMyMemoryBackendWithEndpoint(contactEmail, DefaultMyMemoryEndpoint)
}

// NewMyMemoryBackendWithEndpoint overrides the provider URL, used by tests
// to point at a stub server.
func NewMyMemoryBackendWithEndpoint(contactEmail, endpoint string) *MyMemoryBackend {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		trimmedEndpoint = DefaultMyMemoryEndpoint
	}
	return &MyMemoryBackend{
		endpoint: trimmedEndpoint,
		email:    strings.TrimSpace(contactEmail),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (b *MyMemoryBackend) Name() string {
	return "mymemory"
}

func (b *MyMemoryBackend) MaxTextLen() int {
	return MyMemoryMaxTextLen
}

// Supports restricts the free tier to pivot-language sources and catalog
// targets.
func (b *MyMemoryBackend) Supports(sourceLang, targetLang string) bool {
	if b == nil {
		return false
	}
	if !language.IsPivot(sourceLang) {
		return false
	}
	return IsSupportedLanguage(targetLang)
}

func (b *MyMemoryBackend) Attempt(ctx context.Context, req Request) (*Result, error) {
	if b == nil {
		return nil, fmt.Errorf("mymemory backend is nil")
	}

	sourceLang := normalizeLangCode(req.SourceLang)
	targetLang := normalizeLangCode(req.TargetLang)
	if sourceLang != PivotLang {
		return nil, fmt.Errorf("mymemory only translates out of %q, got %q", PivotLang, sourceLang)
	}

	query := url.Values{}
	query.Set("q", req.Text)
	query.Set("langpair", sourceLang+"|"+targetLang)
	if b.email != "" {
		// Contact email raises the free-tier daily quota.
		query.Set("de", b.email)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build mymemory request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send mymemory request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read mymemory response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mymemory status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed myMemoryResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode mymemory response: %w", err)
	}
	// Quota and validation errors arrive as 200 bodies with a non-200
	// responseStatus.
	if parsed.ResponseStatus != 0 && parsed.ResponseStatus != http.StatusOK {
		detail := strings.TrimSpace(parsed.ResponseDetails)
		if detail == "" {
			detail = "no details"
		}
		return nil, fmt.Errorf("mymemory response status %d: %s", parsed.ResponseStatus, detail)
	}

	translated := strings.TrimSpace(parsed.ResponseData.TranslatedText)
	if translated == "" {
		return nil, fmt.Errorf("mymemory response was empty")
	}
	if strings.Contains(strings.ToUpper(translated), "MYMEMORY WARNING") {
		return nil, fmt.Errorf("mymemory quota warning: %s", translated)
	}

	return &Result{
		Text:      translated,
		Provider:  b.Name(),
		LatencyMs: time.Since(started).Milliseconds(),
	}, nil
}

type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
		Match          any    `json:"match"`
	} `json:"responseData"`
	ResponseStatus  int    `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}
