package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"mav.press/pressroom/internal/translation"
)

type fakeTranslator struct {
	result   *translation.Result
	err      error
	requests []translation.Request
}

func (f *fakeTranslator) Translate(_ context.Context, req translation.Request) (*translation.Result, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	result := *f.result
	return &result, nil
}

func newJSONContext(method, path, body string) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

func TestHandleTranslate_Success(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{result: &translation.Result{
		Text:       "एक्मे ने नई उत्पाद श्रृंखला की घोषणा की",
		SourceLang: "en",
		TargetLang: "hi",
		Provider:   "deep-translate",
		LatencyMs:  42,
	}}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate",
		`{"text":"Acme announces a new product line.","sourceLang":"en","targetLang":"hi"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["source"] != "deep-translate" {
		t.Fatalf("unexpected source: %v", resp["source"])
	}
	if resp["timeMs"] != float64(42) {
		t.Fatalf("unexpected timeMs: %v", resp["timeMs"])
	}
	if _, present := resp["isFallback"]; present {
		t.Fatalf("isFallback must be omitted on success, got %v", resp["isFallback"])
	}
}

func TestHandleTranslate_DegradedReturns503(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{result: &translation.Result{
		Text:       "Acme announces a new product line.\n\n" + translation.NoteMarker + " Hindi translation is unavailable.",
		SourceLang: "en",
		TargetLang: "hi",
		Provider:   translation.ProviderNone,
		Fallback:   true,
		Note:       translation.NoteMarker + " Hindi translation is unavailable.",
	}}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate",
		`{"text":"Acme announces a new product line.","sourceLang":"en","targetLang":"hi"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var resp translateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.IsFallback {
		t.Fatalf("expected isFallback=true")
	}
	if resp.Source != translation.ProviderNone {
		t.Fatalf("unexpected source: %q", resp.Source)
	}
	if resp.TimeMs != 0 {
		t.Fatalf("degraded response must report timeMs=0, got %d", resp.TimeMs)
	}
	if !strings.HasPrefix(resp.TranslatedText, "Acme announces") {
		t.Fatalf("degraded response must carry the original text, got %q", resp.TranslatedText)
	}
}

func TestHandleTranslate_InvalidBody(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{result: &translation.Result{}}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate", `{"text":"Hello"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if len(translator.requests) != 0 {
		t.Fatalf("translator must not be called for an invalid body")
	}

	var resp translateErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected error message in response")
	}
}

func TestHandleTranslate_UnsupportedTargetLanguage(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{result: &translation.Result{}}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate",
		`{"text":"Hello","sourceLang":"en","targetLang":"xx"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusBadRequest)
	}
	if len(translator.requests) != 0 {
		t.Fatalf("translator must not be called for an unsupported target")
	}
}

func TestHandleTranslate_FillsMissingSourceLang(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{result: &translation.Result{
		Text:       "translated",
		SourceLang: "en",
		TargetLang: "ta",
		Provider:   "deep-translate",
	}}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate",
		`{"text":"The quarterly results exceeded every projection we published.","targetLang":"ta"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if len(translator.requests) != 1 {
		t.Fatalf("expected one translator call, got %d", len(translator.requests))
	}
	if translator.requests[0].SourceLang == "" {
		t.Fatalf("expected source language to be filled in")
	}
}

func TestHandleTranslate_UnexpectedErrorCarriesOriginalText(t *testing.T) {
	t.Parallel()

	translator := &fakeTranslator{err: errors.New("cache pool torn down")}
	server := &Server{translator: translator, logger: zerolog.Nop()}

	_, c, rec := newJSONContext(http.MethodPost, "/api/v1/translate",
		`{"text":"Acme announces a new product line.","sourceLang":"en","targetLang":"hi"}`)
	if err := server.handleTranslate(c); err != nil {
		t.Fatalf("handleTranslate returned error: %v", err)
	}

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: got %d want %d", rec.Code, http.StatusInternalServerError)
	}

	var resp translateErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("expected error message in response")
	}
	if resp.TranslatedText != "Acme announces a new product line." {
		t.Fatalf("expected original text carried back, got %q", resp.TranslatedText)
	}
}

func TestHandleTranslateHealth(t *testing.T) {
	t.Parallel()

	server := &Server{
		translator: &fakeTranslator{result: &translation.Result{}},
		logger:     zerolog.Nop(),
		opts:       Options{HasProviderCredential: true},
	}

	_, c, rec := newJSONContext(http.MethodGet, "/api/v1/translate", "")
	if err := server.handleTranslateHealth(c); err != nil {
		t.Fatalf("handleTranslateHealth returned error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("unexpected status field: %v", resp["status"])
	}
	if resp["hasCredential"] != true {
		t.Fatalf("expected hasCredential=true, got %v", resp["hasCredential"])
	}
}
