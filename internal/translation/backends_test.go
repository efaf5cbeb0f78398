package translation

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeepTranslateBackendSuccess(t *testing.T) {
	t.Parallel()

	var gotKey, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-RapidAPI-Key")
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"translations":{"translatedText":"नमस्ते दुनिया"}}}`))
	}))
	defer server.Close()

	backend := NewDeepTranslateBackendWithEndpoint("test-key", server.URL)
	result, err := backend.Attempt(context.Background(), Request{Text: "Hello world", SourceLang: "en", TargetLang: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "नमस्ते दुनिया" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if result.Provider != "deep-translate" {
		t.Fatalf("unexpected provider: %q", result.Provider)
	}
	if gotKey != "test-key" {
		t.Fatalf("expected API key header, got %q", gotKey)
	}
	if !strings.Contains(gotBody, `"target":"hi"`) {
		t.Fatalf("expected mapped target code in body, got %q", gotBody)
	}
}

func TestDeepTranslateBackendErrorInsideOKBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
	}))
	defer server.Close()

	backend := NewDeepTranslateBackendWithEndpoint("test-key", server.URL)
	if _, err := backend.Attempt(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"}); err == nil {
		t.Fatalf("expected error for error payload in 200 body")
	}
}

func TestDeepTranslateBackendUnsupportedWithoutKey(t *testing.T) {
	t.Parallel()

	backend := NewDeepTranslateBackend("")
	if backend.Supports("en", "hi") {
		t.Fatalf("expected no support without an API key")
	}
}

func TestDeepTranslateBackendMapsZHCode(t *testing.T) {
	t.Parallel()

	backend := NewDeepTranslateBackend("key")
	if !backend.Supports("en", "zh") {
		t.Fatalf("expected zh to map through the provider code table")
	}
	if backend.Supports("en", "xx") {
		t.Fatalf("did not expect unmapped code to be supported")
	}
}

func TestMyMemoryBackendSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("langpair"); got != "en|ta" {
			t.Errorf("unexpected langpair: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":"வணக்கம்"},"responseStatus":200}`))
	}))
	defer server.Close()

	backend := NewMyMemoryBackendWithEndpoint("", server.URL)
	result, err := backend.Attempt(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "ta"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "வணக்கம்" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if result.Provider != "mymemory" {
		t.Fatalf("unexpected provider: %q", result.Provider)
	}
}

func TestMyMemoryBackendQuotaFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":403,"responseDetails":"quota finished"}`))
	}))
	defer server.Close()

	backend := NewMyMemoryBackendWithEndpoint("", server.URL)
	if _, err := backend.Attempt(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "ta"}); err == nil {
		t.Fatalf("expected error for quota response")
	}
}

func TestMyMemoryBackendPivotOnly(t *testing.T) {
	t.Parallel()

	backend := NewMyMemoryBackend("")
	if backend.Supports("hi", "en") {
		t.Fatalf("did not expect non-pivot source to be supported")
	}
	if !backend.Supports("en", "hi") {
		t.Fatalf("expected pivot source into catalog target to be supported")
	}
	if backend.Supports("en", "xx") {
		t.Fatalf("did not expect non-catalog target to be supported")
	}
}

func TestBackendLimitsMatchDocumentedConstants(t *testing.T) {
	t.Parallel()

	if got := NewDeepTranslateBackend("key").MaxTextLen(); got != 4500 {
		t.Fatalf("unexpected deep-translate limit: %d", got)
	}
	if got := NewMyMemoryBackend("").MaxTextLen(); got != 500 {
		t.Fatalf("unexpected mymemory limit: %d", got)
	}
}
