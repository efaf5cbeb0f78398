package payloadschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateTranslateRequest_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"text":"Acme announces a new product line.",
		"sourceLang":"en",
		"targetLang":"hi"
	}`)

	req, err := ValidateTranslateRequest(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if req.TargetLang != "hi" {
		t.Fatalf("expected targetLang=hi, got %q", req.TargetLang)
	}
	if req.SourceLang != "en" {
		t.Fatalf("expected sourceLang=en, got %q", req.SourceLang)
	}
}

func TestValidateTranslateRequest_OptionalSourceLang(t *testing.T) {
	payload := json.RawMessage(`{"text":"Hello","targetLang":"ta"}`)

	req, err := ValidateTranslateRequest(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if req.SourceLang != "" {
		t.Fatalf("expected empty sourceLang, got %q", req.SourceLang)
	}
}

func TestValidateTranslateRequest_MissingTarget(t *testing.T) {
	payload := json.RawMessage(`{"text":"Hello"}`)

	if _, err := ValidateTranslateRequest(payload); err == nil {
		t.Fatalf("expected validation to fail for missing targetLang")
	}
}

func TestValidateTranslateRequest_WhitespaceText(t *testing.T) {
	payload := json.RawMessage(`{"text":"   ","targetLang":"hi"}`)

	_, err := ValidateTranslateRequest(payload)
	if err == nil {
		t.Fatalf("expected validation to fail for whitespace-only text")
	}
	if !strings.Contains(err.Error(), "text must not be empty") {
		t.Fatalf("expected text semantic error, got: %v", err)
	}
}

func TestValidateTranslateRequest_TrailingContent(t *testing.T) {
	payload := json.RawMessage(`{"text":"Hello","targetLang":"hi"} garbage`)

	if _, err := ValidateTranslateRequest(payload); err == nil {
		t.Fatalf("expected validation to fail for trailing content")
	}
}

func TestValidateMonitorConfig_Valid(t *testing.T) {
	payload := json.RawMessage(`{
		"client":"Acme",
		"keywords":[" recall ","outage"],
		"interval_seconds":300
	}`)

	cfg, err := ValidateMonitorConfig(payload)
	if err != nil {
		t.Fatalf("expected payload to be valid, got error: %v", err)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[0] != "recall" {
		t.Fatalf("expected trimmed keywords, got %v", cfg.Keywords)
	}
	if cfg.IntervalSeconds != 300 {
		t.Fatalf("expected interval 300, got %d", cfg.IntervalSeconds)
	}
}

func TestValidateMonitorConfig_EmptyKeywords(t *testing.T) {
	payload := json.RawMessage(`{"keywords":[]}`)

	if _, err := ValidateMonitorConfig(payload); err == nil {
		t.Fatalf("expected validation to fail for empty keywords")
	}
}

func TestValidateMonitorConfig_IntervalTooLow(t *testing.T) {
	payload := json.RawMessage(`{"keywords":["acme"],"interval_seconds":5}`)

	if _, err := ValidateMonitorConfig(payload); err == nil {
		t.Fatalf("expected validation to fail for interval below minimum")
	}
}
