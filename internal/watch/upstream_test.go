package watch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUpstreamFetchAlerts(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/alerts" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("unexpected api key header: %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("unexpected limit: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"alerts":[{"id":3,"client":"Acme","riskScore":72,"region":"Reddit","topic":"outage","sentiment":-0.72,"keywords":["acme"],"sources":[{"type":"Reddit","count":1}]}]}`))
	}))
	defer server.Close()

	upstream := NewUpstream(server.URL, "secret")
	alerts, err := upstream.FetchAlerts(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].ID != 3 || alerts[0].RiskScore != 72 {
		t.Fatalf("unexpected alert: %+v", alerts[0])
	}
}

func TestUpstreamFetchAlertsStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	upstream := NewUpstream(server.URL, "")
	_, err := upstream.FetchAlerts(context.Background(), 0)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Status != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", statusErr.Status)
	}
}

func TestUpstreamNotConfigured(t *testing.T) {
	t.Parallel()

	upstream := NewUpstream("", "")
	if _, err := upstream.FetchAlerts(context.Background(), 0); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := upstream.StartMonitor(context.Background(), MonitorConfig{Keywords: []string{"acme"}}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestUpstreamStartMonitorDefaults(t *testing.T) {
	t.Parallel()

	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/start-monitor" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"status":"monitor_started"}`))
	}))
	defer server.Close()

	upstream := NewUpstream(server.URL, "")
	err := upstream.StartMonitor(context.Background(), MonitorConfig{Keywords: []string{"acme", "recall"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"AutoMonitor"`, `"interval_seconds":300`, `"acme"`} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("expected body to contain %q, got %q", want, gotBody)
		}
	}
}

func TestUpstreamStartMonitorRequiresKeywords(t *testing.T) {
	t.Parallel()

	upstream := NewUpstream("http://127.0.0.1:1", "")
	if err := upstream.StartMonitor(context.Background(), MonitorConfig{}); err == nil {
		t.Fatalf("expected error for empty keywords")
	}
}
