package watch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured reports a missing upstream endpoint.
var ErrNotConfigured = errors.New("monitor upstream is not configured")

// AlertSource is one contributing source of an alert.
type AlertSource struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Alert is the record shape owned by the external monitoring service. The
// numeric ID is only a render key; lists are replaced wholesale on every
// successful poll.
type Alert struct {
	ID           int64         `json:"id"`
	Client       string        `json:"client"`
	RiskScore    int           `json:"riskScore"`
	Region       string        `json:"region"`
	Language     string        `json:"language"`
	Topic        string        `json:"topic"`
	TriggerEvent string        `json:"triggerEvent"`
	TimeElapsed  string        `json:"timeElapsed"`
	Sentiment    float64       `json:"sentiment"`
	Keywords     []string      `json:"keywords"`
	Sources      []AlertSource `json:"sources"`
	Link         string        `json:"link,omitempty"`
}

// MonitorConfig (re)configures the upstream monitoring session.
type MonitorConfig struct {
	Client          string   `json:"client"`
	Keywords        []string `json:"keywords"`
	IntervalSeconds int      `json:"interval_seconds"`
}

// UpstreamHealth is the monitoring service's health payload.
type UpstreamHealth struct {
	Status      string `json:"status"`
	AlertsCount int    `json:"alerts_count"`
}

// StatusError carries the upstream HTTP status for proxy mapping.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("monitor upstream status %d: %s", e.Status, e.Body)
}

// Upstream is the client for the external crisis-monitoring service. The
// API key never leaves the server process.
type Upstream struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewUpstream(baseURL, apiKey string) *Upstream {
	return &Upstream{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether an endpoint is set.
func (u *Upstream) Configured() bool {
	return u != nil && u.baseURL != ""
}

// HasCredential reports whether an API key is set.
func (u *Upstream) HasCredential() bool {
	return u != nil && u.apiKey != ""
}

// FetchAlerts returns the current alert list, newest first.
func (u *Upstream) FetchAlerts(ctx context.Context, limit int) ([]Alert, error) {
	if !u.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := u.baseURL + "/alerts"
	if limit > 0 {
		endpoint += "?limit=" + strconv.Itoa(limit)
	}

	var payload struct {
		Alerts []Alert `json:"alerts"`
	}
	if err := u.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Alerts == nil {
		payload.Alerts = []Alert{}
	}
	return payload.Alerts, nil
}

// StartMonitor posts a monitor configuration upstream, resetting the
// upstream alert session.
func (u *Upstream) StartMonitor(ctx context.Context, cfg MonitorConfig) error {
	if !u.Configured() {
		return ErrNotConfigured
	}
	if len(cfg.Keywords) == 0 {
		return fmt.Errorf("keywords are required")
	}
	if strings.TrimSpace(cfg.Client) == "" {
		cfg.Client = "AutoMonitor"
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = 300
	}

	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal monitor config: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/start-monitor", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build start-monitor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	u.setAuth(req)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("send start-monitor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return u.statusError(resp)
	}
	return nil
}

// ClearAlerts deletes the upstream alert store.
func (u *Upstream) ClearAlerts(ctx context.Context) error {
	if !u.Configured() {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u.baseURL+"/alerts", nil)
	if err != nil {
		return fmt.Errorf("build clear-alerts request: %w", err)
	}
	u.setAuth(req)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("send clear-alerts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return u.statusError(resp)
	}
	return nil
}

// Health fetches the upstream health payload.
func (u *Upstream) Health(ctx context.Context) (*UpstreamHealth, error) {
	if !u.Configured() {
		return nil, ErrNotConfigured
	}

	var payload UpstreamHealth
	if err := u.getJSON(ctx, u.baseURL+"/health", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (u *Upstream) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build upstream request: %w", err)
	}
	u.setAuth(req)

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("send upstream request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return u.statusError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read upstream response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

func (u *Upstream) setAuth(req *http.Request) {
	if u.apiKey != "" {
		req.Header.Set("x-api-key", u.apiKey)
	}
}

func (u *Upstream) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(body)),
	}
}
