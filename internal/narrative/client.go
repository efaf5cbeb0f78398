package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Outcome is what a translation call resolves to. It never represents a
// hard failure: Text is always displayable.
type Outcome struct {
	Text            string
	Provider        string
	Degraded        bool
	TransportFailed bool
}

// Translator resolves display text for a language switch. Client is the
// HTTP implementation; tests substitute fakes.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) Outcome
}

// Client calls the translate endpoint and absorbs every failure mode into
// a displayable outcome. It keeps busy/error flags for the UI but no cache:
// every call goes to the network.
type Client struct {
	endpoint   string
	httpClient *http.Client

	mu      sync.Mutex
	busy    bool
	lastErr string
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Busy reports whether a call is in progress.
func (c *Client) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// LastError returns the most recent transport failure message, cleared at
// the start of each call.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Translate resolves text for the target language. Empty input short-
// circuits to an empty outcome with no network call. Transport and parse
// failures resolve to the original text with the error recorded.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) Outcome {
	if strings.TrimSpace(text) == "" {
		return Outcome{Text: ""}
	}

	c.mu.Lock()
	c.busy = true
	c.lastErr = ""
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.busy = false
		c.mu.Unlock()
	}()

	outcome, err := c.post(ctx, text, sourceLang, targetLang)
	if err != nil {
		c.mu.Lock()
		c.lastErr = err.Error()
		c.mu.Unlock()
		return Outcome{Text: text, TransportFailed: true}
	}
	return outcome
}

func (c *Client) post(ctx context.Context, text, sourceLang, targetLang string) (Outcome, error) {
	body, err := json.Marshal(translateAPIRequest{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("send translate request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("read translate response: %w", err)
	}

	var parsed translateAPIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Outcome{}, fmt.Errorf("decode translate response: %w", err)
	}

	// Degraded responses carry the original text; the caller decides how
	// to annotate.
	if parsed.IsFallback || resp.StatusCode == http.StatusServiceUnavailable {
		return Outcome{Text: text, Provider: parsed.Source, Degraded: true}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Outcome{}, fmt.Errorf("translate endpoint status %d", resp.StatusCode)
	}

	translated := strings.TrimSpace(parsed.TranslatedText)
	if translated == "" {
		return Outcome{Text: text, Provider: parsed.Source}, nil
	}
	return Outcome{Text: parsed.TranslatedText, Provider: parsed.Source}, nil
}

type translateAPIRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"sourceLang"`
	TargetLang string `json:"targetLang"`
}

type translateAPIResponse struct {
	TranslatedText string `json:"translatedText"`
	TimeMs         int64  `json:"timeMs"`
	Source         string `json:"source"`
	IsFallback     bool   `json:"isFallback"`
	Note           string `json:"note"`
	Error          string `json:"error"`
}
