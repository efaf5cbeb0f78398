package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// NoteMarker prefixes every diagnostic note appended to returned text.
// Callers use it to recognize annotated output; the narrative controller
// additionally carries an explicit flag so the marker never has to be
// sniffed out of display state.
const NoteMarker = "[translation notice]"

// Chain runs an ordered list of backends and degrades to the original text
// when all of them are exhausted. It holds no per-request state.
type Chain struct {
	backends []Backend
	logger   zerolog.Logger
}

func NewChain(logger zerolog.Logger, backends ...Backend) *Chain {
	kept := make([]Backend, 0, len(backends))
	for _, backend := range backends {
		if backend != nil {
			kept = append(kept, backend)
		}
	}
	return &Chain{backends: kept, logger: logger}
}

// BackendNames lists configured backends in attempt order.
func (c *Chain) BackendNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.backends))
	for _, backend := range c.backends {
		names = append(names, backend.Name())
	}
	return names
}

// Translate resolves one request. It returns ErrInvalidRequest for missing
// fields and otherwise always produces a Result: a backend success, a noop
// for same-language pairs, or a degraded original-text result when every
// backend soft-failed.
func (c *Chain) Translate(ctx context.Context, req Request) (*Result, error) {
	if c == nil {
		return nil, fmt.Errorf("translation chain is nil")
	}

	text := req.Text
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	sourceLang := normalizeLangCode(req.SourceLang)
	if sourceLang == "" {
		return nil, fmt.Errorf("%w: source language is required", ErrInvalidRequest)
	}
	targetLang := normalizeLangCode(req.TargetLang)
	if targetLang == "" {
		return nil, fmt.Errorf("%w: target language is required", ErrInvalidRequest)
	}

	if sourceLang == targetLang {
		return &Result{
			Text:       text,
			SourceLang: sourceLang,
			TargetLang: targetLang,
			Provider:   ProviderNoop,
			LatencyMs:  0,
		}, nil
	}

	for _, backend := range c.backends {
		if !backend.Supports(sourceLang, targetLang) {
			c.logger.Debug().
				Str("provider", backend.Name()).
				Str("source_lang", sourceLang).
				Str("target_lang", targetLang).
				Msg("backend skipped: pair not supported")
			continue
		}

		attemptText, truncatedAt := truncateForBackend(text, backend.MaxTextLen())

		result, err := backend.Attempt(ctx, Request{
			Text:       attemptText,
			SourceLang: sourceLang,
			TargetLang: targetLang,
		})
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("provider", backend.Name()).
				Str("target_lang", targetLang).
				Msg("translation backend failed")
			continue
		}
		if result == nil || strings.TrimSpace(result.Text) == "" {
			c.logger.Warn().
				Str("provider", backend.Name()).
				Str("target_lang", targetLang).
				Msg("translation backend returned empty text")
			continue
		}

		result.SourceLang = sourceLang
		result.TargetLang = targetLang
		if strings.TrimSpace(result.Provider) == "" {
			result.Provider = backend.Name()
		}
		if truncatedAt > 0 {
			result.Truncated = true
			result.TruncatedAt = truncatedAt
			appendNote(result, truncationNote(backend.Name(), truncatedAt))
		}
		return result, nil
	}

	degraded := &Result{
		Text:       text,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Provider:   ProviderNone,
		LatencyMs:  0,
		Fallback:   true,
	}
	appendNote(degraded, degradedNote(targetLang))
	return degraded, nil
}

func truncateForBackend(text string, maxLen int) (string, int) {
	if maxLen <= 0 {
		return text, 0
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text, 0
	}
	return string(runes[:maxLen]), maxLen
}

func truncationNote(provider string, limit int) string {
	return fmt.Sprintf("%s input truncated to the first %d characters (%s provider limit)", NoteMarker, limit, provider)
}

func degradedNote(targetLang string) string {
	return fmt.Sprintf(
		"%s translation to %s is unavailable; set DEEP_TRANSLATE_API_KEY to enable machine translation",
		NoteMarker,
		LanguageLabel(targetLang),
	)
}

// appendNote records the note on the result and appends it to the text.
// Text already carrying a NoteMarker is left alone so a note is never
// stacked on top of an earlier one.
func appendNote(result *Result, note string) {
	if result == nil || strings.TrimSpace(note) == "" {
		return
	}
	if result.Note == "" {
		result.Note = note
	} else {
		result.Note = result.Note + "; " + strings.TrimPrefix(note, NoteMarker+" ")
	}
	if strings.Contains(result.Text, NoteMarker) {
		return
	}
	result.Text = result.Text + "\n\n" + note
}
