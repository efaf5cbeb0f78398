package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"mav.press/pressroom/internal/db"
	"mav.press/pressroom/internal/globaltime"
)

// Manager wraps a Chain with the persistent translation cache. A nil pool
// disables caching and the manager becomes a pass-through.
type Manager struct {
	chain  *Chain
	pool   *db.Pool
	logger zerolog.Logger
}

func NewManager(chain *Chain, pool *db.Pool, logger zerolog.Logger) *Manager {
	return &Manager{chain: chain, pool: pool, logger: logger}
}

// CacheEnabled reports whether a cache pool is attached.
func (m *Manager) CacheEnabled() bool {
	return m != nil && m.pool != nil
}

// Translate resolves a request through the cache, then the chain. Only
// genuine provider successes are persisted; noop and degraded results are
// cheap to recompute and must never mask a later recovery.
func (m *Manager) Translate(ctx context.Context, req Request) (*Result, error) {
	if m == nil || m.chain == nil {
		return nil, fmt.Errorf("translation manager is not initialized")
	}

	sourceLang := normalizeLangCode(req.SourceLang)
	targetLang := normalizeLangCode(req.TargetLang)

	if m.pool != nil && sourceLang != "" && targetLang != "" && sourceLang != targetLang {
		digest := textDigest(req.Text)
		cached, err := m.pool.LookupTranslation(ctx, digest, sourceLang, targetLang)
		if err != nil {
			m.logger.Warn().Err(err).Msg("translation cache lookup failed")
		} else if cached != nil {
			return &Result{
				Text:       cached.TranslatedText,
				SourceLang: cached.SourceLang,
				TargetLang: cached.TargetLang,
				Provider:   cached.ProviderName,
				LatencyMs:  0,
				Cached:     true,
			}, nil
		}
	}

	result, err := m.chain.Translate(ctx, req)
	if err != nil {
		return nil, err
	}

	if m.pool != nil && !result.Fallback && result.Provider != ProviderNoop && result.Provider != ProviderNone {
		latency := int(result.LatencyMs)
		row := &db.Translation{
			TextDigest:     textDigest(req.Text),
			SourceLang:     result.SourceLang,
			TargetLang:     result.TargetLang,
			OriginalText:   req.Text,
			TranslatedText: result.Text,
			ProviderName:   result.Provider,
			LatencyMS:      &latency,
			CreatedAt:      globaltime.UTC(),
		}
		if err := m.pool.UpsertTranslation(ctx, row); err != nil {
			m.logger.Warn().Err(err).Str("provider", result.Provider).Msg("translation cache write failed")
		}
	}

	return result, nil
}

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
