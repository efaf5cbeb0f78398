package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LookupTranslation returns the cached row for a digest and language pair,
// or (nil, nil) when no row exists.
func (p *Pool) LookupTranslation(ctx context.Context, textDigest, sourceLang, targetLang string) (*Translation, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	var row Translation
	err := p.db(ctx).
		Where("text_digest = ? AND source_lang = ? AND target_lang = ?", textDigest, sourceLang, targetLang).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query translation cache: %w", err)
	}
	return &row, nil
}

// UpsertTranslation inserts or refreshes one cache row.
func (p *Pool) UpsertTranslation(ctx context.Context, row *Translation) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if row == nil {
		return fmt.Errorf("translation row is nil")
	}

	err := p.db(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "text_digest"},
				{Name: "source_lang"},
				{Name: "target_lang"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"original_text",
				"translated_text",
				"provider_name",
				"latency_ms",
				"created_at",
			}),
		}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert translation cache: %w", err)
	}
	return nil
}

// DeleteTranslationsForTarget clears cached rows for one target language.
func (p *Pool) DeleteTranslationsForTarget(ctx context.Context, targetLang string) (int64, error) {
	if p == nil || p.gdb == nil {
		return 0, fmt.Errorf("database pool is not initialized")
	}

	res := p.db(ctx).
		Where("target_lang = ?", targetLang).
		Delete(&Translation{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete translation cache rows: %w", res.Error)
	}
	return res.RowsAffected, nil
}
