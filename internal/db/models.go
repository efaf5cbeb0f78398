package db

import "time"

// Translation maps pressroom.translations, the provider-result cache keyed
// by source-text digest and language pair.
type Translation struct {
	TranslationID  int64     `gorm:"column:translation_id;primaryKey;autoIncrement"`
	TextDigest     string    `gorm:"column:text_digest;type:text;not null;uniqueIndex:ux_translations_key,priority:1"`
	SourceLang     string    `gorm:"column:source_lang;type:text;not null;uniqueIndex:ux_translations_key,priority:2"`
	TargetLang     string    `gorm:"column:target_lang;type:text;not null;uniqueIndex:ux_translations_key,priority:3"`
	OriginalText   string    `gorm:"column:original_text;type:text;not null"`
	TranslatedText string    `gorm:"column:translated_text;type:text;not null"`
	ProviderName   string    `gorm:"column:provider_name;type:text;not null"`
	LatencyMS      *int      `gorm:"column:latency_ms;type:integer"`
	CreatedAt      time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (Translation) TableName() string { return "pressroom.translations" }

func autoMigrateModels() []any {
	return []any{
		&Translation{},
	}
}
