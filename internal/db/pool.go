package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mav.press/pressroom/internal/config"
)

// Pool wraps the gorm handle used for the translation cache.
type Pool struct {
	gdb   *gorm.DB
	sqlDB *sql.DB
}

func NewPool(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	dsn := strings.TrimSpace(cfg.DatabaseURL)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve sql database handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(int(cfg.DBMinConns))
	sqlDB.SetMaxOpenConns(int(cfg.DBMaxConns))
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	pool := &Pool{gdb: gdb, sqlDB: sqlDB}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := pool.autoMigrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.sqlDB == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if err := p.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (p *Pool) Close() {
	if p == nil || p.sqlDB == nil {
		return
	}
	_ = p.sqlDB.Close()
}

func (p *Pool) db(ctx context.Context) *gorm.DB {
	return p.gdb.WithContext(ctx)
}
