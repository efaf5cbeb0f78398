package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"mav.press/pressroom/internal/cli"
	"mav.press/pressroom/internal/config"
	"mav.press/pressroom/internal/db"
	"mav.press/pressroom/internal/language"
	"mav.press/pressroom/internal/translation"
)

func runCacheClear(args []string) int {
	fs := flag.NewFlagSet("cache-clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	lang := fs.String("lang", "", "Target language whose cached translations are dropped (required)")
	timeout := fs.Duration("timeout", 15*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	targetLang := language.NormalizeCode(*lang)
	if targetLang == "" || !translation.IsSupportedLanguage(targetLang) {
		fmt.Fprintln(os.Stderr, "--lang is required and must be a supported language code")
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	if !cfg.CacheEnabled() {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is not set; there is no cache to clear")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	deleted, err := pool.DeleteTranslationsForTarget(ctx, targetLang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to clear cache: %v\n", err)
		return 1
	}

	fmt.Printf("Dropped %d cached translation(s) for %s\n", deleted, targetLang)
	return 0
}
