package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mav.press/pressroom/internal/cli"
	"mav.press/pressroom/internal/config"
	"mav.press/pressroom/internal/language"
	"mav.press/pressroom/internal/logging"
	"mav.press/pressroom/internal/translation"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	lang := fs.String("lang", "", "Target language (ISO 639-1, for example: hi, ta)")
	source := fs.String("source", "en", "Source language (ISO 639-1)")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "translate requires the text to translate as an argument")
		return 2
	}

	targetLang := language.NormalizeCode(*lang)
	if targetLang == "" {
		fmt.Fprintln(os.Stderr, "--lang is required and must be a valid language code")
		return 2
	}
	if targetLang != translation.PivotLang && !translation.IsSupportedLanguage(targetLang) {
		fmt.Fprintf(os.Stderr, "unsupported target language: %s\n", *lang)
		return 2
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "translate argument must not be empty")
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

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := buildChain(cfg, logger).Translate(ctx, translation.Request{
		Text:       text,
		SourceLang: language.NormalizeCode(*source),
		TargetLang: targetLang,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Translation failed: %v\n", err)
		return 1
	}

	out := map[string]any{
		"translatedText": result.Text,
		"source":         result.Provider,
		"timeMs":         result.LatencyMs,
	}
	if result.Fallback {
		out["isFallback"] = true
	}
	if result.Note != "" {
		out["note"] = result.Note
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode result: %v\n", err)
		return 1
	}
	fmt.Println(string(encoded))

	if result.Fallback {
		return 1
	}
	return 0
}
