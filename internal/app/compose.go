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
	"mav.press/pressroom/internal/narrative"
	"mav.press/pressroom/internal/translation"
)

func runCompose(args []string) int {
	fs := flag.NewFlagSet("compose", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	company := fs.String("company", "", "Company name")
	headline := fs.String("headline", "", "Release headline (required)")
	announcement := fs.String("announcement", "", "Announcement body (required)")
	spokesperson := fs.String("spokesperson", "", "Spokesperson name for the quote attribution")
	quote := fs.String("quote", "", "Spokesperson quote")
	tone := fs.String("tone", "neutral", "Narrative tone (neutral, celebratory, reassuring, authoritative)")
	lang := fs.String("lang", "", "Language to render the narrative in (defaults to English)")
	server := fs.String("server", "http://127.0.0.1:8090", "Pressroom API base URL used for translation")
	timeout := fs.Duration("timeout", 45*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if strings.TrimSpace(*headline) == "" || strings.TrimSpace(*announcement) == "" {
		fmt.Fprintln(os.Stderr, "--headline and --announcement are required")
		return 2
	}

	targetLang := language.NormalizeCode(*lang)
	if targetLang != "" && targetLang != translation.PivotLang && !translation.IsSupportedLanguage(targetLang) {
		fmt.Fprintf(os.Stderr, "unsupported language: %s\n", *lang)
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

	generated := narrative.Generate(narrative.GeneratorInput{
		Company:      strings.TrimSpace(*company),
		Headline:     strings.TrimSpace(*headline),
		Announcement: strings.TrimSpace(*announcement),
		Spokesperson: strings.TrimSpace(*spokesperson),
		Quote:        strings.TrimSpace(*quote),
		Tone:         strings.TrimSpace(*tone),
	})
	if generated == "" {
		fmt.Fprintln(os.Stderr, "narrative generation produced no text")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := narrative.NewClient(strings.TrimRight(strings.TrimSpace(*server), "/") + "/api/v1/translate")
	session := narrative.NewSession(client, logger)

	if targetLang != "" {
		session.SetLanguage(ctx, targetLang)
	}
	session.Regenerate(ctx, generated)

	display := session.Display()
	out := map[string]any{
		"text":       display.Text,
		"lang":       display.Lang,
		"diagnostic": display.Diagnostic,
		"state":      string(session.State()),
	}
	if lastErr := client.LastError(); lastErr != "" {
		out["lastError"] = lastErr
	}

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}
