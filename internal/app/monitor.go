package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"mav.press/pressroom/internal/cli"
	"mav.press/pressroom/internal/config"
	"mav.press/pressroom/internal/watch"
)

func runMonitor(args []string) int {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	client := fs.String("client", "", "Client name reported to the monitoring service")
	keywords := fs.String("keywords", "", "Comma-separated keywords to monitor (required)")
	interval := fs.Int("interval", 0, "Poll interval in seconds (0 uses the upstream default)")
	timeout := fs.Duration("timeout", 15*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	keywordList := splitKeywords(*keywords)
	if len(keywordList) == 0 {
		fmt.Fprintln(os.Stderr, "--keywords is required (comma-separated, at least one)")
		return 2
	}
	if *interval < 0 {
		fmt.Fprintln(os.Stderr, "--interval must be >= 0")
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

	upstream := watch.NewUpstream(cfg.MonitorUpstreamURL, cfg.MonitorAPIKey)
	if !upstream.Configured() {
		fmt.Fprintln(os.Stderr, "MONITOR_UPSTREAM_URL is not set")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	err = upstream.StartMonitor(ctx, watch.MonitorConfig{
		Client:          strings.TrimSpace(*client),
		Keywords:        keywordList,
		IntervalSeconds: *interval,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start monitor: %v\n", err)
		return 1
	}

	fmt.Printf("Monitor started for %d keyword(s)\n", len(keywordList))
	return 0
}

func splitKeywords(raw string) []string {
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		keyword := strings.TrimSpace(part)
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
	}
	return keywords
}
