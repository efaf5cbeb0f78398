package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"mav.press/pressroom/internal/cli"
	"mav.press/pressroom/internal/config"
	"mav.press/pressroom/internal/watch"
)

func runAlerts(args []string) int {
	fs := flag.NewFlagSet("alerts", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	limit := fs.Int("limit", 0, "Maximum number of alerts to fetch (0 uses the upstream default)")
	timeout := fs.Duration("timeout", 15*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *limit < 0 {
		fmt.Fprintln(os.Stderr, "--limit must be >= 0")
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

	alerts, err := upstream.FetchAlerts(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch alerts: %v\n", err)
		return 1
	}

	encoded, err := json.MarshalIndent(map[string]any{"alerts": alerts}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode alerts: %v\n", err)
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}
