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
	"mav.press/pressroom/internal/db"
	"mav.press/pressroom/internal/watch"
)

func runHealth(args []string) int {
	fs := flag.NewFlagSet("health", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 10*time.Second, "Command timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration: FAILED (%v)\n", err)
		return 1
	}
	fmt.Println("Configuration: OK")

	if strings.TrimSpace(cfg.DeepTranslateAPIKey) != "" {
		fmt.Println("Translation provider credential: present")
	} else {
		fmt.Println("Translation provider credential: missing (requests will degrade)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	exitCode := 0

	if cfg.CacheEnabled() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cache database: FAILED (%v)\n", err)
			exitCode = 1
		} else {
			defer pool.Close()
			if err := pool.Ping(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Cache database: FAILED (%v)\n", err)
				exitCode = 1
			} else {
				fmt.Println("Cache database: OK")
			}
		}
	} else {
		fmt.Println("Cache database: disabled")
	}

	upstream := watch.NewUpstream(cfg.MonitorUpstreamURL, cfg.MonitorAPIKey)
	if upstream.Configured() {
		health, err := upstream.Health(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Monitor upstream: FAILED (%v)\n", err)
			exitCode = 1
		} else {
			fmt.Printf("Monitor upstream: %s (%d alerts)\n", health.Status, health.AlertsCount)
		}
	} else {
		fmt.Println("Monitor upstream: disabled")
	}

	return exitCode
}
