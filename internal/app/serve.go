package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mav.press/pressroom/internal/cli"
	"mav.press/pressroom/internal/config"
	"mav.press/pressroom/internal/db"
	"mav.press/pressroom/internal/httpapi"
	"mav.press/pressroom/internal/logging"
	"mav.press/pressroom/internal/translation"
	"mav.press/pressroom/internal/watch"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	host := fs.String("host", "0.0.0.0", "Host interface to bind")
	port := fs.Int("port", 8090, "HTTP port")
	readTimeout := fs.Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	writeTimeout := fs.Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	shutdownTimeout := fs.Duration("shutdown-timeout", 10*time.Second, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *port <= 0 || *port > 65535 {
		fmt.Fprintln(os.Stderr, "--port must be between 1 and 65535")
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

	var pool *db.Pool
	if cfg.CacheEnabled() {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		pool, err = db.NewPool(dbCtx, cfg)
		if err != nil {
			logger.Error().Err(err).Msg("serve failed to connect to cache database")
			fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
			return 1
		}
		defer pool.Close()
	} else {
		logger.Info().Msg("translation cache disabled, DATABASE_URL not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		cancel()
	}()

	chain := buildChain(cfg, logger)
	logger.Info().Strs("providers", chain.BackendNames()).Msg("translation chain configured")
	manager := translation.NewManager(chain, pool, logger)

	upstream := watch.NewUpstream(cfg.MonitorUpstreamURL, cfg.MonitorAPIKey)
	var poller *watch.Poller
	if upstream.Configured() {
		poller = watch.NewPoller(upstream, logger, time.Duration(cfg.AlertPollSeconds)*time.Second, cfg.AlertFetchLimit)
		go poller.Run(ctx)
	} else {
		logger.Info().Msg("alert polling disabled, MONITOR_UPSTREAM_URL not set")
	}

	srv := httpapi.NewServer(manager, poller, upstream, logger, httpapi.Options{
		Host:                  *host,
		Port:                  *port,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		ShutdownTimeout:       *shutdownTimeout,
		CORSAllowedOrigins:    cfg.CORSAllowedOriginsList(),
		HasProviderCredential: strings.TrimSpace(cfg.DeepTranslateAPIKey) != "",
		CacheEnabled:          pool != nil,
		AdminTokenHash:        cfg.AdminTokenHash,
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Str("host", *host).Int("port", *port).Msg("server failed")
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", err)
		return 1
	}

	return 0
}

func buildChain(cfg *config.Config, logger zerolog.Logger) *translation.Chain {
	primary := translation.NewDeepTranslateBackendWithEndpoint(cfg.DeepTranslateAPIKey, cfg.DeepTranslateEndpoint)
	secondary := translation.NewMyMemoryBackendWithEndpoint(cfg.MyMemoryEmail, cfg.MyMemoryEndpoint)
	return translation.NewChain(logger, primary, secondary)
}
