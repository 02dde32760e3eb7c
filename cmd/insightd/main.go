// Insightd serves the IntelliConnect document analysis API: upload and
// extraction routes, the heuristic analyzer, the hosted-LLM bridge, the
// dashboard sample data, and the preferences store.
//
// Configuration is loaded from ~/.config/insightd/config.yaml, with
// environment variable overrides keyed section_field (SERVER_PORT,
// LLM_API_KEY, LOGGING_LEVEL, ...).
//
// Usage:
//
//	# Start with defaults
//	insightd
//
//	# Custom config file
//	insightd -config /etc/insightd/config.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/intelliconnect/insightd/internal/analysis"
	"github.com/intelliconnect/insightd/internal/api"
	"github.com/intelliconnect/insightd/internal/config"
	"github.com/intelliconnect/insightd/internal/dashboard"
	"github.com/intelliconnect/insightd/internal/llm"
	"github.com/intelliconnect/insightd/internal/logging"
	"github.com/intelliconnect/insightd/internal/prefs"
)

var (
	version   = "dev"
	gitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("insightd %s (%s)\n", version, gitCommit)
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	prefsPath, err := config.ExpandPath(cfg.Prefs.Path)
	if err != nil {
		return fmt.Errorf("resolve preferences path: %w", err)
	}
	store, err := prefs.NewSQLiteStore(prefsPath)
	if err != nil {
		return fmt.Errorf("open preferences store: %w", err)
	}
	defer func() { _ = store.Close() }()

	responder, err := llm.NewResponder(cfg.LLM, analysis.New())
	if err != nil {
		return fmt.Errorf("init llm provider: %w", err)
	}
	logger.Info(ctx, "answering provider ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("available", responder.Available()),
	)

	server, err := api.NewServer(api.Deps{
		Logger:    logger,
		Config:    cfg.Server,
		Extract:   cfg.Extract,
		Responder: responder,
		Prefs:     store,
		Dashboard: dashboard.NewStaticProvider(),
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
