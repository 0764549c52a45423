package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/windowscene/internal/infrastructure/config"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/logging"
	"github.com/GriffinCanCode/windowscene/internal/infrastructure/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override environment variables
	flag.StringVar(&cfg.Host.Address, "addr", cfg.Host.Address, "Session host gRPC address")
	flag.StringVar(&cfg.Debug.Address, "debug-addr", cfg.Debug.Address, "Debug HTTP address")
	flag.StringVar(&cfg.LayoutFile, "layout", cfg.LayoutFile, "Display layout file (.toml or .yaml)")
	flag.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" && !cfg.Logging.Development {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Supervisor().Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Supervisor stopped", zap.Error(err))
	}
	logger.Info("Shutting down gracefully")
}
