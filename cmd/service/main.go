package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/dropDatabas3/waggle/internal/app"
	"github.com/dropDatabas3/waggle/internal/config"
	httpserver "github.com/dropDatabas3/waggle/internal/http"
	"github.com/dropDatabas3/waggle/internal/observability/logger"
)

func main() {
	// .env es opcional (dev); en prod las variables vienen del entorno
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warn: .env: %v", err)
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	})
	defer logger.Sync()
	lg := logger.L()

	if err := run(cfg); err != nil {
		lg.Error("exit", logger.Err(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	lg.Info("bye")
}

func run(cfg *config.Config) error {
	lg := logger.L()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := app.Build(ctx, cfg, app.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			lg.Warn("close", logger.Err(err))
		}
	}()

	lg.Info("starting",
		zap.String("profile", cfg.App.Profile),
		zap.Strings("providers", providerNames(cfg)),
	)

	srv := httpserver.NewServer(httpserver.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, c.Handler())

	return httpserver.Run(ctx, srv, cfg.Server.ShutdownTimeout)
}

func providerNames(cfg *config.Config) []string {
	var out []string
	for name := range cfg.EnabledProviders() {
		out = append(out, name)
	}
	return out
}
