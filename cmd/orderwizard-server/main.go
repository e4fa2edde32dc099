package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-orderwizard/internal/config"
	"github.com/goliatone/go-orderwizard/internal/server"
	"github.com/goliatone/go-orderwizard/pkg/handoff"
)

func main() {
	configPath := flag.String("config", "", "server config file (defaults if empty)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := buildLogger(cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	options := []server.Option{server.WithLogger(log)}
	if cfg.Handoff.Dir != "" {
		store, err := handoff.NewFileStore(cfg.Handoff.Dir)
		if err != nil {
			log.Fatal("handoff store", zap.Error(err))
		}
		options = append(options, server.WithHandoffStore(store))
	}

	srv, err := server.New(cfg, options...)
	if err != nil {
		log.Fatal("server setup", zap.Error(err))
	}

	httpServer := srv.HTTPServer()
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Std())
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}

func buildLogger(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsed)
	return cfg.Build()
}
