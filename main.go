package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	browserCtx, stopBrowser, err := startBrowser(cfg)
	if err != nil {
		slog.Error("browser start failed", "err", err)
		os.Exit(1)
	}
	defer stopBrowser()

	var history *historyStore
	if cfg.HistoryPath != "" {
		history, err = openHistory(cfg.HistoryPath)
		if err != nil {
			slog.Error("hand history unavailable, continuing without", "path", cfg.HistoryPath, "err", err)
			history = nil
		}
	}

	client, err := NewClient(browserCtx, cfg, history)
	if err != nil {
		slog.Error("session bootstrap failed", "err", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	client.RegisterHandlers(mux)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		client.Close()
		if history != nil {
			_ = history.Close()
		}
	}()

	slog.Info("pokertab listening", "port", cfg.Port, "home", cfg.HomeURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
