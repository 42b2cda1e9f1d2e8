package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"bitjournal/internal/analytics"
	"bitjournal/internal/config"
	"bitjournal/internal/logger"
	"bitjournal/internal/store/tradelog"
	reporthttp "bitjournal/internal/transport/http/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("BITJOURNAL_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("initializing log output failed: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s db=%s)", cfg.App.Env, cfg.Database.Path)

	store, err := tradelog.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening trade log store failed: %v", err)
	}
	defer store.Close()

	if legacy := strings.TrimSpace(cfg.Migration.LegacyLog); legacy != "" {
		if err := store.ImportLegacyLog(ctx, legacy); err != nil {
			log.Fatalf("legacy log import failed: %v", err)
		}
	}

	if !cfg.Report.Enabled {
		logger.Infof("report server disabled, exiting")
		return
	}

	analyzer := analytics.New(store, cfg.Analytics.SimCapital)
	srv, err := reporthttp.NewServer(reporthttp.ServerConfig{
		Addr:     cfg.Report.Addr,
		Store:    store,
		Analyzer: analyzer,
	})
	if err != nil {
		log.Fatalf("initializing report server failed: %v", err)
	}
	logger.Infof("report server listening on %s", srv.Addr())
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("report server failed: %v", err)
	}
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}
