package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"invtrack/internal/audit"
	"invtrack/internal/auth"
	"invtrack/internal/catalog"
	"invtrack/internal/config"
	"invtrack/internal/engine"
	"invtrack/internal/httpapi"
	"invtrack/internal/report"
	"invtrack/internal/store"
	"invtrack/internal/supplier"
	"invtrack/internal/util"
)

func main() {
	cfgPath := "config/invtrack.yaml"
	if p := os.Getenv("INVTRACK_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.SQLitePath), 0o755); err != nil {
		log.Fatalf("creating data directory: %v", err)
	}

	// Transient open failures happen when another process holds the
	// database; retry briefly before giving up.
	var st *store.SQLiteStore
	err = util.Retry(context.Background(), 3, 500*time.Millisecond, func() error {
		var openErr error
		st, openErr = store.NewSQLiteStore(cfg.Storage.SQLitePath)
		return openErr
	})
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	am := auth.NewManager(st,
		time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute,
		cfg.Auth.LoginPerMinute)
	created, err := am.EnsureAdmin(context.Background())
	if err != nil {
		log.Fatalf("seeding admin account: %v", err)
	}
	if created {
		logger.Warn("seeded default admin account; change its password",
			"username", auth.DefaultAdminUsername)
	}

	rec := audit.NewRecorder(st, logger)
	srv := httpapi.NewServer(
		am,
		catalog.New(st, rec, logger, cfg.Inventory.LowStockThreshold),
		supplier.New(st, rec, logger),
		engine.New(st, logger),
		report.New(st, st),
		rec,
		logger,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("invtrack server listening", "addr", httpServer.Addr, "db", cfg.Storage.SQLitePath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down invtrack server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
