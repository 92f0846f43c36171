// Command updatepanel serves the statistics server administration API and GUI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for HTTPS probes from a scratch container

	"github.com/ericfisherdev/updatepanel/internal/adapter/driven/flatfile"
	"github.com/ericfisherdev/updatepanel/internal/adapter/driven/probe"
	sqliteadapter "github.com/ericfisherdev/updatepanel/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/updatepanel/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/updatepanel/internal/adapter/driving/web"
	"github.com/ericfisherdev/updatepanel/internal/application"
	"github.com/ericfisherdev/updatepanel/internal/config"
	"github.com/ericfisherdev/updatepanel/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"store", cfg.Store,
		"servers_path", cfg.ServersPath,
		"db_path", cfg.DBPath,
		"probe_timeout", cfg.ProbeTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Flat-file store. It is the primary store, or the seed for SQLite.
	fileStore := flatfile.NewStore(cfg.ServersPath, slog.Default())
	if cfg.CreateServersFile {
		if err := fileStore.EnsureFile(); err != nil {
			return err
		}
	}
	slog.Info("statistics server file", "path", fileStore.Path())

	var store driven.ServerStore = fileStore

	// 4. Optional SQLite store (dual reader/writer with WAL mode).
	if cfg.UsesSQLite() {
		db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		slog.Info("database opened", "path", db.Path())

		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}
		slog.Info("migrations complete")

		repo := sqliteadapter.NewServerRepo(db)
		imported, err := repo.ImportFrom(ctx, fileStore)
		if err != nil {
			// A missing or broken seed file does not prevent serving the database.
			slog.Warn("statistics server import skipped", "path", fileStore.Path(), "error", err)
		} else if imported > 0 {
			slog.Info("statistics servers imported", "path", fileStore.Path(), "count", imported)
		}
		store = repo
	}

	// 5. Wire services.
	prober := probe.NewProber(cfg.ProbeTimeout, slog.Default())
	probeSvc := application.NewProbeService(store, prober)

	// 6. Register API and GUI routes.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(store, probeSvc, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(store, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("updatepanel started", "listen_addr", cfg.ListenAddr, "store", cfg.Store)

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
