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

	"spendbook/internal/api"
	"spendbook/internal/config"
	"spendbook/internal/controller"
	apphttp "spendbook/internal/http"
	applog "spendbook/internal/log"
	"spendbook/internal/session"
	"spendbook/internal/storage"
)

func main() {
	// Optional .env for local runs; the environment wins over the file.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded environment from .env")
	}

	logger := applog.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.StateDBPath)
	if err != nil {
		logger.Error("Failed to open state store", "error", err, "path", cfg.StateDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// The session manager is the client's token source, and the client's
	// auth service is the session manager's authenticator. Wire the manager
	// first, then attach the auth adapter.
	mgr := session.NewManager(store)
	client := api.NewClient(cfg.APIBaseURL, mgr, api.WithTimeout(cfg.APITimeout))
	mgr.AttachAuth(session.APIAuth{Auth: client.Auth})

	restoreCtx, restoreCancel := context.WithTimeout(context.Background(), cfg.APITimeout)
	if err := mgr.Restore(restoreCtx); err != nil {
		logger.Warn("No session restored, login required", "error", err)
	}
	restoreCancel()

	catalog := api.NewCachedCatalog(client.Categories)
	expenses := controller.NewExpensesController(client.Expenses)
	analytics := controller.NewAnalyticsController(catalog, client.Analytics)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Session:    mgr,
		Expenses:   expenses,
		Analytics:  analytics,
		ExpenseSvc: client.Expenses,
		CatalogSvc: catalog,
		Registrar:  client.Auth,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendbook", "port", cfg.Port, "api", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
