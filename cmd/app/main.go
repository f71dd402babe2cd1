package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"intillasense/internal/application"
	"intillasense/internal/config"
	"intillasense/internal/domain/ports/adapter"
	advisorAdapters "intillasense/internal/infra/adapters/advisor"
	"intillasense/internal/infra/capture"
	"intillasense/internal/infra/logging"
	"intillasense/internal/infra/security"
	"intillasense/internal/infra/state"
	"intillasense/internal/usecase"
)

func main() {
	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "developer mode (canned recommendations, no endpoint calls)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	ctx := logging.WithTraceID(context.Background(), uuid.NewString())
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Durable local state ----
	var cipher *security.Cipher
	if cfg.Storage.EncryptionKey != "" {
		cipher, err = security.NewCipher(cfg.Storage.EncryptionKey)
		if err != nil {
			log.Fatalf("state encryption: %v", err)
		}
	}
	store, err := state.NewSQLite(cfg.Storage.Path, cipher)
	if err != nil {
		log.Fatalf("state store: %v", err)
	}
	defer store.Close()

	// ---- Advisory endpoint ----
	var advisor adapter.AdvisorAdapter
	if cfg.Runtime.Dev {
		advisor = advisorAdapters.NewNoopAdapter()
	} else {
		advisor = advisorAdapters.NewHTTPAdapter(cfg.Advisor.BaseURL, cfg.Advisor.APIKey, cfg.Advisor.Timeout)
	}

	// ---- Use cases ----
	sessionUC := usecase.NewSessionUseCase(store, advisor, logger)
	sessionUC.Restore(ctx)
	prefsUC := usecase.NewPrefsUseCase(store, logger)
	prefsUC.Restore(ctx)

	// ---- Input capture + console ----
	composer := capture.NewComposer(capture.NewUnavailableRecognizer())
	console := application.NewConsole(sessionUC, prefsUC, composer, os.Stdin, os.Stdout, logger)

	if err := console.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("console exited")
		os.Exit(1)
	}
}
