package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/categorize"
	"github.com/MrJamesThe3rd/spendwise/internal/category"
	categoryStore "github.com/MrJamesThe3rd/spendwise/internal/category/store"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/config"
	"github.com/MrJamesThe3rd/spendwise/internal/database"
	spendwiseHttp "github.com/MrJamesThe3rd/spendwise/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/spendwise/internal/http/category"
	insightsHandler "github.com/MrJamesThe3rd/spendwise/internal/http/insights"
	statementHandler "github.com/MrJamesThe3rd/spendwise/internal/http/statement"
	txHandler "github.com/MrJamesThe3rd/spendwise/internal/http/transaction"
	"github.com/MrJamesThe3rd/spendwise/internal/ingest"
	"github.com/MrJamesThe3rd/spendwise/internal/insights"
	"github.com/MrJamesThe3rd/spendwise/internal/logger"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
	txStore "github.com/MrJamesThe3rd/spendwise/internal/transaction/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	model, err := classifier.Load(cfg.Classifier.ModelPath)
	if err != nil {
		return fmt.Errorf("loading classifier: %w", err)
	}

	log.Info().
		Str("model", cfg.Classifier.ModelPath).
		Strs("labels", model.Labels()).
		Msg("classifier loaded")

	var (
		transactionService = transaction.NewService(txStore.New(db))
		categoryService    = category.NewService(categoryStore.New(db))
		categorizer        = categorize.New(model, cfg.Classifier.Threshold)
		ingestService      = ingest.NewService(transactionService, categoryService, categorizer, ingest.Options{
			MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
			Workers:        cfg.Ingest.NormalizeWorkers,
		})
		insightsService = insights.NewService(transactionService, categoryService)
	)

	var (
		statementH   = statementHandler.NewHandler(ingestService, cfg.Ingest.MaxUploadBytes)
		transactionH = txHandler.NewHandler(transactionService, ingestService)
		insightsH    = insightsHandler.NewHandler(insightsService)
		categoryH    = categoryHandler.NewHandler(categoryService)
	)

	router := spendwiseHttp.New(spendwiseHttp.Options{
		Log:            log,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.Auth.AllowedOrigins,
	}, statementH, transactionH, insightsH, categoryH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Msg("starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	return nil
}
