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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arul-selvam/steel-quotes/internal/common"
	"github.com/arul-selvam/steel-quotes/internal/conversation"
	"github.com/arul-selvam/steel-quotes/internal/export"
	"github.com/arul-selvam/steel-quotes/internal/extract"
	"github.com/arul-selvam/steel-quotes/internal/extract/openai"
	"github.com/arul-selvam/steel-quotes/internal/repository"
	"github.com/arul-selvam/steel-quotes/internal/server"
	"github.com/arul-selvam/steel-quotes/internal/session"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB
	db, err := repository.Open(cfg.Database, slogger)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer repository.Close(db, slogger)
	if err := repository.HealthCheck(ctx, db, 3*time.Second, slogger); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK", "driver", cfg.Database.Driver)

	// Sessions, swept in the background
	sessions := session.NewManager(slogger)
	go func() {
		ticker := time.NewTicker(cfg.Session.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sessions.Sweep(cfg.Session.MaxIdle)
			}
		}
	}()

	// Extraction: OpenAI when a key is configured, rule-based otherwise
	var extractor extract.QuoteExtractor
	if cfg.LLM.APIKey != "" {
		extractor = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
			Lenient:     true,
		}, slogger)
		log.Infow("extraction via OpenAI", "model", cfg.LLM.Model)
	} else {
		log.Infow("no OPENAI_API_KEY set, extraction is rule-based only")
	}

	driver := conversation.NewDriver(extractor, slogger)
	quotations := repository.NewQuotationRepository(db, slogger)
	exporter := export.NewService(quotations, slogger)
	handlers := server.NewHandlers(sessions, driver, quotations, exporter, slogger)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: server.NewRouter(handlers),
	}
	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	log.Info("stopped.")
}
