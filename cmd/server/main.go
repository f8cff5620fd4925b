package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RuhiModi/exotel-voice-agent/internal/api"
	"github.com/RuhiModi/exotel-voice-agent/internal/calllog"
	"github.com/RuhiModi/exotel-voice-agent/internal/config"
	"github.com/RuhiModi/exotel-voice-agent/internal/dialog"
	"github.com/RuhiModi/exotel-voice-agent/internal/dispatch"
	"github.com/RuhiModi/exotel-voice-agent/internal/llm"
	"github.com/RuhiModi/exotel-voice-agent/internal/metrics"
	"github.com/RuhiModi/exotel-voice-agent/internal/session"
	"github.com/RuhiModi/exotel-voice-agent/internal/storage"
	"github.com/RuhiModi/exotel-voice-agent/internal/stream"
	"github.com/RuhiModi/exotel-voice-agent/internal/telephony"
	"github.com/RuhiModi/exotel-voice-agent/internal/tts"
	"github.com/RuhiModi/exotel-voice-agent/pkg/middleware"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Str("provider", cfg.TelephonyProvider).
		Str("log_level", cfg.LogLevel).
		Msg("starting voice agent server")

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create persistence store
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}

	// Create session store and wire the live gauge
	sessions := session.NewStore()
	metrics.Get().SetSessionGauge(sessions.Len)

	// Optional advisory classifier
	var advisor dialog.Advisor
	if classifier := llm.NewClassifier(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout, log.Logger); classifier != nil {
		advisor = classifier
		log.Info().Str("model", cfg.LLMModel).Msg("advisory classifier enabled")
	}

	// Dialogue state machine
	machine := dialog.NewMachine(dialog.Config{
		MinConfidence:           cfg.MinConfidence,
		MinWords:                cfg.MinWords,
		CallbackConfirmTerminal: cfg.CallbackConfirmTerminal,
	}, advisor, log.Logger)

	// Prompt audio cache, pre-warmed with every fixed prompt
	var synth tts.Synthesizer
	if cfg.TTSEndpoint != "" {
		synth = tts.NewHTTPSynthesizer(cfg.TTSEndpoint)
	}
	audio := tts.NewCache(synth, cfg.TTSTimeout, log.Logger)
	warm := make(map[string]string)
	for _, state := range dialog.PromptStates() {
		warm[string(state)] = dialog.Prompt(state)
	}
	audio.Warm(warm)

	// Completion logger
	closer := calllog.New(store, sessions, store, log.Logger)

	// Telephony provider and dispatcher
	provider, err := telephony.New(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telephony provider")
	}
	dispatcher := dispatch.New(ctx, provider, sessions, store, cfg.BulkCallDelay, cfg.CountryCode, log.Logger)

	// HTTP handlers
	webhooks := api.NewWebhookHandler(sessions, machine, closer, audio, cfg.CountryCode, log.Logger)
	dispatchAPI := api.NewDispatchHandler(dispatcher, store, log.Logger)
	interim := stream.NewHandler(sessions, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Provider webhooks
	r.Route("/webhook", func(r chi.Router) {
		r.Post("/voice", webhooks.HandleVoice)
		r.Post("/gather", webhooks.HandleGather)
		r.Post("/status", webhooks.HandleStatus)
	})

	// Dispatch API
	r.Route("/api", func(r chi.Router) {
		r.Post("/call", dispatchAPI.HandleCall)
		r.Post("/call/bulk", dispatchAPI.HandleBulk)
		r.Get("/batch/{batchID}", dispatchAPI.HandleBatchReport)
	})

	// Interim transcript stream
	r.Get("/ws/interim", interim.ServeHTTP)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop background dispatch runs
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"voice-agent"}`)
}
