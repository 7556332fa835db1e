package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/clinscribe-ai/platform/pkg/api"
	"github.com/clinscribe-ai/platform/pkg/audiostore"
	"github.com/clinscribe-ai/platform/pkg/audit"
	"github.com/clinscribe-ai/platform/pkg/cds"
	"github.com/clinscribe-ai/platform/pkg/coding"
	"github.com/clinscribe-ai/platform/pkg/common/config"
	"github.com/clinscribe-ai/platform/pkg/common/database"
	"github.com/clinscribe-ai/platform/pkg/common/kafka"
	"github.com/clinscribe-ai/platform/pkg/common/logger"
	"github.com/clinscribe-ai/platform/pkg/culture"
	"github.com/clinscribe-ai/platform/pkg/encounters"
	"github.com/clinscribe-ai/platform/pkg/nlp"
	"github.com/clinscribe-ai/platform/pkg/redaction"
	"github.com/clinscribe-ai/platform/pkg/segments"
	"github.com/clinscribe-ai/platform/pkg/session"
	"github.com/clinscribe-ai/platform/pkg/store"
	"github.com/clinscribe-ai/platform/pkg/tenancy"
	"github.com/clinscribe-ai/platform/pkg/terminology"
	"github.com/clinscribe-ai/platform/pkg/transcription"
)

func main() {
	logger.Init()
	cfg := config.Load()

	stores := buildStores(cfg)

	audioStore, err := audiostore.NewLocalStore(cfg.AudioUploadDir)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to prepare audio storage")
	}

	redactionRules, err := redaction.LoadRules(cfg.RedactionRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load redaction rules")
	}
	redactor, err := redaction.NewRedactor(redactionRules)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to compile redaction rules")
	}

	var producer *kafka.Producer
	if cfg.AuditTopic != "" {
		producer = kafka.NewProducer(cfg.AuditTopic)
		defer producer.Close()
	}
	recorder := audit.NewRecorder(producer, redactor)

	rules, err := culture.LoadRules(cfg.CultureRulesPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load cultural phrase rules")
	}
	catalog, err := terminology.Load(cfg.TerminologyPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load terminology catalog")
	}

	registry := nlp.NewRegistry(cfg, catalog)
	pipeline := nlp.NewPipeline(registry, culture.NewChain(rules), cfg.BackendCallTimeout)

	asr := buildASR(cfg, audioStore)
	translator := buildTranslator(cfg)

	transcriptionSvc := transcription.NewService(stores.Jobs, asr, translator, recorder, cfg.BackendCallTimeout)
	encounterSvc := encounters.NewService(stores.Encounters, stores.Notes, recorder)
	sessionSvc := session.NewService(stores.Sessions, database.GetRedis(), cfg.SessionCacheTTL, recorder)

	handler := api.NewHandler(
		transcriptionSvc,
		encounterSvc,
		sessionSvc,
		pipeline,
		coding.NewOrchestrator(),
		cds.NewEngine(),
		segments.NewClassifier(),
		audioStore,
		redactor,
	)

	router := mux.NewRouter()
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(tenancy.Middleware)
	handler.Register(apiRouter)

	address := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", address).Info("scribe server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start scribe server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down scribe server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("scribe server forced to shutdown")
	}
	database.ClosePostgres()
	database.CloseRedis()
	logger.Log.Info("scribe server stopped")
}

func buildStores(cfg *config.Config) store.Stores {
	if strings.EqualFold(cfg.StoreBackend, "postgres") {
		db, err := database.GetPostgres()
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to connect to postgres")
		}
		stores, err := store.NewPostgresStores(db)
		if err != nil {
			logger.Log.WithError(err).Fatal("failed to migrate store tables")
		}
		return stores
	}
	if !strings.EqualFold(cfg.StoreBackend, "memory") {
		logger.Log.WithField("backend", cfg.StoreBackend).Warn("Unknown store backend, using memory")
	}
	return store.NewMemoryStores()
}

func buildASR(cfg *config.Config, audioStore *audiostore.LocalStore) transcription.ASRBackend {
	if strings.EqualFold(cfg.ASRBackend, "whisper") {
		return transcription.NewWhisperASRBackend(cfg.WhisperBaseURL, audioStore)
	}
	if !strings.EqualFold(cfg.ASRBackend, "demo") {
		logger.Log.WithField("backend", cfg.ASRBackend).Warn("Unknown ASR backend, using demo")
	}
	return transcription.DemoASRBackend{}
}

func buildTranslator(cfg *config.Config) transcription.TranslationBackend {
	if strings.EqualFold(cfg.TranslationBackend, "llm") {
		return transcription.NewLLMTranslationBackend(nlp.NewLLMClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModelName))
	}
	if !strings.EqualFold(cfg.TranslationBackend, "demo") {
		logger.Log.WithField("backend", cfg.TranslationBackend).Warn("Unknown translation backend, using demo")
	}
	return transcription.DemoTranslationBackend{}
}
