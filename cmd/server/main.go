package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"emotioncare/internal/app"
	"emotioncare/internal/config"
	"emotioncare/internal/server"
	"emotioncare/internal/util"
	"emotioncare/pkg/ai"
	"emotioncare/pkg/sentiment"
	"emotioncare/pkg/storage"
	"emotioncare/pkg/store"
	"emotioncare/pkg/vision"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}
	rateWindow, err := config.ParseRateLimitWindow(cfg.RateLimitWindow)
	if err != nil {
		log.Fatalf("failed to parse rate limit window: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	db, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to init database: %v", err)
	}

	sessions, err := newSessionStore(cfg, sessionTTL)
	if err != nil {
		log.Fatalf("failed to init session store: %v", err)
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to init text generator: %v", err)
	}

	classifier, err := vision.NewRekognitionClassifier(context.Background(), cfg.AWSRegion)
	if err != nil {
		log.Fatalf("failed to init emotion classifier: %v", err)
	}

	uploads, err := newUploadStore(cfg)
	if err != nil {
		log.Fatalf("failed to init upload storage: %v", err)
	}

	appCore, err := app.New(app.Config{
		Store:      db,
		Sessions:   sessions,
		Estimator:  sentiment.NewLexiconEstimator(),
		Generator:  generator,
		Classifier: classifier,
		Uploads:    uploads,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:             appCore,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: rateWindow,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newSessionStore(cfg config.FileConfig, ttl time.Duration) (store.SessionStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.SessionStrategy)) {
	case "jwt":
		return store.NewJWTSessionStore(cfg.JWTSecret, ttl)
	default:
		return store.NewRedisSessionStore(cfg.RedisAddr, cfg.RedisPassword, ttl), nil
	}
}

func newGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.GeneratorProvider)) {
	case "ollama":
		return ai.NewOllamaGenerator(ai.NewOllamaClient(cfg.OllamaBaseURL), cfg.GenerationModel), nil
	case "openai-compat":
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.GenerationModel), nil
	default:
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		return ai.NewGeminiGenerator(client, cfg.GenerationModel), nil
	}
}

func newUploadStore(cfg config.FileConfig) (storage.BlobStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StorageBackend)) {
	case "minio":
		return storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
	default:
		dir := cfg.UploadDir
		if dir == "" {
			dir = "data/uploads"
		}
		return storage.NewFileStore(dir)
	}
}
