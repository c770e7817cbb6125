package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fashionsearch/internal/config"
	"github.com/kailas-cloud/fashionsearch/internal/db"
	dbRedis "github.com/kailas-cloud/fashionsearch/internal/db/redis"
	"github.com/kailas-cloud/fashionsearch/internal/domain"
	"github.com/kailas-cloud/fashionsearch/internal/domain/palette"
	"github.com/kailas-cloud/fashionsearch/internal/domain/search/intent"
	logpkg "github.com/kailas-cloud/fashionsearch/internal/logger"
	"github.com/kailas-cloud/fashionsearch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/fashionsearch/internal/repository/catalog"
	"github.com/kailas-cloud/fashionsearch/internal/repository/embcache"
	"github.com/kailas-cloud/fashionsearch/internal/repository/filtercache"
	chiTransport "github.com/kailas-cloud/fashionsearch/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/fashionsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/fashionsearch/internal/usecase/embedding"
	extractionuc "github.com/kailas-cloud/fashionsearch/internal/usecase/extraction"
	healthuc "github.com/kailas-cloud/fashionsearch/internal/usecase/health"
	planneruc "github.com/kailas-cloud/fashionsearch/internal/usecase/planner"
	rankinguc "github.com/kailas-cloud/fashionsearch/internal/usecase/ranking"
	searchuc "github.com/kailas-cloud/fashionsearch/internal/usecase/search"
	"github.com/kailas-cloud/fashionsearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fashionsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	// Embedding chains, one per space.
	var cacheStore db.Store
	if *cfg.Cache.Embeddings {
		cacheStore = store
	}
	jointBase, joint := buildEmbedder(cfg, "joint", cfg.Embedding.Joint, cacheStore, logger)
	textBase, text := buildEmbedder(cfg, "text", cfg.Embedding.Text, cacheStore, logger)
	logger.Info("Embedders created",
		zap.String("joint_model", cfg.Embedding.Joint.Model),
		zap.String("text_model", cfg.Embedding.Text.Model),
	)

	provider := embeddinguc.NewProvider(joint, text, embeddinguc.Dimensions{
		Joint: cfg.Embedding.Joint.Dimensions,
		Text:  cfg.Embedding.Text.Dimensions,
	})

	catalog := catalogrepo.New(store, cfg.Storage.KeyPrefix)

	// Filter extraction: LLM -> cache -> vocabulary/palette validation.
	extractor, err := buildExtractor(cfg, store, logger)
	if err != nil {
		logger.Fatal("Failed to create filter extractor", zap.Error(err))
	}
	colorPrompts, err := domain.NewTemplateEmbedder(joint, palette.PromptTemplate)
	if err != nil {
		logger.Fatal("Invalid color prompt template", zap.Error(err))
	}
	colors := extractionuc.NewColorMatcher(colorPrompts)
	if err := colors.Warm(ctx); err != nil {
		// Retried lazily on the first query that needs it.
		logger.Warn("Palette embedding failed", zap.Error(err))
	}
	extractionSvc := extractionuc.New(extractor, catalog, colors, extractionuc.Config{
		Timeout:       cfg.Extraction.Timeout(),
		MinConfidence: cfg.Extraction.MinConfidence,
		VocabularyTTL: cfg.Extraction.VocabularyTTL(),
	})

	ranker, err := rankinguc.New(rankinguc.Config{
		Text: rankinguc.TextWeights{
			Clip: *cfg.Ranking.ClipWeight,
			Text: *cfg.Ranking.TextWeight,
		},
		Modality: rankinguc.ModalityWeights{
			Text:  *cfg.Ranking.QueryText,
			Image: *cfg.Ranking.QueryImage,
		},
	})
	if err != nil {
		logger.Fatal("Invalid ranking weights", zap.Error(err))
	}

	planner := planneruc.New(extractionSvc, provider)
	searchSvc := searchuc.New(planner, catalog, ranker, cfg.Ranking.CandidatePool)
	healthSvc := healthuc.New(store, map[string]healthuc.EmbeddingChecker{
		"joint": jointBase,
		"text":  textBase,
	})

	server := chiTransport.NewServer(searchSvc, healthSvc, cfg.Search.MaxImageBytes, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented.
// It also returns the raw transport for health checks.
func buildEmbedder(
	cfg config.Config,
	space string,
	model config.ModelConfig,
	store db.Store,
	logger *zap.Logger,
) (*openaiTransport.Embedder, *embeddinguc.InstrumentedEmbedder) {
	provCfg := cfg.Embedding.Providers[model.Provider]

	// Dimensions are checked after retrieval; CLIP servers reject the parameter.
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:   provCfg.APIKey,
		BaseURL:  provCfg.BaseURL,
		Model:    model.Model,
		Provider: model.Provider,
		Logger:   logger,
	})

	var embedder domain.Embedder = base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Config{
			KeyPrefix:    cfg.Storage.KeyPrefix,
			Space:        space,
			ModelVersion: model.Model,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return base, embeddinguc.NewInstrumentedEmbedder(embedder, model.Provider, model.Model, logger)
}

// buildExtractor assembles the extraction chain: OpenAI chat -> Cached.
func buildExtractor(cfg config.Config, store db.Store, logger *zap.Logger) (intent.Extractor, error) {
	provCfg := cfg.Embedding.Providers[cfg.Extraction.Provider]

	base, err := openaiTransport.NewExtractor(&openaiTransport.ExtractorConfig{
		APIKey:   provCfg.APIKey,
		BaseURL:  provCfg.BaseURL,
		Model:    cfg.Extraction.Model,
		Provider: cfg.Extraction.Provider,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("openai extractor: %w", err)
	}

	ttl := cfg.Cache.ExtractionTTL()
	if ttl <= 0 {
		return base, nil
	}
	return filtercache.New(base, store, filtercache.Config{
		KeyPrefix:     cfg.Storage.KeyPrefix,
		Model:         cfg.Extraction.Model,
		PromptVersion: openaiTransport.PromptVersion,
		TTL:           ttl,
	}, metrics.ExtractionCacheTotal, logger), nil
}
