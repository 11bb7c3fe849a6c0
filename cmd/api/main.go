package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	httpapi "github.com/GoSim-25-26J-441/hr-copilot/internal/api/http"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/bootstrap"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/history"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/service"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/logging"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	m := metrics.New("copilot")
	checks := map[string]httpapi.Check{}

	clients := bootstrap.NewClients(ctx, cfg.Generation)

	var (
		rdb   *redis.Client
		cache embedding.Cache
	)
	if cfg.Redis.URL != "" {
		client, c, err := bootstrap.OpenEmbeddingCache(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn("embedding cache disabled", zap.Error(err))
		} else {
			rdb, cache = client, c
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			logger.Info("embedding cache enabled")
		}
	}

	opts := []service.Option{service.WithMetrics(m)}
	indexStatus := httpapi.IndexStatus{Enabled: cfg.RAG.Enabled}

	if cfg.RAG.Enabled {
		ix, err := bootstrap.LoadIndex(cfg.RAG.IndexDir, bootstrap.EmbedderFactory(clients, cache, m))
		if err != nil {
			logger.Fatal("document index unavailable", zap.Error(err))
		}
		man := ix.Manifest()
		indexStatus.Chunks = ix.Len()
		indexStatus.Embedder = man.Embedder.Type + "/" + man.Embedder.Model
		opts = append(opts, service.WithRetriever(ix, cfg.RAG.TopK))

		logger.Info("document index loaded",
			zap.String("dir", cfg.RAG.IndexDir),
			zap.Int("chunks", ix.Len()),
			zap.String("embedder", indexStatus.Embedder),
		)
	} else {
		logger.Info("retrieval disabled, questions go straight to the model")
	}

	gen, err := bootstrap.BuildGenerator(cfg.Generation, clients, m)
	if err != nil {
		logger.Fatal("generator", zap.Error(err))
	}
	if cfg.Generation.Provider == config.ProviderGemini && clients.GeminiErr != nil {
		logger.Warn("gemini client unavailable, answers will fall back", zap.Error(clients.GeminiErr))
	}
	if cfg.Generation.Provider == config.ProviderOpenAI && clients.OpenAIErr != nil {
		logger.Warn("openai client unavailable, answers will fall back", zap.Error(clients.OpenAIErr))
	}

	var (
		db        *sql.DB
		scheduler *history.RetentionScheduler
	)
	if cfg.Database.Enabled() {
		conn, repo, err := bootstrap.OpenHistory(ctx, &cfg.Database)
		if err != nil {
			logger.Warn("question history disabled", zap.Error(err))
		} else {
			db = conn
			checks["db"] = db.PingContext
			opts = append(opts, service.WithHistory(repo))

			scheduler = history.NewRetentionScheduler(repo, cfg.History.Retention, cfg.History.PruneSchedule, logger)
			if err := scheduler.Start(); err != nil {
				logger.Warn("history retention disabled", zap.Error(err))
				scheduler = nil
			}
		}
	}

	svc := service.NewAnswerService(gen, opts...)

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		StaticDir:      cfg.Server.StaticDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Answerer:       svc,
		Index:          indexStatus,
		Checks:         checks,
		Logger:         logger,
		Metrics:        m,
	})
	if err != nil {
		logger.Fatal("router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.Bool("rag", svc.RAGEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if scheduler != nil {
		scheduler.Stop(shutdownCtx)
	}
	if db != nil {
		_ = db.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
