package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/GoSim-25-26J-441/hr-copilot/config"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/bootstrap"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/embedding/tfidf"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/ingest"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/copilot/rag"
	"github.com/GoSim-25-26J-441/hr-copilot/internal/logging"
	"go.uber.org/zap"
)

type buildOptions struct {
	embedder  string
	model     string
	dimension int
	sentences int
	overlap   int
	batch     int
	docsDir   string
	indexDir  string
}

func parseBuildArgs(args []string, defaultIndexDir string) (buildOptions, error) {
	var opt buildOptions

	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.StringVar(&opt.embedder, "embedder", tfidf.Name, "embedding scheme: tfidf, gemini or openai")
	fs.StringVar(&opt.model, "model", "", "embedding model for remote schemes")
	fs.IntVar(&opt.dimension, "dim", 0, "embedding dimension for remote schemes (0 = model default)")
	fs.IntVar(&opt.sentences, "sentences", 5, "sentences per chunk")
	fs.IntVar(&opt.overlap, "overlap", 1, "sentences shared between neighbouring chunks")
	fs.IntVar(&opt.batch, "batch", 32, "texts per embedding request")
	if err := fs.Parse(args); err != nil {
		return opt, err
	}

	switch fs.NArg() {
	case 1:
		opt.docsDir, opt.indexDir = fs.Arg(0), defaultIndexDir
	case 2:
		opt.docsDir, opt.indexDir = fs.Arg(0), fs.Arg(1)
	default:
		return opt, errors.New("usage: indexer build [flags] <docsDir> [indexDir]")
	}
	return opt, nil
}

func RunBuild(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	opt, err := parseBuildArgs(args, cfg.RAG.IndexDir)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	emb, err := newEmbedder(ctx, cfg, opt)
	if err != nil {
		return err
	}

	b := ingest.NewBuilder(emb, ingest.NewSentenceChunker(opt.sentences, opt.overlap), opt.batch, logger)
	m, err := b.Build(ctx, opt.docsDir, opt.indexDir)
	if err != nil {
		return err
	}

	logger.Info("done",
		zap.Int("chunks", m.ChunkCount),
		zap.Int("dimension", m.Embedder.Dimension),
		zap.String("index_dir", opt.indexDir),
	)
	return nil
}

func newEmbedder(ctx context.Context, cfg *config.Config, opt buildOptions) (embedding.Embedder, error) {
	if opt.embedder == tfidf.Name {
		return tfidf.NewEmbedder(), nil
	}

	clients := bootstrap.NewClients(ctx, cfg.Generation)
	return bootstrap.EmbedderFactory(clients, nil, nil)(rag.EmbedderSpec{
		Type:      opt.embedder,
		Model:     opt.model,
		Dimension: opt.dimension,
	})
}
