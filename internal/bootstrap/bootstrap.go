package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/contract-extractor/internal/config"
	"github.com/kirillkom/contract-extractor/internal/core/ports"
	"github.com/kirillkom/contract-extractor/internal/core/usecase"
	"github.com/kirillkom/contract-extractor/internal/export"
	"github.com/kirillkom/contract-extractor/internal/extraction"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/converter/docling"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/queue/nats"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/resilience"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/contract-extractor/internal/loader"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue ports.MessageQueue
	Repo  ports.ContractRepository

	IngestUC  ports.ContractIngestor
	ParseUC   ports.ContractParser
	ProcessUC ports.ContractProcessor
	Extractor ports.FieldExtractor
	Exporter  *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewContractRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	doclingTimeout := time.Duration(cfg.DoclingTimeoutSeconds) * time.Second

	// The loader chain is the retry policy for conversion: a failed converter
	// call falls through to the next strategy instead of being retried.
	var converter ports.DocumentConverter
	if cfg.DoclingURL != "" {
		converter = docling.New(
			cfg.DoclingURL,
			doclingTimeout,
			resilience.NewExecutor(resilience.SingleAttempt()),
		)
	}

	docLoader := loader.New(converter, doclingTimeout, logger)
	extractor := extraction.New(logger)

	ingestUC := usecase.NewIngestContractUseCase(repo, storage, queue)
	parseUC := usecase.NewParseContractUseCase(storage, docLoader, extractor, logger)
	processUC := usecase.NewProcessContractUseCase(repo, storage, docLoader, extractor)
	exporter := export.NewService(repo, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue: queue,
		Repo:  repo,

		IngestUC:  ingestUC,
		ParseUC:   parseUC,
		ProcessUC: processUC,
		Extractor: extractor,
		Exporter:  exporter,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
