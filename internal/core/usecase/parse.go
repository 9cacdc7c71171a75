package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
	"github.com/kirillkom/contract-extractor/internal/core/ports"
)

// ParseContractUseCase is the synchronous parse path: load a stored object,
// run the fallback chains and the extractors, and answer with a value no
// matter what went wrong. Callers branch on Success, never on an error.
type ParseContractUseCase struct {
	storage   ports.ObjectStorage
	loader    ports.DocumentLoader
	extractor ports.FieldExtractor
	logger    *slog.Logger
}

func NewParseContractUseCase(
	storage ports.ObjectStorage,
	loader ports.DocumentLoader,
	extractor ports.FieldExtractor,
	logger *slog.Logger,
) *ParseContractUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseContractUseCase{
		storage:   storage,
		loader:    loader,
		extractor: extractor,
		logger:    logger,
	}
}

func (uc *ParseContractUseCase) ParseDocument(ctx context.Context, objectName string) domain.ParseResult {
	rc, err := uc.storage.Open(ctx, objectName)
	if err != nil {
		return uc.failure(objectName, fmt.Errorf("open stored object: %w", err))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return uc.failure(objectName, fmt.Errorf("read stored object: %w", err))
	}

	loaded, err := uc.loader.Load(ctx, objectName, data)
	if err != nil {
		return uc.failure(objectName, err)
	}

	fields := uc.extractor.ExtractBasicFields(loaded.Text)
	return domain.ParseResult{
		Success:  true,
		Text:     loaded.Text,
		Pages:    loaded.Pages,
		Strategy: loaded.Strategy,
		Fields:   &fields,
	}
}

func (uc *ParseContractUseCase) failure(objectName string, err error) domain.ParseResult {
	uc.logger.Warn("contract_parse_failed", "object", objectName, "error", err)
	return domain.ParseResult{Success: false, Error: err.Error()}
}
