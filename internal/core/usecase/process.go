package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
	"github.com/kirillkom/contract-extractor/internal/core/ports"
)

// ProcessContractUseCase is the asynchronous worker pipeline for one
// uploaded contract: mark processing, load, extract, persist, mark ready.
// Any step failure marks the contract failed with the step's diagnostic.
type ProcessContractUseCase struct {
	repo      ports.ContractRepository
	storage   ports.ObjectStorage
	loader    ports.DocumentLoader
	extractor ports.FieldExtractor
}

func NewProcessContractUseCase(
	repo ports.ContractRepository,
	storage ports.ObjectStorage,
	loader ports.DocumentLoader,
	extractor ports.FieldExtractor,
) *ProcessContractUseCase {
	return &ProcessContractUseCase{
		repo:      repo,
		storage:   storage,
		loader:    loader,
		extractor: extractor,
	}
}

func (uc *ProcessContractUseCase) ProcessByID(ctx context.Context, contractID string) error {
	if err := uc.markStatus(ctx, contractID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	fields, metrics, err := uc.processPipeline(ctx, contractID)
	if err != nil {
		if failErr := uc.markFailed(ctx, contractID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveExtraction(ctx, contractID, fields, metrics); err != nil {
		err = fmt.Errorf("save extraction: %w", err)
		if failErr := uc.markFailed(ctx, contractID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, contractID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}

	return nil
}

func (uc *ProcessContractUseCase) processPipeline(ctx context.Context, contractID string) (domain.BasicExtractedFields, domain.ExtractionMetrics, error) {
	var zeroFields domain.BasicExtractedFields
	var zeroMetrics domain.ExtractionMetrics

	doc, err := uc.repo.GetByID(ctx, contractID)
	if err != nil {
		return zeroFields, zeroMetrics, fmt.Errorf("fetch contract by id: %w", err)
	}

	text, err := uc.loadText(ctx, doc)
	if err != nil {
		return zeroFields, zeroMetrics, err
	}

	fields, metrics := uc.extractor.ExtractWithMetrics(text)
	return fields, metrics, nil
}

func (uc *ProcessContractUseCase) loadText(ctx context.Context, doc *domain.ContractDocument) (string, error) {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open stored object: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read stored object: %w", err)
	}

	loaded, err := uc.loader.Load(ctx, doc.Filename, data)
	if err != nil {
		return "", fmt.Errorf("load document text: %w", err)
	}
	if loaded.Text == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "load document text", errors.New("empty document text"))
	}
	return loaded.Text, nil
}

func (uc *ProcessContractUseCase) markStatus(ctx context.Context, contractID string, status domain.ContractStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, contractID, status, errMessage)
}

func (uc *ProcessContractUseCase) markFailed(ctx context.Context, contractID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, contractID, domain.StatusFailed, processErr.Error())
}
