package ports

import (
	"context"
	"io"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// ContractIngestor accepts an uploaded contract file and schedules it for
// processing.
type ContractIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.ContractDocument, error)
}

// ContractParser loads a stored object and extracts fields synchronously.
// The result is always a value; failures surface as Success=false.
type ContractParser interface {
	ParseDocument(ctx context.Context, objectName string) domain.ParseResult
}

// ContractProcessor runs the asynchronous worker pipeline for one document.
type ContractProcessor interface {
	ProcessByID(ctx context.Context, contractID string) error
}

// FieldExtractor extracts structured contract fields from plain text.
type FieldExtractor interface {
	ExtractBasicFields(text string) domain.BasicExtractedFields
	ExtractWithMetrics(text string) (domain.BasicExtractedFields, domain.ExtractionMetrics)
}
