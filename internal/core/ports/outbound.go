package ports

import (
	"context"
	"io"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

// ContractRepository persists and reads contract document state.
type ContractRepository interface {
	Create(ctx context.Context, doc *domain.ContractDocument) error
	GetByID(ctx context.Context, id string) (*domain.ContractDocument, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContractStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, fields domain.BasicExtractedFields, metrics domain.ExtractionMetrics) error
	ListReady(ctx context.Context, limit int) ([]domain.ContractDocument, error)
}

// ObjectStorage stores source contract files.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes contract-uploaded events.
type MessageQueue interface {
	PublishContractUploaded(ctx context.Context, contractID string) error
	SubscribeContractUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// ConvertOptions mirrors the external converter's conversion switches.
type ConvertOptions struct {
	PreserveHeaders bool `json:"preserveHeaders"`
	WithTables      bool `json:"withTables"`
}

// ConversionResult is a successful high-fidelity conversion.
type ConversionResult struct {
	Text  string
	Pages int
}

// DocumentConverter is the optional, possibly-unavailable high-fidelity
// conversion collaborator. Convert is a single bounded attempt; callers
// treat every failure, including unavailability, as non-fatal and fall back.
type DocumentConverter interface {
	Available(ctx context.Context) bool
	Convert(ctx context.Context, path string, opts ConvertOptions) (ConversionResult, error)
}

// DocumentLoader turns raw document bytes into plain text via the format
// fallback chains.
type DocumentLoader interface {
	Load(ctx context.Context, filename string, data []byte) (domain.LoadedDocument, error)
}
