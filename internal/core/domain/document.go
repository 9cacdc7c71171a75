package domain

import "time"

type ContractStatus string

const (
	StatusUploaded   ContractStatus = "uploaded"
	StatusProcessing ContractStatus = "processing"
	StatusReady      ContractStatus = "ready"
	StatusFailed     ContractStatus = "failed"
)

// ContractDocument is a stored contract file plus whatever the extraction
// pipeline has produced for it so far.
type ContractDocument struct {
	ID          string         `json:"id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	Status      ContractStatus `json:"status"`
	Error       string         `json:"error,omitempty"`

	Confidence float64               `json:"confidence,omitempty"`
	Fields     *BasicExtractedFields `json:"fields,omitempty"`
	Metrics    *ExtractionMetrics    `json:"metrics,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
