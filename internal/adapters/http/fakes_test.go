package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/contract-extractor/internal/config"
	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.ContractDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.ContractDocument{
		ID:          "c-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "c-1_contract.pdf",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type parserFake struct {
	result domain.ParseResult
}

func (f parserFake) ParseDocument(context.Context, string) domain.ParseResult {
	return f.result
}

type extractorFake struct {
	fields  domain.BasicExtractedFields
	metrics domain.ExtractionMetrics
}

func (f extractorFake) ExtractBasicFields(string) domain.BasicExtractedFields { return f.fields }

func (f extractorFake) ExtractWithMetrics(string) (domain.BasicExtractedFields, domain.ExtractionMetrics) {
	return f.fields, f.metrics
}

type repoFake struct {
	doc    *domain.ContractDocument
	getErr error
}

func (f repoFake) Create(context.Context, *domain.ContractDocument) error { return nil }

func (f repoFake) GetByID(_ context.Context, id string) (*domain.ContractDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrContractNotFound, "get contract", fmt.Errorf("id %s", id))
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f repoFake) UpdateStatus(context.Context, string, domain.ContractStatus, string) error {
	return nil
}

func (f repoFake) SaveExtraction(context.Context, string, domain.BasicExtractedFields, domain.ExtractionMetrics) error {
	return nil
}

func (f repoFake) ListReady(context.Context, int) ([]domain.ContractDocument, error) {
	return nil, nil
}

type exporterFake struct {
	data []byte
	rows int
	err  error

	lastLimit int
}

func (f *exporterFake) ExportContractsXLSX(_ context.Context, limit int) ([]byte, int, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.data, f.rows, nil
}

var errExportBroken = errors.New("export broken")

func newTestHandler(cfg config.Config) http.Handler {
	return newTestHandlerWith(cfg, parserFake{}, repoFake{}, &exporterFake{data: []byte("PK"), rows: 0})
}

func newTestHandlerWith(cfg config.Config, parser parserFake, repo repoFake, exporter *exporterFake) http.Handler {
	return NewRouter(
		ingestFake{},
		parser,
		extractorFake{
			fields: domain.BasicExtractedFields{ExtractionConfidence: 0.5},
			metrics: domain.ExtractionMetrics{
				OverallConfidence: 0.5,
				FieldsExtracted:   3,
				TotalFields:       36,
			},
		},
		repo,
		exporter,
		cfg,
		nil,
	).Handler()
}
