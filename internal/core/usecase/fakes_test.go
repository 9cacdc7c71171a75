package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

type statusCall struct {
	status domain.ContractStatus
	errMsg string
}

type repoFake struct {
	doc           *domain.ContractDocument
	created       *domain.ContractDocument
	getErr        error
	createErr     error
	saveErr       error
	statusErr     error
	failStatusErr error

	statusCalls   []statusCall
	savedID       string
	savedFields   domain.BasicExtractedFields
	savedMetrics  domain.ExtractionMetrics
	listReadyDocs []domain.ContractDocument
}

func (f *repoFake) Create(_ context.Context, doc *domain.ContractDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.ContractDocument, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.ContractStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *repoFake) SaveExtraction(_ context.Context, id string, fields domain.BasicExtractedFields, metrics domain.ExtractionMetrics) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedID = id
	f.savedFields = fields
	f.savedMetrics = metrics
	return nil
}

func (f *repoFake) ListReady(context.Context, int) ([]domain.ContractDocument, error) {
	return f.listReadyDocs, nil
}

type storageFake struct {
	objects map[string][]byte
	saveErr error
	openErr error

	savedKeys []string
}

func newStorageFake() *storageFake {
	return &storageFake{objects: make(map[string][]byte)}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = content
	f.savedKeys = append(f.savedKeys, key)
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	content, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found: " + key)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

type queueFake struct {
	publishErr   error
	publishedIDs []string
}

func (f *queueFake) PublishContractUploaded(_ context.Context, contractID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.publishedIDs = append(f.publishedIDs, contractID)
	return nil
}

func (f *queueFake) SubscribeContractUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

type loaderFake struct {
	doc domain.LoadedDocument
	err error

	lastFilename string
}

func (f *loaderFake) Load(_ context.Context, filename string, _ []byte) (domain.LoadedDocument, error) {
	f.lastFilename = filename
	if f.err != nil {
		return domain.LoadedDocument{}, f.err
	}
	return f.doc, nil
}

type fieldExtractorFake struct {
	fields  domain.BasicExtractedFields
	metrics domain.ExtractionMetrics

	lastText string
}

func (f *fieldExtractorFake) ExtractBasicFields(text string) domain.BasicExtractedFields {
	f.lastText = text
	return f.fields
}

func (f *fieldExtractorFake) ExtractWithMetrics(text string) (domain.BasicExtractedFields, domain.ExtractionMetrics) {
	f.lastText = text
	return f.fields, f.metrics
}
