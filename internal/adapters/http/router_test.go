package httpadapter

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/contract-extractor/internal/config"
	"github.com/kirillkom/contract-extractor/internal/core/domain"
)

func defaultTestConfig() config.Config {
	return config.Config{
		APIRateLimitRPS:   1000,
		APIRateLimitBurst: 1000,
		APIMaxInFlight:    16,
		ExportLimit:       100,
	}
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestUploadContractSuccess(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "contract.pdf")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("%PDF data")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", res.Code, res.Body.String())
	}

	var docResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&docResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if docResp["id"] != "c-1" {
		t.Fatalf("unexpected response: %+v", docResp)
	}
}

func TestUploadContractMissingMultipartField(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/contracts", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGetContractNotFoundMapsTo404(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	req := httptest.NewRequest(http.MethodGet, "/v1/contracts/missing-id", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestParseContractReturnsResultEvenOnFailure(t *testing.T) {
	parser := parserFake{result: domain.ParseResult{
		Success: false,
		Error:   "document conversion failed: all strategies failed",
	}}
	repo := repoFake{doc: &domain.ContractDocument{ID: "c-1", StoragePath: "c-1_contract.pdf"}}
	handler := newTestHandlerWith(defaultTestConfig(), parser, repo, &exporterFake{})

	req := httptest.NewRequest(http.MethodPost, "/v1/contracts/c-1/parse", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 for failed parse, got %d", res.Code)
	}
	var result domain.ParseResult
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Success || !strings.Contains(result.Error, "all strategies failed") {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestParseContractUnknownIDMapsTo404(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	req := httptest.NewRequest(http.MethodPost, "/v1/contracts/nope/parse", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestExtractReturnsFields(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	body := bytes.NewBufferString(`{"text":"合同编号：CTR-2026-001"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp["fields"]; !ok {
		t.Fatalf("expected fields key, got %v", resp)
	}
	if _, ok := resp["metrics"]; ok {
		t.Fatalf("metrics must be absent without the query flag")
	}
}

func TestExtractWithMetricsFlag(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	body := bytes.NewBufferString(`{"text":"合同编号：CTR-2026-001"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/extract?metrics=1", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	var resp struct {
		Metrics domain.ExtractionMetrics `json:"metrics"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Metrics.TotalFields != 36 {
		t.Fatalf("metrics missing: %+v", resp.Metrics)
	}
}

func TestExtractRejectsEmptyText(t *testing.T) {
	handler := newTestHandler(defaultTestConfig())

	body := bytes.NewBufferString(`{"text":"   "}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/extract", body)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExportContractsSetsWorkbookHeaders(t *testing.T) {
	exporter := &exporterFake{data: []byte("PK workbook bytes"), rows: 3}
	handler := newTestHandlerWith(defaultTestConfig(), parserFake{}, repoFake{}, exporter)

	req := httptest.NewRequest(http.MethodGet, "/v1/contracts/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if exporter.lastLimit != 100 {
		t.Fatalf("export limit = %d, want 100", exporter.lastLimit)
	}
	if ct := res.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := res.Header().Get("Content-Disposition"); !strings.Contains(cd, "contracts.xlsx") {
		t.Fatalf("content disposition = %q", cd)
	}
	if res.Body.String() != "PK workbook bytes" {
		t.Fatalf("unexpected body %q", res.Body.String())
	}
}

func TestExportContractsError(t *testing.T) {
	exporter := &exporterFake{err: errExportBroken}
	handler := newTestHandlerWith(defaultTestConfig(), parserFake{}, repoFake{}, exporter)

	req := httptest.NewRequest(http.MethodGet, "/v1/contracts/export", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
}
