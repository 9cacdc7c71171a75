// Package httpadapter exposes the contract ingestion and extraction API.
package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/contract-extractor/internal/config"
	"github.com/kirillkom/contract-extractor/internal/core/ports"
	"github.com/kirillkom/contract-extractor/internal/observability/metrics"
)

const serviceName = "api"

// backpressureWait bounds how long a request may queue for an in-flight
// slot before the overload answer.
const backpressureWait = 100 * time.Millisecond

type contractExporter interface {
	ExportContractsXLSX(ctx context.Context, limit int) ([]byte, int, error)
}

type Router struct {
	ingest    ports.ContractIngestor
	parser    ports.ContractParser
	extractor ports.FieldExtractor
	repo      ports.ContractRepository
	exporter  contractExporter

	cfg           config.Config
	serverMetrics *metrics.HTTPServerMetrics
}

func NewRouter(
	ingest ports.ContractIngestor,
	parser ports.ContractParser,
	extractor ports.FieldExtractor,
	repo ports.ContractRepository,
	exporter contractExporter,
	cfg config.Config,
	serverMetrics *metrics.HTTPServerMetrics,
) *Router {
	return &Router{
		ingest:        ingest,
		parser:        parser,
		extractor:     extractor,
		repo:          repo,
		exporter:      exporter,
		cfg:           cfg,
		serverMetrics: serverMetrics,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/contracts", rt.uploadContract)
	mux.HandleFunc("/v1/contracts/", rt.contractSubtree)
	mux.HandleFunc("/v1/extract", rt.extractText)
	if rt.serverMetrics != nil {
		mux.Handle("/metrics", rt.serverMetrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, backpressureWait)
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	if rt.serverMetrics != nil {
		handler = rt.serverMetrics.Middleware(serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadContract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

// contractSubtree dispatches /v1/contracts/{id}, /v1/contracts/{id}/parse
// and /v1/contracts/export.
func (rt *Router) contractSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/contracts/")
	switch {
	case rest == "export":
		rt.exportContracts(w, r)
	case strings.HasSuffix(rest, "/parse"):
		rt.parseContract(w, r, strings.TrimSuffix(rest, "/parse"))
	default:
		rt.getContractByID(w, r, rest)
	}
}

func (rt *Router) getContractByID(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) parseContract(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "contract id is required"})
		return
	}

	doc, err := rt.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	result := rt.parser.ParseDocument(r.Context(), doc.StoragePath)
	if rt.serverMetrics != nil {
		confidence := 0.0
		if result.Fields != nil {
			confidence = result.Fields.ExtractionConfidence
		}
		rt.serverMetrics.RecordExtraction(serviceName, "parse", confidence, result.Success)
		if result.Success {
			rt.serverMetrics.RecordLoadStrategy(serviceName, result.Strategy)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) extractText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	withMetrics := r.URL.Query().Get("metrics") == "1"
	fields, extractionMetrics := rt.extractor.ExtractWithMetrics(req.Text)
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordExtraction(serviceName, "extract", fields.ExtractionConfidence, true)
	}

	if withMetrics {
		writeJSON(w, http.StatusOK, map[string]any{
			"fields":  fields,
			"metrics": extractionMetrics,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

func (rt *Router) exportContracts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	data, rows, err := rt.exporter.ExportContractsXLSX(r.Context(), rt.cfg.ExportLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.serverMetrics != nil {
		rt.serverMetrics.RecordExportRows(serviceName, rows)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="contracts.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
