// Package docling calls the external docling conversion service. The service
// is an optional collaborator: the loader probes availability before every
// conversion and falls back to local strategies when the probe or the
// conversion fails.
package docling

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/contract-extractor/internal/core/ports"
	"github.com/kirillkom/contract-extractor/internal/infrastructure/resilience"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	exec       *resilience.Executor
}

// New builds a client. exec may be nil; when present it wraps each
// conversion in the single-attempt breaker policy so a flapping service
// stops being probed for a while.
func New(baseURL string, timeout time.Duration, exec *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		exec:       exec,
	}
}

var _ ports.DocumentConverter = (*Client)(nil)

// Available probes the service health endpoint. Any transport error or
// non-200 answer means unavailable; the caller treats that as a signal to
// fall back, never as a failure.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type convertRequest struct {
	Path    string               `json:"path"`
	Options ports.ConvertOptions `json:"options"`
}

type convertResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Pages   int    `json:"pages"`
	Error   string `json:"error"`
}

// Convert performs a single bounded conversion attempt for the staged file
// at path.
func (c *Client) Convert(ctx context.Context, path string, opts ports.ConvertOptions) (ports.ConversionResult, error) {
	var response convertResponse
	call := func(ctx context.Context) error {
		return c.postJSON(ctx, "/convert", convertRequest{Path: path, Options: opts}, &response, "convert")
	}

	var err error
	if c.exec != nil {
		err = c.exec.Execute(ctx, "docling_convert", call, resilience.ClassifyTemporary)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return ports.ConversionResult{}, err
	}

	if !response.Success {
		msg := response.Error
		if msg == "" {
			msg = "no reason reported"
		}
		return ports.ConversionResult{}, fmt.Errorf("docling convert rejected: %s", msg)
	}
	if strings.TrimSpace(response.Text) == "" {
		return ports.ConversionResult{}, errors.New("docling convert returned empty text")
	}
	return ports.ConversionResult{Text: response.Text, Pages: response.Pages}, nil
}
