package docling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kirillkom/contract-extractor/internal/core/ports"
)

func TestAvailableFollowsHealthEndpoint(t *testing.T) {
	healthy := true
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		if !healthy {
			http.Error(w, "starting up", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	if !client.Available(context.Background()) {
		t.Fatalf("expected available while healthy")
	}
	healthy = false
	if client.Available(context.Background()) {
		t.Fatalf("expected unavailable while unhealthy")
	}
}

func TestAvailableFalseWhenUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := New(server.URL, time.Second, nil)
	if client.Available(context.Background()) {
		t.Fatalf("expected unavailable for closed server")
	}
}

func TestConvertSendsPathAndOptions(t *testing.T) {
	var captured convertRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"success":true,"text":"converted body","pages":5}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	result, err := client.Convert(context.Background(), "/tmp/contract.pdf", ports.ConvertOptions{PreserveHeaders: true, WithTables: true})
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if result.Text != "converted body" || result.Pages != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if captured.Path != "/tmp/contract.pdf" {
		t.Fatalf("path = %q", captured.Path)
	}
	if !captured.Options.PreserveHeaders || !captured.Options.WithTables {
		t.Fatalf("options not forwarded: %+v", captured.Options)
	}
}

func TestConvertReportsServiceRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"unsupported encryption"}`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	_, err := client.Convert(context.Background(), "/tmp/contract.pdf", ports.ConvertOptions{})
	if err == nil || !strings.Contains(err.Error(), "unsupported encryption") {
		t.Fatalf("expected rejection reason in error, got %v", err)
	}
}

func TestConvertIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "worker pool exhausted", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, time.Second, nil)
	_, err := client.Convert(context.Background(), "/tmp/contract.pdf", ports.ConvertOptions{})
	if err == nil || !strings.Contains(err.Error(), "worker pool exhausted") {
		t.Fatalf("expected response body in error, got %v", err)
	}
}
