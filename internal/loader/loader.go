// Package loader turns raw contract document bytes into plain text through
// ordered, per-format fallback chains. A failing strategy is never fatal:
// the chain moves on, and only when every format/strategy combination fails
// does the loader report a single aggregated diagnostic.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirillkom/contract-extractor/internal/core/domain"
	"github.com/kirillkom/contract-extractor/internal/core/ports"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatWord Format = "word"
)

type Loader struct {
	converter ports.DocumentConverter
	timeout   time.Duration
	logger    *slog.Logger
}

// New builds a loader. converter is the optional high-fidelity collaborator
// and may be nil; timeout bounds the single external conversion attempt.
func New(converter ports.DocumentConverter, timeout time.Duration, logger *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{converter: converter, timeout: timeout, logger: logger}
}

type strategy struct {
	name string
	run  func(ctx context.Context, data []byte) (string, int, error)
}

func formatFromExtension(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx", ".doc":
		return FormatWord, true
	default:
		return "", false
	}
}

var (
	pdfSignature = []byte("%PDF")
	zipSignature = []byte("PK\x03\x04")
	oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0}
)

func sniffFormat(data []byte) (Format, bool) {
	switch {
	case bytes.HasPrefix(data, pdfSignature):
		return FormatPDF, true
	case bytes.HasPrefix(data, zipSignature):
		return FormatWord, true
	case bytes.HasPrefix(data, oleSignature):
		return FormatWord, true
	default:
		return "", false
	}
}

func (l *Loader) strategiesFor(format Format) []strategy {
	switch format {
	case FormatPDF:
		return []strategy{
			l.externalConverter(".pdf"),
			{name: "pdf-basic", run: extractPDFBasic},
		}
	case FormatWord:
		return []strategy{
			l.externalConverter(".docx"),
			{name: "docx-parse", run: extractDocxDocument},
			{name: "docx-scan", run: scanPackagedXML},
		}
	default:
		return nil
	}
}

// Load derives the declared format from the filename (failing fast when the
// extension is unrecognized), sniffs the actual format from the byte
// signature, and walks each candidate format's strategy chain until a
// strategy yields non-empty trimmed text.
func (l *Loader) Load(ctx context.Context, filename string, data []byte) (domain.LoadedDocument, error) {
	declared, ok := formatFromExtension(filename)
	if !ok {
		return domain.LoadedDocument{}, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"derive declared format",
			fmt.Errorf("extension %q of %q", filepath.Ext(filename), filename),
		)
	}

	formats := []Format{declared}
	if detected, ok := sniffFormat(data); ok && detected != declared {
		formats = append(formats, detected)
	}

	var failures []string
	for _, format := range formats {
		for _, s := range l.strategiesFor(format) {
			text, pages, err := s.run(ctx, data)
			if err != nil {
				failures = append(failures, fmt.Sprintf("%s/%s: %v", format, s.name, err))
				continue
			}
			if strings.TrimSpace(text) == "" {
				failures = append(failures, fmt.Sprintf("%s/%s: produced empty text", format, s.name))
				continue
			}
			l.logger.Debug("document_loaded",
				"filename", filename,
				"format", string(format),
				"strategy", s.name,
				"pages", pages,
			)
			return domain.LoadedDocument{
				Text:     text,
				Pages:    pages,
				Strategy: fmt.Sprintf("%s/%s", format, s.name),
			}, nil
		}
	}

	return domain.LoadedDocument{}, domain.WrapError(
		domain.ErrConversionFailed,
		"load document",
		fmt.Errorf("byte signature %s; attempts: %s", byteSignature(data), strings.Join(failures, "; ")),
	)
}

// externalConverter wraps the optional high-fidelity collaborator as the
// first strategy of a chain. One bounded attempt; the staged temp file is
// removed on every exit path.
func (l *Loader) externalConverter(ext string) strategy {
	return strategy{
		name: "converter",
		run: func(ctx context.Context, data []byte) (string, int, error) {
			if l.converter == nil {
				return "", 0, errors.New("external converter not configured")
			}

			callCtx, cancel := context.WithTimeout(ctx, l.timeout)
			defer cancel()

			if !l.converter.Available(callCtx) {
				return "", 0, errors.New("external converter unavailable")
			}

			tmp, err := os.CreateTemp("", "contract-convert-*"+ext)
			if err != nil {
				return "", 0, fmt.Errorf("stage temp file: %w", err)
			}
			path := tmp.Name()
			defer func() {
				_ = os.Remove(path)
			}()

			if _, err := tmp.Write(data); err != nil {
				_ = tmp.Close()
				return "", 0, fmt.Errorf("write temp file: %w", err)
			}
			if err := tmp.Close(); err != nil {
				return "", 0, fmt.Errorf("close temp file: %w", err)
			}

			result, err := l.converter.Convert(callCtx, path, ports.ConvertOptions{
				PreserveHeaders: true,
				WithTables:      true,
			})
			if err != nil {
				return "", 0, fmt.Errorf("external convert: %w", err)
			}
			return result.Text, result.Pages, nil
		},
	}
}

func byteSignature(data []byte) string {
	head := data
	if len(head) > 8 {
		head = head[:8]
	}
	return fmt.Sprintf("%x", head)
}
