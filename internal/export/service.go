// Package export produces XLSX workbooks from extracted contract fields.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/contract-extractor/internal/core/ports"
	"github.com/kirillkom/contract-extractor/internal/extraction"
)

// Service is a small façade over the contract repository that renders ready
// contracts as an XLSX workbook.
type Service struct {
	repo   ports.ContractRepository
	logger *slog.Logger
}

func NewService(repo ports.ContractRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

const sheet = "Contracts"

var columns = []struct {
	header string
	key    string
	width  float64
}{
	{"Contract Number", "contract_number", 22},
	{"Contract Title", "contract_title", 36},
	{"Contract Type", "contract_type", 22},
	{"First Party", "first_party_name", 32},
	{"First Party Reg. No.", "first_party_registration_number", 22},
	{"Second Party", "second_party_name", 32},
	{"Second Party Reg. No.", "second_party_registration_number", 22},
	{"Sign Date", "sign_date", 14},
	{"Start Date", "start_date", 14},
	{"End Date", "end_date", 14},
	{"Duration", "duration", 12},
}

// ExportContractsXLSX renders up to limit ready contracts, one row per
// contract, missing fields left blank. The two trailing columns carry the
// source filename and the overall extraction confidence. Returns the
// workbook bytes and the number of exported rows.
func (s *Service) ExportContractsXLSX(ctx context.Context, limit int) ([]byte, int, error) {
	start := time.Now()

	docs, err := s.repo.ListReady(ctx, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list ready contracts: %w", err)
	}

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, 0, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, c := range columns {
		write(i+1, 1, c.header)
	}
	write(len(columns)+1, 1, "Filename")
	write(len(columns)+2, 1, "Confidence")

	row := 2
	for _, doc := range docs {
		record := map[string]string{}
		if doc.Fields != nil {
			record = extraction.FlatRecord(*doc.Fields)
		}
		for i, c := range columns {
			write(i+1, row, record[c.key])
		}
		write(len(columns)+1, row, doc.Filename)
		write(len(columns)+2, row, doc.Confidence)
		row++
	}

	for i, c := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(docs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), len(docs), nil
}
