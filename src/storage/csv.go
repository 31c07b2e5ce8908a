package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"mms-curvature/src/helpers"
	"mms-curvature/src/logger"
	"mms-curvature/src/models"
)

// CSVTableSink writes the result table as comma-separated text, header first.
// Missing values are written as empty cells.
type CSVTableSink struct {
	Path   string
	Logger *logger.Logger

	compressor *Compressor
	file       *os.File
	stream     io.WriteCloser
	writer     *csv.Writer
}

// -----------------------------------------------------------------------------

// NewCSVTableSink returns a plain CSV sink, or a zstd-compressed one writing
// to path + ".zst" when compressor is non-nil.
func NewCSVTableSink(path string, compressor *Compressor, log *logger.Logger) *CSVTableSink {
	if compressor != nil {
		path += ".zst"
	}
	return &CSVTableSink{Path: path, Logger: log, compressor: compressor}
}

// -----------------------------------------------------------------------------

func (s *CSVTableSink) Initialize(ctx context.Context) error {
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	s.file = f

	var w io.Writer = f
	if s.compressor != nil {
		enc, err := s.compressor.NewStreamWriter(f)
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to open zstd stream: %w", err)
		}
		s.stream = enc
		w = enc
	}
	s.writer = csv.NewWriter(w)
	return nil
}

// -----------------------------------------------------------------------------

func (s *CSVTableSink) SaveTable(ctx context.Context, table *models.MResultTable) error {
	if s.writer == nil {
		return fmt.Errorf("csv sink %s not initialized", s.Path)
	}
	if err := table.Validate(); err != nil {
		return helpers.NewValidationError("result table rejected", err)
	}

	header := make([]string, 0, len(table.Columns)+1)
	header = append(header, indexName(table))
	for _, c := range table.Columns {
		header = append(header, c.Name)
	}
	if err := s.writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i, t := range table.Index {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		record[0] = strconv.FormatFloat(t, 'f', -1, 64)
		for j, c := range table.Columns {
			record[j+1] = FormatCell(c.Values[i])
		}
		if err := s.writer.Write(record); err != nil {
			return err
		}
	}

	s.writer.Flush()
	return s.writer.Error()
}

// -----------------------------------------------------------------------------

func (s *CSVTableSink) Close() error {
	var firstErr error
	if s.writer != nil {
		s.writer.Flush()
		firstErr = s.writer.Error()
		s.writer = nil
	}
	if s.stream != nil {
		if err := s.stream.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.stream = nil
	}
	if s.file != nil {
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.file = nil
	}
	return firstErr
}

// -----------------------------------------------------------------------------

// FormatCell renders a value in its shortest round-trip form, "" when it is
// missing and inf or -inf for the infinities.
func FormatCell(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
