package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/replay/internal/core/ports"
)

// Exporter writes every stored table to a CSV file named spotify_<table>.csv.
type Exporter struct {
	reader ports.TableReader
	logger *zap.Logger
}

// NewExporter constructs an Exporter.
func NewExporter(reader ports.TableReader, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{reader: reader, logger: logger}
}

// Run exports all tables into outDir and returns the written file paths.
func (e *Exporter) Run(ctx context.Context, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("service: failed to create export dir: %w", err)
	}

	var written []string
	for _, table := range e.reader.Tables() {
		columns, rows, err := e.reader.ReadTable(ctx, table)
		if err != nil {
			return written, fmt.Errorf("service: failed to read table %s: %w", table, err)
		}

		path := filepath.Join(outDir, "spotify_"+table+".csv")
		if err := writeCSV(path, columns, rows); err != nil {
			return written, fmt.Errorf("service: failed to export table %s: %w", table, err)
		}
		written = append(written, path)

		e.logger.Info("exported table",
			zap.String("table", table),
			zap.Int("rows", len(rows)),
			zap.String("path", path),
		)
	}
	return written, nil
}

func writeCSV(path string, columns []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
