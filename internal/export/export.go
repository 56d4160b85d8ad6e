// Package export writes extracted provider records to CSV, JSON, or XLSX.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/provdir/internal/directory"
)

// Format selects an output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatForFile picks the output format from a filename extension.
func FormatForFile(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export extension: %s", filepath.Ext(path))
	}
}

// Write encodes records in the given format.
func Write(w io.Writer, format Format, records []directory.Record) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatJSON:
		return WriteJSON(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unknown export format: %q", format)
	}
}

// WriteFile writes records to path, choosing the format from its extension.
func WriteFile(path string, records []directory.Record) error {
	format, err := FormatForFile(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := Write(f, format, records); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}
	return nil
}

// WriteCSV writes a header row followed by one row per record.
func WriteCSV(w io.Writer, records []directory.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(directory.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonEnvelope struct {
	Count     int                `json:"count"`
	Providers []directory.Record `json:"providers"`
}

// WriteJSON writes records in the same envelope shape the inference
// service emits, plus a count.
func WriteJSON(w io.Writer, records []directory.Record) error {
	if records == nil {
		records = []directory.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(jsonEnvelope{Count: len(records), Providers: records}); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
