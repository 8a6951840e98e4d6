// Package export writes processing run reports as parquet or jsonl
// datasets, keyed by file extension.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/shelfmark/shelfmark/internal/book"
)

// Row is one processed file in a run report.
type Row struct {
	OriginalFilename string   `json:"original_filename" parquet:"original_filename"`
	FinalPath        string   `json:"final_path" parquet:"final_path"`
	Success          bool     `json:"success" parquet:"success"`
	Title            string   `json:"title" parquet:"title"`
	Subtitle         string   `json:"subtitle" parquet:"subtitle"`
	Authors          []string `json:"authors" parquet:"authors,list"`
	Series           string   `json:"series" parquet:"series"`
	SeriesIndex      int32    `json:"series_index" parquet:"series_index"`
	Language         string   `json:"language" parquet:"language"`
	Publisher        string   `json:"publisher" parquet:"publisher"`
	ISBN13           string   `json:"isbn13" parquet:"isbn13"`
	Year             int32    `json:"year" parquet:"year"`
	Source           string   `json:"source" parquet:"source"`
	Confidence       float64  `json:"confidence" parquet:"confidence"`
	Errors           []string `json:"errors" parquet:"errors,list"`
	ProcessedAt      string   `json:"processed_at" parquet:"processed_at"`
}

// RowFor flattens a processed record into a report row.
func RowFor(rec *book.Record, finalPath string, success bool) Row {
	row := Row{
		OriginalFilename: rec.OriginalFilename,
		FinalPath:        finalPath,
		Success:          success,
		Title:            rec.Title,
		Subtitle:         rec.Subtitle,
		Authors:          rec.Authors,
		Series:           rec.Series,
		SeriesIndex:      int32(rec.SeriesIndex),
		Language:         rec.Language,
		Publisher:        rec.Publisher,
		ISBN13:           rec.ISBN13,
		Year:             int32(rec.Year),
		Source:           rec.Source,
		Errors:           rec.Errors,
		ProcessedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if rec.Confidence != nil {
		row.Confidence = *rec.Confidence
	}
	return row
}

// Write dispatches on the destination extension: .parquet or .jsonl.
func Write(path string, rows []Row) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".parquet":
		return writeParquet(path, rows)
	case ".jsonl":
		return writeJSONL(path, rows)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: .parquet, .jsonl)", ext)
	}
}

func writeParquet(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer f.Close()

	w := parquet.NewGenericWriter[Row](f)
	if _, err := w.Write(rows); err != nil {
		w.Close()
		return fmt.Errorf("failed to write parquet: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func writeJSONL(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create jsonl file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}
	return bw.Flush()
}
