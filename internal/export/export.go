// Package export writes the raw scraped items to json or csv for use
// outside the history logs.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/codes"
)

// Item is one exported menu row.
type Item struct {
	Day       string `json:"day"`
	Name      string `json:"name"`
	ScrapedAt string `json:"scraped_at"`
}

// WriteJSON writes items as a two-space indented json array, creating
// parent directories as needed. An empty input still produces a file
// holding [].
func WriteJSON(ctx context.Context, path string, items []Item) error {
	ctx, span := tracer.Start(ctx, "WriteJSON")
	defer span.End()

	if items == nil {
		items = []Item{}
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal items")
		return fmt.Errorf("export json: %w", err)
	}
	err = writeOut(path, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write file")
		return fmt.Errorf("export json: %w", err)
	}

	slog.InfoContext(ctx, "exported raw items", "format", "json", "path", path, "count", len(items))
	return nil
}

// WriteCSV writes items as csv with a day,name,scraped_at header. An empty
// input still produces the header row.
func WriteCSV(ctx context.Context, path string, items []Item) error {
	ctx, span := tracer.Start(ctx, "WriteCSV")
	defer span.End()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{{"day", "name", "scraped_at"}}
	for _, item := range items {
		records = append(records, []string{item.Day, item.Name, item.ScrapedAt})
	}
	err := w.WriteAll(records)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to encode csv")
		return fmt.Errorf("export csv: %w", err)
	}
	err = writeOut(path, buf.Bytes())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write file")
		return fmt.Errorf("export csv: %w", err)
	}

	slog.InfoContext(ctx, "exported raw items", "format", "csv", "path", path, "count", len(items))
	return nil
}

func writeOut(path string, raw []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}
