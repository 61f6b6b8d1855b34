package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"lunchwatch/internal/assert"
	"lunchwatch/internal/menu"
	"os"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
)

// PriceRetentionMonths bounds price_history.json to captures dated within
// this many calendar months of the newest capture in the log.
const PriceRetentionMonths = 6

// PriceStore owns price_history.json, one entry per capture date.
type PriceStore struct {
	path string
}

func NewPriceStore(path string) PriceStore {
	assert.NotEmptyStr(path)
	return PriceStore{path: path}
}

// Pull reads the price log in ascending date order, degrading to an empty
// log on absent or malformed storage.
func (s PriceStore) Pull(ctx context.Context) []menu.PriceRecord {
	ctx, span := tracer.Start(ctx, "PriceStore.Pull")
	defer span.End()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.DebugContext(ctx, "no price history yet", "path", s.path)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to read price history, starting over", "path", s.path, "err", err)
		return nil
	}

	var log []menu.PriceRecord
	err = json.Unmarshal(raw, &log)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "malformed price history, starting over", "path", s.path, "err", err)
		return nil
	}

	sortPriceRecords(log)
	return log
}

type PriceUpsertResult struct {
	Log []menu.PriceRecord
	// Updated is true when the record replaced an existing capture for the
	// same date instead of appending a new one.
	Updated bool
	// Evicted holds the captures dropped for falling out of the retention
	// window.
	Evicted []menu.PriceRecord
}

// Upsert merges one capture into the log, then evicts captures dated before
// the retention window measured back from the newest date. A same-date
// re-capture replaces the whole price map. The input slice is reused.
func (s PriceStore) Upsert(log []menu.PriceRecord, record menu.PriceRecord) PriceUpsertResult {
	updated := false
	for i, existing := range log {
		if existing.Date == record.Date {
			log[i] = record
			updated = true
			break
		}
	}
	if !updated {
		log = append(log, record)
	}
	sortPriceRecords(log)

	var evicted []menu.PriceRecord
	cutoff, ok := retentionCutoff(log[len(log)-1].Date)
	if ok {
		keepFrom := 0
		for keepFrom < len(log) && log[keepFrom].Date < cutoff {
			keepFrom++
		}
		if keepFrom > 0 {
			evicted = slices.Clone(log[:keepFrom])
			log = slices.Clone(log[keepFrom:])
		}
	}

	return PriceUpsertResult{Log: log, Updated: updated, Evicted: evicted}
}

// retentionCutoff returns the oldest capture date (inclusive) that stays in
// the log. Dates compare lexicographically because they are YYYY-MM-DD.
func retentionCutoff(newest string) (string, bool) {
	parsed, err := time.Parse(time.DateOnly, newest)
	if err != nil {
		// hand-edited garbage, skip the sweep rather than guess a window
		return "", false
	}
	return parsed.AddDate(0, -PriceRetentionMonths, 0).Format(time.DateOnly), true
}

// Persist atomically replaces the log file, same scheme as the menu store.
func (s PriceStore) Persist(ctx context.Context, log []menu.PriceRecord) error {
	ctx, span := tracer.Start(ctx, "PriceStore.Persist")
	defer span.End()

	if log == nil {
		log = []menu.PriceRecord{}
	}
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal price history")
		return fmt.Errorf("marshal price history: %w", err)
	}

	err = replaceFile(s.path, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write price history")
		return fmt.Errorf("write price history: %w", err)
	}

	slog.DebugContext(ctx, "persisted price history", "path", s.path, "captures", len(log))
	return nil
}

// Push is the per-run composition: pull, upsert, persist. The record is
// validated first, an unparseable date would poison the retention sweep.
func (s PriceStore) Push(ctx context.Context, record menu.PriceRecord) (PriceUpsertResult, error) {
	ctx, span := tracer.Start(ctx, "PriceStore.Push")
	defer span.End()

	if err := record.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid record")
		return PriceUpsertResult{}, fmt.Errorf("invalid price record: %w", err)
	}

	result := s.Upsert(s.Pull(ctx), record)
	err := s.Persist(ctx, result.Log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist price history")
		return PriceUpsertResult{}, err
	}
	return result, nil
}

func sortPriceRecords(log []menu.PriceRecord) {
	slices.SortFunc(log, func(a, b menu.PriceRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
}
