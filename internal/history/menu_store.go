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

	"go.opentelemetry.io/otel/codes"
)

// MaxMenuWeeks bounds menu_history.json to the trailing quarter's worth of
// distinct (week, year) snapshots.
const MaxMenuWeeks = 12

// MenuStore owns menu_history.json. A run is the only writer, so there is no
// locking, just whole-log read/modify/write.
type MenuStore struct {
	path string
}

func NewMenuStore(path string) MenuStore {
	assert.NotEmptyStr(path)
	return MenuStore{path: path}
}

// Pull reads the history log in canonical order, oldest first. Absent,
// unreadable or malformed files all degrade to an empty log so one bad write
// never bricks future runs.
func (s MenuStore) Pull(ctx context.Context) []menu.WeekRecord {
	ctx, span := tracer.Start(ctx, "MenuStore.Pull")
	defer span.End()

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.DebugContext(ctx, "no menu history yet", "path", s.path)
		return nil
	}
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "failed to read menu history, starting over", "path", s.path, "err", err)
		return nil
	}

	var log []menu.WeekRecord
	err = json.Unmarshal(raw, &log)
	if err != nil {
		span.RecordError(err)
		slog.WarnContext(ctx, "malformed menu history, starting over", "path", s.path, "err", err)
		return nil
	}

	sortWeekRecords(log)
	return log
}

type MenuUpsertResult struct {
	Log []menu.WeekRecord
	// Updated is true when the record replaced an existing (week, year) entry
	// instead of appending a new one.
	Updated bool
	// Evicted holds the oldest entries dropped to keep the log at MaxMenuWeeks.
	Evicted []menu.WeekRecord
}

// Upsert merges one snapshot into the log and applies retention. Re-captures
// of a stored week replace its items and update stamp but keep the original
// scrape stamp. The input slice is reused.
func (s MenuStore) Upsert(log []menu.WeekRecord, record menu.WeekRecord) MenuUpsertResult {
	updated := false
	for i, existing := range log {
		if existing.Key() == record.Key() {
			record.ScrapedAt = existing.ScrapedAt
			log[i] = record
			updated = true
			break
		}
	}
	if !updated {
		log = append(log, record)
	}
	sortWeekRecords(log)

	var evicted []menu.WeekRecord
	if len(log) > MaxMenuWeeks {
		overflow := len(log) - MaxMenuWeeks
		evicted = slices.Clone(log[:overflow])
		log = slices.Clone(log[overflow:])
	}

	return MenuUpsertResult{Log: log, Updated: updated, Evicted: evicted}
}

// Persist atomically replaces the log file: serialize everything to a
// sibling temp file, then rename over the real one. Readers either see the
// old log or the new one, never a torn write.
func (s MenuStore) Persist(ctx context.Context, log []menu.WeekRecord) error {
	ctx, span := tracer.Start(ctx, "MenuStore.Persist")
	defer span.End()

	if log == nil {
		log = []menu.WeekRecord{}
	}
	raw, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal menu history")
		return fmt.Errorf("marshal menu history: %w", err)
	}

	err = replaceFile(s.path, raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write menu history")
		return fmt.Errorf("write menu history: %w", err)
	}

	slog.DebugContext(ctx, "persisted menu history", "path", s.path, "weeks", len(log))
	return nil
}

// Push is the per-run composition: pull, upsert, persist. The record is
// validated first, a nonsense key must never enter the log.
func (s MenuStore) Push(ctx context.Context, record menu.WeekRecord) (MenuUpsertResult, error) {
	ctx, span := tracer.Start(ctx, "MenuStore.Push")
	defer span.End()

	if err := record.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid record")
		return MenuUpsertResult{}, fmt.Errorf("invalid menu record: %w", err)
	}

	result := s.Upsert(s.Pull(ctx), record)
	err := s.Persist(ctx, result.Log)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist menu history")
		return MenuUpsertResult{}, err
	}
	return result, nil
}

func sortWeekRecords(log []menu.WeekRecord) {
	slices.SortFunc(log, func(a, b menu.WeekRecord) int {
		return a.Key().Compare(b.Key())
	})
}
