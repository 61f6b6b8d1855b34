package export

import (
	"context"
	"encoding/json"
	"lunchwatch/lib/telemetry"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{Day: "MÅNDAG 24/11", Name: "Pannbiff med lök och potatismos", ScrapedAt: "2025-11-24T11:02:00+01:00"},
		{Day: "MÅNDAG 24/11", Name: "Stekt strömming med skirat smör", ScrapedAt: "2025-11-24T11:02:00+01:00"},
		{Day: "TISDAG 25/11", Name: "Kycklinggryta med röd curry", ScrapedAt: "2025-11-24T11:02:00+01:00"},
	}
}

func TestWriteJSON(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:export")
	defer cleanup()
	ctx, span := tracer.Start(context.Background(), "TestWriteJSON")
	defer span.End()

	path := filepath.Join(t.TempDir(), "out", "menu_data.json")
	err := WriteJSON(ctx, path, testItems())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []Item
	require.NoError(t, json.Unmarshal(raw, &got))
	d := cmp.Diff(testItems(), got)
	if d != "" {
		t.Fatal(d)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:export")
	defer cleanup()
	ctx, span := tracer.Start(context.Background(), "TestWriteJSONEmpty")
	defer span.End()

	path := filepath.Join(t.TempDir(), "menu_data.json")
	err := WriteJSON(ctx, path, nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(raw))
}

func TestWriteCSV(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:export")
	defer cleanup()
	ctx, span := tracer.Start(context.Background(), "TestWriteCSV")
	defer span.End()

	path := filepath.Join(t.TempDir(), "out", "menu_data.csv")
	err := WriteCSV(ctx, path, testItems())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "day,name,scraped_at\n" +
		"MÅNDAG 24/11,Pannbiff med lök och potatismos,2025-11-24T11:02:00+01:00\n" +
		"MÅNDAG 24/11,Stekt strömming med skirat smör,2025-11-24T11:02:00+01:00\n" +
		"TISDAG 25/11,Kycklinggryta med röd curry,2025-11-24T11:02:00+01:00\n"
	d := cmp.Diff(want, string(raw))
	if d != "" {
		t.Fatal(d)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:export")
	defer cleanup()
	ctx, span := tracer.Start(context.Background(), "TestWriteCSVEmpty")
	defer span.End()

	path := filepath.Join(t.TempDir(), "menu_data.csv")
	err := WriteCSV(ctx, path, nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "day,name,scraped_at\n", string(raw))
}
