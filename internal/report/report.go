// Package report renders the static html menu page. Build shapes one run's
// comparison output into display-ready data, Render executes the embedded
// template, WriteFile puts the result on disk. The package takes plain day
// and price inputs so it stays independent of how they were scraped.
package report

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"lunchwatch/internal/diff"
	"lunchwatch/internal/menu"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/codes"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

const restaurantName = "Kajen Gävle"

// chartColors cycle across the category lines in the price chart.
var chartColors = []string{"#e53e3e", "#3182ce", "#38a169", "#d69e2e"}

// tableWindow is how many recent captures the price table shows.
const tableWindow = 5

// Day is one weekday section of the menu tab.
type Day struct {
	Heading string
	Dishes  []string
}

// Params carries everything a report is built from.
type Params struct {
	WeekLabel   string
	Days        []Day
	MenuDiff    diff.MenuDiff
	PriceDiff   diff.PriceDiff
	PriceLog    []menu.PriceRecord
	RenameHints []diff.RenameHint
	GeneratedAt time.Time
}

// Data is the template input. Every field is display-ready, the template
// does no arithmetic or formatting of its own.
type Data struct {
	Title     string
	WeekLabel string
	Stats     Stats
	Changes   []ChangeLine
	Trend     *Trend
	Renames   []RenameLine
	Days      []DaySection
	Prices    *PriceView
	UpdatedAt string
}

// Stats are the three counters above the menu.
type Stats struct {
	Days   int
	Dishes int
	New    int
}

// ChangeLine is one week-over-week price change in the warning alert.
type ChangeLine struct {
	Symbol   string
	Category string
	Previous int
	Current  int
}

// Trend summarizes the oldest retained capture against the newest one.
type Trend struct {
	Since string
	Lines []TrendLine
}

type TrendLine struct {
	Category string
	Previous int
	Current  int
	Delta    string
	Percent  string
}

// RenameLine is one likely dish rename shown under the menu alerts.
type RenameLine struct {
	From string
	To   string
}

type DaySection struct {
	Heading string
	Items   []Item
}

type Item struct {
	Name string
	New  bool
}

// PriceView feeds the prices tab. Nil means fewer than two captures exist
// and the template shows the no-history note instead.
type PriceView struct {
	LabelsJSON   template.JS
	DatasetsJSON template.JS
	Columns      []string
	Rows         []PriceRow
}

type PriceRow struct {
	Category    string
	Cells       []string
	ChangeClass string
	ChangeText  string
}

// Build turns one run's comparison output into display-ready report data.
func Build(params Params) Data {
	newDishes := map[string]bool{}
	for _, name := range params.MenuDiff.New {
		newDishes[name] = true
	}

	dishes := 0
	var days []DaySection
	for _, day := range params.Days {
		section := DaySection{Heading: day.Heading}
		for _, dish := range day.Dishes {
			section.Items = append(section.Items, Item{
				Name: dish,
				New:  newDishes[dish],
			})
		}
		dishes += len(day.Dishes)
		days = append(days, section)
	}

	data := Data{
		Title:     restaurantName,
		WeekLabel: params.WeekLabel,
		Stats:     Stats{Days: len(days), Dishes: dishes, New: len(params.MenuDiff.New)},
		Days:      days,
		Trend:     buildTrend(params.PriceLog),
		Prices:    buildPriceView(params.PriceLog),
		UpdatedAt: params.GeneratedAt.Format("2006-01-02 kl 15:04"),
	}
	if params.WeekLabel != "" {
		data.Title += " - " + params.WeekLabel
	}

	for _, change := range params.PriceDiff.Changes {
		if !change.HasBaseline || change.Delta == 0 {
			continue
		}
		symbol := "↑"
		if change.Delta < 0 {
			symbol = "↓"
		}
		data.Changes = append(data.Changes, ChangeLine{
			Symbol:   symbol,
			Category: change.Category,
			Previous: change.Previous,
			Current:  change.Current,
		})
	}

	for _, hint := range params.RenameHints {
		data.Renames = append(data.Renames, RenameLine{From: hint.From, To: hint.To})
	}

	return data
}

// buildTrend compares the oldest retained capture against the newest one,
// category by category. Nil when fewer than two captures exist, when a
// category is missing on either end, or when nothing changed.
func buildTrend(log []menu.PriceRecord) *Trend {
	if len(log) < 2 {
		return nil
	}
	oldest := log[0]
	newest := log[len(log)-1]

	trend := &Trend{Since: oldest.Date}
	for _, category := range menu.Categories() {
		previous, inOldest := oldest.Prices[category]
		current, inNewest := newest.Prices[category]
		if !inOldest || !inNewest || previous == current {
			continue
		}
		delta := current - previous
		trend.Lines = append(trend.Lines, TrendLine{
			Category: category,
			Previous: previous,
			Current:  current,
			Delta:    fmt.Sprintf("%+d", delta),
			Percent:  fmt.Sprintf("%+.1f", float64(delta)/float64(previous)*100),
		})
	}
	if len(trend.Lines) == 0 {
		return nil
	}
	return trend
}

// buildPriceView shapes the retained price log for the chart and the table.
func buildPriceView(log []menu.PriceRecord) *PriceView {
	if len(log) < 2 {
		return nil
	}
	chart := diff.PriceHistorySeries(log)

	type dataset struct {
		Label           string  `json:"label"`
		Data            []*int  `json:"data"`
		BorderColor     string  `json:"borderColor"`
		BackgroundColor string  `json:"backgroundColor"`
		Tension         float64 `json:"tension"`
		Fill            bool    `json:"fill"`
		SpanGaps        bool    `json:"spanGaps"`
	}
	var datasets []dataset
	for i, series := range chart.Series {
		color := chartColors[i%len(chartColors)]
		datasets = append(datasets, dataset{
			Label:           series.Category,
			Data:            series.Values,
			BorderColor:     color,
			BackgroundColor: color + "33",
			Tension:         0.3,
			Fill:            false,
			SpanGaps:        true,
		})
	}

	view := &PriceView{
		LabelsJSON:   mustJson(chart.Labels),
		DatasetsJSON: mustJson(datasets),
	}

	offset := len(chart.Labels) - tableWindow
	if offset < 0 {
		offset = 0
	}
	view.Columns = chart.Labels[offset:]

	for _, series := range chart.Series {
		row := PriceRow{Category: series.Category}
		recent := series.Values[offset:]
		for _, value := range recent {
			if value == nil {
				row.Cells = append(row.Cells, "-")
				continue
			}
			row.Cells = append(row.Cells, fmt.Sprintf("%d kr", *value))
		}
		row.ChangeClass, row.ChangeText = windowChange(recent)
		view.Rows = append(view.Rows, row)
	}
	return view
}

// windowChange renders the Förändring cell from the first and last prices
// present inside the table window.
func windowChange(values []*int) (class, text string) {
	var present []int
	for _, value := range values {
		if value != nil {
			present = append(present, *value)
		}
	}
	if len(present) < 2 {
		return "", "-"
	}
	first := present[0]
	last := present[len(present)-1]
	delta := last - first

	symbol := "→"
	switch {
	case delta > 0:
		class, symbol = "up", "↑"
	case delta < 0:
		class, symbol = "down", "↓"
	}
	return class, fmt.Sprintf("%s %+d kr (%+.1f%%)", symbol, delta, float64(delta)/float64(first)*100)
}

// mustJson only sees the fixed shapes above, which always marshal.
func mustJson(v any) template.JS {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return template.JS(raw)
}

// Render writes the report html for data to w.
func Render(w io.Writer, data Data) error {
	return templates.ExecuteTemplate(w, "report.html", data)
}

// WriteFile renders the report into path, creating parent directories as
// needed.
func WriteFile(ctx context.Context, path string, data Data) error {
	ctx, span := tracer.Start(ctx, "WriteFile")
	defer span.End()

	var buf bytes.Buffer
	err := Render(&buf, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render report")
		return fmt.Errorf("render report: %w", err)
	}
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create report directory")
		return fmt.Errorf("write report: %w", err)
	}
	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write report")
		return fmt.Errorf("write report: %w", err)
	}

	slog.InfoContext(ctx, "report written", "path", path, "bytes", buf.Len())
	return nil
}
