package matochmat

import (
	"context"
	"lunchwatch/internal/chrono"
	"lunchwatch/internal/menu"
	"lunchwatch/lib/telemetry"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func fixtureDocument(t *testing.T) *goquery.Document {
	doc, err := LoadDocument("testdata/menu.html")
	require.NoError(t, err)
	return doc
}

func documentFromString(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

// mondayWeek48 matches the dates inside testdata/menu.html.
func mondayWeek48() time.Time {
	return time.Date(2025, time.November, 24, 12, 30, 0, 0, chrono.Stockholm())
}

func TestParseWeekMenu(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	ctx, span := tracer.Start(context.Background(), "TestParseWeekMenu")
	defer span.End()

	weekMenu := ParseWeekMenu(ctx, fixtureDocument(t), mondayWeek48())

	require.Equal(t, 48, weekMenu.Week)
	require.Equal(t, 2025, weekMenu.Year)
	require.Equal(t, "Vecka 48", weekMenu.Label)

	expected := []DayMenu{
		{
			Heading: "MÅNDAG 24/11",
			Dishes: []string{
				"Pannbiff med lök och potatismos",
				"Stekt strömming med skirat smör och lingon",
			},
		},
		{
			Heading: "TISDAG 25/11",
			Dishes: []string{
				"Kycklinggryta med röd curry och jasminris",
				"Raggmunk med stekt fläsk och lingon",
			},
		},
		{
			Heading: "ONSDAG 26/11",
			Dishes: []string{
				"Köttbullar med gräddsås, pressgurka och lingon",
			},
		},
	}
	diff := cmp.Diff(expected, weekMenu.Days)
	if diff != "" {
		t.Fatal(diff)
	}

	items := weekMenu.Items()
	require.Len(t, items, 5)
	require.Equal(t, "Pannbiff med lök och potatismos", items[0])
	require.Equal(t, "Köttbullar med gräddsås, pressgurka och lingon", items[4])
}

func TestParseWeekMenuWeekFromDayDate(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	const unlabeled = `
<div class="matochmat-wrap">
<h3 class="matochmat-wrap__day-heading">MÅNDAG 24/11</h3>
<p>Pannbiff med lök och potatismos</p>
</div>`

	weekMenu := ParseWeekMenu(context.Background(), documentFromString(t, unlabeled), mondayWeek48())
	require.Equal(t, 48, weekMenu.Week)
	require.Equal(t, 2025, weekMenu.Year)

	// the last days of december belong to week 1 of the next iso year
	boundary := strings.Replace(unlabeled, "24/11", "29/12", 1)
	weekMenu = ParseWeekMenu(context.Background(), documentFromString(t, boundary), mondayWeek48())
	require.Equal(t, 1, weekMenu.Week)
	require.Equal(t, 2026, weekMenu.Year)
}

func TestParseWeekMenuWeekFallsBackToCaptureTime(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	now := time.Date(2024, time.June, 10, 12, 0, 0, 0, chrono.Stockholm())

	// no label and no date in the heading
	weekMenu := ParseWeekMenu(context.Background(), documentFromString(t, `
<div class="matochmat-wrap">
<h3 class="matochmat-wrap__day-heading">MÅNDAG</h3>
<p>Pannbiff med lök och potatismos</p>
</div>`), now)
	require.Equal(t, 24, weekMenu.Week)
	require.Equal(t, 2024, weekMenu.Year)

	// a date that does not exist is ignored rather than normalized
	weekMenu = ParseWeekMenu(context.Background(), documentFromString(t, `
<div class="matochmat-wrap">
<h3 class="matochmat-wrap__day-heading">FREDAG 31/2</h3>
<p>Pannbiff med lök och potatismos</p>
</div>`), now)
	require.Equal(t, 24, weekMenu.Week)
	require.Equal(t, 2024, weekMenu.Year)
}

func TestParseWeekMenuForeignMarkup(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	weekMenu := ParseWeekMenu(context.Background(), documentFromString(t, `
<html><body><h1>Tillfälligt nere</h1><p>Sidan är under underhåll.</p></body></html>`), mondayWeek48())

	require.Empty(t, weekMenu.Days)
	require.Empty(t, weekMenu.Items())
	// the capture week still identifies the snapshot
	require.Equal(t, 48, weekMenu.Week)
	require.Equal(t, 2025, weekMenu.Year)
}

func TestParsePrices(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	prices := ParsePrices(context.Background(), fixtureDocument(t))

	// "Dagens lunch 119 kr" names no category and must not appear
	expected := map[string]int{
		menu.CategoryLunchBuffet: 125,
		menu.CategoryEarlyLunch:  109,
		menu.CategorySenior:      99,
		menu.CategoryTakeAway:    115,
	}
	diff := cmp.Diff(expected, prices)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestParsePricesPartialAndOverwrite(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	// a category missing from the page stays missing, a repeated category
	// takes the last paragraph, and only the first amount of a paragraph
	// counts
	prices := ParsePrices(context.Background(), documentFromString(t, `
<div class="matochmat-wrap">
<p class="has-text-align-center">Lunchbuffé 125 kr (ord. 139 kr)</p>
<p class="has-text-align-center">Lunchbuffé 129 kr</p>
<p class="has-text-align-center">Take away 115 kr</p>
</div>`))

	expected := map[string]int{
		menu.CategoryLunchBuffet: 129,
		menu.CategoryTakeAway:    115,
	}
	diff := cmp.Diff(expected, prices)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSortedDays(t *testing.T) {
	weekMenu := WeekMenu{Days: []DayMenu{
		{Heading: "FREDAG 28/11", Dishes: []string{"Ugnsbakad lax"}},
		{Heading: "Veckans efterrätt", Dishes: []string{"Kladdkaka"}},
		{Heading: "MÅNDAG 24/11", Dishes: []string{"Pannbiff"}},
		{Heading: "onsdag 26/11", Dishes: []string{"Köttbullar"}},
	}}

	var headings []string
	for _, day := range weekMenu.SortedDays() {
		headings = append(headings, day.Heading)
	}
	require.Equal(t, []string{
		"MÅNDAG 24/11",
		"onsdag 26/11",
		"FREDAG 28/11",
		"Veckans efterrätt",
	}, headings)
}

func TestFetchDocument(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	page, err := os.ReadFile("testdata/menu.html")
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html; charset=utf-8")
		w.Write(page)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{TargetUrl: server.URL})
	require.NoError(t, err)

	doc, err := client.FetchDocument(context.Background())
	require.NoError(t, err)

	weekMenu := ParseWeekMenu(context.Background(), doc, mondayWeek48())
	require.Len(t, weekMenu.Days, 3)
}

func TestFetchDocumentRejectsErrorStatus(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/matochmat")
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{TargetUrl: server.URL})
	require.NoError(t, err)

	_, err = client.FetchDocument(context.Background())
	require.ErrorContains(t, err, "unexpected status")
}
