package commands

import (
	"context"
	"errors"
	"log/slog"
	"lunchwatch/internal/chrono"
	"lunchwatch/internal/diff"
	"lunchwatch/internal/export"
	"lunchwatch/internal/history"
	"lunchwatch/internal/menu"
	"lunchwatch/internal/notify"
	"lunchwatch/internal/report"
	"lunchwatch/internal/scrapers/matochmat"
	"lunchwatch/lib/util/serviceutil"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes the lunch page, updates both history logs and renders the html report.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		doc := loadDocument(ctx, cfg)
		now := chrono.Now()

		week := matochmat.ParseWeekMenu(ctx, doc, now)
		prices := matochmat.ParsePrices(ctx, doc)

		// an empty extraction is worth a warning but still gets stored,
		// a week with no published menu is data too
		if len(week.Days) == 0 {
			slog.WarnContext(ctx, "no dishes found on the page", "url", cfg.TargetUrl)
		}
		if len(prices) == 0 {
			slog.WarnContext(ctx, "no prices found on the page", "url", cfg.TargetUrl)
		}

		menuStore := history.NewMenuStore(cfg.MenuHistory)
		priceStore := history.NewPriceStore(cfg.PriceHistory)

		menuResult, err := menuStore.Push(ctx, menu.NewWeekRecord(week.Week, week.Year, week.Items(), now))
		if err != nil {
			serviceutil.Fatal("persist menu history", err)
		}
		priceResult, err := priceStore.Push(ctx, menu.NewPriceRecord(chrono.Date(now), prices))
		if err != nil {
			serviceutil.Fatal("persist price history", err)
		}
		if menuResult.Updated {
			slog.InfoContext(ctx, "re-captured a stored week, items replaced",
				"week", week.Label, "year", week.Year)
		}

		menuDiff := latestMenuDiff(menuResult.Log)
		priceDiff := latestPriceDiff(priceResult.Log)
		hints := diff.RenameHints(menuDiff)

		printMenu(week)
		printChanges(menuDiff, priceDiff, hints)

		data := report.Build(report.Params{
			WeekLabel:   week.Label,
			Days:        reportDays(week),
			MenuDiff:    menuDiff,
			PriceDiff:   priceDiff,
			PriceLog:    priceResult.Log,
			RenameHints: hints,
			GeneratedAt: now,
		})
		err = report.WriteFile(ctx, cfg.ReportOutput, data)
		if err != nil {
			serviceutil.Fatal("write report", err)
		}

		if cfg.SaveToFile {
			exportItems(ctx, cfg, week, now)
		}
		sendNotification(ctx, week.Label, menuDiff, priceDiff)

		slog.InfoContext(ctx, "scrape finished",
			"week", week.Label, "dishes", len(week.Items()), "report", cfg.ReportOutput)
	},
}

// loadDocument fetches the configured page, or reads it from disk when
// local_file is set (handy against a saved copy).
func loadDocument(ctx context.Context, cfg Config) *goquery.Document {
	if cfg.LocalFile != "" {
		slog.InfoContext(ctx, "reading local page", "path", cfg.LocalFile)
		doc, err := matochmat.LoadDocument(cfg.LocalFile)
		if err != nil {
			serviceutil.Fatal("read local page", err)
		}
		return doc
	}
	if cfg.TargetUrl == "" {
		serviceutil.Fatal("read config", errors.New("config needs target_url or local_file"))
	}

	client, err := matochmat.NewClient(matochmat.ClientOptions{
		TargetUrl:          cfg.TargetUrl,
		UserAgent:          cfg.UserAgent,
		TimeoutSeconds:     cfg.TimeoutSeconds,
		InsecureSkipVerify: cfg.insecureSkipVerify(),
	})
	if err != nil {
		serviceutil.Fatal("initialize client", err)
	}

	slog.InfoContext(ctx, "fetching menu page", "url", cfg.TargetUrl)
	doc, err := client.FetchDocument(ctx)
	if err != nil {
		serviceutil.Fatal("fetch menu page", err)
	}
	return doc
}

func reportDays(week matochmat.WeekMenu) []report.Day {
	var days []report.Day
	for _, day := range week.SortedDays() {
		days = append(days, report.Day{Heading: day.Heading, Dishes: day.Dishes})
	}
	return days
}

func exportItems(ctx context.Context, cfg Config, week matochmat.WeekMenu, now time.Time) {
	scrapedAt := now.Format(time.RFC3339)
	var items []export.Item
	for _, day := range week.SortedDays() {
		for _, dish := range day.Dishes {
			items = append(items, export.Item{Day: day.Heading, Name: dish, ScrapedAt: scrapedAt})
		}
	}

	var err error
	switch strings.ToLower(cfg.OutputFormat) {
	case "json":
		err = export.WriteJSON(ctx, cfg.OutputFile+".json", items)
	case "csv":
		err = export.WriteCSV(ctx, cfg.OutputFile+".csv", items)
	default:
		slog.WarnContext(ctx, "unsupported output format, skipping export", "format", cfg.OutputFormat)
		return
	}
	if err != nil {
		serviceutil.Fatal("export raw items", err)
	}
}

// sendNotification mails the change summary when smtp is configured and the
// week actually changed. A failed send is logged, not fatal, the report and
// history writes already succeeded.
func sendNotification(ctx context.Context, weekLabel string, menuDiff diff.MenuDiff, priceDiff diff.PriceDiff) {
	cfg := notify.LoadConfigFromEnv()
	if !cfg.Enabled() {
		slog.DebugContext(ctx, "notifications not configured, skipping")
		return
	}
	msg, ok := notify.Compose(weekLabel, menuDiff, priceDiff)
	if !ok {
		slog.DebugContext(ctx, "nothing newsworthy, skipping notification")
		return
	}
	err := notify.Send(ctx, cfg, msg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to send notification", "err", err)
	}
}
