package commands

import (
	"errors"
	"log/slog"
	"lunchwatch/internal/chrono"
	"lunchwatch/internal/diff"
	"lunchwatch/internal/history"
	"lunchwatch/internal/report"
	"lunchwatch/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Re-renders the html report from stored history without scraping.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		menuLog := history.NewMenuStore(cfg.MenuHistory).Pull(ctx)
		priceLog := history.NewPriceStore(cfg.PriceHistory).Pull(ctx)
		if len(menuLog) == 0 {
			serviceutil.Fatal("render report", errors.New("menu history is empty, run scrape first"))
		}

		current := menuLog[len(menuLog)-1]
		menuDiff := latestMenuDiff(menuLog)
		priceDiff := latestPriceDiff(priceLog)

		// the history log keeps items flat, so the re-rendered report shows
		// them under a single heading instead of per weekday
		var days []report.Day
		if len(current.Items) > 0 {
			days = []report.Day{{Heading: "Veckans rätter", Dishes: current.Items}}
		}

		data := report.Build(report.Params{
			WeekLabel:   current.Label,
			Days:        days,
			MenuDiff:    menuDiff,
			PriceDiff:   priceDiff,
			PriceLog:    priceLog,
			RenameHints: diff.RenameHints(menuDiff),
			GeneratedAt: chrono.Now(),
		})
		err := report.WriteFile(ctx, cfg.ReportOutput, data)
		if err != nil {
			serviceutil.Fatal("write report", err)
		}

		slog.InfoContext(ctx, "report rendered from history",
			"week", current.Label, "path", cfg.ReportOutput)
	},
}
