package commands

import (
	"log/slog"
	"lunchwatch/internal/chrono"
	"lunchwatch/internal/history"
	"lunchwatch/internal/menu"
	"lunchwatch/lib/util/serviceutil"
	"maps"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var seedWeeks *int

func init() {
	seedWeeks = seedCmd.Flags().Int("weeks", 6, "How many weeks of demo history to generate.")
	rootCmd.AddCommand(seedCmd)
}

// demo dish pool, a random subset becomes each week's menu
var seedDishes = []string{
	"Köttbullar med potatismos",
	"Pasta carbonara",
	"Pocherad fisk med hummersås & kokt potatis",
	"Raggmunk med lingon, stekt fläsk & löksås",
	"Kycklinggryta med ris",
	"Ångad fisk med äggsås",
	"Laxfilé med dillsås",
	"Boeuf bourguignon med potatispuré",
	"Pannbiff med lök",
	"Fish and chips med remouladsås",
	"Honungsglaserad kotlettrad med rostad potatis",
	"Kycklingklubba med grönsaksris & srirachamayo",
	"Friterad kyckling med pommes & chilibearnaise",
	"Kryddiga köttfärsbiffar med rostade rotfrukter",
}

var seedCmd = &cobra.Command{
	Use:   "seed [--weeks N]",
	Short: "Fills both history logs with demo data, useful for trying out the report.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		menuStore := history.NewMenuStore(cfg.MenuHistory)
		priceStore := history.NewPriceStore(cfg.PriceHistory)

		prices := map[string]int{
			menu.CategoryLunchBuffet: 125,
			menu.CategoryEarlyLunch:  110,
			menu.CategorySenior:      100,
			menu.CategoryTakeAway:    95,
		}

		now := chrono.Now()
		for i := *seedWeeks - 1; i >= 0; i-- {
			capture := now.AddDate(0, 0, -7*i)
			year, week := chrono.WeekOf(capture)

			_, err := menuStore.Push(ctx, menu.NewWeekRecord(week, year, seedWeekMenu(), capture))
			if err != nil {
				serviceutil.Fatal("seed menu history", err)
			}

			driftPrices(prices)
			_, err = priceStore.Push(ctx, menu.NewPriceRecord(chrono.Date(capture), maps.Clone(prices)))
			if err != nil {
				serviceutil.Fatal("seed price history", err)
			}
		}

		slog.InfoContext(ctx, "seeded demo history",
			"weeks", *seedWeeks, "menu", cfg.MenuHistory, "prices", cfg.PriceHistory)
		slog.InfoContext(ctx, "run the report command to render it")
	},
}

// seedWeekMenu picks a week's worth of distinct dishes from the pool.
func seedWeekMenu() []string {
	count, err := random.IntRange(7, 10)
	if err != nil {
		serviceutil.Fatal("seed menu history", err)
	}

	var items []string
	used := map[int]bool{}
	for len(items) < count {
		idx, err := random.IntRange(0, len(seedDishes)-1)
		if err != nil {
			serviceutil.Fatal("seed menu history", err)
		}
		if used[idx] {
			continue
		}
		used[idx] = true
		items = append(items, seedDishes[idx])
	}
	return items
}

// driftPrices nudges categories upward a few kronor at a time, the way the
// real page tends to move.
func driftPrices(prices map[string]int) {
	for _, category := range menu.Categories() {
		bump, err := random.IntRange(0, 3)
		if err != nil {
			serviceutil.Fatal("seed price history", err)
		}
		prices[category] += bump
	}
}
