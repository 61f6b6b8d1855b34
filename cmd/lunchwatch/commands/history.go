package commands

import (
	"fmt"
	"lunchwatch/internal/history"
	"lunchwatch/internal/menu"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Prints the stored menu and price history.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		menuLog := history.NewMenuStore(cfg.MenuHistory).Pull(ctx)
		if len(menuLog) == 0 {
			fmt.Println("Ingen menyhistorik än.")
		} else {
			t := newTable()
			t.AppendHeader(table.Row{"Vecka", "År", "Rätter", "Skrapad", "Uppdaterad"})
			for _, record := range menuLog {
				t.AppendRow(table.Row{
					record.Label,
					record.Year,
					len(record.Items),
					record.ScrapedAt.Format(time.DateOnly),
					record.UpdatedAt.Format(time.DateOnly),
				})
			}
			t.Render()
		}

		priceLog := history.NewPriceStore(cfg.PriceHistory).Pull(ctx)
		if len(priceLog) == 0 {
			fmt.Println("Ingen prishistorik än.")
			return
		}

		header := table.Row{"Datum"}
		for _, category := range menu.Categories() {
			header = append(header, category)
		}
		t := newTable()
		t.AppendHeader(header)
		for _, record := range priceLog {
			row := table.Row{record.Date}
			for _, category := range menu.Categories() {
				if amount, ok := record.Prices[category]; ok {
					row = append(row, fmt.Sprintf("%d kr", amount))
				} else {
					row = append(row, "-")
				}
			}
			t.AppendRow(row)
		}
		t.Render()
	},
}
