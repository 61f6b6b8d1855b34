package commands

import (
	"fmt"
	"lunchwatch/internal/diff"
	"lunchwatch/internal/scrapers/matochmat"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// printMenu renders the scraped week on the console, one row per dish.
func printMenu(week matochmat.WeekMenu) {
	if len(week.Days) == 0 {
		return
	}
	if week.Label != "" {
		fmt.Printf("\n%s\n", week.Label)
	}

	t := newTable()
	t.AppendHeader(table.Row{"Dag", "Rätt"})
	for _, day := range week.SortedDays() {
		for _, dish := range day.Dishes {
			t.AppendRow(table.Row{day.Heading, dish})
		}
	}
	t.Render()
}

// printChanges summarizes the week-over-week comparison on the console.
func printChanges(menuDiff diff.MenuDiff, priceDiff diff.PriceDiff, hints []diff.RenameHint) {
	if !menuDiff.HasBaseline {
		fmt.Println("\nFörsta lagrade veckan, ingen jämförelse än.")
		return
	}

	if len(menuDiff.New) > 0 || len(menuDiff.Removed) > 0 {
		fmt.Printf("\nJämförelse med förra veckan (%d återkommande):\n", len(menuDiff.Continuing))
		t := newTable()
		t.AppendHeader(table.Row{"", "Rätt"})
		for _, dish := range menuDiff.New {
			t.AppendRow(table.Row{"+", dish})
		}
		for _, dish := range menuDiff.Removed {
			t.AppendRow(table.Row{"-", dish})
		}
		t.Render()
	} else {
		fmt.Println("\nSamma meny som förra veckan.")
	}

	for _, hint := range hints {
		fmt.Printf("Möjligt namnbyte: %s → %s\n", hint.From, hint.To)
	}

	var rows []table.Row
	for _, change := range priceDiff.Changes {
		if !change.HasBaseline || change.Delta == 0 {
			continue
		}
		rows = append(rows, table.Row{
			change.Category,
			fmt.Sprintf("%d kr", change.Previous),
			fmt.Sprintf("%d kr", change.Current),
			fmt.Sprintf("%+d kr", change.Delta),
		})
	}
	if len(rows) > 0 {
		fmt.Println("\nPrisändringar sedan förra uppdateringen:")
		t := newTable()
		t.AppendHeader(table.Row{"Kategori", "Förra", "Nu", "Ändring"})
		t.AppendRows(rows)
		t.Render()
	}
}
