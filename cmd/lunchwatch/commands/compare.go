package commands

import (
	"lunchwatch/internal/diff"
	"lunchwatch/internal/menu"
)

// latestMenuDiff compares the newest stored week against the one before it.
// An empty log yields a baseline-less diff.
func latestMenuDiff(log []menu.WeekRecord) diff.MenuDiff {
	if len(log) == 0 {
		return diff.MenuDiff{}
	}
	current := log[len(log)-1]
	var previous *menu.WeekRecord
	if len(log) >= 2 {
		previous = &log[len(log)-2]
	}
	return diff.CompareMenus(current, previous)
}

func latestPriceDiff(log []menu.PriceRecord) diff.PriceDiff {
	if len(log) == 0 {
		return diff.PriceDiff{}
	}
	current := log[len(log)-1]
	var previous *menu.PriceRecord
	if len(log) >= 2 {
		previous = &log[len(log)-2]
	}
	return diff.ComparePrices(current, previous)
}
