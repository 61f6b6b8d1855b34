package diff

import (
	"lunchwatch/internal/menu"
	"strings"

	"github.com/antzucaro/matchr"
)

type ItemClass string

const (
	ClassNew        ItemClass = "new"
	ClassRemoved    ItemClass = "removed"
	ClassContinuing ItemClass = "continuing"
)

type ClassifiedItem struct {
	Name  string
	Class ItemClass
}

// MenuDiff is the week over week comparison. New, Removed and Continuing are
// sets over trimmed dish names, multiplicities ignored. Every current dish is
// either New or Continuing, every previous dish is either Removed or
// Continuing, and nothing is both New and Removed.
type MenuDiff struct {
	New        []string
	Removed    []string
	Continuing []string
	// Items carries every current dish in page order with its classification,
	// duplicates included, for rendering.
	Items []ClassifiedItem
	// HasBaseline is false when there was no earlier week to compare against.
	HasBaseline bool
}

// CompareMenus classifies the current week against the previous one. With no
// previous week everything counts as continuing, a first observation is not
// news.
func CompareMenus(current menu.WeekRecord, previous *menu.WeekRecord) MenuDiff {
	d := MenuDiff{HasBaseline: previous != nil}

	currentNames := orderedSet(current.Items)
	currentSet := nameSet(currentNames)

	if previous == nil {
		d.Continuing = currentNames
		for _, raw := range current.Items {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}
			d.Items = append(d.Items, ClassifiedItem{Name: name, Class: ClassContinuing})
		}
		return d
	}

	previousNames := orderedSet(previous.Items)
	previousSet := nameSet(previousNames)

	for _, name := range currentNames {
		if previousSet[name] {
			d.Continuing = append(d.Continuing, name)
		} else {
			d.New = append(d.New, name)
		}
	}
	for _, name := range previousNames {
		if !currentSet[name] {
			d.Removed = append(d.Removed, name)
		}
	}
	for _, raw := range current.Items {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		class := ClassContinuing
		if !previousSet[name] {
			class = ClassNew
		}
		d.Items = append(d.Items, ClassifiedItem{Name: name, Class: class})
	}

	return d
}

// orderedSet trims every name and drops empties and repeats, keeping first
// occurrence order.
func orderedSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		name := strings.TrimSpace(item)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

type Direction string

const (
	DirectionUp        Direction = "up"
	DirectionDown      Direction = "down"
	DirectionUnchanged Direction = "unchanged"
)

// PriceChange is one category's movement between the two most recent
// captures. Direction is only meaningful when HasBaseline is true.
type PriceChange struct {
	Category    string
	Current     int
	Previous    int
	Delta       int
	Direction   Direction
	HasBaseline bool
}

type PriceDiff struct {
	// Changes lists the categories present in the current capture, in the
	// fixed display order. Categories the page stopped publishing are omitted,
	// never reported as zero.
	Changes []PriceChange
	// Changed is true when any category moved against its baseline.
	Changed bool
}

func ComparePrices(current menu.PriceRecord, previous *menu.PriceRecord) PriceDiff {
	var diff PriceDiff
	for _, category := range menu.Categories() {
		now, ok := current.Prices[category]
		if !ok {
			continue
		}

		change := PriceChange{Category: category, Current: now}
		if previous != nil {
			if before, ok := previous.Prices[category]; ok {
				change.Previous = before
				change.Delta = now - before
				change.HasBaseline = true
				switch {
				case change.Delta > 0:
					change.Direction = DirectionUp
				case change.Delta < 0:
					change.Direction = DirectionDown
				default:
					change.Direction = DirectionUnchanged
				}
			}
		}

		diff.Changes = append(diff.Changes, change)
		if change.HasBaseline && change.Delta != 0 {
			diff.Changed = true
		}
	}
	return diff
}

type CategorySeries struct {
	Category string
	// Values aligns with ChartData.Labels, nil where the capture had no price
	// for the category. Marshals to null so the chart leaves a gap instead of
	// dropping to zero.
	Values []*int
}

type ChartData struct {
	Labels []string
	Series []CategorySeries
}

// PriceHistorySeries flattens the whole retained log into chart-ready form:
// one label per capture date, oldest first, and one aligned series per
// category that ever appeared.
func PriceHistorySeries(log []menu.PriceRecord) ChartData {
	var chart ChartData
	for _, record := range log {
		chart.Labels = append(chart.Labels, record.Date)
	}

	for _, category := range menu.Categories() {
		values := make([]*int, len(log))
		any := false
		for i, record := range log {
			if amount, ok := record.Prices[category]; ok {
				amount := amount
				values[i] = &amount
				any = true
			}
		}
		if !any {
			continue
		}
		chart.Series = append(chart.Series, CategorySeries{
			Category: category,
			Values:   values,
		})
	}
	return chart
}

// RenameSimilarity is the Jaro-Winkler score a removed and a new dish must
// reach to be presented as a likely rewording.
const RenameSimilarity = 0.85

type RenameHint struct {
	From       string
	To         string
	Similarity float64
}

// RenameHints pairs removed dishes with the new dish they most resemble.
// A hint is presentation only, the diff sets stay untouched.
func RenameHints(d MenuDiff) []RenameHint {
	var hints []RenameHint
	matchedNew := make(map[string]struct{})

	for _, removed := range d.Removed {
		var mostSimilarity float64
		var mostSimilar string

		for _, added := range d.New {
			_, isMatched := matchedNew[added]
			if isMatched {
				continue
			}

			similarity := matchr.JaroWinkler(removed, added, false)
			if similarity > mostSimilarity {
				mostSimilarity = similarity
				mostSimilar = added
			}
		}

		if mostSimilarity >= RenameSimilarity {
			hints = append(hints, RenameHint{
				From:       removed,
				To:         mostSimilar,
				Similarity: mostSimilarity,
			})
			matchedNew[mostSimilar] = struct{}{}
		}
	}

	return hints
}
