package menu

import (
	"fmt"
	"time"
)

// The four price categories the source page publishes. The set is closed,
// a paragraph that matches none of them is not a price line.
const (
	CategoryLunchBuffet = "Lunchbuffé"
	CategoryEarlyLunch  = "Tidig lunch"
	CategorySenior      = "Pensionärspris"
	CategoryTakeAway    = "Take away"
)

// Categories returns every price category in display order.
func Categories() []string {
	return []string{
		CategoryLunchBuffet,
		CategoryEarlyLunch,
		CategorySenior,
		CategoryTakeAway,
	}
}

// WeekRecord is one week's menu snapshot as it sits in menu_history.json.
type WeekRecord struct {
	Week      int       `json:"week"`
	Year      int       `json:"year"`
	Label     string    `json:"week_number"`
	Items     []string  `json:"items"`
	ScrapedAt time.Time `json:"scraped_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewWeekRecord(week, year int, items []string, capturedAt time.Time) WeekRecord {
	// an empty week still serializes as [], the log format has no null
	if items == nil {
		items = []string{}
	}
	return WeekRecord{
		Week:      week,
		Year:      year,
		Label:     WeekLabel(week),
		Items:     items,
		ScrapedAt: capturedAt,
		UpdatedAt: capturedAt,
	}
}

func WeekLabel(week int) string {
	return fmt.Sprintf("Vecka %d", week)
}

// WeekKey identifies a snapshot in the history log. There is at most one
// record per key.
type WeekKey struct {
	Week int
	Year int
}

func (r WeekRecord) Key() WeekKey {
	return WeekKey{Week: r.Week, Year: r.Year}
}

// Compare orders keys chronologically: by year, then by week.
func (k WeekKey) Compare(other WeekKey) int {
	if k.Year != other.Year {
		if k.Year < other.Year {
			return -1
		}
		return 1
	}
	if k.Week < other.Week {
		return -1
	}
	if k.Week > other.Week {
		return 1
	}
	return 0
}

func (r WeekRecord) Validate() error {
	if r.Week < 1 || r.Week > 53 {
		return fmt.Errorf("week %d out of range", r.Week)
	}
	if r.Year < 2000 {
		return fmt.Errorf("year %d out of range", r.Year)
	}
	return nil
}

// PriceRecord is one capture's price snapshot as it sits in
// price_history.json. Categories the page did not publish are absent from
// the map, never zero.
type PriceRecord struct {
	Date   string         `json:"date"`
	Prices map[string]int `json:"prices"`
}

func NewPriceRecord(date string, prices map[string]int) PriceRecord {
	if prices == nil {
		prices = map[string]int{}
	}
	return PriceRecord{Date: date, Prices: prices}
}

func (r PriceRecord) Validate() error {
	if _, err := time.Parse(time.DateOnly, r.Date); err != nil {
		return fmt.Errorf("date %q is not YYYY-MM-DD", r.Date)
	}
	for category, amount := range r.Prices {
		if amount <= 0 {
			return fmt.Errorf("price for %q is %d kr", category, amount)
		}
	}
	return nil
}
