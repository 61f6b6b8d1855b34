package matochmat

import (
	"context"
	"log/slog"
	"lunchwatch/internal/chrono"
	"lunchwatch/internal/menu"
	"lunchwatch/lib/textutil"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// DayMenu is one weekday section of the page, dishes in page order.
type DayMenu struct {
	Heading string
	Dishes  []string
}

// WeekMenu is everything the menu portion of the page says about one week.
type WeekMenu struct {
	Week  int
	Year  int
	Label string
	Days  []DayMenu
}

// Items flattens every day's dishes into page order, the shape the history
// log stores.
func (m WeekMenu) Items() []string {
	var items []string
	for _, day := range m.Days {
		items = append(items, day.Dishes...)
	}
	return items
}

var weekdayRank = map[string]int{
	"måndag":  1,
	"tisdag":  2,
	"onsdag":  3,
	"torsdag": 4,
	"fredag":  5,
	"lördag":  6,
	"söndag":  7,
}

func dayRank(heading string) int {
	first, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(heading)), " ")
	if rank, ok := weekdayRank[first]; ok {
		return rank
	}
	return 99
}

// SortedDays returns the day sections in Swedish weekday order, going by the
// first word of each heading. Headings that name no weekday sort last, in
// page order.
func (m WeekMenu) SortedDays() []DayMenu {
	days := slices.Clone(m.Days)
	slices.SortStableFunc(days, func(a, b DayMenu) int {
		ra := dayRank(a.Heading)
		rb := dayRank(b.Heading)
		if ra < rb {
			return -1
		}
		if ra > rb {
			return 1
		}
		return 0
	})
	return days
}

// ParseWeekMenu extracts the weekday sections of the menu page. A page whose
// markup no longer matches yields a menu with zero days, which callers
// surface as the page-structure-changed warning.
func ParseWeekMenu(ctx context.Context, doc *goquery.Document, now time.Time) WeekMenu {
	ctx, span := tracer.Start(ctx, "ParseWeekMenu")
	defer span.End()

	type dishKey struct {
		day  string
		name string
	}
	seen := map[dishKey]bool{}

	var days []DayMenu
	doc.Find("h3.matochmat-wrap__day-heading").Each(func(_ int, heading *goquery.Selection) {
		day := DayMenu{Heading: textutil.CleanText(heading.Text())}
		if day.Heading == "" {
			return
		}

		for sibling := heading.Next(); sibling.Length() > 0; sibling = sibling.Next() {
			// the next heading or the closing menu-text block ends the day
			if sibling.Is("h3") || sibling.Is("div.matochmat__menu-text") {
				break
			}
			if !sibling.Is("p") || sibling.Is("p.has-text-align-center") || sibling.Is("p.matochmat__menu-text") {
				continue
			}

			dish := textutil.CleanText(sibling.Text())
			// anything this short is markup noise, not a dish
			if utf8.RuneCountInString(dish) <= 5 {
				continue
			}
			key := dishKey{day: day.Heading, name: dish}
			if seen[key] {
				continue
			}
			seen[key] = true
			day.Dishes = append(day.Dishes, dish)
		}

		if len(day.Dishes) > 0 {
			days = append(days, day)
		}
	})

	year, week := detectWeek(doc, days, now)
	slog.DebugContext(ctx, "parsed week menu",
		"week", week, "year", year, "days", len(days))

	return WeekMenu{
		Week:  week,
		Year:  year,
		Label: menu.WeekLabel(week),
		Days:  days,
	}
}

var weekLabelRegex = regexp.MustCompile(`[Vv]ecka\s*(\d+)`)
var dayDateRegex = regexp.MustCompile(`(\d{1,2})/(\d{1,2})`)

// detectWeek figures out which week the page describes. Preference order: an
// explicit "Vecka N" text, the d/m date inside the first day heading, the
// week of the capture time.
func detectWeek(doc *goquery.Document, days []DayMenu, now time.Time) (year, week int) {
	if labeled, ok := weekFromLabel(doc); ok {
		return now.Year(), labeled
	}
	if y, w, ok := weekFromDayDate(days, now); ok {
		return y, w
	}
	return chrono.WeekOf(now)
}

func weekFromLabel(doc *goquery.Document) (int, bool) {
	week := 0
	doc.Find("h2, h3, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		groups := weekLabelRegex.FindStringSubmatch(textutil.CleanText(s.Text()))
		if len(groups) < 2 {
			return true
		}
		parsed, err := strconv.Atoi(groups[1])
		if err != nil || parsed < 1 || parsed > 53 {
			return true
		}
		week = parsed
		return false
	})
	return week, week > 0
}

// weekFromDayDate derives the week from the date in the first day heading,
// like "MÅNDAG 24/11". The year is taken from the capture time, the page
// itself never names one.
func weekFromDayDate(days []DayMenu, now time.Time) (year, week int, ok bool) {
	if len(days) == 0 {
		return 0, 0, false
	}
	groups := dayDateRegex.FindStringSubmatch(days[0].Heading)
	if len(groups) < 3 {
		return 0, 0, false
	}
	day, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])

	date := time.Date(now.Year(), time.Month(month), day, 12, 0, 0, 0, chrono.Stockholm())
	// time.Date normalizes nonsense like 31/2 into early march, which means
	// the heading did not contain a real date
	if date.Day() != day || date.Month() != time.Month(month) {
		return 0, 0, false
	}
	year, week = date.ISOWeek()
	return year, week, true
}

var priceRegex = regexp.MustCompile(`(\d+)\s*kr`)

// categoryMatchers are checked in order, the first keyword hit decides which
// category a paragraph prices.
var categoryMatchers = []struct {
	category string
	keywords []string
}{
	{menu.CategoryLunchBuffet, []string{"lunchbuffé"}},
	{menu.CategoryEarlyLunch, []string{"10-11"}},
	{menu.CategorySenior, []string{"pensionär"}},
	{menu.CategoryTakeAway, []string{"takeaway"}},
}

// ParsePrices extracts the price list from the centered paragraphs. The first
// "N kr" amount in a paragraph counts, a later paragraph for the same
// category overwrites an earlier one. Categories the page does not name stay
// absent, they are never filled with zero.
func ParsePrices(ctx context.Context, doc *goquery.Document) map[string]int {
	ctx, span := tracer.Start(ctx, "ParsePrices")
	defer span.End()

	prices := map[string]int{}
	doc.Find("p.has-text-align-center").Each(func(_ int, s *goquery.Selection) {
		text := textutil.CleanText(s.Text())
		groups := priceRegex.FindStringSubmatch(strings.ToLower(text))
		if len(groups) < 2 {
			return
		}
		amount, err := strconv.Atoi(groups[1])
		if err != nil || amount <= 0 {
			return
		}

		for _, matcher := range categoryMatchers {
			if textutil.MatchName(text, matcher.keywords) {
				prices[matcher.category] = amount
				break
			}
		}
	})

	slog.DebugContext(ctx, "parsed prices", "categories", len(prices))
	return prices
}
