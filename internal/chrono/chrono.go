package chrono

import (
	"time"
)

var stockholm *time.Location

func init() {
	var err error
	stockholm, err = time.LoadLocation("Europe/Stockholm")
	if err != nil {
		panic(err)
	}
}

// Stockholm returns a [*time.Location] for Europe/Stockholm.
func Stockholm() *time.Location {
	return stockholm
}

// force the timezone to Europe/Stockholm because the menu page publishes
// Swedish weekday dates and the scraper may run on machines pinned to other
// regions, which disturbs week arithmetic based on
// <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(stockholm)
}

// WeekOf returns the ISO year and week number of t in the site's timezone.
func WeekOf(t time.Time) (year, week int) {
	return t.In(stockholm).ISOWeek()
}

// Date returns the "YYYY-MM-DD" form of t in the site's timezone.
func Date(t time.Time) string {
	return t.In(stockholm).Format(time.DateOnly)
}
