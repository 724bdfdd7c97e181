package util

import (
	"time"
)

// Daily stat rows are keyed by the calendar day in America/New_York, so
// every writer and reader must resolve "today" in that zone.
var nyLocation *time.Location

func init() {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		panic("tzdata missing America/New_York: " + err.Error())
	}
	nyLocation = loc
}

// NYLocation returns the America/New_York location.
func NYLocation() *time.Location {
	return nyLocation
}

// NowNY returns the current time in America/New_York.
func NowNY() time.Time {
	return time.Now().In(nyLocation)
}

// TodayNY returns today's NY-local calendar day as YYYY-MM-DD.
func TodayNY() string {
	return NowNY().Format(time.DateOnly)
}

// DateNY formats a time as its NY-local calendar day.
func DateNY(t time.Time) string {
	return t.In(nyLocation).Format(time.DateOnly)
}

// ParseDateNY parses a YYYY-MM-DD string as midnight NY-local.
func ParseDateNY(s string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, nyLocation)
}

// PtrString converts a string to *string, nil when empty.
func PtrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
