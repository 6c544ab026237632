// Package dateutils provides common date operations used throughout the application.
package dateutils

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
	DateLayoutFull     = "2006-01-02 15:04:05"
)

// CommonFormats is a list of standard formats to try when parsing dates
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutFull,
	DateLayoutEuropean,
	DateLayoutUS,
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 January 2006",
}

// ParseDate attempts to parse a date string using multiple common formats.
func ParseDate(dateStr string) (time.Time, error) {
	cleanDate := CleanDateString(dateStr)
	if cleanDate == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// FormatDate formats a time.Time value according to the specified layout.
// If no layout is provided, DateLayoutISO is used.
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)

	re := regexp.MustCompile(`\s+`)
	dateStr = re.ReplaceAllString(dateStr, " ")

	return dateStr
}

// StartOfDay returns the date with the time component zeroed, keeping the location.
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// StartOfMonth returns the first day of the month for a given date
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
}

// EndOfMonth returns the last day of the month for a given date
func EndOfMonth(date time.Time) time.Time {
	return StartOfMonth(date).AddDate(0, 1, -1)
}

// AddMonthsClamped adds calendar months, clamping the day of month to the
// target month's last day instead of letting it roll over. Jan 31 plus one
// month yields Feb 28 (or 29 in leap years), never Mar 2. Negative month
// counts move backwards with the same clamping.
func AddMonthsClamped(date time.Time, months int) time.Time {
	anchor := time.Date(date.Year(), date.Month(), 1,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	target := anchor.AddDate(0, months, 0)

	day := date.Day()
	if last := EndOfMonth(target).Day(); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

// MonthsBack returns the date the given number of calendar months before,
// with day-of-month clamping. Used for lookback window starts.
func MonthsBack(date time.Time, months int) time.Time {
	return AddMonthsClamped(date, -months)
}

// DaysBetween returns the number of whole days from a to b at day precision.
// Negative when b is before a. Rounding absorbs DST transitions.
func DaysBetween(a, b time.Time) int {
	start := StartOfDay(a)
	end := StartOfDay(b)
	return int(math.Round(end.Sub(start).Hours() / 24))
}

// CeilDaysUntil returns the number of days from now until due, rounded up.
// Zero or negative means due has passed. Exactly one day away returns 1.
func CeilDaysUntil(now, due time.Time) int {
	diff := due.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}
	return days
}
