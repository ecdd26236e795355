package chat

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/innstack/concierge/internal/reservation"
)

// months maps English and Turkish month names, full and abbreviated, to
// their number. Guests phrase dates both ways.
var months = map[string]time.Month{
	"january": time.January, "jan": time.January, "ocak": time.January,
	"february": time.February, "feb": time.February, "subat": time.February, "şubat": time.February,
	"march": time.March, "mar": time.March, "mart": time.March,
	"april": time.April, "apr": time.April, "nisan": time.April,
	"may": time.May, "mayis": time.May, "mayıs": time.May,
	"june": time.June, "jun": time.June, "haziran": time.June,
	"july": time.July, "jul": time.July, "temmuz": time.July,
	"august": time.August, "aug": time.August, "agustos": time.August, "ağustos": time.August,
	"september": time.September, "sep": time.September, "eylul": time.September, "eylül": time.September,
	"october": time.October, "oct": time.October, "ekim": time.October,
	"november": time.November, "nov": time.November, "kasim": time.November, "kasım": time.November,
	"december": time.December, "dec": time.December, "aralik": time.December, "aralık": time.December,
}

var (
	// "12-16 January 2025", "12 - 16 Ocak 2025"
	rangeSameMonth = regexp.MustCompile(`(?i)(\d{1,2})\s*-\s*(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
	// "12 January - 16 February 2025"
	rangeTwoMonths = regexp.MustCompile(`(?i)(\d{1,2})\s+(\p{L}+)\s*-\s*(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
	// "16 January 2025"
	singleDate = regexp.MustCompile(`(?i)(\d{1,2})\s+(\p{L}+)\s+(\d{4})`)
)

// ParseDate accepts YYYY-MM-DD, DD/MM/YYYY, DD.MM.YYYY and "16 January
// 2025" (English or Turkish month). The result is a UTC midnight date.
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)

	for _, layout := range []string{"2006-01-02", "02/01/2006", "02.01.2006"} {
		if t, err := time.Parse(layout, text); err == nil {
			return reservation.Day(t), nil
		}
	}

	if m := singleDate.FindStringSubmatch(text); m != nil {
		if t, ok := buildDate(m[1], m[2], m[3]); ok {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", text)
}

// ParseDateRange pulls a check-in/check-out pair out of free text, e.g.
// "12-16 January 2025" or "28 January - 2 February 2025".
func ParseDateRange(text string) (time.Time, time.Time, error) {
	if m := rangeTwoMonths.FindStringSubmatch(text); m != nil {
		year := m[5]
		start, okStart := buildDate(m[1], m[2], year)
		end, okEnd := buildDate(m[3], m[4], year)

		if okStart && okEnd {
			if end.Before(start) {
				end = end.AddDate(1, 0, 0)
			}

			return start, end, nil
		}
	}

	if m := rangeSameMonth.FindStringSubmatch(text); m != nil {
		start, okStart := buildDate(m[1], m[3], m[4])
		end, okEnd := buildDate(m[2], m[3], m[4])

		if okStart && okEnd {
			return start, end, nil
		}
	}

	return time.Time{}, time.Time{}, fmt.Errorf("no date range in %q", text)
}

func buildDate(dayStr, monthStr, yearStr string) (time.Time, bool) {
	month, ok := months[strings.ToLower(monthStr)]
	if !ok {
		return time.Time{}, false
	}

	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}
