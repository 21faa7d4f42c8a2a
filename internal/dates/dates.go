// Package dates resolves the date strings job boards publish, from literal
// dates to relative phrases like "3 days ago", into absolute timestamps.
package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mavumo/jobbyist/internal/models"
)

// literal formats seen across the supported boards, tried in order.
var layouts = []string{
	"2 Jan 2006",
	"02 Jan 2006",
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

var relativePattern = regexp.MustCompile(`^(\d+)\+?\s*(hour|day|week)s?\s+ago$`)

// Parse resolves value to an absolute time. Unparseable input falls back to
// now; the pipeline never fails on a bad date string. Saturating phrases such
// as "30+ days ago" resolve to the cap.
func Parse(value string, now time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return now
	}

	for _, layout := range layouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}

	lower := strings.ToLower(value)
	switch lower {
	case "today", "just posted", "posted today", "new":
		return now
	case "yesterday":
		return now.AddDate(0, 0, -1)
	}

	if m := relativePattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return now
		}
		switch m[2] {
		case "hour":
			return now.Add(-time.Duration(n) * time.Hour)
		case "day":
			return now.AddDate(0, 0, -n)
		case "week":
			return now.AddDate(0, 0, -7*n)
		}
	}

	return now
}

// ValidThrough applies the fixed retention policy: a listing stays valid for
// exactly models.ValidDays after its posting date.
func ValidThrough(posted models.Date) models.Date {
	return models.NewDate(posted.AddDate(0, 0, models.ValidDays))
}
