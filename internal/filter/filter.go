// Package filter decides whether a scraped card survives the caller's filter
// configuration. Matching is case-insensitive substring; empty filters pass
// everything.
package filter

import (
	"strings"

	"github.com/mavumo/jobbyist/internal/models"
)

// Matches reports whether card passes f. The Remote flag requires remote
// listings when true; when false it applies no constraint, so remote jobs are
// still included.
func Matches(card models.RawCard, f models.Filters) bool {
	if !containsFold(card.Title, f.Title) {
		return false
	}
	if !containsFold(card.Company, f.Company) {
		return false
	}
	if f.Remote && !card.Remote {
		return false
	}
	return true
}

func containsFold(value string, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}
