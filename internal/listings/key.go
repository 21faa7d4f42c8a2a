// Package listings holds the persisted listing set: identity keys, the pure
// merge/diff core, and JSON file IO.
package listings

import (
	"fmt"
	"strings"

	"github.com/mavumo/jobbyist/internal/models"
)

const keySeparator = "::"

// KeyMode selects the dedup identity. The boards disagree about what makes
// two postings "the same job", so the choice is configuration, not code.
type KeyMode string

const (
	// KeyTitleCompany treats the (title, company) pair as the identity.
	KeyTitleCompany KeyMode = "title-company"
	// KeyURL uses the canonical listing URL, falling back to the
	// title+company pair for cards scraped without one.
	KeyURL KeyMode = "url"
)

// ParseKeyMode validates a configured key mode string.
func ParseKeyMode(value string) (KeyMode, error) {
	switch KeyMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", KeyTitleCompany:
		return KeyTitleCompany, nil
	case KeyURL:
		return KeyURL, nil
	default:
		return "", fmt.Errorf("unknown dedup key mode: %s", value)
	}
}

// Normalize collapses whitespace and case for key comparison.
func Normalize(value string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(value)))
	return strings.Join(fields, " ")
}

// Key builds the dedup key for a listing. A listing missing both required
// fields has no identity; ok is false and the record counts as invalid.
func Key(l models.Listing, mode KeyMode) (string, bool) {
	if mode == KeyURL {
		if link := strings.TrimSpace(strings.ToLower(l.Link)); link != "" {
			return link, true
		}
	}

	title := Normalize(l.Title)
	company := Normalize(l.Company)
	if title == "" || company == "" {
		return "", false
	}
	return title + keySeparator + company, true
}
