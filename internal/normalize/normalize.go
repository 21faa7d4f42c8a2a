// Package normalize maps source-specific raw cards onto the canonical listing
// schema. Cards missing required fields are rejected with a typed reason so
// the pipeline can count drops instead of silently swallowing them.
package normalize

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mavumo/jobbyist/internal/dates"
	"github.com/mavumo/jobbyist/internal/models"
)

// Skip reasons. A card rejected with one of these is dropped, never
// propagated with blank required fields.
var (
	ErrMissingTitle   = errors.New("card has no title")
	ErrMissingCompany = errors.New("card has no company")
)

// Neutral defaults for optional fields the source did not provide.
const (
	DefaultLocation = "Unknown"
	DefaultIndustry = "Various"
	DefaultSalary   = "Market related"

	// MaxDescription bounds descriptions derived from details pages.
	MaxDescription = 500
)

// Card builds a canonical Listing from a raw card. baseURL anchors relative
// links; locale becomes the location country code; now anchors relative dates.
func Card(card models.RawCard, source string, locale string, baseURL string, now time.Time) (models.Listing, error) {
	title := clean(card.Title)
	if title == "" {
		return models.Listing{}, ErrMissingTitle
	}
	company := clean(card.Company)
	if company == "" {
		return models.Listing{}, ErrMissingCompany
	}

	posted := models.NewDate(dates.Parse(card.DateText, now))
	link := resolveLink(baseURL, card.Link)

	locationText := clean(card.Location)
	if locationText == "" {
		locationText = DefaultLocation
	}

	industry := clean(card.Industry)
	if industry == "" {
		industry = DefaultIndustry
	}

	return models.Listing{
		Source:  source,
		Title:   title,
		Company: company,
		Location: models.Location{
			Text:    locationText,
			Country: strings.ToUpper(strings.TrimSpace(locale)),
		},
		Remote:         card.Remote || mentionsRemote(card.Title, card.Location, card.Summary),
		DatePosted:     posted,
		ValidThrough:   dates.ValidThrough(posted),
		EmploymentType: clean(card.EmploymentType),
		Description:    Truncate(clean(card.Summary), MaxDescription),
		BaseSalary:     Salary(card.SalaryText),
		Identifier:     models.Identifier{Name: company, Value: link},
		Industry:       industry,
		Link:           link,
	}, nil
}

// salaryRange matches strings like "R400k - R600k" or "30000 – 45000".
var salaryRange = regexp.MustCompile(`(?i)(R)?\s*(\d[\d\s,]*)\s*(k)?\s*[-–]\s*R?\s*(\d[\d\s,]*)\s*(k)?`)

// Salary turns free salary text into a structured guess where a range can be
// read out of it, keeping the raw text otherwise. Empty input gets the
// neutral default.
func Salary(text string) models.Salary {
	text = clean(text)
	if text == "" {
		return models.Salary{Text: DefaultSalary}
	}

	m := salaryRange.FindStringSubmatch(text)
	if m == nil {
		return models.Salary{Text: text}
	}

	min := parseAmount(m[2], m[3] != "")
	max := parseAmount(m[4], m[5] != "")
	if min == 0 || max == 0 || max < min {
		return models.Salary{Text: text}
	}

	currency := ""
	if m[1] != "" {
		currency = "ZAR"
	}
	return models.Salary{Min: min, Max: max, Currency: currency, Text: text}
}

func parseAmount(digits string, thousands bool) int {
	digits = strings.NewReplacer(" ", "", ",", "").Replace(digits)
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	if thousands {
		n *= 1000
	}
	return n
}

// Truncate caps value at max bytes, marking the cut with an ellipsis. The cut
// backs up to a rune boundary so board text never yields invalid UTF-8.
func Truncate(value string, max int) string {
	if max <= 0 {
		return value
	}
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return strings.TrimSpace(value[:cut]) + "..."
}

func resolveLink(base string, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func mentionsRemote(parts ...string) bool {
	return strings.Contains(strings.ToLower(strings.Join(parts, " ")), "remote")
}

func clean(value string) string {
	return strings.Join(strings.Fields(value), " ")
}
