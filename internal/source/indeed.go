package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/network"
)

// Indeed scrapes the country-specific Indeed portals, combining embedded
// JSON-LD postings with the rendered result cards.
type Indeed struct {
	client *network.Client
}

func NewIndeed(client *network.Client) *Indeed {
	return &Indeed{client: client}
}

func (i *Indeed) Name() string {
	return SiteIndeed
}

func (i *Indeed) Fetch(ctx context.Context, locale string, f models.Filters) ([]models.RawCard, error) {
	searchURL := buildIndeedURL(locale, f)
	doc, err := fetchDocument(ctx, i.client, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("indeed: %w", err)
	}

	cards := parseJSONLDCards(doc)
	cards = append(cards, parseIndeedCards(doc, indeedBaseURL(locale))...)
	if len(cards) > cardLimit {
		cards = cards[:cardLimit]
	}
	return cards, nil
}

func buildIndeedURL(locale string, f models.Filters) string {
	values := url.Values{}
	if f.Title != "" {
		values.Set("q", f.Title)
	}
	if f.Remote {
		values.Set("sc", "0kf:attr(DSQF7);")
	}
	base := indeedBaseURL(locale) + "/jobs"
	if encoded := values.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}

func indeedBaseURL(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" || locale == "us" || locale == "usa" {
		return "https://www.indeed.com"
	}
	return fmt.Sprintf("https://%s.indeed.com", locale)
}

func parseIndeedCards(doc *goquery.Document, base string) []models.RawCard {
	var cards []models.RawCard

	doc.Find("a.tapItem").Each(func(_ int, s *goquery.Selection) {
		if len(cards) >= cardLimit {
			return
		}

		title := cleanText(s.Find("h2.jobTitle span").First().Text())
		company := cleanText(s.Find("span.companyName").First().Text())
		if title == "" || company == "" {
			return
		}

		location := cleanText(s.Find("div.companyLocation").First().Text())
		summary := cleanText(s.Find("div.job-snippet").Text())
		posted := cleanText(s.Find("span.date").Text())
		link := absoluteURL(base, s.AttrOr("href", ""))

		cards = append(cards, models.RawCard{
			Title:    title,
			Company:  company,
			Location: location,
			DateText: posted,
			Link:     link,
			Summary:  summary,
			Remote:   isRemoteText(location, summary),
		})
	})

	return cards
}
