package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mavumo/jobbyist/internal/filter"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/network"
)

// Careers24 scrapes www.careers24.com country listing pages, optionally
// following each card to its details page for salary and description.
type Careers24 struct {
	client  *network.Client
	details bool
	pace    *pacer
}

func NewCareers24(client *network.Client, details bool) *Careers24 {
	return &Careers24{
		client:  client,
		details: details,
		pace:    newPacer(detailDelay),
	}
}

func (c *Careers24) Name() string {
	return SiteCareers24
}

// BaseURL returns the listing page for a locale, e.g. lc-za for South Africa.
func (c *Careers24) BaseURL(locale string) string {
	return fmt.Sprintf("https://www.careers24.com/jobs/lc-%s/", strings.ToLower(strings.TrimSpace(locale)))
}

func (c *Careers24) Fetch(ctx context.Context, locale string, f models.Filters) ([]models.RawCard, error) {
	base := c.BaseURL(locale)
	doc, err := fetchDocument(ctx, c.client, base, nil)
	if err != nil {
		return nil, fmt.Errorf("careers24: %w", err)
	}

	cards := parseCareers24Cards(doc, base)
	if !c.details {
		return cards, nil
	}

	for i := range cards {
		// Cards the filters will drop anyway are not worth a request.
		if cards[i].Link == "" || !filter.Matches(cards[i], f) {
			continue
		}
		if err := c.pace.wait(ctx); err != nil {
			return cards, nil
		}
		c.fillDetails(ctx, &cards[i])
	}

	return cards, nil
}

// fillDetails follows the card link for salary and a fuller description.
// Failures leave the card as scraped from the listing page.
func (c *Careers24) fillDetails(ctx context.Context, card *models.RawCard) {
	doc, err := fetchDocument(ctx, c.client, card.Link, nil)
	if err != nil {
		return
	}
	if salary := extractSalaryText(doc); salary != "" {
		card.SalaryText = salary
	}
	if desc := extractDescription(doc); desc != "" {
		card.Summary = desc
	}
}

func parseCareers24Cards(doc *goquery.Document, base string) []models.RawCard {
	var cards []models.RawCard

	doc.Find(".jobDetailsHolder").Each(func(_ int, s *goquery.Selection) {
		if len(cards) >= cardLimit {
			return
		}

		title := cleanText(s.Find(".jobTitle").First().Text())
		company := cleanText(s.Find(".companyName").First().Text())
		if title == "" || company == "" {
			return
		}

		location := cleanText(s.Find(".location").First().Text())
		summary := cleanText(s.Find(".jobDescription").First().Text())
		dateText := cleanText(s.Find(".jobDate").First().Text())
		link := absoluteURL(base, s.Find("a").First().AttrOr("href", ""))

		cards = append(cards, models.RawCard{
			Title:    title,
			Company:  company,
			Location: location,
			DateText: dateText,
			Link:     link,
			Summary:  summary,
			Remote:   isRemoteText(title, summary),
		})
	})

	return cards
}
