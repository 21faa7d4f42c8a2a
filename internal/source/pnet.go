package source

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/mavumo/jobbyist/internal/models"
	"github.com/mavumo/jobbyist/internal/network"
)

const pnetBaseURL = "https://www.pnet.co.za/jobs"

// PNet scrapes pnet.co.za. The board only covers South Africa, so every
// other locale yields an empty set.
type PNet struct {
	client *network.Client
}

func NewPNet(client *network.Client) *PNet {
	return &PNet{client: client}
}

func (p *PNet) Name() string {
	return SitePNet
}

func (p *PNet) Fetch(ctx context.Context, locale string, f models.Filters) ([]models.RawCard, error) {
	if locale != "za" {
		return nil, nil
	}

	doc, err := fetchDocument(ctx, p.client, pnetBaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("pnet: %w", err)
	}

	return parsePNetCards(doc, pnetBaseURL), nil
}

func parsePNetCards(doc *goquery.Document, base string) []models.RawCard {
	var cards []models.RawCard

	doc.Find(".job-item").Each(func(_ int, s *goquery.Selection) {
		if len(cards) >= cardLimit {
			return
		}

		title := cleanText(s.Find("h2.job-title").First().Text())
		company := cleanText(s.Find("span.company-name").First().Text())
		if title == "" || company == "" {
			return
		}

		location := cleanText(s.Find("span.job-location").First().Text())
		summary := cleanText(s.Find(".job-snippet").First().Text())
		dateText := cleanText(s.Find("time").First().AttrOr("datetime", ""))
		if dateText == "" {
			dateText = cleanText(s.Find("time").First().Text())
		}
		link := absoluteURL(base, s.Find("a").First().AttrOr("href", ""))

		cards = append(cards, models.RawCard{
			Title:    title,
			Company:  company,
			Location: location,
			DateText: dateText,
			Link:     link,
			Summary:  summary,
			Remote:   isRemoteText(title, location, summary),
		})
	})

	return cards
}
