package source

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mavumo/jobbyist/internal/models"
)

// parseJSONLDCards pulls schema.org JobPosting structures out of the page's
// ld+json scripts. Boards that render listings client-side still ship these
// for search engines.
func parseJSONLDCards(doc *goquery.Document) []models.RawCard {
	var cards []models.RawCard
	seen := map[string]struct{}{}

	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return
		}

		data, err := decodeJSONLD(raw)
		if err != nil {
			return
		}

		for _, card := range cardsFromJSONLD(data) {
			key := card.Link
			if key == "" {
				key = strings.ToLower(card.Title + "|" + card.Company)
			}
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			cards = append(cards, card)
		}
	})

	return cards
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func cardsFromJSONLD(data any) []models.RawCard {
	var cards []models.RawCard

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			cards = append(cards, cardsFromJSONLD(item)...)
		}
	case map[string]any:
		if typ := strings.ToLower(stringValue(value["@type"], value["type"])); typ != "" {
			switch typ {
			case "jobposting":
				cards = append(cards, cardFromJobPosting(value))
				return cards
			case "itemlist":
				cards = append(cards, cardsFromItemList(value)...)
			}
		}
		if graph, ok := value["@graph"]; ok {
			cards = append(cards, cardsFromJSONLD(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			cards = append(cards, cardsFromJSONLD(main)...)
		}
	}

	return cards
}

func cardsFromItemList(value map[string]any) []models.RawCard {
	items, ok := value["itemListElement"]
	if !ok {
		return nil
	}

	var cards []models.RawCard
	switch list := items.(type) {
	case []any:
		for _, item := range list {
			cards = append(cards, cardsFromJSONLD(item)...)
		}
	case map[string]any:
		cards = append(cards, cardsFromJSONLD(list)...)
	}
	return cards
}

func cardFromJobPosting(value map[string]any) models.RawCard {
	card := models.RawCard{
		Title:          stringValue(value["title"], value["name"]),
		Company:        stringValue(mapValue(value["hiringOrganization"], "name")),
		Link:           stringValue(value["url"], value["@id"]),
		EmploymentType: stringValue(value["employmentType"]),
		SalaryText:     salaryTextFromJSONLD(value["baseSalary"]),
		DateText:       stringValue(value["datePosted"]),
		Summary:        cleanText(stringValue(value["description"])),
		Location:       locationFromJSONLD(value["jobLocation"]),
		Industry:       stringValue(value["industry"]),
	}
	card.Remote = isRemoteText(card.Location, card.Title)
	return card
}

func salaryTextFromJSONLD(value any) string {
	switch v := value.(type) {
	case map[string]any:
		if amount := mapValue(v["value"], "value"); amount != nil {
			return stringValue(amount)
		}
		if min := mapValue(v["value"], "minValue"); min != nil {
			max := mapValue(v["value"], "maxValue")
			currency := stringValue(v["currency"])
			if maxStr := stringValue(max); maxStr != "" {
				return strings.TrimSpace(stringValue(min) + " - " + maxStr + " " + currency)
			}
			return strings.TrimSpace(stringValue(min) + " " + currency)
		}
	case string:
		return v
	}
	return ""
}

func locationFromJSONLD(value any) string {
	switch v := value.(type) {
	case []any:
		var parts []string
		for _, item := range v {
			if loc := locationFromJSONLD(item); loc != "" {
				parts = append(parts, loc)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if addressMap, ok := v["address"].(map[string]any); ok {
			return joinAddress(addressMap)
		}
		return joinAddress(v)
	case string:
		return v
	}
	return ""
}

func joinAddress(value map[string]any) string {
	parts := []string{
		stringValue(value["streetAddress"]),
		stringValue(value["addressLocality"]),
		stringValue(value["addressRegion"]),
		stringValue(value["addressCountry"]),
	}
	var cleaned []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cleaned = append(cleaned, part)
	}
	return strings.Join(cleaned, ", ")
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case json.Number:
			return v.String()
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}
