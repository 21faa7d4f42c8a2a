package source

import (
	"strings"
	"testing"
)

func TestParseJSONLDCards(t *testing.T) {
	doc := mustDoc(t, `
<!doctype html>
<html>
<head>
  <script type="application/ld+json">
  {
    "@context": "http://schema.org",
    "@type": "JobPosting",
    "title": "Go Developer",
    "hiringOrganization": {"name": "Acme"},
    "jobLocation": {"address": {"addressLocality": "Nairobi", "addressCountry": "KE"}},
    "url": "https://example.com/job1",
    "datePosted": "2024-01-15",
    "employmentType": "FULL_TIME",
    "description": "Build APIs"
  }
  </script>
  <script type="application/ld+json">
  {
    "@graph": [
      {
        "@type": "JobPosting",
        "title": "Platform Engineer",
        "hiringOrganization": {"name": "Beta"},
        "jobLocation": {"address": {"addressLocality": "Remote"}},
        "url": "https://example.com/job2",
        "datePosted": "2024-01-16",
        "description": "Remote role"
      }
    ]
  }
  </script>
</head>
<body></body>
</html>`)

	cards := parseJSONLDCards(doc)
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}

	first := cards[0]
	if first.Title != "Go Developer" || first.Company != "Acme" {
		t.Fatalf("unexpected first card: %+v", first)
	}
	if first.DateText != "2024-01-15" || first.EmploymentType != "FULL_TIME" {
		t.Fatalf("unexpected metadata: %+v", first)
	}
	if !strings.Contains(first.Location, "Nairobi") {
		t.Fatalf("unexpected location: %q", first.Location)
	}

	if !cards[1].Remote {
		t.Fatalf("expected remote hint from location")
	}
}

func TestJSONLDSalaryText(t *testing.T) {
	card := cardFromJobPosting(map[string]any{
		"title":              "SRE",
		"hiringOrganization": map[string]any{"name": "Gamma"},
		"url":                "https://example.com/job3",
		"baseSalary": map[string]any{
			"currency": "KES",
			"value":    map[string]any{"minValue": 100000.0, "maxValue": 150000.0},
		},
	})

	if !strings.Contains(card.SalaryText, "KES") || !strings.Contains(card.SalaryText, "100000") {
		t.Fatalf("unexpected salary text: %q", card.SalaryText)
	}
}

func TestParseJSONLDCardsDedupesByURL(t *testing.T) {
	script := `{"@type": "JobPosting", "title": "Dev", "hiringOrganization": {"name": "Acme"}, "url": "https://example.com/same"}`
	doc := mustDoc(t, `
<script type="application/ld+json">`+script+`</script>
<script type="application/ld+json">`+script+`</script>`)

	cards := parseJSONLDCards(doc)
	if len(cards) != 1 {
		t.Fatalf("expected URL dedupe, got %d cards", len(cards))
	}
}

func TestDecodeJSONLDStripsLineSeparators(t *testing.T) {
	raw := "{\"@type\": \"JobPosting\",\u2028 \"title\": \"Dev\"\u2029}"
	data, err := decodeJSONLD(raw)
	if err != nil {
		t.Fatalf("decodeJSONLD() error = %v", err)
	}
	posting, ok := data.(map[string]any)
	if !ok {
		t.Fatalf("decodeJSONLD() = %T, want object", data)
	}
	if posting["title"] != "Dev" {
		t.Fatalf("title = %v, want Dev", posting["title"])
	}
}
