package source

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse document: %v", err)
	}
	return doc
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://www.careers24.com/jobs/lc-za/"
	cases := []struct {
		href string
		want string
	}{
		{"/vacancies/123", "https://www.careers24.com/vacancies/123"},
		{"https://other.com/a", "https://other.com/a"},
		{"//cdn.example.com/asset", "https://cdn.example.com/asset"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := absoluteURL(base, tc.href); got != tc.want {
			t.Fatalf("absoluteURL(%q) = %q, want %q", tc.href, got, tc.want)
		}
	}
}

func TestExtractSalaryText(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Package: R450 000 - R600 000 per annum plus benefits.</p></body></html>`)
	got := extractSalaryText(doc)
	if !strings.Contains(got, "R450 000") {
		t.Fatalf("unexpected salary text: %q", got)
	}

	doc = mustDoc(t, `<html><body><p>No compensation details here.</p></body></html>`)
	if got := extractSalaryText(doc); got != "" {
		t.Fatalf("expected empty salary, got %q", got)
	}
}

func TestExtractDescriptionPrefersMeta(t *testing.T) {
	doc := mustDoc(t, `
<html><head><meta name="description" content="Join our analytics team."></head>
<body><p>Fallback paragraph.</p></body></html>`)
	if got := extractDescription(doc); got != "Join our analytics team." {
		t.Fatalf("unexpected description: %q", got)
	}

	doc = mustDoc(t, `<html><body><p>First paragraph wins.</p></body></html>`)
	if got := extractDescription(doc); got != "First paragraph wins." {
		t.Fatalf("unexpected fallback description: %q", got)
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  Senior\n\tDeveloper &amp; Lead  "); got != "Senior Developer & Lead" {
		t.Fatalf("cleanText() = %q", got)
	}
}
