package source

import (
	"context"
	"testing"

	"github.com/mavumo/jobbyist/internal/models"
)

func TestParsePNetCards(t *testing.T) {
	doc := mustDoc(t, `
<div class="job-item">
  <a href="/jobs/5001"><h2 class="job-title">Data Analyst</h2></a>
  <span class="company-name">Standard Bank</span>
  <span class="job-location">Sandton</span>
  <time datetime="2024-03-10">10 Mar</time>
  <p class="job-snippet">Analyse portfolio performance.</p>
</div>
<div class="job-item">
  <h2 class="job-title">No Company Here</h2>
</div>`)

	cards := parsePNetCards(doc, pnetBaseURL)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	card := cards[0]
	if card.Company != "Standard Bank" || card.Location != "Sandton" {
		t.Fatalf("unexpected card: %+v", card)
	}
	if card.DateText != "2024-03-10" {
		t.Fatalf("expected datetime attribute, got %q", card.DateText)
	}
	if card.Link != "https://www.pnet.co.za/jobs/5001" {
		t.Fatalf("unexpected link: %q", card.Link)
	}
}

func TestPNetOnlyCoversSouthAfrica(t *testing.T) {
	p := NewPNet(nil)
	cards, err := p.Fetch(context.Background(), "ng", models.Filters{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected no cards outside za, got %d", len(cards))
	}
}
