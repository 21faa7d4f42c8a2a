package filter

import (
	"testing"

	"github.com/mavumo/jobbyist/internal/models"
)

func TestEmptyFiltersMatchEverything(t *testing.T) {
	card := models.RawCard{Title: "Engineer", Company: "Acme"}
	if !Matches(card, models.Filters{}) {
		t.Fatalf("empty filters should match any card")
	}
}

func TestTitleSubstringIsCaseInsensitive(t *testing.T) {
	card := models.RawCard{Title: "Senior Engineer", Company: "Acme"}
	if !Matches(card, models.Filters{Title: "eng"}) {
		t.Fatalf("expected case-insensitive substring match")
	}
	if Matches(card, models.Filters{Title: "designer"}) {
		t.Fatalf("expected no match for unrelated title filter")
	}
}

func TestCompanyFilter(t *testing.T) {
	card := models.RawCard{Title: "Analyst", Company: "Standard Bank"}
	if !Matches(card, models.Filters{Company: "standard"}) {
		t.Fatalf("expected company substring match")
	}
	if Matches(card, models.Filters{Company: "vodacom"}) {
		t.Fatalf("expected company mismatch to drop card")
	}
}

func TestRemoteFlagIsInclusiveWhenFalse(t *testing.T) {
	remote := models.RawCard{Title: "Dev", Company: "Acme", Remote: true}
	onsite := models.RawCard{Title: "Dev", Company: "Acme", Remote: false}

	if !Matches(remote, models.Filters{Remote: false}) {
		t.Fatalf("remote=false must not exclude remote jobs")
	}
	if !Matches(onsite, models.Filters{Remote: false}) {
		t.Fatalf("remote=false must not exclude on-site jobs")
	}
	if !Matches(remote, models.Filters{Remote: true}) {
		t.Fatalf("remote=true must keep remote jobs")
	}
	if Matches(onsite, models.Filters{Remote: true}) {
		t.Fatalf("remote=true must drop on-site jobs")
	}
}
