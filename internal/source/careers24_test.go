package source

import "testing"

const careers24Page = `
<div class="jobDetailsHolder">
  <a href="/vacancies/1001/software-developer"><h3 class="jobTitle">Software Developer</h3></a>
  <span class="companyName">Acme Corp</span>
  <span class="location">Cape Town, Western Cape</span>
  <span class="jobDate">3 days ago</span>
  <p class="jobDescription">Build and maintain internal platforms.</p>
</div>
<div class="jobDetailsHolder">
  <a href="/vacancies/1002/remote-support"><h3 class="jobTitle">Remote Support Agent</h3></a>
  <span class="companyName">Beta Ltd</span>
  <span class="location">Johannesburg</span>
  <span class="jobDate">today</span>
  <p class="jobDescription">Assist customers across time zones.</p>
</div>
<div class="jobDetailsHolder">
  <span class="companyName">Orphan Co</span>
  <span class="location">Durban</span>
</div>`

func TestParseCareers24Cards(t *testing.T) {
	doc := mustDoc(t, careers24Page)
	cards := parseCareers24Cards(doc, "https://www.careers24.com/jobs/lc-za/")

	if len(cards) != 2 {
		t.Fatalf("expected 2 cards (malformed one skipped), got %d", len(cards))
	}

	first := cards[0]
	if first.Title != "Software Developer" || first.Company != "Acme Corp" {
		t.Fatalf("unexpected first card: %+v", first)
	}
	if first.Link != "https://www.careers24.com/vacancies/1001/software-developer" {
		t.Fatalf("relative link not resolved: %q", first.Link)
	}
	if first.DateText != "3 days ago" {
		t.Fatalf("unexpected date text: %q", first.DateText)
	}
	if first.Remote {
		t.Fatalf("first card should not be remote")
	}

	if !cards[1].Remote {
		t.Fatalf("expected remote hint from title text")
	}
}

func TestCareers24BaseURLUsesLocale(t *testing.T) {
	c := NewCareers24(nil, false)
	if got := c.BaseURL(" ZA "); got != "https://www.careers24.com/jobs/lc-za/" {
		t.Fatalf("unexpected base URL: %q", got)
	}
	if got := c.BaseURL("ng"); got != "https://www.careers24.com/jobs/lc-ng/" {
		t.Fatalf("unexpected base URL: %q", got)
	}
}
