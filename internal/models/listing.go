package models

import (
	"strings"
	"time"
)

// ValidDays is how long a listing stays valid after its posting date.
// Fixed policy, never site-derived.
const ValidDays = 30

// Date is a day-precision timestamp serialized as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates ts to day precision in UTC.
func NewDate(ts time.Time) Date {
	ts = ts.UTC()
	return Date{time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "" || value == "null" {
		d.Time = time.Time{}
		return nil
	}
	// Older files carried full RFC 3339 timestamps.
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if ts, err := time.Parse(layout, value); err == nil {
			*d = NewDate(ts)
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Location is where a listing is based.
type Location struct {
	Text    string `json:"text"`
	Country string `json:"country"`
}

// Identifier is the stable identity of a listing: the hiring company plus the
// canonical apply/detail URL when one is known.
type Identifier struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Salary is a best-effort compensation guess. Either the structured fields or
// the free-text form may be set; both may be absent.
type Salary struct {
	Min      int    `json:"min,omitempty"`
	Max      int    `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Listing is the canonical normalized job posting, the only persisted entity.
type Listing struct {
	Source         string     `json:"source"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       Location   `json:"location"`
	Remote         bool       `json:"remote"`
	DatePosted     Date       `json:"datePosted"`
	ValidThrough   Date       `json:"validThrough"`
	EmploymentType string     `json:"employmentType"`
	Description    string     `json:"description"`
	BaseSalary     Salary     `json:"baseSalary"`
	Identifier     Identifier `json:"identifier"`
	Industry       string     `json:"industry"`
	Link           string     `json:"link"`
}

// Valid reports whether the listing carries both required fields.
func (l Listing) Valid() bool {
	return strings.TrimSpace(l.Title) != "" && strings.TrimSpace(l.Company) != ""
}
