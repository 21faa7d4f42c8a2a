package models

// RawCard is one listing as a source adapter saw it, before normalization.
// Fields are whatever the site exposes; anything may be empty.
type RawCard struct {
	Title          string
	Company        string
	Location       string
	DateText       string
	Link           string
	Summary        string
	SalaryText     string
	EmploymentType string
	Industry       string
	Remote         bool
}
