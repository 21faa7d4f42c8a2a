package models

// Filters is the filter configuration for one pipeline run. It is supplied by
// the caller and never mutated; there is no shared default state.
type Filters struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	Remote  bool   `json:"remote"`
}
