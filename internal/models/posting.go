package models

// Posting is a single internship listing extracted from a job board.
// URL is the natural key: two postings with the same URL are the same
// listing, regardless of every other field.
type Posting struct {
	Logo        string `json:"logo,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	Salary      string `json:"salary,omitempty"`
	URL         string `json:"url"`
	PostedDate  string `json:"posted_date,omitempty"`
	Source      string `json:"source,omitempty"`
}
