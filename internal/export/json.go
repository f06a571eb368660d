package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"internhunt/internal/models"
)

// Metadata describes the run that produced a results file.
type Metadata struct {
	TotalPostings int       `json:"total_postings"`
	ScrapedAt     time.Time `json:"scraped_at"`
	Query         string    `json:"query"`
	Location      string    `json:"location,omitempty"`
	Pages         int       `json:"pages"`
}

type resultsFile struct {
	Metadata Metadata         `json:"metadata"`
	Postings []models.Posting `json:"postings"`
}

// WriteJSON saves the run's new postings (with a metadata header) to
// dir/internships-YYYY-MM-DD.json and returns the path.
func WriteJSON(dir, query, location string, pages int, postings []models.Posting) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	out := resultsFile{
		Metadata: Metadata{
			TotalPostings: len(postings),
			ScrapedAt:     time.Now().UTC(),
			Query:         query,
			Location:      location,
			Pages:         pages,
		},
		Postings: postings,
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal postings: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("internships-%s.json", time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results file: %w", err)
	}

	return path, nil
}
