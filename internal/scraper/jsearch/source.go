package jsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"internhunt/internal/filter"
	"internhunt/internal/models"
	"internhunt/internal/scraper"
)

const (
	endpoint = "https://jsearch.p.rapidapi.com/search"
	apiHost  = "jsearch.p.rapidapi.com"
)

type Config struct {
	APIKey   string
	Query    string
	Location string
	Exclude  *filter.Filter
}

// Source pulls postings from the JSearch API on RapidAPI. No browser
// involved; boards that fight automation are reachable this way.
type Source struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Source {
	return &Source{
		cfg:    cfg,
		client: &http.Client{Timeout: 20 * time.Second},
	}
}

func (s *Source) Name() string {
	return "JSearch"
}

func (s *Source) FetchPage(ctx context.Context, page int) ([]models.Posting, error) {
	query := s.cfg.Query
	if s.cfg.Location != "" {
		query = fmt.Sprintf("%s in %s", s.cfg.Query, s.cfg.Location)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page+1))
	params.Set("num_pages", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build jsearch request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", s.cfg.APIKey)
	req.Header.Set("x-rapidapi-host", apiHost)

	log.Printf("  🔍 JSearch page %d: %q", page+1, query)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jsearch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("jsearch returned %s: %s", resp.Status, body)
	}

	var payload struct {
		Data []apiJob `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode jsearch response: %w", err)
	}

	if len(payload.Data) == 0 {
		return nil, scraper.ErrNoMoreResults
	}

	var postings []models.Posting
	for i, job := range payload.Data {
		p, err := postingFromJob(job)
		if err != nil {
			log.Printf("    ⚠️ Skipping result %d: %v", i+1, err)
			continue
		}
		if kw, excluded := s.cfg.Exclude.Excluded(p.Title, p.Company); excluded {
			log.Printf("    🚫 Skipped excluded keyword '%s': %s", kw, p.Title)
			continue
		}
		p.Source = s.Name()
		postings = append(postings, p)
		log.Printf("      ✅ %s - %s", p.Title, p.Company)
	}

	log.Printf("    📦 JSearch page %d: extracted %d of %d results", page+1, len(postings), len(payload.Data))
	return postings, nil
}

// apiJob is the subset of a JSearch result we care about.
type apiJob struct {
	EmployerName   string `json:"employer_name"`
	EmployerLogo   string `json:"employer_logo"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
	JobCity        string `json:"job_city"`
	JobCountry     string `json:"job_country"`
	JobLocation    string `json:"job_location"`
	JobApplyLink   string `json:"job_apply_link"`
	JobGoogleLink  string `json:"job_google_link"`
}

func postingFromJob(j apiJob) (models.Posting, error) {
	title := scraper.CleanText(j.JobTitle)
	company := scraper.CleanText(j.EmployerName)

	link := j.JobApplyLink
	if link == "" {
		link = j.JobGoogleLink
	}

	switch {
	case title == "":
		return models.Posting{}, fmt.Errorf("result has no title")
	case company == "":
		return models.Posting{}, fmt.Errorf("result has no employer")
	case link == "":
		return models.Posting{}, fmt.Errorf("result has no link")
	}

	return models.Posting{
		Logo:        j.EmployerLogo,
		Title:       title,
		Description: scraper.StripHTML(j.JobDescription),
		Company:     company,
		Location:    composeLocation(j),
		URL:         link,
	}, nil
}

// composeLocation joins city and country when both are present,
// falling back to whichever the API filled in.
func composeLocation(j apiJob) string {
	city := scraper.CleanText(j.JobCity)
	country := scraper.CleanText(j.JobCountry)
	switch {
	case city != "" && country != "":
		return city + ", " + country
	case city != "":
		return city
	case country != "":
		return country
	default:
		return scraper.CleanText(j.JobLocation)
	}
}
