package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"internhunt/internal/models"
)

// Supabase talks to the internships table through the project's REST
// endpoint (PostgREST) instead of a direct database connection. Only
// an anon/service key is needed, which is how the hosted project is
// usually shared.
type Supabase struct {
	baseURL string
	key     string
	client  *http.Client
}

// seenPageSize keeps snapshot requests inside PostgREST's default
// max-rows cap; larger tables are walked with Range headers.
const seenPageSize = 1000

func ConnectSupabase(ctx context.Context, baseURL, key string) (*Supabase, error) {
	s := &Supabase{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		client:  &http.Client{Timeout: 20 * time.Second},
	}

	// cheap probe so a bad url/key fails at startup, not mid-run
	req, err := s.newRequest(ctx, http.MethodGet, "/rest/v1/internships?select=url&limit=1", nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supabase rejected credentials: %s", readErrorBody(resp))
	}
	io.Copy(io.Discard, resp.Body)

	return s, nil
}

func (s *Supabase) Name() string { return "supabase" }

// SeenURLs pages through the whole table with Range headers; PostgREST
// silently truncates unbounded selects, which would poison the dedup
// snapshot.
func (s *Supabase) SeenURLs(ctx context.Context) ([]string, error) {
	var urls []string
	for offset := 0; ; offset += seenPageSize {
		req, err := s.newRequest(ctx, http.MethodGet, "/rest/v1/internships?select=url&order=id.asc", nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Range", fmt.Sprintf("%d-%d", offset, offset+seenPageSize-1))

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch seen urls: %w", err)
		}
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
			defer resp.Body.Close()
			return nil, fmt.Errorf("failed to fetch seen urls: %s", readErrorBody(resp))
		}

		var batch []struct {
			URL string `json:"url"`
		}
		err = json.NewDecoder(resp.Body).Decode(&batch)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode seen urls: %w", err)
		}

		for _, row := range batch {
			urls = append(urls, row.URL)
		}
		if len(batch) < seenPageSize {
			return urls, nil
		}
	}
}

// insertPayload is the REST shape of a posting: exactly the table's
// columns, with empty optionals omitted so they land as NULL.
type insertPayload struct {
	Logo        string `json:"logo,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url"`
}

func (s *Supabase) Insert(ctx context.Context, p models.Posting) error {
	body, err := json.Marshal(insertPayload{
		Logo:        p.Logo,
		Title:       p.Title,
		Description: p.Description,
		Company:     p.Company,
		Location:    p.Location,
		URL:         p.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal posting: %w", err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "/rest/v1/internships", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to insert posting: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusConflict:
		// PostgREST reports the url unique violation as 409/23505
		return fmt.Errorf("%s: %w", p.URL, ErrDuplicate)
	default:
		return fmt.Errorf("failed to insert posting: %s", readErrorBody(resp))
	}
}

func (s *Supabase) Close() {}

func (s *Supabase) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build supabase request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// readErrorBody pulls the PostgREST error message out of a failed
// response, falling back to the plain status.
func readErrorBody(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return resp.Status
	}
	var pgrst struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &pgrst); err == nil && pgrst.Message != "" {
		return fmt.Sprintf("%s (%s, code %s)", pgrst.Message, resp.Status, pgrst.Code)
	}
	return fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
}
