package indeed

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"internhunt/internal/browser"
	"internhunt/internal/filter"
	"internhunt/internal/models"
	"internhunt/internal/scraper"
)

const (
	baseURL        = "https://www.indeed.com"
	resultsPerPage = 10
	cardSelector   = "div.job_seen_beacon"
)

type Config struct {
	Query         string
	Location      string
	RenderTimeout time.Duration
	Exclude       *filter.Filter
	Shots         *browser.ScreenshotDebugger
}

// Source scrapes Indeed search results, ten cards per page.
type Source struct {
	page playwright.Page
	cfg  Config
}

func New(page playwright.Page, cfg Config) *Source {
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 10 * time.Second
	}
	return &Source{page: page, cfg: cfg}
}

func (s *Source) Name() string {
	return "Indeed"
}

func (s *Source) FetchPage(ctx context.Context, page int) ([]models.Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchPage := searchURL(s.cfg.Query, s.cfg.Location, page)
	log.Printf("  🔍 Indeed page %d: %s", page+1, searchPage)

	if _, err := s.page.Goto(searchPage, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", searchPage, err)
	}

	//Cloudflare check
	if title, blocked := s.challenged(); blocked {
		s.shot("indeed-challenge", "🚨 Indeed: challenge page detected")
		return nil, fmt.Errorf("blocked by challenge page (%q)", title)
	}

	//human behavior
	browser.RandomDelay(500, 1200)
	browser.MouseJiggle(s.page)

	if _, err := s.page.WaitForSelector(cardSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.cfg.RenderTimeout.Milliseconds())),
	}); err != nil {
		if visible, _ := s.page.Locator(".jobsearch-NoResult-messageContainer").IsVisible(); visible {
			return nil, scraper.ErrNoMoreResults
		}
		s.shot("indeed-empty", "🚨 Indeed: results never rendered")
		return nil, fmt.Errorf("results did not render within %s: %w", s.cfg.RenderTimeout, scraper.ErrNoMoreResults)
	}

	//walk the page so lazy logos load
	browser.SmoothScroll(s.page)

	cards, err := s.page.Locator(cardSelector).All()
	if err != nil {
		return nil, fmt.Errorf("failed to list job cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, scraper.ErrNoMoreResults
	}

	var postings []models.Posting
	for i, card := range cards {
		p, err := postingFromCard(s.readCard(card))
		if err != nil {
			log.Printf("    ⚠️ Skipping card %d: %v", i+1, err)
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

	log.Printf("    📦 Indeed page %d: extracted %d of %d cards", page+1, len(postings), len(cards))
	return postings, nil
}

// rawCard is everything readCard pulls out of one result card before
// any cleaning happens.
type rawCard struct {
	Title     string
	Href      string
	Company   string
	Location  string
	Salary    string
	Snippet   string
	PostedAgo string
	Logo      string
}

func (s *Source) readCard(card playwright.Locator) rawCard {
	short := playwright.LocatorTextContentOptions{Timeout: playwright.Float(150)}
	attr := playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(150)}

	var c rawCard
	titleEl := card.Locator("h2.jobTitle a, a.jcs-JobTitle").First()
	c.Title, _ = titleEl.TextContent(short)
	c.Href, _ = titleEl.GetAttribute("href", attr)
	c.Company, _ = card.Locator(`[data-testid="company-name"], .companyName`).First().TextContent(short)
	c.Location, _ = card.Locator(`[data-testid="text-location"], .companyLocation`).First().TextContent(short)
	c.Salary, _ = card.Locator(`.salary-snippet-container, [data-testid="attribute_snippet_testid"]`).First().TextContent(short)
	c.Snippet, _ = card.Locator(`[data-testid="jobsnippet_footer"], .job-snippet`).First().TextContent(short)
	c.PostedAgo, _ = card.Locator(`[data-testid="myJobsStateDate"], span.date`).First().TextContent(short)
	c.Logo, _ = card.Locator(`img[data-testid="companyAvatar-image"], .companyAvatar img`).First().GetAttribute("src", attr)
	return c
}

// postingFromCard turns a raw card into a posting, or explains why the
// card is unusable. Title, company and link are mandatory; everything
// else is best effort.
func postingFromCard(c rawCard) (models.Posting, error) {
	title := scraper.CleanText(c.Title)
	company := scraper.CleanText(c.Company)
	href := strings.TrimSpace(c.Href)

	switch {
	case title == "":
		return models.Posting{}, fmt.Errorf("card has no title")
	case company == "":
		return models.Posting{}, fmt.Errorf("card has no company")
	case href == "":
		return models.Posting{}, fmt.Errorf("card has no link")
	}

	salary := scraper.ExtractSalary(c.Salary)
	if salary == "" {
		salary = scraper.ExtractSalary(c.Snippet)
	}

	return models.Posting{
		Logo:        strings.TrimSpace(c.Logo),
		Title:       title,
		Description: scraper.CleanText(c.Snippet),
		Company:     company,
		Location:    scraper.CleanText(c.Location),
		Salary:      salary,
		URL:         canonicalURL(href),
		PostedDate:  cleanPostedDate(c.PostedAgo),
	}, nil
}

// canonicalURL normalizes a card link into a stable posting URL.
// Indeed wraps listings in tracking redirects, but the jk param is the
// listing id, so two differently-tracked links to the same job still
// dedup to one row.
func canonicalURL(href string) string {
	if strings.HasPrefix(href, "/") {
		href = baseURL + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if jk := u.Query().Get("jk"); jk != "" {
		return baseURL + "/viewjob?jk=" + jk
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// cleanPostedDate strips the duplicated "PostedPosted"/"EmployerActive"
// markers Indeed renders ahead of the age text. The remainder stays
// verbatim.
func cleanPostedDate(s string) string {
	s = scraper.CleanText(s)
	for _, prefix := range []string{"PostedPosted", "Posted", "EmployerActive", "Employer Active"} {
		s = strings.TrimSpace(strings.TrimPrefix(s, prefix))
	}
	return s
}

func searchURL(query, location string, page int) string {
	v := url.Values{}
	v.Set("q", query)
	if location != "" {
		v.Set("l", location)
	}
	if page > 0 {
		v.Set("start", strconv.Itoa(page*resultsPerPage))
	}
	return baseURL + "/jobs?" + v.Encode()
}

func (s *Source) challenged() (string, bool) {
	title, _ := s.page.Title()
	for _, marker := range []string{"Just a moment", "Attention Required", "Cloudflare", "Verify"} {
		if strings.Contains(title, marker) {
			return title, true
		}
	}
	return "", false
}

func (s *Source) shot(name, message string) {
	if s.cfg.Shots != nil {
		s.cfg.Shots.CaptureAndLog(s.page, name, message)
	}
}
