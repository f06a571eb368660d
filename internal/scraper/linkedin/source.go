package linkedin

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
	baseURL        = "https://www.linkedin.com"
	resultsPerPage = 25
	cardSelector   = "div.base-search-card"
)

type Config struct {
	Query         string
	Location      string
	RenderTimeout time.Duration
	Exclude       *filter.Filter
	Shots         *browser.ScreenshotDebugger
}

// Source scrapes the public (guest) LinkedIn job search. No login
// needed; the guest page serves 25 cards per start offset.
type Source struct {
	page      playwright.Page
	cfg       Config
	dismissed bool
}

func New(page playwright.Page, cfg Config) *Source {
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = 10 * time.Second
	}
	return &Source{page: page, cfg: cfg}
}

func (s *Source) Name() string {
	return "LinkedIn"
}

func (s *Source) FetchPage(ctx context.Context, page int) ([]models.Posting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	searchPage := searchURL(s.cfg.Query, s.cfg.Location, page)
	log.Printf("  🔍 LinkedIn page %d: %s", page+1, searchPage)

	if _, err := s.page.Goto(searchPage, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", searchPage, err)
	}

	//the guest page greets first-time visitors with a sign-in modal
	if !s.dismissed {
		s.dismissSignInModal()
		s.dismissed = true
	}

	browser.RandomDelay(500, 1200)
	browser.MouseJiggle(s.page)

	if _, err := s.page.WaitForSelector(cardSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(s.cfg.RenderTimeout.Milliseconds())),
	}); err != nil {
		if visible, _ := s.page.Locator(".jobs-search-no-results, .no-results").First().IsVisible(); visible {
			return nil, scraper.ErrNoMoreResults
		}
		s.shot("linkedin-empty", "🚨 LinkedIn: results never rendered")
		return nil, fmt.Errorf("results did not render within %s: %w", s.cfg.RenderTimeout, scraper.ErrNoMoreResults)
	}

	//lazy logos only load once the cards scroll into view
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

	log.Printf("    📦 LinkedIn page %d: extracted %d of %d cards", page+1, len(postings), len(cards))
	return postings, nil
}

// dismissSignInModal closes the contextual sign-in prompt so it stops
// covering the result list. Best effort: guests without the modal just
// move on.
func (s *Source) dismissSignInModal() {
	dismiss := s.page.Locator("#base-contextual-sign-in-modal button.modal__dismiss, button.contextual-sign-in-modal__modal-dismiss").First()
	if visible, _ := dismiss.IsVisible(); visible {
		if err := dismiss.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(2000),
		}); err == nil {
			log.Println("    ✖️ Dismissed sign-in modal")
			browser.RandomDelay(300, 700)
		}
	}
}

type rawCard struct {
	Title     string
	Href      string
	Company   string
	Location  string
	Salary    string
	PostedAgo string
	Logo      string
}

func (s *Source) readCard(card playwright.Locator) rawCard {
	short := playwright.LocatorTextContentOptions{Timeout: playwright.Float(150)}
	attr := playwright.LocatorGetAttributeOptions{Timeout: playwright.Float(150)}

	var c rawCard
	c.Title, _ = card.Locator(".base-search-card__title").First().TextContent(short)
	c.Href, _ = card.Locator("a.base-card__full-link").First().GetAttribute("href", attr)
	c.Company, _ = card.Locator(".base-search-card__subtitle a, .base-search-card__subtitle").First().TextContent(short)
	c.Location, _ = card.Locator(".job-search-card__location").First().TextContent(short)
	c.Salary, _ = card.Locator(".job-search-card__salary-info").First().TextContent(short)
	c.PostedAgo, _ = card.Locator("time.job-search-card__listdate, time.job-search-card__listdate--new").First().TextContent(short)

	logoEl := card.Locator(".search-entity-media img").First()
	c.Logo, _ = logoEl.GetAttribute("src", attr)
	if c.Logo == "" || strings.HasPrefix(c.Logo, "data:") {
		//logos below the fold sit in data-delayed-url until scrolled to
		if delayed, err := logoEl.GetAttribute("data-delayed-url", attr); err == nil && delayed != "" {
			c.Logo = delayed
		}
	}
	return c
}

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

	return models.Posting{
		Logo:       strings.TrimSpace(c.Logo),
		Title:      title,
		Company:    company,
		Location:   scraper.CleanText(c.Location),
		Salary:     scraper.ExtractSalary(c.Salary),
		URL:        canonicalURL(href),
		PostedDate: scraper.CleanText(c.PostedAgo),
	}, nil
}

// canonicalURL strips the query string. LinkedIn links carry dynamic
// tracking params (?refId=..., ?trackingId=...) which make the same
// job appear as different URLs, so the bare path is the stable key.
func canonicalURL(href string) string {
	if !strings.HasPrefix(href, "http") {
		href = baseURL + href
	}
	parts := strings.Split(href, "?")
	return parts[0]
}

func searchURL(query, location string, page int) string {
	v := url.Values{}
	v.Set("keywords", query)
	if location != "" {
		v.Set("location", location)
	}
	if page > 0 {
		v.Set("start", strconv.Itoa(page*resultsPerPage))
	}
	return baseURL + "/jobs/search?" + v.Encode()
}

func (s *Source) shot(name, message string) {
	if s.cfg.Shots != nil {
		s.cfg.Shots.CaptureAndLog(s.page, name, message)
	}
}
