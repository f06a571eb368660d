package runner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/time/rate"

	"internhunt/internal/dedup"
	"internhunt/internal/models"
	"internhunt/internal/scraper"
	"internhunt/internal/store"
)

// Summary is the outcome of one run. The counts always add up:
// Scraped = Inserted + Duplicates + Failed.
type Summary struct {
	Pages      int
	Scraped    int
	Inserted   int
	Duplicates int
	Failed     int
	New        []models.Posting
}

func (s *Summary) String() string {
	return fmt.Sprintf("pages=%d scraped=%d inserted=%d duplicates=%d failed=%d",
		s.Pages, s.Scraped, s.Inserted, s.Duplicates, s.Failed)
}

// Runner walks every source page by page, dedups against the store
// snapshot and inserts whatever is new. Strictly sequential: one page
// is fully processed before the next is requested.
type Runner struct {
	store   store.Store
	sources []scraper.Source
	pages   int
	limiter *rate.Limiter
}

// New builds a runner that asks each source for up to pages result
// pages, waiting pageDelay between page fetches.
func New(st store.Store, sources []scraper.Source, pages int, pageDelay time.Duration) *Runner {
	return &Runner{
		store:   st,
		sources: sources,
		pages:   pages,
		limiter: rate.NewLimiter(rate.Every(pageDelay), 1),
	}
}

// Run executes one batch. A failed snapshot aborts immediately with a
// nil summary; a cancelled context returns the partial summary
// alongside the context error. Everything else - a dead page, a dead
// insert - is absorbed into the counts.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	urls, err := r.store.SeenURLs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot seen urls: %w", err)
	}
	seen := dedup.NewSeenSet(urls)
	log.Printf("📋 Loaded %d previously stored postings", seen.Len())

	sum := &Summary{}
	for _, src := range r.sources {
		log.Printf("▶️ Starting source: %s", src.Name())

		for n := 0; n < r.pages; n++ {
			if err := r.limiter.Wait(ctx); err != nil {
				return sum, err
			}

			postings, err := src.FetchPage(ctx, n)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return sum, err
			}
			if errors.Is(err, scraper.ErrNoMoreResults) {
				log.Printf("  ℹ️ %s: stopping after %d page(s): %v", src.Name(), n, err)
				break
			}
			if err != nil {
				log.Printf("  ⚠️ %s page %d failed, moving on: %v", src.Name(), n+1, err)
				break
			}

			sum.Pages++
			r.processPage(ctx, postings, seen, sum)
		}
	}

	return sum, nil
}

func (r *Runner) processPage(ctx context.Context, postings []models.Posting, seen *dedup.SeenSet, sum *Summary) {
	for _, p := range postings {
		sum.Scraped++

		if seen.Seen(p.URL) {
			sum.Duplicates++
			continue
		}

		if err := r.store.Insert(ctx, p); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				//snapshot was stale for this url; the unique constraint caught it
				sum.Duplicates++
				seen.Add(p.URL)
				continue
			}
			sum.Failed++
			log.Printf("    ⚠️ Failed to insert %q: %v", p.Title, err)
			continue
		}

		seen.Add(p.URL)
		sum.Inserted++
		sum.New = append(sum.New, p)
		log.Printf("    💾 Stored: %s - %s", p.Title, p.Company)
	}
}
