package runner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internhunt/internal/models"
	"internhunt/internal/scraper"
	"internhunt/internal/store"
)

func posting(url string) models.Posting {
	return models.Posting{
		Title:   "Intern " + url,
		Company: "Acme",
		URL:     url,
	}
}

// fakeSource serves a fixed page list, then reports no more results.
type fakeSource struct {
	name    string
	pages   [][]models.Posting
	pageErr error // returned instead of ErrNoMoreResults once pages run out
	calls   int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchPage(ctx context.Context, page int) ([]models.Posting, error) {
	f.calls++
	if page >= len(f.pages) {
		if f.pageErr != nil {
			return nil, f.pageErr
		}
		return nil, scraper.ErrNoMoreResults
	}
	return f.pages[page], nil
}

// fakeStore records inserts in memory and can be primed to fail.
type fakeStore struct {
	seed        []string
	seedErr     error
	rows        map[string]bool
	duplicateOf map[string]bool // urls rejected with ErrDuplicate despite missing from seed
	failing     map[string]bool
	inserted    []string
}

func newFakeStore(seed ...string) *fakeStore {
	return &fakeStore{
		seed:        seed,
		rows:        make(map[string]bool),
		duplicateOf: make(map[string]bool),
		failing:     make(map[string]bool),
	}
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) SeenURLs(ctx context.Context) ([]string, error) {
	if f.seedErr != nil {
		return nil, f.seedErr
	}
	return f.seed, nil
}

func (f *fakeStore) Insert(ctx context.Context, p models.Posting) error {
	if f.failing[p.URL] {
		return errors.New("connection reset")
	}
	if f.duplicateOf[p.URL] || f.rows[p.URL] {
		return fmt.Errorf("%s: %w", p.URL, store.ErrDuplicate)
	}
	f.rows[p.URL] = true
	f.inserted = append(f.inserted, p.URL)
	return nil
}

func (f *fakeStore) Close() {}

func run(t *testing.T, st store.Store, sources ...scraper.Source) *Summary {
	t.Helper()
	r := New(st, sources, 5, 0)
	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	return sum
}

func TestRunInsertsUnseenPostings(t *testing.T) {
	st := newFakeStore()
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1"), posting("u2")},
		{posting("u3")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 2, sum.Pages)
	assert.Equal(t, 3, sum.Scraped)
	assert.Equal(t, 3, sum.Inserted)
	assert.Equal(t, 0, sum.Duplicates)
	assert.Equal(t, 0, sum.Failed)
	assert.Equal(t, []string{"u1", "u2", "u3"}, st.inserted)
	assert.Len(t, sum.New, 3)
}

func TestRunSkipsSnapshotDuplicates(t *testing.T) {
	st := newFakeStore("u1", "u3")
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1"), posting("u2"), posting("u3")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 3, sum.Scraped)
	assert.Equal(t, 1, sum.Inserted)
	assert.Equal(t, 2, sum.Duplicates)
	assert.Equal(t, []string{"u2"}, st.inserted)
}

func TestRunIsIdempotent(t *testing.T) {
	st := newFakeStore()
	pages := [][]models.Posting{{posting("u1"), posting("u2")}}

	first := run(t, st, &fakeSource{name: "one", pages: pages})
	assert.Equal(t, 2, first.Inserted)

	// second run against the now-populated store: snapshot catches everything
	st.seed = st.inserted
	second := run(t, st, &fakeSource{name: "one", pages: pages})
	assert.Equal(t, 0, second.Inserted)
	assert.Equal(t, 2, second.Duplicates)
	assert.Len(t, st.inserted, 2, "no double inserts across runs")
}

func TestRunDedupsWithinRun(t *testing.T) {
	// same url appears on two pages of the same run
	st := newFakeStore()
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1")},
		{posting("u1"), posting("u2")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 3, sum.Scraped)
	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 1, sum.Duplicates)
}

func TestRunCountsStoreDuplicateAsDuplicate(t *testing.T) {
	// the snapshot misses u1 (inserted by someone else mid-run); the
	// store's unique constraint still rejects it
	st := newFakeStore()
	st.duplicateOf["u1"] = true
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1"), posting("u2")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 1, sum.Inserted)
	assert.Equal(t, 1, sum.Duplicates, "constraint violation counts as duplicate")
	assert.Equal(t, 0, sum.Failed, "constraint violation is not a failure")
}

func TestRunCountsInsertErrorAsFailed(t *testing.T) {
	st := newFakeStore()
	st.failing["u2"] = true
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1"), posting("u2"), posting("u3")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 2, sum.Inserted)
	assert.Equal(t, 1, sum.Failed)
	assert.Equal(t, []string{"u1", "u3"}, st.inserted, "one bad insert must not stop the page")
	assert.Equal(t, sum.Scraped, sum.Inserted+sum.Duplicates+sum.Failed)
}

func TestRunStopsSourceAfterRenderedPagesRunOut(t *testing.T) {
	// source has 2 real pages, runner asks for up to 5
	st := newFakeStore()
	src := &fakeSource{name: "one", pages: [][]models.Posting{
		{posting("u1")},
		{posting("u2")},
	}}

	sum := run(t, st, src)

	assert.Equal(t, 2, sum.Pages, "summary reflects only pages that rendered")
	assert.Equal(t, 3, src.calls, "exactly one probe past the last page")
	assert.Equal(t, []string{"u1", "u2"}, st.inserted, "postings from rendered pages are kept")
}

func TestRunPageErrorStopsOnlyThatSource(t *testing.T) {
	st := newFakeStore()
	broken := &fakeSource{name: "broken", pages: [][]models.Posting{{posting("u1")}},
		pageErr: errors.New("net::ERR_TIMED_OUT")}
	healthy := &fakeSource{name: "healthy", pages: [][]models.Posting{{posting("u2")}}}

	sum := run(t, st, broken, healthy)

	assert.Equal(t, 2, sum.Pages)
	assert.ElementsMatch(t, []string{"u1", "u2"}, st.inserted)
}

func TestRunSnapshotFailureAborts(t *testing.T) {
	st := newFakeStore()
	st.seedErr = errors.New("connection refused")
	src := &fakeSource{name: "one", pages: [][]models.Posting{{posting("u1")}}}

	r := New(st, []scraper.Source{src}, 5, 0)
	sum, err := r.Run(context.Background())

	require.Error(t, err)
	assert.Nil(t, sum)
	assert.Equal(t, 0, src.calls, "no page may be fetched without a snapshot")
}

func TestRunHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := newFakeStore()
	src := &fakeSource{name: "one", pages: [][]models.Posting{{posting("u1")}}}

	r := New(st, []scraper.Source{src}, 5, time.Second)
	sum, err := r.Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, sum, "partial summary survives cancellation")
	assert.Empty(t, st.inserted)
}

func TestSummaryString(t *testing.T) {
	s := &Summary{Pages: 2, Scraped: 10, Inserted: 6, Duplicates: 3, Failed: 1}
	assert.Equal(t, "pages=2 scraped=10 inserted=6 duplicates=3 failed=1", s.String())
}
