package scraper

import (
	"context"
	"errors"

	"internhunt/internal/models"
)

// ErrNoMoreResults is returned by a Source when a results page renders
// empty (or never renders at all). The caller stops asking that source
// for further pages.
var ErrNoMoreResults = errors.New("no more results")

// Source produces postings one results page at a time. Pages are
// zero-indexed and requested strictly in order; each source translates
// the page number into whatever its site uses (start offset, page
// query param, ...).
type Source interface {
	Name() string
	FetchPage(ctx context.Context, page int) ([]models.Posting, error)
}
