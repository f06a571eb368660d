package store

import (
	"context"
	"errors"

	"internhunt/internal/models"
)

// ErrDuplicate is returned by Insert when the posting's URL already
// exists in the internships table. Callers treat it as "already have
// this one", never as a failure.
var ErrDuplicate = errors.New("posting already stored")

// Store persists internship postings. SeenURLs is called exactly once
// per run to seed deduplication; Insert relies on the url unique
// constraint as the final arbiter when the snapshot is stale.
type Store interface {
	Name() string
	SeenURLs(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, p models.Posting) error
	Close()
}

// Options carries the credentials for every supported backend; the
// first one configured wins.
type Options struct {
	DatabaseURL string
	SupabaseURL string
	SupabaseKey string
	SQLitePath  string
}

// Open connects to the configured backend: direct Postgres when
// DATABASE_URL is set, the Supabase REST API when a project URL and
// key are set, a local SQLite file otherwise.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch {
	case opts.DatabaseURL != "":
		return ConnectPostgres(ctx, opts.DatabaseURL)
	case opts.SupabaseURL != "" && opts.SupabaseKey != "":
		return ConnectSupabase(ctx, opts.SupabaseURL, opts.SupabaseKey)
	case opts.SQLitePath != "":
		return OpenSQLite(opts.SQLitePath)
	default:
		return nil, errors.New("no store configured: set DATABASE_URL, SUPABASE_URL + SUPABASE_KEY, or SQLITE_PATH")
	}
}
