package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"internhunt/internal/models"
)

// SQLite keeps postings in a local file. Handy for dry runs and for
// anyone who doesn't want to stand up a hosted project.
type SQLite struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS internships (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	logo        TEXT,
	title       TEXT NOT NULL,
	description TEXT,
	company     TEXT NOT NULL,
	location    TEXT,
	url         TEXT NOT NULL UNIQUE,
	created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

func OpenSQLite(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open sqlite database: %w", err)
	}
	// modernc.org/sqlite is happiest with a single writer
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite database unreachable: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create internships table: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) SeenURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT url FROM internships")
	if err != nil {
		return nil, fmt.Errorf("failed to query seen urls: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seen urls: %w", err)
	}
	return urls, nil
}

// Insert uses INSERT OR IGNORE plus changes() so a duplicate url is
// detected in the same round trip instead of via a driver error.
func (s *SQLite) Insert(ctx context.Context, p models.Posting) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO internships (logo, title, description, company, location, url)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullable(p.Logo), p.Title, nullable(p.Description), p.Company, nullable(p.Location), p.URL)
	if err != nil {
		return fmt.Errorf("failed to insert posting: %w", err)
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read insert result: %w", err)
	}
	if changed == 0 {
		return fmt.Errorf("%s: %w", p.URL, ErrDuplicate)
	}
	return nil
}

func (s *SQLite) Close() {
	if s.db != nil {
		s.db.Close()
	}
}
