package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"internhunt/internal/models"
)

// Postgres talks to the internships table over a direct connection,
// typically a Supabase pooler DSN.
type Postgres struct {
	db *pgxpool.Pool
}

func ConnectPostgres(ctx context.Context, connString string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	// IMPORTANT: Supabase connection pooler (PgBouncer in Transaction mode)
	// does not support prepared statements easily. We MUST disable the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Postgres{db: pool}, nil
}

func (s *Postgres) Name() string { return "postgres" }

// SeenURLs snapshots every stored posting URL.
func (s *Postgres) SeenURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT url FROM internships")
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

// Insert stores one posting. A unique violation on url surfaces as
// ErrDuplicate.
func (s *Postgres) Insert(ctx context.Context, p models.Posting) error {
	query := `
		INSERT INTO internships (logo, title, description, company, location, url)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.Exec(ctx, query,
		nullable(p.Logo), p.Title, nullable(p.Description), p.Company, nullable(p.Location), p.URL)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return fmt.Errorf("%s: %w", p.URL, ErrDuplicate)
		}
		return fmt.Errorf("failed to insert posting: %w", err)
	}
	return nil
}

func (s *Postgres) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// nullable maps empty optional fields to NULL instead of "".
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
