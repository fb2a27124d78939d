package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Pool abstracts pgxpool.Pool for testing with pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	identity_key   TEXT NOT NULL UNIQUE,
	name           TEXT NOT NULL,
	title          TEXT NOT NULL DEFAULT '',
	organization   TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL,
	email          TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	website        TEXT NOT NULL DEFAULT '',
	profile_url    TEXT NOT NULL DEFAULT '',
	source_url     TEXT NOT NULL DEFAULT '',
	score          INTEGER NOT NULL DEFAULT 0,
	low_confidence BOOLEAN NOT NULL DEFAULT FALSE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	categories JSONB NOT NULL,
	location   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'build_queries',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_prospects_category ON prospects(category);
CREATE INDEX IF NOT EXISTS idx_prospects_score ON prospects(score DESC);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// postgresUpsert mirrors the sqlite richer-fields-win conflict handling and
// returns the surviving row's id.
const postgresUpsert = `
INSERT INTO prospects (id, identity_key, name, title, organization, category,
	email, phone, website, profile_url, source_url, score, low_confidence,
	created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (identity_key) DO UPDATE SET
	title          = CASE WHEN EXCLUDED.title != '' THEN EXCLUDED.title ELSE prospects.title END,
	organization   = CASE WHEN EXCLUDED.organization != '' THEN EXCLUDED.organization ELSE prospects.organization END,
	email          = CASE WHEN EXCLUDED.email != '' THEN EXCLUDED.email ELSE prospects.email END,
	phone          = CASE WHEN EXCLUDED.phone != '' THEN EXCLUDED.phone ELSE prospects.phone END,
	website        = CASE WHEN EXCLUDED.website != '' THEN EXCLUDED.website ELSE prospects.website END,
	profile_url    = CASE WHEN EXCLUDED.profile_url != '' THEN EXCLUDED.profile_url ELSE prospects.profile_url END,
	source_url     = EXCLUDED.source_url,
	score          = GREATEST(EXCLUDED.score, prospects.score),
	low_confidence = EXCLUDED.low_confidence AND prospects.low_confidence,
	updated_at     = EXCLUDED.updated_at
RETURNING id`

func (s *PostgresStore) UpsertProspect(ctx context.Context, p model.Prospect) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	var storedID string
	err := s.pool.QueryRow(ctx, postgresUpsert,
		id, p.IdentityKey(), p.Name, p.Title, p.Organization, string(p.Category),
		p.Contact.Email, p.Contact.Phone, p.Contact.Website, p.Contact.ProfileURL,
		p.SourceURL, p.Score, p.LowConfidence, now, now,
	).Scan(&storedID)
	if err != nil {
		return "", eris.Wrapf(err, "postgres: upsert prospect %s", p.Name)
	}
	return storedID, nil
}

func (s *PostgresStore) ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Prospect, error) {
	query := `SELECT name, title, organization, category, email, phone, website,
		profile_url, source_url, score, low_confidence FROM prospects WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return placeholder(len(args))
	}

	if filter.Category != "" {
		query += ` AND category = ` + arg(string(filter.Category))
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ` + arg(filter.MinScore)
	}
	query += ` ORDER BY score DESC, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ` + arg(limit)
	if filter.Offset > 0 {
		query += ` OFFSET ` + arg(filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list prospects")
	}
	defer rows.Close()

	var prospects []model.Prospect
	for rows.Next() {
		var p model.Prospect
		err := rows.Scan(&p.Name, &p.Title, &p.Organization, &p.Category,
			&p.Contact.Email, &p.Contact.Phone, &p.Contact.Website,
			&p.Contact.ProfileURL, &p.SourceURL, &p.Score, &p.LowConfidence)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan prospect")
		}
		prospects = append(prospects, p)
	}
	return prospects, eris.Wrap(rows.Err(), "postgres: list prospects iterate")
}

func (s *PostgresStore) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT category, COUNT(*) FROM prospects GROUP BY category`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: count by category")
	}
	defer rows.Close()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var cat string
		var n int64
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, eris.Wrap(err, "postgres: scan count")
		}
		counts[model.Category(cat)] = int(n)
	}
	return counts, eris.Wrap(rows.Err(), "postgres: count iterate")
}

func (s *PostgresStore) CreateRun(ctx context.Context, categories []model.Category, location string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	catsJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal categories")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, categories, location, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, catsJSON, location, string(model.RunStatusBuildQueries), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:         id,
		Categories: categories,
		Location:   location,
		Status:     model.RunStatusBuildQueries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusDone), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

// placeholder returns the $n positional marker for the nth argument.
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
