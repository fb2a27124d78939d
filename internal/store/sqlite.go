package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS prospects (
	id             TEXT PRIMARY KEY,
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
	low_confidence INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	categories TEXT NOT NULL,
	location   TEXT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'build_queries',
	result     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_prospects_category ON prospects(category);
CREATE INDEX IF NOT EXISTS idx_prospects_score ON prospects(score DESC);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteUpsert keeps the richer value on conflict: incoming non-empty
// fields replace stored empties, stored non-empties survive incoming
// empties, and the score takes the max.
const sqliteUpsert = `
INSERT INTO prospects (id, identity_key, name, title, organization, category,
	email, phone, website, profile_url, source_url, score, low_confidence,
	created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(identity_key) DO UPDATE SET
	title          = CASE WHEN excluded.title != '' THEN excluded.title ELSE prospects.title END,
	organization   = CASE WHEN excluded.organization != '' THEN excluded.organization ELSE prospects.organization END,
	email          = CASE WHEN excluded.email != '' THEN excluded.email ELSE prospects.email END,
	phone          = CASE WHEN excluded.phone != '' THEN excluded.phone ELSE prospects.phone END,
	website        = CASE WHEN excluded.website != '' THEN excluded.website ELSE prospects.website END,
	profile_url    = CASE WHEN excluded.profile_url != '' THEN excluded.profile_url ELSE prospects.profile_url END,
	source_url     = excluded.source_url,
	score          = MAX(excluded.score, prospects.score),
	low_confidence = MIN(excluded.low_confidence, prospects.low_confidence),
	updated_at     = excluded.updated_at`

func (s *SQLiteStore) UpsertProspect(ctx context.Context, p model.Prospect) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, sqliteUpsert,
		id, p.IdentityKey(), p.Name, p.Title, p.Organization, string(p.Category),
		p.Contact.Email, p.Contact.Phone, p.Contact.Website, p.Contact.ProfileURL,
		p.SourceURL, p.Score, boolToInt(p.LowConfidence), now, now,
	)
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: upsert prospect %s", p.Name)
	}

	// On conflict the stored row keeps its original id; read it back.
	var storedID string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM prospects WHERE identity_key = ?`, p.IdentityKey(),
	).Scan(&storedID)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: read upserted id")
	}
	return storedID, nil
}

func (s *SQLiteStore) ListProspects(ctx context.Context, filter ProspectFilter) ([]model.Prospect, error) {
	query := `SELECT name, title, organization, category, email, phone, website,
		profile_url, source_url, score, low_confidence FROM prospects WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, string(filter.Category))
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY score DESC, name`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list prospects")
	}
	defer rows.Close()

	var prospects []model.Prospect
	for rows.Next() {
		var p model.Prospect
		var lowConf int
		err := rows.Scan(&p.Name, &p.Title, &p.Organization, &p.Category,
			&p.Contact.Email, &p.Contact.Phone, &p.Contact.Website,
			&p.Contact.ProfileURL, &p.SourceURL, &p.Score, &lowConf)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan prospect")
		}
		p.LowConfidence = lowConf != 0
		prospects = append(prospects, p)
	}
	return prospects, eris.Wrap(rows.Err(), "sqlite: list prospects iterate")
}

func (s *SQLiteStore) CountByCategory(ctx context.Context) (map[model.Category]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM prospects GROUP BY category`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: count by category")
	}
	defer rows.Close()

	counts := make(map[model.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan count")
		}
		counts[model.Category(cat)] = n
	}
	return counts, eris.Wrap(rows.Err(), "sqlite: count iterate")
}

func (s *SQLiteStore) CreateRun(ctx context.Context, categories []model.Category, location string) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	catsJSON, err := json.Marshal(categories)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal categories")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, categories, location, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(catsJSON), location, string(model.RunStatusBuildQueries), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
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

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal result")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET result = ?, status = ?, updated_at = ? WHERE id = ?`,
		string(resultJSON), string(model.RunStatusDone), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	return checkRowsAffected(res, "run", runID)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
