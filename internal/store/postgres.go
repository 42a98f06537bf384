package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/seo-forecast/internal/db"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/resilience"
)

// PostgresStore implements Store using pgxpool. Keyword rows are also written
// to forecast_keywords for SQL-side analysis.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// keywordColumns is the COPY column list of forecast_keywords.
var keywordColumns = []string{
	"run_id", "term", "search_volume", "position", "target_position",
	"adjusted_target_position", "difficulty", "current_ctr", "target_ctr",
	"traffic_gain", "conversion_gain", "revenue_gain",
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("postgres", "ping")
	if err := resilience.Do(ctx, retry, pool.Ping); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS forecast_runs (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	ctr_profile  TEXT NOT NULL,
	keywords     INTEGER NOT NULL DEFAULT 0,
	traffic_gain DOUBLE PRECISION NOT NULL DEFAULT 0,
	revenue_gain DOUBLE PRECISION NOT NULL DEFAULT 0,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS forecast_keywords (
	run_id                   TEXT NOT NULL REFERENCES forecast_runs(id) ON DELETE CASCADE,
	term                     TEXT NOT NULL,
	search_volume            INTEGER NOT NULL,
	position                 INTEGER NOT NULL,
	target_position          INTEGER NOT NULL,
	adjusted_target_position INTEGER NOT NULL,
	difficulty               DOUBLE PRECISION NOT NULL,
	current_ctr              DOUBLE PRECISION NOT NULL,
	target_ctr               DOUBLE PRECISION NOT NULL,
	traffic_gain             DOUBLE PRECISION NOT NULL,
	conversion_gain          DOUBLE PRECISION NOT NULL,
	revenue_gain             DOUBLE PRECISION NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_forecast_runs_category ON forecast_runs(category);
CREATE INDEX IF NOT EXISTS idx_forecast_runs_created_at ON forecast_runs(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_forecast_keywords_run_id ON forecast_keywords(run_id);
CREATE INDEX IF NOT EXISTS idx_forecast_keywords_term ON forecast_keywords(term);
`

// Migrate creates the schema.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// SaveRun stores the report and bulk-copies its keyword rows in one
// transaction.
func (s *PostgresStore) SaveRun(ctx context.Context, name string, report *model.Report) (*model.Run, error) {
	if report == nil {
		return nil, eris.New("postgres: nil report")
	}
	id := uuid.New().String()
	now := time.Now().UTC()
	name = runName(name, report, now)

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal report")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin save run")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO forecast_runs (id, name, category, ctr_profile, keywords, traffic_gain, revenue_gain, report, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, name, string(report.Settings.Category), string(report.Settings.CTRProfile),
		len(report.Keywords), report.Totals.TrafficGain, report.Totals.RevenueGain,
		reportJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	if _, err := db.CopyFrom(ctx, tx, "forecast_keywords", keywordColumns, keywordRows(id, report.Keywords)); err != nil {
		return nil, eris.Wrap(err, "postgres: copy keywords")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, eris.Wrap(err, "postgres: commit save run")
	}
	return &model.Run{ID: id, Name: name, Report: *report, CreatedAt: now}, nil
}

func keywordRows(runID string, results []model.KeywordResult) [][]any {
	rows := make([][]any, 0, len(results))
	for _, k := range results {
		rows = append(rows, []any{
			runID, k.Term, k.SearchVolume, k.Position, k.TargetPosition,
			k.AdjustedTargetPosition, k.Difficulty, k.CurrentCTR, k.TargetCTR,
			k.TrafficGain, k.ConversionGain, k.RevenueGain,
		})
	}
	return rows
}

// GetRun loads one run.
func (s *PostgresStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, name, report, created_at FROM forecast_runs WHERE id = $1`, id)
	r, err := scanRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "postgres: get run %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", id)
	}
	return r, nil
}

// ListRuns returns runs newest first.
func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, name, report, created_at FROM forecast_runs WHERE 1=1`
	var args []any
	argN := 1

	if filter.Category != "" {
		query += fmt.Sprintf(` AND category = $%d`, argN)
		args = append(args, string(filter.Category))
		argN++
	}
	if filter.Name != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, argN)
		args = append(args, "%"+filter.Name+"%")
		argN++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, argN)
	args = append(args, limitOf(filter))
	argN++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argN)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	runs := []model.Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list runs")
		}
		runs = append(runs, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list runs iterate")
	}
	return runs, nil
}

// DeleteRun removes a run and, by cascade, its keyword rows.
func (s *PostgresStore) DeleteRun(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM forecast_runs WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete run %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "postgres: run %s", id)
	}
	return nil
}
