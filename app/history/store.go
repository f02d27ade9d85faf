// Package history keeps a journal of jobs that reached a terminal status. Finished jobs stay
// displayable after they are deleted from the backend or the process restarts.
// Storage is SQLite in WAL mode, accessed with sqlx.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/umputun/jobwatch/app/enums"
)

// ErrNotFound returned by Get for unknown job
var ErrNotFound = errors.New("no history record")

// Record is a finished job with its last retained progress
type Record struct {
	JobID          string          `json:"job_id"`
	Name           string          `json:"name"`
	Kind           enums.JobKind   `json:"kind"`
	Status         enums.JobStatus `json:"status"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	StartedAt      time.Time       `json:"started_at,omitzero"`
	CompletedAt    time.Time       `json:"completed_at,omitzero"`
	Percentage     float64         `json:"percentage"`
	ProcessedItems int64           `json:"processed_items"`
	TotalItems     int64           `json:"total_items"`
	RecordedAt     time.Time       `json:"recorded_at"`
}

// Query filters List results, zero values mean no filter
type Query struct {
	Status enums.JobStatus
	Kind   enums.JobKind
	Since  time.Time // by recorded time
	Limit  int       // defaults to 100
}

// row is the db representation of Record, times are unix milliseconds
type row struct {
	JobID          string          `db:"job_id"`
	Name           string          `db:"name"`
	Kind           enums.JobKind   `db:"kind"`
	Status         enums.JobStatus `db:"status"`
	Error          string          `db:"error"`
	CreatedAt      int64           `db:"created_at"`
	StartedAt      int64           `db:"started_at"`
	CompletedAt    int64           `db:"completed_at"`
	Percentage     float64         `db:"percentage"`
	ProcessedItems int64           `db:"processed_items"`
	TotalItems     int64           `db:"total_items"`
	RecordedAt     int64           `db:"recorded_at"`
}

// Store is SQLite journal of finished jobs
type Store struct {
	db *sqlx.DB
}

// NewStore opens or creates the database and makes the schema
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	pragmas := []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				return nil, fmt.Errorf("failed to exec %q: %w (also failed to close db: %v)", p, err, closeErr)
			}
			return nil, fmt.Errorf("failed to exec %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS jobs_history (
			job_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL DEFAULT 0,
			completed_at INTEGER NOT NULL DEFAULT 0,
			percentage REAL NOT NULL DEFAULT 0,
			processed_items INTEGER NOT NULL DEFAULT 0,
			total_items INTEGER NOT NULL DEFAULT 0,
			recorded_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_jobs_history_recorded_at ON jobs_history(recorded_at)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

// Save adds or replaces the record of a job
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT OR REPLACE INTO jobs_history
		(job_id, name, kind, status, error, created_at, started_at, completed_at,
		 percentage, processed_items, total_items, recorded_at)
		VALUES (:job_id, :name, :kind, :status, :error, :created_at, :started_at, :completed_at,
		 :percentage, :processed_items, :total_items, :recorded_at)`, toRow(rec))
	if err != nil {
		return fmt.Errorf("failed to save history of %s: %w", rec.JobID, err)
	}
	return nil
}

// Get returns record of a job
func (s *Store) Get(ctx context.Context, jobID string) (Record, error) {
	var r row
	err := s.db.GetContext(ctx, &r, `SELECT * FROM jobs_history WHERE job_id = ?`, jobID)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, jobID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get history of %s: %w", jobID, err)
	}
	return r.record(), nil
}

// List returns records matching the query, most recently recorded first
func (s *Store) List(ctx context.Context, q Query) ([]Record, error) {
	where, args := []string{}, []any{}
	if q.Status != (enums.JobStatus{}) {
		where = append(where, "status = ?")
		args = append(args, q.Status.String())
	}
	if q.Kind != (enums.JobKind{}) {
		where = append(where, "kind = ?")
		args = append(args, q.Kind.String())
	}
	if !q.Since.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, q.Since.UnixMilli())
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}

	query := "SELECT * FROM jobs_history"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY recorded_at DESC, job_id LIMIT ?"
	args = append(args, q.Limit)

	rows := []row{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	res := make([]Record, 0, len(rows))
	for _, r := range rows {
		res = append(res, r.record())
	}
	return res, nil
}

// Cleanup removes records older than the given time, returns number of removed records
func (s *Store) Cleanup(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs_history WHERE recorded_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get cleaned up count: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func toRow(rec Record) row {
	return row{
		JobID: rec.JobID, Name: rec.Name, Kind: rec.Kind, Status: rec.Status, Error: rec.Error,
		CreatedAt: unixMilli(rec.CreatedAt), StartedAt: unixMilli(rec.StartedAt), CompletedAt: unixMilli(rec.CompletedAt),
		Percentage: rec.Percentage, ProcessedItems: rec.ProcessedItems, TotalItems: rec.TotalItems,
		RecordedAt: unixMilli(rec.RecordedAt),
	}
}

func (r row) record() Record {
	return Record{
		JobID: r.JobID, Name: r.Name, Kind: r.Kind, Status: r.Status, Error: r.Error,
		CreatedAt: fromUnixMilli(r.CreatedAt), StartedAt: fromUnixMilli(r.StartedAt), CompletedAt: fromUnixMilli(r.CompletedAt),
		Percentage: r.Percentage, ProcessedItems: r.ProcessedItems, TotalItems: r.TotalItems,
		RecordedAt: fromUnixMilli(r.RecordedAt),
	}
}

func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
