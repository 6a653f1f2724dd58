package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"helios-hq/triton/pkg/validator/report"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS validation_reports (
	id            TEXT PRIMARY KEY,
	schema_id     TEXT NOT NULL,
	target        TEXT NOT NULL,
	valid         INTEGER NOT NULL,
	error_count   INTEGER NOT NULL,
	warning_count INTEGER NOT NULL,
	created_at    INTEGER NOT NULL,
	issues        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_schema ON validation_reports(schema_id);
CREATE INDEX IF NOT EXISTS idx_reports_created ON validation_reports(created_at);
`

// SQLiteConfig configures the SQLite report store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns caps open connections. Default: 10.
	MaxOpenConns int

	// MaxIdleConns caps idle connections. Default: 5.
	MaxIdleConns int

	// WALMode enables write-ahead logging for better concurrency.
	// Default: true.
	WALMode bool

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/reports.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the database at the
// configured path and initializes its schema.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "validator.store.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Cause: err}
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("sqlite report store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			return &StorageError{Backend: "sqlite", Operation: "enable WAL", Cause: err}
		}
	}
	if s.config.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d", s.config.BusyTimeout.Milliseconds())
		if _, err := s.db.Exec(pragma); err != nil {
			return &StorageError{Backend: "sqlite", Operation: "set busy timeout", Cause: err}
		}
	}
	if _, err := s.db.Exec(sqliteSchema); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "create schema", Cause: err}
	}
	return nil
}

// SaveReport stores one report, replacing any previous report with the
// same ID.
func (s *SQLiteStore) SaveReport(ctx context.Context, rep *report.ValidationReport) error {
	payload, err := json.Marshal(rep.Issues)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "marshal issues", Cause: err}
	}

	valid := 0
	if rep.Valid() {
		valid = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO validation_reports
			(id, schema_id, target, valid, error_count, warning_count, created_at, issues)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.SchemaID, rep.Target, valid,
		len(rep.Errors()), len(rep.Warnings()),
		rep.Timestamp.UnixNano(), string(payload),
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "save report", Cause: err}
	}
	return nil
}

// GetReport returns the report with the given ID, or ErrNotFound.
func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*report.ValidationReport, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, schema_id, target, created_at, issues
		FROM validation_reports WHERE id = ?`, id)

	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "get report", Cause: err}
	}
	return rep, nil
}

// ListReports returns reports matching the query, newest first.
func (s *SQLiteStore) ListReports(ctx context.Context, q Query) ([]*report.ValidationReport, error) {
	var (
		where []string
		args  []any
	)
	if q.SchemaID != "" {
		where = append(where, "schema_id = ?")
		args = append(args, q.SchemaID)
	}
	if q.Target != "" {
		where = append(where, "target = ?")
		args = append(args, q.Target)
	}
	if q.OnlyInvalid {
		where = append(where, "valid = 0")
	}
	if !q.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, q.Since.UnixNano())
	}
	if !q.Until.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, q.Until.UnixNano())
	}

	query := "SELECT id, schema_id, target, created_at, issues FROM validation_reports"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list reports", Cause: err}
	}
	defer rows.Close()

	var out []*report.ValidationReport
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan report", Cause: err}
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list reports", Cause: err}
	}
	return out, nil
}

// DeleteBefore removes reports created before the cutoff.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM validation_reports WHERE created_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "delete reports", Cause: err}
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "delete reports", Cause: err}
	}
	return deleted, nil
}

// Count returns the number of stored reports.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM validation_reports").Scan(&count)
	if err != nil {
		return 0, &StorageError{Backend: "sqlite", Operation: "count reports", Cause: err}
	}
	return count, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*report.ValidationReport, error) {
	var (
		rep       report.ValidationReport
		createdAt int64
		payload   string
	)
	if err := row.Scan(&rep.ID, &rep.SchemaID, &rep.Target, &createdAt, &payload); err != nil {
		return nil, err
	}
	rep.Timestamp = time.Unix(0, createdAt).UTC()
	if err := json.Unmarshal([]byte(payload), &rep.Issues); err != nil {
		return nil, err
	}
	return &rep, nil
}
