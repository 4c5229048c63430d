package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/pagelint/pagelint/internal/model"
)

// dbFileName is the SQLite file created inside the history directory.
const dbFileName = "pagelint.db"

// DB provides SQLite-based storage for past audit results. A single
// database file holds every run so per-URL history queries need no
// cross-file joins.
type DB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures DB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance. Recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database inside dir.
// With CreateIfNotExists the directory and database file are created;
// without it a missing database is an error.
func Open(dir string, opts Options) (*DB, error) {
	dbPath := filepath.Join(dir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw refuses to create
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; extra connections just contend.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &DB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (h *DB) Close() error {
	return h.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (h *DB) createTables() error {
	schema := `
	-- One row per audited page per run.
	CREATE TABLE IF NOT EXISTS audits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		valid INTEGER NOT NULL,
		issue_count INTEGER NOT NULL,
		message TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_audits_url ON audits(url);
	CREATE INDEX IF NOT EXISTS idx_audits_created ON audits(created_at);
	`

	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores one audit result.
func (h *DB) Save(ctx context.Context, result model.Result) error {
	query := `
	INSERT INTO audits (url, valid, issue_count, message, elapsed_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	valid := 0
	if result.Verdict.Valid {
		valid = 1
	}

	_, err := h.db.ExecContext(ctx, query,
		result.URL,
		valid,
		result.IssueCount,
		result.Verdict.Message,
		result.Elapsed.Milliseconds(),
		result.DateAudited.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to save audit result: %w", err)
	}

	return nil
}

// SaveRun stores every result of a run. The first storage error aborts
// the remaining inserts.
func (h *DB) SaveRun(ctx context.Context, report *model.RunReport) error {
	for _, result := range report.Results {
		if err := h.Save(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// LatestFor retrieves the most recent audit result for a URL.
// Returns nil without error when the URL has never been audited.
func (h *DB) LatestFor(ctx context.Context, url string) (*model.Result, error) {
	query := `
	SELECT url, valid, issue_count, message, elapsed_ms, created_at
	FROM audits
	WHERE url = ?
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`

	row := h.db.QueryRowContext(ctx, query, url)
	result, err := scanResult(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit result: %w", err)
	}
	return &result, nil
}

// HistoryFor retrieves all audit results for a URL, newest first.
func (h *DB) HistoryFor(ctx context.Context, url string) ([]model.Result, error) {
	query := `
	SELECT url, valid, issue_count, message, elapsed_ms, created_at
	FROM audits
	WHERE url = ?
	ORDER BY created_at DESC, id DESC
	`

	rows, err := h.db.QueryContext(ctx, query, url)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit history: %w", err)
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		result, err := scanResult(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// ListTargets returns every distinct audited URL in lexical order.
func (h *DB) ListTargets(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT url FROM audits
	ORDER BY url
	`

	rows, err := h.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("failed to scan target: %w", err)
		}
		targets = append(targets, target)
	}

	return targets, rows.Err()
}

// scanResult maps one audits row onto a model.Result.
func scanResult(scan func(dest ...any) error) (model.Result, error) {
	var (
		result    model.Result
		valid     int
		elapsedMS int64
		createdAt string
	)

	err := scan(
		&result.URL,
		&valid,
		&result.IssueCount,
		&result.Verdict.Message,
		&elapsedMS,
		&createdAt,
	)
	if err != nil {
		return model.Result{}, err
	}

	result.Verdict.Valid = valid != 0
	result.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	result.DateAudited = parseTimestamp(createdAt)
	return result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending
// on configuration. Returns zero time when nothing matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
