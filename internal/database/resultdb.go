package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tagcount/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "tagcount.db"

// storedTimeLayout is a fixed-width UTC layout so that date_run sorts as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ResultDB stores recorded runs.
type ResultDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the options used by the CLI when recording.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ReadOnlyOptions returns options that never create a database.
// The history command uses them so that listing does not leave files behind.
func ReadOnlyOptions() Options {
	return Options{}
}

// Open opens or creates the database in dbDir.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if opts.CreateIfNotExists {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	} else if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check database path: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// Path returns the database file path.
func (rdb *ResultDB) Path() string {
	return rdb.dbPath
}

// createTables creates the schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		tag TEXT NOT NULL,
		parser TEXT NOT NULL,
		status_code INTEGER,
		content_type TEXT,
		body_digest TEXT,
		count INTEGER NOT NULL,
		divisors TEXT NOT NULL,
		label TEXT,
		date_run TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_url ON runs(url);
	CREATE INDEX IF NOT EXISTS idx_runs_tag ON runs(tag);
	CREATE INDEX IF NOT EXISTS idx_runs_date ON runs(date_run);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult records a successful run and sets its ID.
func (rdb *ResultDB) SaveResult(ctx context.Context, res *model.Result) (int64, error) {
	if !res.Succeeded() {
		return 0, ErrUnsuccessfulResult
	}

	divisors := res.Divisors
	if divisors == nil {
		divisors = []int{}
	}
	divisorsJSON, err := json.Marshal(divisors)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize divisors: %w", err)
	}

	query := `
	INSERT INTO runs (url, tag, parser, status_code, content_type, body_digest, count, divisors, label, date_run)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		res.URL,
		res.Tag,
		res.Parser,
		res.StatusCode,
		res.ContentType,
		res.BodyDigest,
		res.Count,
		string(divisorsJSON),
		res.Label,
		res.DateRun.UTC().Format(storedTimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}
	res.ID = id
	return id, nil
}

// ListOptions filters ListResults.
type ListOptions struct {
	// URL restricts results to one URL when set.
	URL string

	// Tag restricts results to one tag when set, ignoring ASCII case.
	Tag string

	// Limit keeps only the most recent runs when positive.
	Limit int
}

// ListResults returns recorded runs matching opts, oldest first.
func (rdb *ResultDB) ListResults(ctx context.Context, opts ListOptions) ([]*model.Result, error) {
	var where []string
	var args []any
	if opts.URL != "" {
		where = append(where, "url = ?")
		args = append(args, opts.URL)
	}
	if opts.Tag != "" {
		// Tags keep the caller's spelling; element names are case-insensitive.
		where = append(where, "tag = ? COLLATE NOCASE")
		args = append(args, opts.Tag)
	}

	query := `SELECT id, url, tag, parser, status_code, content_type, body_digest, count, divisors, label, date_run FROM runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date_run DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	results := make([]*model.Result, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}

	slices.Reverse(results)
	return results, nil
}

// GetResult returns the run with the given ID.
func (rdb *ResultDB) GetResult(ctx context.Context, id int64) (*model.Result, error) {
	query := `SELECT id, url, tag, parser, status_code, content_type, body_digest, count, divisors, label, date_run FROM runs WHERE id = ?`

	res, err := scanResult(rdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	return res, err
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanResult reads one runs row.
func scanResult(row rowScanner) (*model.Result, error) {
	var (
		res          model.Result
		statusCode   sql.NullInt64
		contentType  sql.NullString
		bodyDigest   sql.NullString
		label        sql.NullString
		divisorsJSON string
		dateRun      string
	)

	err := row.Scan(
		&res.ID,
		&res.URL,
		&res.Tag,
		&res.Parser,
		&statusCode,
		&contentType,
		&bodyDigest,
		&res.Count,
		&divisorsJSON,
		&label,
		&dateRun,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	res.StatusCode = int(statusCode.Int64)
	res.ContentType = contentType.String
	res.BodyDigest = bodyDigest.String
	res.Label = label.String
	res.DateRun = parseTimestamp(dateRun)
	res.PerformedSteps = make([]string, 0)

	if err := json.Unmarshal([]byte(divisorsJSON), &res.Divisors); err != nil {
		return nil, fmt.Errorf("failed to parse divisors of run %d: %w", res.ID, err)
	}
	if res.Divisors == nil {
		res.Divisors = []int{}
	}

	return &res, nil
}

// timestampFormats are the layouts accepted when reading date_run.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// parseTimestamp parses s with the first matching layout, or returns the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
