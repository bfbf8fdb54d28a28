// Package journal keeps a SQLite record of diagnostics (failed loads,
// warnings) across runs. Tasks themselves are never written here.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Entry struct {
	ID        int
	Session   string
	Level     string
	Message   string
	Attrs     string
	CreatedAt time.Time
}

type Journal struct {
	db *sql.DB
}

func Open(dbPath string) (*Journal, error) {
	if dbPath == "" {
		return nil, errors.New("journal path is empty")
	}
	// A file: URI is handed to the driver untouched.
	dsn := dbPath
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
		dsn = journalDSN(dbPath)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

func (j *Journal) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	level TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at TEXT NOT NULL
);`
	if _, err := j.db.Exec(ddl); err != nil {
		return err
	}
	return j.ensureColumns()
}

// ensureColumns back-fills columns added after the first release.
func (j *Journal) ensureColumns() error {
	required := map[string]string{
		"session": "ALTER TABLE entries ADD COLUMN session TEXT NOT NULL DEFAULT '';",
		"attrs":   "ALTER TABLE entries ADD COLUMN attrs TEXT NOT NULL DEFAULT '';",
	}
	existing := map[string]struct{}{}
	rows, err := j.db.Query(`PRAGMA table_info(entries);`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			rows.Close()
			return err
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	for col, alter := range required {
		if _, ok := existing[col]; ok {
			continue
		}
		if _, err := j.db.Exec(alter); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO entries (session, level, message, attrs, created_at) VALUES (?, ?, ?, ?, ?);`,
		e.Session, e.Level, e.Message, e.Attrs, e.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, session, level, message, attrs, created_at FROM entries ORDER BY id DESC LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdStr string
		if err := rows.Scan(&e.ID, &e.Session, &e.Level, &e.Message, &e.Attrs, &createdStr); err != nil {
			return nil, err
		}
		if created, err := time.Parse(time.RFC3339Nano, createdStr); err == nil {
			e.CreatedAt = created
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// journalDSN turns a plain path into a modernc file: URI that creates
// the database on first use and waits on a locked file instead of failing.
func journalDSN(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	params := url.Values{
		"mode":    {"rwc"},
		"_pragma": {"busy_timeout(5000)", "journal_mode(WAL)"},
	}
	return (&url.URL{Scheme: "file", Path: path, RawQuery: params.Encode()}).String()
}
