// Package transcript records printed output in a SQL table, one row per
// line, so a session can be read back later.
package transcript

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const table = "gloom_transcript"

type dialect struct {
	ddl         string
	placeholder func(n int) string
}

func question(int) string { return "?" }
func dollar(n int) string { return fmt.Sprintf("$%d", n) }

var dialects = map[string]dialect{
	"sqlite3": {
		ddl: `CREATE TABLE IF NOT EXISTS ` + table + ` (
	session TEXT NOT NULL,
	seq INTEGER NOT NULL,
	line TEXT NOT NULL,
	emitted_at TIMESTAMP NOT NULL,
	PRIMARY KEY (session, seq)
)`,
		placeholder: question,
	},
	"mysql": {
		ddl: `CREATE TABLE IF NOT EXISTS ` + table + ` (
	session VARCHAR(32) NOT NULL,
	seq BIGINT NOT NULL,
	line TEXT NOT NULL,
	emitted_at DATETIME(6) NOT NULL,
	PRIMARY KEY (session, seq)
)`,
		placeholder: question,
	},
	"postgres": {
		ddl: `CREATE TABLE IF NOT EXISTS ` + table + ` (
	session VARCHAR(32) NOT NULL,
	seq BIGINT NOT NULL,
	line TEXT NOT NULL,
	emitted_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (session, seq)
)`,
		placeholder: dollar,
	},
}

// Drivers lists the supported database/sql driver names.
func Drivers() []string {
	return []string{"mysql", "postgres", "sqlite3"}
}

type Transcript struct {
	db      *sql.DB
	dialect dialect
	session string
	seq     int64
	insert  string
}

// Open connects to the database, creates the transcript table if needed and
// starts a new session.
func Open(ctx context.Context, driver, dsn string) (*Transcript, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported transcript driver %q (want one of %s)",
			driver, strings.Join(Drivers(), ", "))
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s transcript: %w", driver, err)
	}
	if driver == "sqlite3" {
		// every sqlite connection to :memory: is its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s transcript: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, d.ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create transcript table: %w", err)
	}

	session, err := newSessionID()
	if err != nil {
		db.Close()
		return nil, err
	}

	t := &Transcript{
		db:      db,
		dialect: d,
		session: session,
		insert: fmt.Sprintf("INSERT INTO %s (session, seq, line, emitted_at) VALUES (%s, %s, %s, %s)",
			table, d.placeholder(1), d.placeholder(2), d.placeholder(3), d.placeholder(4)),
	}
	slog.Debug("transcript opened",
		slog.String("driver", driver),
		slog.String("session", session))
	return t, nil
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}

func (t *Transcript) Session() string {
	return t.session
}

// Println appends one line to the session.
func (t *Transcript) Println(line string) error {
	t.seq++
	_, err := t.db.Exec(t.insert, t.session, t.seq, line, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record transcript line %d: %w", t.seq, err)
	}
	return nil
}

// Lines reads the current session back in the order it was written.
func (t *Transcript) Lines(ctx context.Context) ([]string, error) {
	return t.SessionLines(ctx, t.session)
}

func (t *Transcript) SessionLines(ctx context.Context, session string) ([]string, error) {
	query := fmt.Sprintf("SELECT line FROM %s WHERE session = %s ORDER BY seq",
		table, t.dialect.placeholder(1))
	rows, err := t.db.QueryContext(ctx, query, session)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan transcript line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (t *Transcript) Close() error {
	return t.db.Close()
}
