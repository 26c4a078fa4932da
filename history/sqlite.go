package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLog persists received messages to a SQLite database so the
// message log survives restarts.
type SQLiteLog struct {
	db        *sql.DB
	tableName string
}

var _ Log = (*SQLiteLog)(nil)

// SQLiteOptions configures the SQLite-backed log.
type SQLiteOptions struct {
	Path      string
	TableName string // default "messages"
}

// NewSQLiteLog opens (creating if needed) a SQLite-backed message log.
func NewSQLiteLog(opts SQLiteOptions) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "messages"
	}

	l := &SQLiteLog{
		db:        db,
		tableName: tableName,
	}

	if err := l.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *SQLiteLog) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			content TEXT NOT NULL,
			peer TEXT NOT NULL,
			received_at DATETIME NOT NULL
		);
	`, l.tableName)

	if _, err := l.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Append records an entry.
func (l *SQLiteLog) Append(entry Entry) error {
	if entry.ReceivedAt.IsZero() {
		entry.ReceivedAt = time.Now()
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (content, peer, received_at) VALUES (?, ?, ?)",
		l.tableName,
	)
	if _, err := l.db.Exec(query, entry.Content, entry.Peer, entry.ReceivedAt); err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// All returns every entry in receipt order.
func (l *SQLiteLog) All() ([]Entry, error) {
	query := fmt.Sprintf(
		"SELECT content, peer, received_at FROM %s ORDER BY id ASC",
		l.tableName,
	)
	rows, err := l.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Content, &e.Peer, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database connection.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
