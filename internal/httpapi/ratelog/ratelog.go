// Package ratelog appends one row per served /parse request to a sqlite
// database, for the HTTP boundary's own operational visibility (nothing in
// the core parser reads this data back). It is deliberately append-only and
// best-effort: a logging failure is reported to the caller but never blocks
// or fails the request it is logging.
package ratelog

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
)

// Log appends served-request rows to a sqlite database.
type Log struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, wrapDBError(err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS served_requests (
	id          TEXT PRIMARY KEY,
	served_at   INTEGER NOT NULL,
	input_len   INTEGER NOT NULL,
	status_code INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, wrapDBError(err)
	}
	return &Log{db: db}, nil
}

// Record appends one row describing a served request.
func (l *Log) Record(correlationID string, inputLen, statusCode int) error {
	const stmt = `INSERT INTO served_requests (id, served_at, input_len, status_code) VALUES (?, ?, ?, ?)`
	_, err := l.db.Exec(stmt, correlationID, time.Now().Unix(), inputLen, statusCode)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Close closes the underlying database.
func (l *Log) Close() error {
	return l.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	}
	return err
}
