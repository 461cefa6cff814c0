package sqlite

import (
    "database/sql"
    "fmt"
    "time"

    _ "modernc.org/sqlite"
)

// Open opens (or creates) the service's database file. A single
// connection is enough for the write volumes here and sidesteps
// sqlite's writer lock.
func Open(path string) (*sql.DB, error) {
    db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
    if err != nil {
        return nil, fmt.Errorf("open sqlite: %w", err)
    }
    db.SetMaxOpenConns(1)
    return db, nil
}

func formatTime(t time.Time) string {
    return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
    return time.Parse(time.RFC3339Nano, s)
}
