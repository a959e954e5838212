package tracelog

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is the durable trace store for the server-side diagnostics
// tool. Uses SQLite with WAL mode for concurrent read access.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite creates or opens a SQLite trace database at the given path.
// Applies required pragmas and the schema automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// This function is idempotent - safe to call multiple times.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Append inserts rec and prunes the table to MaxEntries in the same
// transaction, so the cap invariant holds even with racing writers.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate ids are
// silently ignored.
func (s *SQLiteStore) Append(rec Record) error {
	var detailsJSON sql.NullString
	if rec.Details != nil {
		data, err := json.Marshal(rec.Details)
		if err != nil {
			return fmt.Errorf("append trace: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("append trace: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO delivery_traces
		(id, recipient_id, event_id, transport, stage, decision, reason, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		nullable(rec.RecipientID),
		nullable(rec.EventID),
		string(rec.Transport),
		string(rec.Stage),
		string(rec.Decision),
		rec.Reason,
		detailsJSON,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("append trace: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM delivery_traces WHERE id NOT IN (
			SELECT id FROM delivery_traces
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`, MaxEntries)
	if err != nil {
		return fmt.Errorf("append trace: prune: %w", err)
	}

	return tx.Commit()
}

// List returns up to limit records newest-first.
func (s *SQLiteStore) List(limit int) ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT id, recipient_id, event_id, transport, stage, decision, reason, details, created_at
		FROM delivery_traces
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec              Record
			recipient, event sql.NullString
			details          sql.NullString
			createdAt        string
		)
		if err := rows.Scan(&rec.ID, &recipient, &event, &rec.Transport, &rec.Stage,
			&rec.Decision, &rec.Reason, &details, &createdAt); err != nil {
			return nil, fmt.Errorf("list traces: %w", err)
		}
		rec.RecipientID = recipient.String
		rec.EventID = event.String
		if details.Valid {
			// Corrupted details degrade to nil rather than failing the read.
			var m map[string]any
			if err := json.Unmarshal([]byte(details.String), &m); err == nil {
				rec.Details = m
			}
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list traces: %w", err)
	}
	return recs, nil
}

// Clear deletes all trace rows.
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM delivery_traces`); err != nil {
		return fmt.Errorf("clear traces: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
