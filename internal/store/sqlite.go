package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/upsert-observation.sql
var upsertObservationSQL string

//go:embed sql/get-latest-observation.sql
var getLatestObservationSQL string

//go:embed sql/get-observations.sql
var getObservationsSQL string

//go:embed sql/delete-observations-before.sql
var deleteObservationsBeforeSQL string

// SQLiteStore persists daily records as JSON payloads keyed by location and date.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the database at path and applies the schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn, err := buildDSN(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	// A single connection keeps in-memory databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func buildDSN(path string) (string, error) {
	if path == ":memory:" {
		return "file::memory:?_foreign_keys=on", nil
	}

	dir := filepath.Dir(strings.TrimPrefix(path, "file:"))
	if dir != "." && !strings.Contains(dir, "?") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	params := []string{
		"_foreign_keys=on",
		"_busy_timeout=5000",
		"_journal_mode=WAL",
	}
	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}
	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}

// Close releases the database.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRecords upserts all records in a single transaction.
func (s *SQLiteStore) SaveRecords(loc weather.Location, records []weather.ObservationRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertObservationSQL)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	key := loc.Key()
	for _, r := range records {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", r.Date, err)
		}
		if _, err := stmt.Exec(key, r.Date.String(), string(payload)); err != nil {
			return fmt.Errorf("upsert record %s: %w", r.Date, err)
		}
	}
	return tx.Commit()
}

// GetLatest returns the most recent record for a location.
func (s *SQLiteStore) GetLatest(loc weather.Location) (weather.ObservationRecord, error) {
	var payload string
	err := s.db.QueryRow(getLatestObservationSQL, loc.Key()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.ObservationRecord{}, ErrNotFound
	}
	if err != nil {
		return weather.ObservationRecord{}, err
	}

	var r weather.ObservationRecord
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return weather.ObservationRecord{}, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// GetRange returns all records for a location dated between from and to (inclusive).
func (s *SQLiteStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.ObservationRecord, error) {
	rows, err := s.db.Query(getObservationsSQL, loc.Key(),
		weather.NewDate(from).String(), weather.NewDate(to).String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close observation rows", "error", err)
		}
	}()

	var out []weather.ObservationRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r weather.ObservationRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Prune deletes records dated before cutoff and returns how many were removed.
func (s *SQLiteStore) Prune(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(deleteObservationsBeforeSQL, weather.NewDate(cutoff).String())
	if err != nil {
		return 0, fmt.Errorf("prune observations: %w", err)
	}
	return res.RowsAffected()
}
