// Package store caches the most recent search locally so read-only commands
// (export, keyword analysis, the viewer) work without hitting the backend.
package store

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"qaboard/internal/qa"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNoSearch is returned by LastSearch when nothing has been cached yet.
var ErrNoSearch = errors.New("no cached search")

// ErrNotFound is returned by Record when the id is not part of the cached
// search. An empty cache also reports ErrNotFound; ErrNoSearch is the
// LastSearch signal.
var ErrNotFound = errors.New("record not in cached search")

// Snapshot is one completed search: the parameters that produced it, the
// aggregate statistics, and the records in the order the backend returned them.
type Snapshot struct {
	Params     qa.SearchParams
	Statistics qa.Statistics
	Records    []qa.QARecord
	FetchedAt  time.Time
}

// Store wraps a SQLite database holding the last completed search.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending migrations.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "qaboard.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	// Set busy timeout so concurrent access waits briefly instead of failing immediately.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate reads embedded SQL migration files and applies any that haven't been run yet.
func (s *Store) migrate() error {
	// Ensure schema_version table exists (bootstrap).
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort by filename to guarantee ascending order.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, err := parseMigrationVersion(entry.Name())
		if err != nil {
			return err
		}

		// Check if already applied.
		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}

		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}

	return nil
}

func parseMigrationVersion(filename string) (int, error) {
	var version int
	if _, err := fmt.Sscanf(filename, "%d_", &version); err != nil {
		return 0, fmt.Errorf("parsing migration version from %q: %w", filename, err)
	}
	return version, nil
}

// AppliedMigrations returns the list of applied migration versions in ascending order.
func (s *Store) AppliedMigrations() ([]int, error) {
	rows, err := s.db.Query("SELECT version FROM schema_version ORDER BY version ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// SaveSearch replaces the cached search wholesale. The cache only ever holds
// the last completed search, so save runs as delete-then-insert in one
// transaction.
func (s *Store) SaveSearch(snap Snapshot) error {
	paramsJSON, err := json.Marshal(snap.Params)
	if err != nil {
		return fmt.Errorf("encoding search params: %w", err)
	}
	statsJSON, err := json.Marshal(snap.Statistics)
	if err != nil {
		return fmt.Errorf("encoding statistics: %w", err)
	}

	fetchedAt := snap.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM searches"); err != nil {
		return fmt.Errorf("clearing search: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO searches (id, params_json, stats_json, fetched_at)
		VALUES (1, ?, ?, ?)`,
		string(paramsJSON), string(statsJSON), fetchedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("saving search: %w", err)
	}

	for pos, rec := range snap.Records {
		var status sql.NullFloat64
		if rec.MatchStatus != nil {
			status = sql.NullFloat64{Float64: *rec.MatchStatus, Valid: true}
		}
		if _, err := tx.Exec(`
			INSERT INTO records (position, id, chat_id, question, answer, timestamp, match_status, reflection_completed, is_sent, session_count, source_icon, source_desc)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			pos, rec.ID, rec.ChatID, rec.Question, rec.Answer, rec.Timestamp,
			status, rec.ReflectionCompleted, rec.IsSent, rec.SessionCount,
			rec.SourceIcon, rec.SourceDesc,
		); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// LastSearch returns the cached search, or ErrNoSearch when the cache is empty.
func (s *Store) LastSearch() (Snapshot, error) {
	var snap Snapshot
	var paramsJSON, statsJSON, fetchedAt string
	err := s.db.QueryRow("SELECT params_json, stats_json, fetched_at FROM searches WHERE id = 1").
		Scan(&paramsJSON, &statsJSON, &fetchedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNoSearch
	}
	if err != nil {
		return Snapshot{}, err
	}

	if err := json.Unmarshal([]byte(paramsJSON), &snap.Params); err != nil {
		return Snapshot{}, fmt.Errorf("decoding search params: %w", err)
	}
	if err := json.Unmarshal([]byte(statsJSON), &snap.Statistics); err != nil {
		return Snapshot{}, fmt.Errorf("decoding statistics: %w", err)
	}
	if snap.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt); err != nil {
		return Snapshot{}, fmt.Errorf("parsing fetched_at: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT id, chat_id, question, answer, timestamp, match_status, reflection_completed, is_sent, session_count, source_icon, source_desc
		FROM records ORDER BY position ASC`)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var rec qa.QARecord
		var status sql.NullFloat64
		if err := rows.Scan(&rec.ID, &rec.ChatID, &rec.Question, &rec.Answer, &rec.Timestamp,
			&status, &rec.ReflectionCompleted, &rec.IsSent, &rec.SessionCount,
			&rec.SourceIcon, &rec.SourceDesc); err != nil {
			return Snapshot{}, err
		}
		if status.Valid {
			v := status.Float64
			rec.MatchStatus = &v
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// Record returns a single cached record by its backend id.
func (s *Store) Record(id string) (qa.QARecord, error) {
	var rec qa.QARecord
	var status sql.NullFloat64
	err := s.db.QueryRow(`
		SELECT id, chat_id, question, answer, timestamp, match_status, reflection_completed, is_sent, session_count, source_icon, source_desc
		FROM records WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.ChatID, &rec.Question, &rec.Answer, &rec.Timestamp,
		&status, &rec.ReflectionCompleted, &rec.IsSent, &rec.SessionCount,
		&rec.SourceIcon, &rec.SourceDesc)
	if err == sql.ErrNoRows {
		return qa.QARecord{}, ErrNotFound
	}
	if err != nil {
		return qa.QARecord{}, err
	}
	if status.Valid {
		v := status.Float64
		rec.MatchStatus = &v
	}
	return rec, nil
}
