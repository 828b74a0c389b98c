package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/nhle/sap-board/internal/model"
)

// SQLiteStore implements Store using a local SQLite database. The
// "Announcement" and "Date" groups live in two tables keyed by scope and
// position.
type SQLiteStore struct {
	db    *sqlx.DB
	scope string
	log   *zap.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath, scope string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// One connection: the board has a single writer, and an in-memory
	// database is private to the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, scope: scope, log: zap.NewNop()}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Load reads the scope's texts and dates, ordered by position. A text or
// date with no partner row at its position is reported as skipped.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Announcement, LoadReport, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT t.position, t.id, t.text, d.created_date
		FROM announcement_texts t
		LEFT JOIN announcement_dates d
			ON d.scope = t.scope AND d.position = t.position
		WHERE t.scope = ?
		ORDER BY t.position`, s.scope)
	if err != nil {
		return nil, LoadReport{}, fmt.Errorf("querying announcements: %w", err)
	}
	defer rows.Close()

	var (
		persisted   []persistedRow
		missingDate []int
	)
	for rows.Next() {
		var (
			r    persistedRow
			date sql.NullString
		)
		if err := rows.Scan(&r.position, &r.id, &r.text, &date); err != nil {
			return nil, LoadReport{}, fmt.Errorf("scanning announcement row: %w", err)
		}
		if !date.Valid {
			missingDate = append(missingDate, r.position)
			continue
		}
		r.date = date.String
		persisted = append(persisted, r)
	}
	if err := rows.Err(); err != nil {
		return nil, LoadReport{}, fmt.Errorf("iterating announcements: %w", err)
	}

	var orphanDates []int
	if err := s.db.SelectContext(ctx, &orphanDates, `
		SELECT d.position
		FROM announcement_dates d
		WHERE d.scope = ? AND NOT EXISTS (
			SELECT 1 FROM announcement_texts t
			WHERE t.scope = d.scope AND t.position = d.position)
		ORDER BY d.position`, s.scope); err != nil {
		return nil, LoadReport{}, fmt.Errorf("querying unpaired dates: %w", err)
	}

	records, report := decodeRows(persisted, s.log)
	for _, position := range missingDate {
		unpaired(&report, position, dateGroup, s.log)
	}
	for _, position := range orphanDates {
		unpaired(&report, position, announcementGroup, s.log)
	}
	slices.SortStableFunc(report.Skipped, func(a, b SkippedRecord) int {
		return cmp.Compare(a.Position, b.Position)
	})
	s.log.Debug("loaded announcements",
		zap.String("scope", s.scope),
		zap.Int("loaded", report.Loaded),
		zap.Int("skipped", len(report.Skipped)),
	)
	return records, report, nil
}

// Save clears the scope and writes records at positions 0..n-1.
func (s *SQLiteStore) Save(ctx context.Context, records []model.Announcement) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"announcement_texts", "announcement_dates"} {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE scope = ?", s.scope); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	textStmt, err := tx.PreparexContext(ctx,
		"INSERT INTO announcement_texts (scope, position, id, text) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing text insert: %w", err)
	}
	defer textStmt.Close()

	dateStmt, err := tx.PreparexContext(ctx,
		"INSERT INTO announcement_dates (scope, position, created_date) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing date insert: %w", err)
	}
	defer dateStmt.Close()

	for i, a := range records {
		if _, err := textStmt.ExecContext(ctx, s.scope, i, a.ID, a.Text); err != nil {
			return fmt.Errorf("saving announcement %d: %w", i, err)
		}
		if _, err := dateStmt.ExecContext(ctx, s.scope, i, a.CreatedDate.String()); err != nil {
			return fmt.Errorf("saving date %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO scopes (name, record_count, saved_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)`, s.scope, len(records)); err != nil {
		return fmt.Errorf("recording save of scope %s: %w", s.scope, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	s.log.Debug("saved announcements", zap.String("scope", s.scope), zap.Int("count", len(records)))
	return nil
}

// Scopes returns the names of every scope that has been saved, in name
// order.
func (s *SQLiteStore) Scopes(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, "SELECT name FROM scopes ORDER BY name"); err != nil {
		return nil, fmt.Errorf("querying scopes: %w", err)
	}
	return names, nil
}
