package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/sap-board/internal/model"
)

// ErrMalformedDate marks a persisted record whose date could not be parsed.
var ErrMalformedDate = errors.New("malformed persisted date")

// ErrMissingText marks a persisted record with an empty text value.
var ErrMissingText = errors.New("missing persisted text")

// ErrUnpaired marks a persisted text or date with no partner at the same
// position.
var ErrUnpaired = errors.New("unpaired persisted entry")

// Store is the persistence boundary for the board. Save replaces whatever
// was stored before; Load returns records newest first.
type Store interface {
	Load(ctx context.Context) ([]model.Announcement, LoadReport, error)
	Save(ctx context.Context, records []model.Announcement) error
	Close() error
}

// SkippedRecord describes a persisted entry that Load could not restore.
type SkippedRecord struct {
	Position int
	Err      error
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Loaded  int
	Skipped []SkippedRecord
}

// Open returns the backend named by cfg.Backend. Scope names are
// case-insensitive: both backends see the lowercased name, matching how
// the settings file folds its keys. An empty cfg.Path selects the
// backend's default file.
func Open(cfg model.StorageConfig, log *zap.Logger) (Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	scope := NormalizeScope(cfg.Scope)

	path := cfg.Path
	if strings.TrimSpace(path) == "" {
		path = model.DefaultStoragePath(cfg.Backend)
	}

	switch cfg.Backend {
	case model.BackendSQLite, "":
		s, err := NewSQLiteStore(path, scope)
		if err != nil {
			return nil, err
		}
		s.log = log
		return s, nil
	case model.BackendSettings:
		s := NewSettingsStore(path, scope)
		s.log = log
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// NormalizeScope trims and lowercases scope, falling back to
// model.DefaultScope when it is blank.
func NormalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = model.DefaultScope
	}
	return strings.ToLower(scope)
}

// persistedRow is one position of the two parallel lists, before decoding.
type persistedRow struct {
	position int
	id       string
	text     string
	date     string
}

// decodeRows turns parallel text/date values into announcements. Rows with
// empty text or an unparseable date are skipped and reported rather than
// failing the whole load.
func decodeRows(rows []persistedRow, log *zap.Logger) ([]model.Announcement, LoadReport) {
	records := make([]model.Announcement, 0, len(rows))
	var report LoadReport

	for _, r := range rows {
		if strings.TrimSpace(r.text) == "" {
			report.Skipped = append(report.Skipped, SkippedRecord{Position: r.position, Err: ErrMissingText})
			log.Warn("skipping persisted announcement", zap.Int("position", r.position), zap.Error(ErrMissingText))
			continue
		}

		date, err := model.ParseDate(r.date)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrMalformedDate, err)
			report.Skipped = append(report.Skipped, SkippedRecord{Position: r.position, Err: err})
			log.Warn("skipping persisted announcement",
				zap.Int("position", r.position),
				zap.String("date", r.date),
				zap.Error(err),
			)
			continue
		}

		id := r.id
		if id == "" {
			id = uuid.New().String()
		}
		records = append(records, model.Announcement{ID: id, Text: r.text, CreatedDate: date})
	}

	report.Loaded = len(records)
	return records, report
}

// unpaired records a text or date at position whose partner list has no
// entry there.
func unpaired(report *LoadReport, position int, missing string, log *zap.Logger) {
	err := fmt.Errorf("%w: position %d has no %s entry", ErrUnpaired, position, missing)
	report.Skipped = append(report.Skipped, SkippedRecord{Position: position, Err: err})
	log.Warn("skipping unpaired persisted entry", zap.Int("position", position), zap.Error(err))
}
