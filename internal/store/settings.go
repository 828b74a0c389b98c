package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nhle/sap-board/internal/model"
)

// Sub-scope names inside a settings scope.
const (
	announcementGroup = "announcement"
	dateGroup         = "date"
)

// SettingsStore implements Store on a YAML settings file. Under the scope
// key it keeps two parallel lists, "announcement" and "date", in display
// order. Lists rather than numbered keys make the restored order
// independent of how the file's keys happen to be enumerated.
type SettingsStore struct {
	path  string
	scope string
	log   *zap.Logger
}

// NewSettingsStore returns a SettingsStore for the YAML file at path. The
// file is created on the first Save. Keys in the file are case-insensitive,
// so scope is lowercased.
func NewSettingsStore(path, scope string) *SettingsStore {
	return &SettingsStore{path: path, scope: strings.ToLower(scope), log: zap.NewNop()}
}

func (s *SettingsStore) key(group string) string {
	return s.scope + "." + group
}

func (s *SettingsStore) newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("yaml")
	return v
}

// Load reads both lists. A missing file or scope yields no records. When
// the lists differ in length, only positions present in both are restored.
// A group written as a map keyed by position ("0", "1", ...) is read in
// numeric key order; any other shape is an error, so a file this store
// cannot read is never overwritten by an empty save.
func (s *SettingsStore) Load(ctx context.Context) ([]model.Announcement, LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, LoadReport{}, err
	}

	v := s.newViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
			return nil, LoadReport{}, nil
		}
		return nil, LoadReport{}, fmt.Errorf("reading settings %s: %w", s.path, err)
	}

	texts, err := s.readGroup(v, announcementGroup)
	if err != nil {
		return nil, LoadReport{}, err
	}
	dates, err := s.readGroup(v, dateGroup)
	if err != nil {
		return nil, LoadReport{}, err
	}

	n := min(len(texts), len(dates))
	rows := make([]persistedRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, persistedRow{position: i, text: texts[i], date: dates[i]})
	}

	records, report := decodeRows(rows, s.log)
	for i := n; i < max(len(texts), len(dates)); i++ {
		unpaired(&report, i, s.missingGroup(len(texts), len(dates)), s.log)
	}

	return records, report, nil
}

// readGroup returns the values stored under group in position order.
func (s *SettingsStore) readGroup(v *viper.Viper, group string) ([]string, error) {
	key := s.key(group)
	switch raw := v.Get(key).(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, len(raw))
		for i, item := range raw {
			str, err := cast.ToStringE(item)
			if err != nil {
				return nil, fmt.Errorf("settings %s: %s[%d]: %w", s.path, key, i, err)
			}
			out[i] = str
		}
		return out, nil
	case map[string]any:
		return s.readKeyedGroup(key, raw)
	default:
		return nil, fmt.Errorf("settings %s: %s must be a list or a map keyed by position, got %T", s.path, key, raw)
	}
}

// readKeyedGroup orders a {"0": .., "1": ..} map by its numeric keys.
func (s *SettingsStore) readKeyedGroup(key string, raw map[string]any) ([]string, error) {
	type entry struct {
		index int
		value string
	}
	entries := make([]entry, 0, len(raw))
	for k, item := range raw {
		index, err := strconv.Atoi(k)
		if err != nil || index < 0 {
			return nil, fmt.Errorf("settings %s: %s has non-position key %q", s.path, key, k)
		}
		str, err := cast.ToStringE(item)
		if err != nil {
			return nil, fmt.Errorf("settings %s: %s.%s: %w", s.path, key, k, err)
		}
		entries = append(entries, entry{index: index, value: str})
	}
	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.index, b.index) })

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.value
	}
	return out, nil
}

// Save replaces this scope's two lists. Other keys in the file are kept.
func (s *SettingsStore) Save(ctx context.Context, records []model.Announcement) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating settings directory %s: %w", dir, err)
	}

	texts := make([]string, len(records))
	dates := make([]string, len(records))
	for i, a := range records {
		texts[i] = a.Text
		dates[i] = a.CreatedDate.String()
	}

	in := s.newViper()
	if err := in.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading settings %s: %w", s.path, err)
		}
	}

	// Replace the scope's groups in the raw tree so a keyed layout read by
	// Load leaves no stale "0", "1", ... entries behind.
	settings := in.AllSettings()
	node := settings
	for _, part := range strings.Split(s.scope, ".") {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[announcementGroup] = texts
	node[dateGroup] = dates

	v := s.newViper()
	for k, val := range settings {
		v.Set(k, val)
	}

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings to %s: %w", s.path, err)
	}

	s.log.Debug("saved announcements", zap.String("path", s.path), zap.Int("count", len(records)))
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *SettingsStore) Close() error {
	return nil
}
