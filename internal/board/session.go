package board

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/sap-board/internal/filter"
	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/store"
)

// Clock returns the current time.
type Clock func() time.Time

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now, which decides "today".
func WithClock(c Clock) Option {
	return func(s *Session) { s.now = c }
}

// WithLogger sets the logger used for contract violations and persistence.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithWindow sets the window selected when the session starts.
func WithWindow(w model.Window) Option {
	return func(s *Session) { s.window = w }
}

// Session owns a Board and its persistence for one run of the application.
// The presentation layer calls Open once, the On* handlers for each user
// action, and Close once on shutdown. It is not safe for concurrent use.
type Session struct {
	board  *Board
	store  store.Store
	window model.Window
	now    Clock
	log    *zap.Logger
	report store.LoadReport
	opened bool
	closed bool
}

// NewSession returns a Session backed by st.
func NewSession(st store.Store, opts ...Option) *Session {
	s := &Session{
		board:  New(),
		store:  st,
		window: model.WindowAll,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open restores the board from the store. It must complete before any
// handler is used.
func (s *Session) Open(ctx context.Context) error {
	records, report, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}
	if err := s.board.Replace(records); err != nil {
		return fmt.Errorf("restoring board: %w", err)
	}

	s.report = report
	s.opened = true
	s.log.Info("board loaded",
		zap.Int("records", report.Loaded),
		zap.Int("skipped", len(report.Skipped)),
	)
	return nil
}

// LoadReport returns what Open restored and skipped.
func (s *Session) LoadReport() store.LoadReport {
	return s.report
}

// Today returns the current calendar day according to the session clock.
func (s *Session) Today() model.Date {
	return model.DateOf(s.now())
}

// OnCreate adds text as the newest announcement. Empty or blank text
// returns ErrEmptyInput and leaves the board unchanged.
func (s *Session) OnCreate(text string) (string, error) {
	id, err := s.board.Create(text, s.Today())
	if err != nil {
		return "", err
	}
	s.log.Debug("announcement created", zap.String("id", id))
	return id, nil
}

// OnDelete removes the announcement at position. An out-of-range position
// means the caller's view is out of sync with the board; it is logged and
// returned.
func (s *Session) OnDelete(position int) error {
	if err := s.board.Delete(position); err != nil {
		if errors.Is(err, ErrOutOfRange) {
			s.log.Error("delete outside board", zap.Int("position", position), zap.Int("size", s.board.Len()))
		}
		return err
	}
	s.log.Debug("announcement deleted", zap.Int("position", position))
	return nil
}

// OnFilterSelect switches the active window. Records are never touched.
func (s *Session) OnFilterSelect(w model.Window) {
	s.window = w
}

// Window returns the active window.
func (s *Session) Window() model.Window {
	return s.window
}

// Rows returns the announcements visible under the active window.
func (s *Session) Rows() []filter.Row {
	return filter.Apply(s.board.List(), s.Today(), s.window)
}

// Records returns every announcement regardless of window.
func (s *Session) Records() []model.Announcement {
	return s.board.List()
}

// Len returns the total number of announcements.
func (s *Session) Len() int {
	return s.board.Len()
}

// Save writes the whole board to the store. Entries Open could not
// restore are not part of the board, so this drops them from the store.
func (s *Session) Save(ctx context.Context) error {
	if n := len(s.report.Skipped); n > 0 {
		s.log.Warn("saving drops unrestored entries", zap.Int("dropped", n))
	}
	if err := s.store.Save(ctx, s.board.List()); err != nil {
		return fmt.Errorf("saving board: %w", err)
	}
	s.log.Info("board saved", zap.Int("records", s.board.Len()))
	return nil
}

// Close saves the board and releases the store. Only the first call has
// any effect. A session that was never opened is released without saving
// so an empty board cannot overwrite stored data.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true

	var saveErr error
	if s.opened {
		saveErr = s.Save(ctx)
	}
	return errors.Join(saveErr, s.store.Close())
}

// Release closes the store without saving. It is for read-only runs.
func (s *Session) Release() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.store.Close()
}
