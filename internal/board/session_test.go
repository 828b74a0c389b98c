package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nhle/sap-board/internal/model"
	"github.com/nhle/sap-board/internal/store"
	"github.com/nhle/sap-board/tests/testutil"
)

// reportingStore returns a fixed load report.
type reportingStore struct {
	store.Store
	report store.LoadReport
}

func (r *reportingStore) Load(ctx context.Context) ([]model.Announcement, store.LoadReport, error) {
	records, _, err := r.Store.Load(ctx)
	return records, r.report, err
}

// countingStore wraps a Store and counts Save and Close calls.
type countingStore struct {
	store.Store
	saves   int
	closes  int
	saveErr error
}

func (c *countingStore) Save(ctx context.Context, records []model.Announcement) error {
	c.saves++
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.Store.Save(ctx, records)
}

func (c *countingStore) Close() error {
	c.closes++
	return nil
}

func newSession(t *testing.T, st store.Store, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithClock(testutil.FixedClock(2024, time.January, 10))}, opts...)
	s := NewSession(st, opts...)
	require.NoError(t, s.Open(context.Background()))
	return s
}

func rowTexts(s *Session) []string {
	var out []string
	for _, r := range s.Rows() {
		out = append(out, r.Announcement.Text)
	}
	return out
}

func TestSession_CreateUsesClock(t *testing.T) {
	s := newSession(t, testutil.NewTestStore(t))

	id, err := s.OnCreate("Meeting at 5pm")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, model.NewDate(2024, time.January, 10), records[0].CreatedDate)
	assert.Equal(t, id, records[0].ID)
}

func TestSession_EmptyCreateIsIgnored(t *testing.T) {
	s := newSession(t, testutil.NewTestStore(t))

	_, err := s.OnCreate("")
	assert.ErrorIs(t, err, ErrEmptyInput)
	_, err = s.OnCreate("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Zero(t, s.Len())
}

func TestSession_FilterSelectOnlyChangesVisibility(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)
	require.NoError(t, st.Save(ctx, []model.Announcement{
		{Text: "Meeting at 5pm", CreatedDate: model.NewDate(2024, time.January, 10)},
		{Text: "Office closed", CreatedDate: model.NewDate(2024, time.January, 3)},
		{Text: "Holiday party", CreatedDate: model.NewDate(2023, time.November, 20)},
	}))

	s := newSession(t, st)
	assert.Equal(t, model.WindowAll, s.Window())

	s.OnFilterSelect(model.WindowToday)
	assert.Equal(t, []string{"Meeting at 5pm"}, rowTexts(s))

	s.OnFilterSelect(model.WindowWeek)
	assert.Equal(t, []string{"Meeting at 5pm", "Office closed"}, rowTexts(s))

	s.OnFilterSelect(model.WindowMonth)
	assert.Equal(t, []string{"Meeting at 5pm", "Office closed"}, rowTexts(s))

	s.OnFilterSelect(model.WindowAll)
	assert.Equal(t, []string{"Meeting at 5pm", "Office closed", "Holiday party"}, rowTexts(s))
	assert.Equal(t, 3, s.Len())
}

func TestSession_DeleteUsesBoardPositions(t *testing.T) {
	s := newSession(t, testutil.NewTestStore(t), WithWindow(model.WindowToday))

	_, _ = s.OnCreate("one")
	_, _ = s.OnCreate("two")

	rows := s.Rows()
	require.Len(t, rows, 2)
	require.NoError(t, s.OnDelete(rows[1].Position))
	assert.Equal(t, []string{"two"}, rowTexts(s))

	assert.ErrorIs(t, s.OnDelete(4), ErrOutOfRange)
	assert.Equal(t, 1, s.Len())
}

func TestSession_CloseSavesOnce(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewTestStore(t)
	st := &countingStore{Store: inner}

	s := newSession(t, st)
	_, _ = s.OnCreate("persist me")

	require.NoError(t, s.Close(ctx))
	require.NoError(t, s.Close(ctx))
	assert.Equal(t, 1, st.saves)
	assert.Equal(t, 1, st.closes)

	records, _, err := inner.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persist me", records[0].Text)
}

func TestSession_CloseReportsSaveError(t *testing.T) {
	boom := errors.New("disk full")
	st := &countingStore{Store: testutil.NewTestStore(t), saveErr: boom}

	s := newSession(t, st)
	err := s.Close(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, st.closes)
}

func TestSession_UnopenedCloseDoesNotSave(t *testing.T) {
	st := &countingStore{Store: testutil.NewTestStore(t)}
	s := NewSession(st)

	require.NoError(t, s.Close(context.Background()))
	assert.Zero(t, st.saves)
	assert.Equal(t, 1, st.closes)
}

func TestSession_ReleaseDoesNotSave(t *testing.T) {
	st := &countingStore{Store: testutil.NewTestStore(t)}
	s := newSession(t, st)
	_, _ = s.OnCreate("draft")

	require.NoError(t, s.Release())
	require.NoError(t, s.Close(context.Background()))
	assert.Zero(t, st.saves)
	assert.Equal(t, 1, st.closes)
}

func TestSession_RestartRoundtrip(t *testing.T) {
	ctx := context.Background()
	st := testutil.NewTestStore(t)

	first := NewSession(st, WithClock(testutil.FixedClock(2024, time.January, 3)))
	require.NoError(t, first.Open(ctx))
	_, _ = first.OnCreate("Office closed")
	require.NoError(t, first.Save(ctx))

	second := NewSession(st, WithClock(testutil.FixedClock(2024, time.January, 10)))
	require.NoError(t, second.Open(ctx))
	_, _ = second.OnCreate("Meeting at 5pm")
	require.NoError(t, second.Save(ctx))

	third := newSession(t, st)
	assert.Equal(t, []string{"Meeting at 5pm", "Office closed"}, rowTexts(third))
	assert.Equal(t, second.Records(), third.Records())
}

func TestSession_SaveWarnsAboutUnrestoredEntries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	st := &reportingStore{
		Store: testutil.NewTestStore(t),
		report: store.LoadReport{Skipped: []store.SkippedRecord{
			{Position: 1, Err: store.ErrMalformedDate},
		}},
	}

	s := newSession(t, st, WithLogger(zap.New(core)))
	assert.Len(t, s.LoadReport().Skipped, 1)

	require.NoError(t, s.Save(context.Background()))
	entries := logs.FilterMessage("saving drops unrestored entries").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(1), entries[0].ContextMap()["dropped"])
}
