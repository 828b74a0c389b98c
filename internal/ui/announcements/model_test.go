package announcements

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sap-board/internal/filter"
	"github.com/nhle/sap-board/internal/keys"
	"github.com/nhle/sap-board/internal/model"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleRows() []filter.Row {
	return []filter.Row{
		{Position: 0, Announcement: model.Announcement{ID: "a", Text: "Meeting at 5pm", CreatedDate: model.NewDate(2024, time.January, 10)}},
		{Position: 2, Announcement: model.Announcement{ID: "c", Text: "Office closed", CreatedDate: model.NewDate(2024, time.January, 3)}},
	}
}

func newModel() Model {
	m := New(keys.DefaultKeyMap(), 80, 10)
	m.SetRows(sampleRows(), model.WindowWeek, 3)
	return m
}

func TestSetRows_ClampsSelection(t *testing.T) {
	m := newModel()
	m, _ = m.Update(runeKey("j"))
	row, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, 2, row.Position)

	m.SetRows(sampleRows()[:1], model.WindowToday, 3)
	row, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, row.Position)

	m.SetRows(nil, model.WindowToday, 3)
	_, ok = m.Selected()
	assert.False(t, ok)
}

func TestNavigationWraps(t *testing.T) {
	m := newModel()

	m, _ = m.Update(runeKey("k"))
	row, _ := m.Selected()
	assert.Equal(t, 2, row.Position)

	m, _ = m.Update(runeKey("j"))
	row, _ = m.Selected()
	assert.Equal(t, 0, row.Position)
}

func TestWindowKeys(t *testing.T) {
	tests := []struct {
		key  string
		want model.Window
	}{
		{"1", model.WindowAll},
		{"a", model.WindowAll},
		{"2", model.WindowToday},
		{"t", model.WindowToday},
		{"3", model.WindowWeek},
		{"4", model.WindowMonth},
		{"m", model.WindowMonth},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, cmd := newModel().Update(runeKey(tt.key))
			require.NotNil(t, cmd)
			assert.Equal(t, WindowSelectedMsg{Window: tt.want}, cmd())
		})
	}
}

func TestComposeKey(t *testing.T) {
	_, cmd := newModel().Update(runeKey("n"))
	require.NotNil(t, cmd)
	assert.Equal(t, ComposeRequestMsg{}, cmd())
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m := newModel()
	m, _ = m.Update(runeKey("j"))
	m, _ = m.Update(runeKey("d"))

	require.True(t, m.Confirming())
	assert.Equal(t, 2, m.pending.Position)
	assert.Contains(t, m.View(), "Delete Announcement")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Confirming())
	assert.Nil(t, cmd)
	assert.Len(t, m.Rows(), 2)
}

func TestDeleteOnEmptyListDoesNothing(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 10)
	m, cmd := m.Update(runeKey("d"))
	assert.False(t, m.Confirming())
	assert.Nil(t, cmd)
}

func TestEmptyStates(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 10)
	assert.Contains(t, m.View(), "No announcements yet")

	m.SetRows(nil, model.WindowToday, 4)
	assert.Contains(t, m.View(), "No announcements in today")
	assert.Contains(t, m.View(), "all 4")
}

func TestViewShowsDateAndHint(t *testing.T) {
	out := newModel().View()
	assert.Contains(t, out, "Meeting at 5pm")
	assert.Contains(t, out, "2024-01-10")
	assert.Contains(t, out, "[d] Delete")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "one two", preview("one\n  two", 20))
	assert.Equal(t, "abcd…", preview("abcdefgh", 5))
}
