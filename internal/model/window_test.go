package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow_Days(t *testing.T) {
	_, ok := WindowAll.Days()
	assert.False(t, ok)

	tests := map[Window]int{
		WindowToday: 0,
		WindowWeek:  7,
		WindowMonth: 30,
	}
	for w, want := range tests {
		days, ok := w.Days()
		assert.True(t, ok, w.String())
		assert.Equal(t, want, days, w.String())
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in   string
		want Window
	}{
		{"", WindowAll},
		{"all", WindowAll},
		{"ALL", WindowAll},
		{"today", WindowToday},
		{"0", WindowToday},
		{"7", WindowWeek},
		{"week", WindowWeek},
		{"Last 7 Days", WindowWeek},
		{"30", WindowMonth},
		{" month ", WindowMonth},
	}
	for _, tt := range tests {
		got, err := ParseWindow(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseWindow("fortnight")
	assert.Error(t, err)
}

func TestWindow_StringParsesBack(t *testing.T) {
	for _, w := range Windows {
		got, err := ParseWindow(w.String())
		require.NoError(t, err)
		assert.Equal(t, w, got)

		got, err = ParseWindow(w.Label())
		require.NoError(t, err)
		assert.Equal(t, w, got)
	}
}
