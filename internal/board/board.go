// Package board holds the in-memory announcement list and the command
// handlers a presentation layer drives it through.
package board

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/sap-board/internal/model"
)

var (
	// ErrEmptyInput is returned when an announcement's text is empty or
	// whitespace only.
	ErrEmptyInput = errors.New("announcement text must not be empty")

	// ErrOutOfRange is returned for a position outside the current list.
	ErrOutOfRange = errors.New("announcement position out of range")
)

// Board is an ordered list of announcements, newest first. Position 0 is
// always the most recently created surviving record.
type Board struct {
	records []model.Announcement
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

// Create inserts a new announcement created on today at position 0 and
// returns its ID.
func (b *Board) Create(text string, today model.Date) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	a := model.Announcement{
		ID:          uuid.New().String(),
		Text:        text,
		CreatedDate: today,
	}
	b.records = slices.Insert(b.records, 0, a)

	return a.ID, nil
}

// Delete removes the announcement at position. The remaining records keep
// their relative order.
func (b *Board) Delete(position int) error {
	if position < 0 || position >= len(b.records) {
		return fmt.Errorf("deleting position %d of %d: %w", position, len(b.records), ErrOutOfRange)
	}
	b.records = slices.Delete(b.records, position, position+1)
	return nil
}

// At returns the announcement at position.
func (b *Board) At(position int) (model.Announcement, error) {
	if position < 0 || position >= len(b.records) {
		return model.Announcement{}, fmt.Errorf("reading position %d of %d: %w", position, len(b.records), ErrOutOfRange)
	}
	return b.records[position], nil
}

// List returns a copy of the announcements in display order.
func (b *Board) List() []model.Announcement {
	return slices.Clone(b.records)
}

// Len returns the number of announcements.
func (b *Board) Len() int {
	return len(b.records)
}

// Replace swaps the whole list for records, which must already be in
// newest-first order. Records without an ID are given one.
func (b *Board) Replace(records []model.Announcement) error {
	next := make([]model.Announcement, 0, len(records))
	for i, a := range records {
		if strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("record %d: %w", i, ErrEmptyInput)
		}
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		next = append(next, a)
	}
	b.records = next
	return nil
}
