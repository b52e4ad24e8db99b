package domain

import (
	"fmt"
	"strings"

	"github.com/dwikikusuma/storefront/internal/apperr"
)

// Status is the lifecycle state of a shopping list. It only ever moves
// forward: previous -> ongoing -> completed.
type Status string

const (
	StatusPrevious  Status = "previous"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", apperr.Invalid("status", fmt.Sprintf("unknown value %q", s))
	}
	return st, nil
}

func (s Status) Valid() bool {
	switch s {
	case StatusPrevious, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Next returns the direct successor of s. completed has none.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPrevious:
		return StatusOngoing, true
	case StatusOngoing:
		return StatusCompleted, true
	}
	return "", false
}

func (s Status) CanTransitionTo(to Status) bool {
	next, ok := s.Next()
	return ok && next == to
}
