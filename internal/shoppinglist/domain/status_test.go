package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront/internal/apperr"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPrevious, StatusOngoing, true},
		{StatusOngoing, StatusCompleted, true},
		{StatusPrevious, StatusCompleted, false},
		{StatusCompleted, StatusOngoing, false},
		{StatusOngoing, StatusPrevious, false},
		{StatusCompleted, StatusPrevious, false},
		{StatusOngoing, StatusOngoing, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	_, ok := StatusCompleted.Next()
	assert.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Ongoing ")
	require.NoError(t, err)
	assert.Equal(t, StatusOngoing, st)

	_, err = ParseStatus("archived")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
