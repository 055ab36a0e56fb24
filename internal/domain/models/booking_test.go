package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{BookingPending, BookingAccepted, true},
		{BookingPending, BookingCancelled, true},
		{BookingAccepted, BookingConfirmed, true},
		{BookingAccepted, BookingCancelled, true},
		{BookingConfirmed, BookingInProgress, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingInProgress, BookingCompleted, true},

		{BookingPending, BookingConfirmed, false},
		{BookingPending, BookingCompleted, false},
		{BookingAccepted, BookingInProgress, false},
		{BookingInProgress, BookingCancelled, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingPending, false},
		{BookingCompleted, BookingInProgress, false},
		{"unknown", BookingAccepted, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanCancelStopsOnceWorkStarts(t *testing.T) {
	assert.True(t, CanCancel(BookingPending))
	assert.True(t, CanCancel(BookingAccepted))
	assert.True(t, CanCancel(BookingConfirmed))
	assert.False(t, CanCancel(BookingInProgress))
	assert.False(t, CanCancel(BookingCompleted))
	assert.False(t, CanCancel(BookingCancelled))
}

func TestIsBookingStatus(t *testing.T) {
	for _, s := range []string{BookingPending, BookingAccepted, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled} {
		assert.True(t, IsBookingStatus(s), s)
	}
	assert.False(t, IsBookingStatus("paused"))
	assert.False(t, IsBookingStatus(""))
}
