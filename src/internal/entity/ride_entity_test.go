package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeatStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		seats    int
		expected string
	}{
		{"seats remain", RideStatusActive, 2, RideStatusActive},
		{"exactly zero flips to full", RideStatusActive, 0, RideStatusFull},
		{"full reverts when seats free up", RideStatusFull, 1, RideStatusActive},
		{"cancelled wins over zero seats", RideStatusCancelled, 0, RideStatusCancelled},
		{"cancelled wins over free seats", RideStatusCancelled, 3, RideStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ride := &Ride{Status: tt.status}
			assert.Equal(t, tt.expected, ride.SeatStatus(tt.seats))
		})
	}
}

func TestBookingTransitions(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).CanBeCancelled())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).CanBeCancelled())

	assert.True(t, (&Booking{Status: BookingStatusNoShow}).IsTerminal())
	assert.False(t, (&Booking{Status: BookingStatusConfirmed}).IsTerminal())
}
