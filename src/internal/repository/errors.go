package repository

import "errors"

var (
	ErrRideNotFound    = errors.New("ride not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")

	// ErrAlreadyCancelled guards the irreversible cancelled status.
	ErrAlreadyCancelled = errors.New("ride is already cancelled")
	ErrNotRideOwner     = errors.New("requester is not the ride driver")
	ErrNotBookingOwner  = errors.New("requester does not own the booking")

	// ErrRideUnavailable means the ride is not open for booking (cancelled or full).
	ErrRideUnavailable = errors.New("ride is not open for booking")
	// ErrInsufficientSeats means the requested seats exceed the remaining capacity.
	ErrInsufficientSeats = errors.New("not enough available seats")
	// ErrInvalidBookingState means the booking status does not allow the transition.
	ErrInvalidBookingState = errors.New("booking state does not allow this transition")
)
