package entity

import "time"

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusNoShow    = "no_show"
	BookingStatusCompleted = "completed"
)

// MaxSeatsPerBooking is the application-level cap on seats in one booking.
const MaxSeatsPerBooking = 10

type Booking struct {
	ID                   string     `db:"id" json:"id"`
	RideID               string     `db:"ride_id" json:"ride_id"`
	UserID               string     `db:"user_id" json:"user_id"`
	Seats                int        `db:"seats" json:"seats"`
	Status               string     `db:"status" json:"status"`
	CompletedAt          *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	PassengerConfirmedAt *time.Time `db:"passenger_confirmed_at" json:"passenger_confirmed_at,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}

// CanBeCancelled reports whether the booking may still transition to cancelled.
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// IsTerminal reports whether no further status transition is allowed.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingStatusCancelled, BookingStatusNoShow, BookingStatusCompleted:
		return true
	}
	return false
}
