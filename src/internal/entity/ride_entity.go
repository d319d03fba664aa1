package entity

import (
	"database/sql"
	"time"
)

const (
	RideStatusActive    = "active"
	RideStatusFull      = "full"
	RideStatusCancelled = "cancelled"
)

const (
	BookingTypeDirect  = "direct"
	BookingTypeRequest = "request"
)

type Ride struct {
	ID                  string         `db:"id" json:"id"`
	DriverID            string         `db:"driver_id" json:"driver_id"`
	PickupAddress       string         `db:"pickup_address" json:"pickup_address"`
	PickupLat           float64        `db:"pickup_lat" json:"pickup_lat"`
	PickupLng           float64        `db:"pickup_lng" json:"pickup_lng"`
	DestinationAddress  string         `db:"destination_address" json:"destination_address"`
	DestinationLat      float64        `db:"destination_lat" json:"destination_lat"`
	DestinationLng      float64        `db:"destination_lng" json:"destination_lng"`
	DistanceMeters      uint64         `db:"distance_meters" json:"distance_meters"`
	DurationSeconds     uint64         `db:"duration_seconds" json:"duration_seconds"`
	RouteGeometry       []byte         `db:"route_geometry" json:"-"` // JSON [[lat,lng],...], NULL when the provider returned none
	RouteAlternative    int            `db:"route_alternative" json:"route_alternative"`
	AvailableSeats      int            `db:"available_seats" json:"available_seats"`
	PricePerSeat        float64        `db:"price_per_seat" json:"price_per_seat"`
	DepartureTime       time.Time      `db:"departure_time" json:"departure_time"`
	FinishedAt          *time.Time     `db:"finished_at" json:"finished_at,omitempty"`
	DriverConfirmedAt   *time.Time     `db:"driver_confirmed_at" json:"driver_confirmed_at,omitempty"`
	PassengersConfirmed bool           `db:"passengers_confirmed" json:"passengers_confirmed"`
	Status              string         `db:"status" json:"status"`
	VehicleType         string         `db:"vehicle_type" json:"vehicle_type"`
	PaymentMethod       string         `db:"payment_method" json:"payment_method"`
	BookingType         string         `db:"booking_type" json:"booking_type"`
	Notes               sql.NullString `db:"notes" json:"-"`
	CommunicationNumber sql.NullString `db:"communication_number" json:"-"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// SeatStatus derives the active/full status from the remaining seat count.
// Cancellation is the only status not derivable from seats and always wins.
func (r *Ride) SeatStatus(availableSeats int) string {
	if r.Status == RideStatusCancelled {
		return RideStatusCancelled
	}
	if availableSeats == 0 {
		return RideStatusFull
	}
	return RideStatusActive
}

// RideWithDriver is the search/list projection joined with driver info.
type RideWithDriver struct {
	Ride
	DriverName  string         `db:"driver_name" json:"driver_name"`
	DriverPhone sql.NullString `db:"driver_phone" json:"driver_phone"`
}

// RideWithBookings is the driver-listing projection annotated with its booking count.
type RideWithBookings struct {
	Ride
	BookingCount int `db:"booking_count" json:"booking_count"`
}
