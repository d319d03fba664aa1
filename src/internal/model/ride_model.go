package model

import "time"

// EndpointRequest carries one ride endpoint. Exactly one of the coordinate
// pair or the free-text address must be usable.
type EndpointRequest struct {
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Address string   `json:"address"`
}

func (e *EndpointRequest) HasCoordinates() bool {
	return e.Lat != nil && e.Lng != nil
}

type CreateRideRequest struct {
	DriverID            string          `json:"-" validate:"required"`
	Pickup              EndpointRequest `json:"pickup"`
	Destination         EndpointRequest `json:"destination"`
	DepartureTime       time.Time       `json:"departure_time" validate:"required"`
	AvailableSeats      int             `json:"available_seats" validate:"required,min=1,max=10"`
	PricePerSeat        float64         `json:"price_per_seat" validate:"min=0"`
	VehicleType         string          `json:"vehicle_type" validate:"max=50"`
	PaymentMethod       string          `json:"payment_method" validate:"max=50"`
	BookingType         string          `json:"booking_type" validate:"omitempty,oneof=direct request"`
	Notes               string          `json:"notes" validate:"max=500"`
	CommunicationNumber string          `json:"communication_number" validate:"max=30"`
}

// BookRideRequest's seat cap is enforced in the usecase against
// entity.MaxSeatsPerBooking, keeping the limit in one place.
type BookRideRequest struct {
	RideID string `json:"-" validate:"required"`
	UserID string `json:"-" validate:"required"`
	Seats  int    `json:"seats" validate:"required,min=1"`
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

type BookingActionRequest struct {
	BookingID string `json:"-" validate:"required"`
	UserID    string `json:"-" validate:"required"`
}

type LocationRequest struct {
	Lat float64 `json:"lat" validate:"required"`
	Lng float64 `json:"lng" validate:"required"`
}

type SearchRideRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Seats       int             `json:"seats" validate:"required,min=1,max=10"`
	Source      LocationRequest `json:"source"`
	Destination LocationRequest `json:"destination"`
}

type RideResponse struct {
	ID                  string     `json:"id"`
	DriverID            string     `json:"driver_id"`
	PickupAddress       string     `json:"pickup_address"`
	PickupLat           float64    `json:"pickup_lat"`
	PickupLng           float64    `json:"pickup_lng"`
	DestinationAddress  string     `json:"destination_address"`
	DestinationLat      float64    `json:"destination_lat"`
	DestinationLng      float64    `json:"destination_lng"`
	DistanceMeters      uint64     `json:"distance_meters"`
	DurationSeconds     uint64     `json:"duration_seconds"`
	HasRouteGeometry    bool       `json:"has_route_geometry"`
	AvailableSeats      int        `json:"available_seats"`
	PricePerSeat        float64    `json:"price_per_seat"`
	DepartureTime       time.Time  `json:"departure_time"`
	Status              string     `json:"status"`
	VehicleType         string     `json:"vehicle_type,omitempty"`
	PaymentMethod       string     `json:"payment_method,omitempty"`
	BookingType         string     `json:"booking_type,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CommunicationNumber string     `json:"communication_number,omitempty"`
	FinishedAt          *time.Time `json:"finished_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

type SearchRideResponse struct {
	RideResponse
	DriverName  string `json:"driver_name"`
	DriverPhone string `json:"driver_phone,omitempty"`
}

type DriverRideResponse struct {
	RideResponse
	BookingCount int `json:"booking_count"`
}

type BookingResponse struct {
	ID                   string     `json:"id"`
	RideID               string     `json:"ride_id"`
	UserID               string     `json:"user_id"`
	Seats                int        `json:"seats"`
	Status               string     `json:"status"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	PassengerConfirmedAt *time.Time `json:"passenger_confirmed_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	RideStatus           string     `json:"ride_status,omitempty"`
	RideAvailableSeats   *int       `json:"ride_available_seats,omitempty"`
}
