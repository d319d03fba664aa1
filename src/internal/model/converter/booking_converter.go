package converter

import (
	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
)

func BookingToResponse(booking *entity.Booking, ride *entity.Ride) *model.BookingResponse {
	resp := &model.BookingResponse{
		ID:                   booking.ID,
		RideID:               booking.RideID,
		UserID:               booking.UserID,
		Seats:                booking.Seats,
		Status:               booking.Status,
		CompletedAt:          booking.CompletedAt,
		PassengerConfirmedAt: booking.PassengerConfirmedAt,
		CreatedAt:            booking.CreatedAt,
	}
	if ride != nil {
		resp.RideStatus = ride.Status
		seats := ride.AvailableSeats
		resp.RideAvailableSeats = &seats
	}
	return resp
}
