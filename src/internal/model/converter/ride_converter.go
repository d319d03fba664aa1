package converter

import (
	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
)

func RideToResponse(ride *entity.Ride) *model.RideResponse {
	return &model.RideResponse{
		ID:                  ride.ID,
		DriverID:            ride.DriverID,
		PickupAddress:       ride.PickupAddress,
		PickupLat:           ride.PickupLat,
		PickupLng:           ride.PickupLng,
		DestinationAddress:  ride.DestinationAddress,
		DestinationLat:      ride.DestinationLat,
		DestinationLng:      ride.DestinationLng,
		DistanceMeters:      ride.DistanceMeters,
		DurationSeconds:     ride.DurationSeconds,
		HasRouteGeometry:    len(ride.RouteGeometry) > 0,
		AvailableSeats:      ride.AvailableSeats,
		PricePerSeat:        ride.PricePerSeat,
		DepartureTime:       ride.DepartureTime,
		Status:              ride.Status,
		VehicleType:         ride.VehicleType,
		PaymentMethod:       ride.PaymentMethod,
		BookingType:         ride.BookingType,
		Notes:               ride.Notes.String,
		CommunicationNumber: ride.CommunicationNumber.String,
		FinishedAt:          ride.FinishedAt,
		CreatedAt:           ride.CreatedAt,
	}
}

func RideToSearchResponse(ride *entity.RideWithDriver) *model.SearchRideResponse {
	return &model.SearchRideResponse{
		RideResponse: *RideToResponse(&ride.Ride),
		DriverName:   ride.DriverName,
		DriverPhone:  ride.DriverPhone.String,
	}
}

func RideToDriverResponse(ride *entity.RideWithBookings) *model.DriverRideResponse {
	return &model.DriverRideResponse{
		RideResponse: *RideToResponse(&ride.Ride),
		BookingCount: ride.BookingCount,
	}
}
