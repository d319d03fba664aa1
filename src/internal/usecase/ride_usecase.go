package usecase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/geo"
	"ride-service/src/internal/model"
	"ride-service/src/internal/model/converter"
	"ride-service/src/internal/repository"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"
)

type RideUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	Config            *viper.Viper
	RideRepository    RideRepository
	BookingRepository BookingRepository
	UserRepository    UserRepository
	Geo               GeoResolver
	Asynq             TaskEnqueuer
}

func NewRideUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	rideRepository RideRepository,
	bookingRepository BookingRepository,
	userRepository UserRepository,
	geoResolver GeoResolver,
	enqueuer TaskEnqueuer,
) *RideUseCase {
	return &RideUseCase{
		Log:               logger,
		Validate:          validate,
		Config:            cfg,
		RideRepository:    rideRepository,
		BookingRepository: bookingRepository,
		UserRepository:    userRepository,
		Geo:               geoResolver,
		Asynq:             enqueuer,
	}
}

// Create geocodes both endpoints, resolves the route and persists the ride.
// All provider calls happen before the insert transaction so no row is ever
// held locked across network I/O.
func (c *RideUseCase) Create(ctx context.Context, request *model.CreateRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "Create", utils.ConvertString(request))
		return result
	}

	if !request.DepartureTime.After(time.Now()) {
		errObj := httpError.NewBadRequest().WithCode("DEPARTURE_IN_PAST")
		errObj.Message = "departure time must be in the future"
		result.Error = errObj
		return result
	}

	pickup, errObj := c.resolveEndpoint(ctx, &request.Pickup, "pickup")
	if errObj != nil {
		result.Error = errObj
		return result
	}
	destination, errObj := c.resolveEndpoint(ctx, &request.Destination, "destination")
	if errObj != nil {
		result.Error = errObj
		return result
	}

	route, err := c.Geo.Route(ctx,
		geo.Point{Lat: pickup.Lat, Lng: pickup.Lng},
		geo.Point{Lat: destination.Lat, Lng: destination.Lng})
	if err != nil {
		errObj := c.mapGeoError(err)
		result.Error = errObj
		c.Log.Error("ride-usecase", errObj.Message, "Create", utils.ConvertString(err))
		return result
	}

	geometry := route.Geometry
	if len(geometry) > 0 {
		if _, ok := geo.ParseGeometry(geometry); !ok {
			c.Log.Warn("ride-usecase", "dropping malformed route geometry", "Create", pickup.Label)
			geometry = nil
		}
	}

	now := time.Now().UTC()
	bookingType := request.BookingType
	if bookingType == "" {
		bookingType = entity.BookingTypeDirect
	}

	ride := entity.Ride{
		ID:                  uuid.NewString(),
		DriverID:            request.DriverID,
		PickupAddress:       pickup.Label,
		PickupLat:           pickup.Lat,
		PickupLng:           pickup.Lng,
		DestinationAddress:  destination.Label,
		DestinationLat:      destination.Lat,
		DestinationLng:      destination.Lng,
		DistanceMeters:      route.DistanceMeters,
		DurationSeconds:     route.DurationSeconds,
		RouteGeometry:       geometry,
		RouteAlternative:    route.Alternative,
		AvailableSeats:      request.AvailableSeats,
		PricePerSeat:        request.PricePerSeat,
		DepartureTime:       request.DepartureTime.UTC(),
		Status:              entity.RideStatusActive,
		VehicleType:         request.VehicleType,
		PaymentMethod:       request.PaymentMethod,
		BookingType:         bookingType,
		Notes:               sql.NullString{String: request.Notes, Valid: request.Notes != ""},
		CommunicationNumber: sql.NullString{String: request.CommunicationNumber, Valid: request.CommunicationNumber != ""},
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := c.RideRepository.Insert(ctx, &ride); err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to create ride"
		result.Error = errObj
		c.Log.Error("ride-usecase", fmt.Sprintf("insert failed: %v", err), "Create", ride.ID)
		return result
	}

	c.Log.Info("ride-usecase", "ride created", "Create", ride.ID)
	result.Data = converter.RideToResponse(&ride)
	return result
}

// resolveEndpoint turns one endpoint request into coordinates plus a label.
// Coordinates win over an address; reverse geocoding is best effort and falls
// back to a coordinate string.
func (c *RideUseCase) resolveEndpoint(ctx context.Context, endpoint *model.EndpointRequest, side string) (*geo.Place, *httpError.CommonError) {
	if endpoint.HasCoordinates() {
		label, err := c.Geo.ReverseGeocode(ctx, *endpoint.Lat, *endpoint.Lng)
		if err != nil {
			if errors.Is(err, geo.ErrProviderUnavailable) {
				c.Log.Warn("ride-usecase", fmt.Sprintf("reverse geocode unavailable for %s: %v", side, err), "resolveEndpoint", "")
			}
			label = fmt.Sprintf("%.5f, %.5f", *endpoint.Lat, *endpoint.Lng)
		}
		return &geo.Place{Lat: *endpoint.Lat, Lng: *endpoint.Lng, Label: label}, nil
	}

	if strings.TrimSpace(endpoint.Address) != "" {
		place, err := c.Geo.Geocode(ctx, endpoint.Address)
		if err != nil {
			errObj := c.mapGeoError(err)
			errObj.Message = fmt.Sprintf("%s: %s", side, errObj.Message)
			return nil, errObj
		}
		return place, nil
	}

	errObj := httpError.NewBadRequest().WithCode("MISSING_LOCATION_DATA")
	errObj.Message = fmt.Sprintf("%s requires either coordinates or an address", side)
	return nil, errObj
}

// mapGeoError translates geo sentinels into HTTP error objects. Provider
// outage is the only 5xx; bad input stays 4xx. Upstream detail is exposed in
// debug configuration only.
func (c *RideUseCase) mapGeoError(err error) *httpError.CommonError {
	var errObj *httpError.CommonError
	switch {
	case errors.Is(err, geo.ErrGeocodeNotFound):
		errObj = httpError.NewUnprocessableEntity().WithCode("GEOCODE_NOT_FOUND")
		errObj.Message = "address could not be resolved"
	case errors.Is(err, geo.ErrGeocodeMalformed):
		errObj = httpError.NewUnprocessableEntity().WithCode("GEOCODE_MALFORMED")
		errObj.Message = "geocoding returned no usable coordinates"
	case errors.Is(err, geo.ErrIdenticalEndpoints):
		errObj = httpError.NewUnprocessableEntity().WithCode("IDENTICAL_ENDPOINTS")
		errObj.Message = "pickup and destination are the same location"
	case errors.Is(err, geo.ErrRouteUnavailable):
		errObj = httpError.NewUnprocessableEntity().WithCode("ROUTE_UNAVAILABLE")
		errObj.Message = "no route found between pickup and destination"
	case errors.Is(err, geo.ErrProviderUnavailable):
		errObj = httpError.NewServiceUnavailable().WithCode("PROVIDER_UNAVAILABLE")
		errObj.Message = "routing provider is unavailable, try again later"
	default:
		errObj = httpError.NewInternalServerError()
		errObj.Message = "failed to resolve route"
	}
	if c.Config != nil && c.Config.GetBool("app.debug") {
		errObj.Detail = err.Error()
	}
	return errObj
}

// Detail returns one ride with the driver attached. A missing driver record
// degrades to the bare ride rather than failing the lookup.
func (c *RideUseCase) Detail(ctx context.Context, rideID string) utils.Result {
	var result utils.Result

	ride, err := c.RideRepository.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrRideNotFound) {
			errObj := httpError.NewNotFound().WithCode("RIDE_NOT_FOUND")
			errObj.Message = fmt.Sprintf("ride %s not found", rideID)
			result.Error = errObj
			return result
		}
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "Detail", rideID)
		return result
	}

	withDriver := entity.RideWithDriver{Ride: *ride}
	if driver, err := c.UserRepository.FindByID(ctx, ride.DriverID); err == nil {
		withDriver.DriverName = driver.FullName
		withDriver.DriverPhone = driver.MobileNumber
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		c.Log.Warn("ride-usecase", fmt.Sprintf("driver lookup failed: %v", err), "Detail", rideID)
	}

	result.Data = converter.RideToSearchResponse(&withDriver)
	return result
}

func (c *RideUseCase) ListUpcoming(ctx context.Context) utils.Result {
	var result utils.Result

	rides, err := c.RideRepository.ListUpcoming(ctx, time.Now().UTC())
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "ListUpcoming", "")
		return result
	}

	responses := make([]*model.SearchRideResponse, 0, len(rides))
	for i := range rides {
		responses = append(responses, converter.RideToSearchResponse(&rides[i]))
	}
	result.Data = responses
	return result
}

func (c *RideUseCase) ListMine(ctx context.Context, driverID string) utils.Result {
	var result utils.Result

	rides, err := c.RideRepository.ListForDriver(ctx, driverID)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "ListMine", driverID)
		return result
	}

	responses := make([]*model.DriverRideResponse, 0, len(rides))
	for i := range rides {
		responses = append(responses, converter.RideToDriverResponse(&rides[i]))
	}
	result.Data = responses
	return result
}

// Search answers "rides near this corridor on this date with enough seats".
// The repository narrows by date, status and capacity; the two spatial
// predicates run here and a ride matches when either holds.
func (c *RideUseCase) Search(ctx context.Context, request *model.SearchRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	day, err := time.Parse("2006-01-02", request.Date)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = "date must be formatted as YYYY-MM-DD"
		result.Error = errObj
		return result
	}

	candidates, err := c.RideRepository.SearchCandidates(ctx, day, day.Add(24*time.Hour), request.Seats)
	if err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "Search", request.Date)
		return result
	}

	source := geo.Point{Lat: request.Source.Lat, Lng: request.Source.Lng}
	dest := geo.Point{Lat: request.Destination.Lat, Lng: request.Destination.Lng}

	matches := make([]*model.SearchRideResponse, 0)
	for i := range candidates {
		ride := &candidates[i]
		pickup := geo.Point{Lat: ride.PickupLat, Lng: ride.PickupLng}
		dropoff := geo.Point{Lat: ride.DestinationLat, Lng: ride.DestinationLng}

		matched := geo.EndpointsMatch(pickup, dropoff, source, dest)
		if !matched {
			if polyline, ok := geo.ParseGeometry(ride.RouteGeometry); ok {
				matched = geo.CorridorMatch(polyline, source, dest)
			}
		}
		if matched {
			matches = append(matches, converter.RideToSearchResponse(ride))
		}
	}

	result.Data = matches
	return result
}

// Cancel is driver-initiated and irreversible. Confirmed passengers get a
// best-effort notification after the status flip commits.
func (c *RideUseCase) Cancel(ctx context.Context, rideID, driverID string) utils.Result {
	var result utils.Result

	passengers, passengersErr := c.BookingRepository.ConfirmedPassengerIDs(ctx, rideID)

	ride, err := c.RideRepository.Cancel(ctx, rideID, driverID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRideNotFound):
			errObj := httpError.NewNotFound().WithCode("RIDE_NOT_FOUND")
			errObj.Message = fmt.Sprintf("ride %s not found", rideID)
			result.Error = errObj
		case errors.Is(err, repository.ErrNotRideOwner):
			errObj := httpError.NewForbidden().WithCode("NOT_RIDE_OWNER")
			errObj.Message = "only the driver can cancel this ride"
			result.Error = errObj
		case errors.Is(err, repository.ErrAlreadyCancelled):
			errObj := httpError.NewConflict().WithCode("ALREADY_CANCELLED")
			errObj.Message = "ride is already cancelled"
			result.Error = errObj
		default:
			result.Error = httpError.NewInternalServerError()
			c.Log.Error("ride-usecase", err.Error(), "Cancel", rideID)
		}
		return result
	}

	if passengersErr != nil {
		c.Log.Error("ride-usecase", fmt.Sprintf("could not load passengers for fan-out: %v", passengersErr), "Cancel", rideID)
	} else {
		enqueueNotification(c.Log, c.Asynq, &model.NotificationEvent{
			ID:         uuid.NewString(),
			Kind:       model.NotificationKindRideCancelled,
			RideID:     ride.ID,
			Title:      "Ride cancelled",
			Body:       fmt.Sprintf("The ride from %s to %s was cancelled by the driver", ride.PickupAddress, ride.DestinationAddress),
			Recipients: passengers,
		})
	}

	result.Data = converter.RideToResponse(ride)
	return result
}

// Delete removes a ride and all its bookings. Restricted to the owning driver.
func (c *RideUseCase) Delete(ctx context.Context, rideID, driverID string) utils.Result {
	var result utils.Result

	ride, err := c.RideRepository.GetByID(ctx, rideID)
	if err != nil {
		if errors.Is(err, repository.ErrRideNotFound) {
			errObj := httpError.NewNotFound().WithCode("RIDE_NOT_FOUND")
			errObj.Message = fmt.Sprintf("ride %s not found", rideID)
			result.Error = errObj
			return result
		}
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "Delete", rideID)
		return result
	}

	if ride.DriverID != driverID {
		errObj := httpError.NewForbidden().WithCode("NOT_RIDE_OWNER")
		errObj.Message = "only the driver can delete this ride"
		result.Error = errObj
		return result
	}

	if err := c.RideRepository.Delete(ctx, rideID); err != nil {
		result.Error = httpError.NewInternalServerError()
		c.Log.Error("ride-usecase", err.Error(), "Delete", rideID)
		return result
	}

	result.Data = map[string]string{"id": rideID}
	return result
}
