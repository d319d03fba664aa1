package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/viper"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/model"
	"ride-service/src/internal/model/converter"
	"ride-service/src/internal/repository"
	httpError "ride-service/src/pkg/http-error"
	"ride-service/src/pkg/log"
	"ride-service/src/pkg/utils"
)

type BookingUseCase struct {
	Log               log.Log
	Validate          *validator.Validate
	Config            *viper.Viper
	BookingRepository BookingRepository
	RideRepository    RideRepository
	Asynq             TaskEnqueuer
}

func NewBookingUseCase(
	logger log.Log,
	validate *validator.Validate,
	cfg *viper.Viper,
	bookingRepository BookingRepository,
	rideRepository RideRepository,
	enqueuer TaskEnqueuer,
) *BookingUseCase {
	return &BookingUseCase{
		Log:               logger,
		Validate:          validate,
		Config:            cfg,
		BookingRepository: bookingRepository,
		RideRepository:    rideRepository,
		Asynq:             enqueuer,
	}
}

// Book reserves seats on a ride. Capacity enforcement lives in the repository
// transaction behind the ride row lock; this layer validates input, maps
// errors and triggers the ride-full fan-out once the booking has committed.
func (c *BookingUseCase) Book(ctx context.Context, request *model.BookRideRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("booking-usecase", errObj.Message, "Book", utils.ConvertString(request))
		return result
	}
	if request.Seats > entity.MaxSeatsPerBooking {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("a booking may hold at most %d seats", entity.MaxSeatsPerBooking)
		result.Error = errObj
		return result
	}

	status := request.Status
	if status == "" {
		status = entity.BookingStatusConfirmed
	}

	booking, ride, err := c.BookingRepository.Book(ctx, request.RideID, request.UserID, request.Seats, status)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRideNotFound):
			errObj := httpError.NewNotFound().WithCode("RIDE_NOT_FOUND")
			errObj.Message = fmt.Sprintf("ride %s not found", request.RideID)
			result.Error = errObj
		case errors.Is(err, repository.ErrRideUnavailable):
			errObj := httpError.NewConflict().WithCode("RIDE_UNAVAILABLE")
			errObj.Message = "ride is not open for booking"
			result.Error = errObj
		case errors.Is(err, repository.ErrInsufficientSeats):
			errObj := httpError.NewConflict().WithCode("INSUFFICIENT_SEATS")
			errObj.Message = "not enough available seats on this ride"
			result.Error = errObj
		default:
			result.Error = httpError.NewInternalServerError()
			c.Log.Error("booking-usecase", err.Error(), "Book", request.RideID)
		}
		return result
	}

	if booking.Status == entity.BookingStatusConfirmed && ride.Status == entity.RideStatusFull {
		c.notifyRideFull(ctx, ride)
	}

	c.Log.Info("booking-usecase", "booking created", "Book", booking.ID)
	result.Data = converter.BookingToResponse(booking, ride)
	return result
}

// notifyRideFull fans out to the driver and every confirmed passenger. Best
// effort: a failure here never affects the booking that triggered it.
func (c *BookingUseCase) notifyRideFull(ctx context.Context, ride *entity.Ride) {
	passengers, err := c.BookingRepository.ConfirmedPassengerIDs(ctx, ride.ID)
	if err != nil {
		c.Log.Error("booking-usecase", fmt.Sprintf("could not load passengers for fan-out: %v", err), "notifyRideFull", ride.ID)
		passengers = nil
	}

	enqueueNotification(c.Log, c.Asynq, &model.NotificationEvent{
		ID:         uuid.NewString(),
		Kind:       model.NotificationKindRideFull,
		RideID:     ride.ID,
		Title:      "Ride is full",
		Body:       fmt.Sprintf("All seats on the ride from %s to %s are now booked", ride.PickupAddress, ride.DestinationAddress),
		Recipients: append([]string{ride.DriverID}, passengers...),
	})
}

// Cancel releases a pending or confirmed booking. Seats from a confirmed
// booking flow back to the ride inside the repository transaction.
func (c *BookingUseCase) Cancel(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	booking, ride, err := c.BookingRepository.Cancel(ctx, request.BookingID, request.UserID)
	if err != nil {
		result.Error = c.mapBookingError(err, request.BookingID)
		return result
	}

	enqueueNotification(c.Log, c.Asynq, &model.NotificationEvent{
		ID:         uuid.NewString(),
		Kind:       model.NotificationKindBookingCancelled,
		RideID:     ride.ID,
		Title:      "Booking cancelled",
		Body:       fmt.Sprintf("A booking of %d seat(s) on your ride was cancelled", booking.Seats),
		Recipients: []string{ride.DriverID},
	})

	result.Data = converter.BookingToResponse(booking, ride)
	return result
}

// Complete marks a confirmed booking as completed.
func (c *BookingUseCase) Complete(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	booking, err := c.BookingRepository.MarkCompleted(ctx, request.BookingID)
	if err != nil {
		result.Error = c.mapBookingError(err, request.BookingID)
		return result
	}

	result.Data = converter.BookingToResponse(booking, nil)
	return result
}

// NoShow marks a confirmed booking as no_show.
func (c *BookingUseCase) NoShow(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	booking, err := c.BookingRepository.MarkNoShow(ctx, request.BookingID)
	if err != nil {
		result.Error = c.mapBookingError(err, request.BookingID)
		return result
	}

	result.Data = converter.BookingToResponse(booking, nil)
	return result
}

// ConfirmPassenger stamps the passenger confirmation time.
func (c *BookingUseCase) ConfirmPassenger(ctx context.Context, request *model.BookingActionRequest) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	booking, err := c.BookingRepository.ConfirmPassenger(ctx, request.BookingID)
	if err != nil {
		result.Error = c.mapBookingError(err, request.BookingID)
		return result
	}

	result.Data = converter.BookingToResponse(booking, nil)
	return result
}

func (c *BookingUseCase) mapBookingError(err error, bookingID string) *httpError.CommonError {
	switch {
	case errors.Is(err, repository.ErrBookingNotFound):
		errObj := httpError.NewNotFound().WithCode("BOOKING_NOT_FOUND")
		errObj.Message = fmt.Sprintf("booking %s not found", bookingID)
		return errObj
	case errors.Is(err, repository.ErrNotBookingOwner):
		errObj := httpError.NewForbidden().WithCode("NOT_BOOKING_OWNER")
		errObj.Message = "booking belongs to another user"
		return errObj
	case errors.Is(err, repository.ErrInvalidBookingState):
		errObj := httpError.NewConflict().WithCode("INVALID_BOOKING_STATE")
		errObj.Message = "booking state does not allow this transition"
		return errObj
	case errors.Is(err, repository.ErrRideNotFound):
		errObj := httpError.NewNotFound().WithCode("RIDE_NOT_FOUND")
		errObj.Message = "ride for this booking no longer exists"
		return errObj
	default:
		c.Log.Error("booking-usecase", err.Error(), "mapBookingError", bookingID)
		return httpError.NewInternalServerError()
	}
}
