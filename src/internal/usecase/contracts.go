package usecase

import (
	"context"
	"time"

	"github.com/hibiken/asynq"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/geo"
	"ride-service/src/internal/model"
)

// Contracts the usecases depend on; the sqlx repositories, the geo client and
// the asynq client satisfy them in production, fakes do in tests.

type RideRepository interface {
	Insert(ctx context.Context, ride *entity.Ride) error
	GetByID(ctx context.Context, id string) (*entity.Ride, error)
	ListUpcoming(ctx context.Context, now time.Time) ([]entity.RideWithDriver, error)
	ListForDriver(ctx context.Context, driverID string) ([]entity.RideWithBookings, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id, driverID string) (*entity.Ride, error)
	SearchCandidates(ctx context.Context, from, to time.Time, seats int) ([]entity.RideWithDriver, error)
}

type BookingRepository interface {
	Book(ctx context.Context, rideID, userID string, seats int, status string) (*entity.Booking, *entity.Ride, error)
	Cancel(ctx context.Context, bookingID, userID string) (*entity.Booking, *entity.Ride, error)
	MarkCompleted(ctx context.Context, bookingID string) (*entity.Booking, error)
	MarkNoShow(ctx context.Context, bookingID string) (*entity.Booking, error)
	ConfirmPassenger(ctx context.Context, bookingID string) (*entity.Booking, error)
	GetByID(ctx context.Context, id string) (*entity.Booking, error)
	ConfirmedPassengerIDs(ctx context.Context, rideID string) ([]string, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type GeoResolver interface {
	Geocode(ctx context.Context, address string) (*geo.Place, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	Route(ctx context.Context, origin, destination geo.Point) (*geo.RouteInfo, error)
}

// TaskEnqueuer is the slice of *asynq.Client used for the notification fan-out.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NotificationSender publishes one per-recipient notification message.
type NotificationSender interface {
	Send(message *model.NotificationMessage) error
}
