package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"ride-service/src/internal/entity"
	"ride-service/src/internal/geo"
)

// Function-field fakes for the usecase contracts. Tests set only the fields
// they exercise.

type fakeRideRepo struct {
	insertFn        func(ctx context.Context, ride *entity.Ride) error
	getByIDFn       func(ctx context.Context, id string) (*entity.Ride, error)
	listUpcomingFn  func(ctx context.Context, now time.Time) ([]entity.RideWithDriver, error)
	listForDriverFn func(ctx context.Context, driverID string) ([]entity.RideWithBookings, error)
	updateStatusFn  func(ctx context.Context, id, status string) error
	deleteFn        func(ctx context.Context, id string) error
	cancelFn        func(ctx context.Context, id, driverID string) (*entity.Ride, error)
	searchFn        func(ctx context.Context, from, to time.Time, seats int) ([]entity.RideWithDriver, error)
}

func (f *fakeRideRepo) Insert(ctx context.Context, ride *entity.Ride) error {
	return f.insertFn(ctx, ride)
}

func (f *fakeRideRepo) GetByID(ctx context.Context, id string) (*entity.Ride, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeRideRepo) ListUpcoming(ctx context.Context, now time.Time) ([]entity.RideWithDriver, error) {
	return f.listUpcomingFn(ctx, now)
}

func (f *fakeRideRepo) ListForDriver(ctx context.Context, driverID string) ([]entity.RideWithBookings, error) {
	return f.listForDriverFn(ctx, driverID)
}

func (f *fakeRideRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return f.updateStatusFn(ctx, id, status)
}

func (f *fakeRideRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func (f *fakeRideRepo) Cancel(ctx context.Context, id, driverID string) (*entity.Ride, error) {
	return f.cancelFn(ctx, id, driverID)
}

func (f *fakeRideRepo) SearchCandidates(ctx context.Context, from, to time.Time, seats int) ([]entity.RideWithDriver, error) {
	return f.searchFn(ctx, from, to, seats)
}

type fakeBookingRepo struct {
	bookFn             func(ctx context.Context, rideID, userID string, seats int, status string) (*entity.Booking, *entity.Ride, error)
	cancelFn           func(ctx context.Context, bookingID, userID string) (*entity.Booking, *entity.Ride, error)
	markCompletedFn    func(ctx context.Context, bookingID string) (*entity.Booking, error)
	markNoShowFn       func(ctx context.Context, bookingID string) (*entity.Booking, error)
	confirmPassengerFn func(ctx context.Context, bookingID string) (*entity.Booking, error)
	getByIDFn          func(ctx context.Context, id string) (*entity.Booking, error)
	passengerIDsFn     func(ctx context.Context, rideID string) ([]string, error)
}

func (f *fakeBookingRepo) Book(ctx context.Context, rideID, userID string, seats int, status string) (*entity.Booking, *entity.Ride, error) {
	return f.bookFn(ctx, rideID, userID, seats, status)
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, bookingID, userID string) (*entity.Booking, *entity.Ride, error) {
	return f.cancelFn(ctx, bookingID, userID)
}

func (f *fakeBookingRepo) MarkCompleted(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return f.markCompletedFn(ctx, bookingID)
}

func (f *fakeBookingRepo) MarkNoShow(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return f.markNoShowFn(ctx, bookingID)
}

func (f *fakeBookingRepo) ConfirmPassenger(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return f.confirmPassengerFn(ctx, bookingID)
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeBookingRepo) ConfirmedPassengerIDs(ctx context.Context, rideID string) ([]string, error) {
	if f.passengerIDsFn == nil {
		return nil, nil
	}
	return f.passengerIDsFn(ctx, rideID)
}

type fakeUserRepo struct {
	findByIDFn func(ctx context.Context, id string) (*entity.User, error)
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return f.findByIDFn(ctx, id)
}

type fakeGeoResolver struct {
	geocodeFn func(ctx context.Context, address string) (*geo.Place, error)
	reverseFn func(ctx context.Context, lat, lng float64) (string, error)
	routeFn   func(ctx context.Context, origin, destination geo.Point) (*geo.RouteInfo, error)
}

func (f *fakeGeoResolver) Geocode(ctx context.Context, address string) (*geo.Place, error) {
	return f.geocodeFn(ctx, address)
}

func (f *fakeGeoResolver) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	return f.reverseFn(ctx, lat, lng)
}

func (f *fakeGeoResolver) Route(ctx context.Context, origin, destination geo.Point) (*geo.RouteInfo, error) {
	return f.routeFn(ctx, origin, destination)
}

// fakeEnqueuer records every enqueued task. Safe for concurrent use.
type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{}, nil
}

func (f *fakeEnqueuer) enqueued() []*asynq.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*asynq.Task(nil), f.tasks...)
}
