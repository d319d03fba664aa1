package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"ride-service/src/internal/entity"
	"ride-service/src/pkg/databases/mysql"
)

const bookingColumns = `
	id, ride_id, user_id, seats, status,
	completed_at, passenger_confirmed_at,
	created_at, updated_at`

type BookingRepository struct {
	DB mysql.DBInterface
}

func NewBookingRepository(db mysql.DBInterface) *BookingRepository {
	return &BookingRepository{DB: db}
}

// Book reserves seats on a ride. The ride row is locked for the whole
// transaction so concurrent bookers are strictly serialized: the capacity
// check, the booking insert and the seat decrement are atomic. Requested
// seats may never exceed current availability, whatever the booking status;
// only a confirmed booking consumes them.
func (r *BookingRepository) Book(ctx context.Context, rideID, userID string, seats int, status string) (*entity.Booking, *entity.Ride, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var ride entity.Ride
	lockQuery := `SELECT ` + rideColumns + ` FROM rides WHERE id = ? FOR UPDATE`
	if err := tx.GetContext(ctx, &ride, lockQuery, rideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrRideNotFound
		}
		return nil, nil, err
	}

	if ride.Status != entity.RideStatusActive {
		return nil, nil, ErrRideUnavailable
	}
	if seats > ride.AvailableSeats {
		return nil, nil, ErrInsufficientSeats
	}

	now := time.Now().UTC()
	booking := entity.Booking{
		ID:        uuid.NewString(),
		RideID:    rideID,
		UserID:    userID,
		Seats:     seats,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	insertQuery := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.ExecContext(ctx, insertQuery,
		booking.ID, booking.RideID, booking.UserID, booking.Seats, booking.Status,
		booking.CompletedAt, booking.PassengerConfirmedAt,
		booking.CreatedAt, booking.UpdatedAt,
	); err != nil {
		return nil, nil, err
	}

	if booking.Status == entity.BookingStatusConfirmed {
		newSeats := ride.AvailableSeats - seats
		newStatus := ride.SeatStatus(newSeats)
		if _, err := tx.ExecContext(ctx,
			`UPDATE rides SET available_seats = ?, status = ?, updated_at = ? WHERE id = ?`,
			newSeats, newStatus, now, rideID); err != nil {
			return nil, nil, err
		}

		ride.AvailableSeats = newSeats
		ride.Status = newStatus
		ride.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &booking, &ride, nil
}

// Cancel moves a pending or confirmed booking to cancelled. Seats consumed by
// a confirmed booking are returned to the ride, which drops back from full to
// active when capacity frees up.
func (r *BookingRepository) Cancel(ctx context.Context, bookingID, userID string) (*entity.Booking, *entity.Ride, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var booking entity.Booking
	bookingQuery := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? FOR UPDATE`
	if err := tx.GetContext(ctx, &booking, bookingQuery, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	if booking.UserID != userID {
		return nil, nil, ErrNotBookingOwner
	}
	if !booking.CanBeCancelled() {
		return nil, nil, ErrInvalidBookingState
	}

	var ride entity.Ride
	rideQuery := `SELECT ` + rideColumns + ` FROM rides WHERE id = ? FOR UPDATE`
	if err := tx.GetContext(ctx, &ride, rideQuery, booking.RideID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrRideNotFound
		}
		return nil, nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		entity.BookingStatusCancelled, now, bookingID); err != nil {
		return nil, nil, err
	}

	if booking.Status == entity.BookingStatusConfirmed {
		newSeats := ride.AvailableSeats + booking.Seats
		newStatus := ride.SeatStatus(newSeats)
		if _, err := tx.ExecContext(ctx,
			`UPDATE rides SET available_seats = ?, status = ?, updated_at = ? WHERE id = ?`,
			newSeats, newStatus, now, ride.ID); err != nil {
			return nil, nil, err
		}
		ride.AvailableSeats = newSeats
		ride.Status = newStatus
		ride.UpdatedAt = now
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	booking.Status = entity.BookingStatusCancelled
	booking.UpdatedAt = now
	return &booking, &ride, nil
}

// MarkCompleted transitions a confirmed booking to completed.
func (r *BookingRepository) MarkCompleted(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return r.finishBooking(ctx, bookingID, entity.BookingStatusCompleted, true)
}

// MarkNoShow transitions a confirmed booking to no_show.
func (r *BookingRepository) MarkNoShow(ctx context.Context, bookingID string) (*entity.Booking, error) {
	return r.finishBooking(ctx, bookingID, entity.BookingStatusNoShow, false)
}

func (r *BookingRepository) finishBooking(ctx context.Context, bookingID, status string, setCompletedAt bool) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var res sql.Result
	if setCompletedAt {
		res, err = db.ExecContext(ctx,
			`UPDATE bookings SET status = ?, completed_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
			status, now, now, bookingID, entity.BookingStatusConfirmed)
	} else {
		res, err = db.ExecContext(ctx,
			`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			status, now, bookingID, entity.BookingStatusConfirmed)
	}
	if err != nil {
		return nil, err
	}

	if rows, _ := res.RowsAffected(); rows == 0 {
		// distinguish a missing booking from a wrong-state one
		if _, err := r.GetByID(ctx, bookingID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidBookingState
	}

	return r.GetByID(ctx, bookingID)
}

// ConfirmPassenger stamps passenger_confirmed_at without touching the status.
func (r *BookingRepository) ConfirmPassenger(ctx context.Context, bookingID string) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := db.ExecContext(ctx,
		`UPDATE bookings SET passenger_confirmed_at = ?, updated_at = ? WHERE id = ?`,
		now, now, bookingID)
	if err != nil {
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, ErrBookingNotFound
	}

	return r.GetByID(ctx, bookingID)
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*entity.Booking, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var booking entity.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &booking, nil
}

// ConfirmedPassengerIDs lists the users holding confirmed seats on a ride,
// used for the notification fan-out.
func (r *BookingRepository) ConfirmedPassengerIDs(ctx context.Context, rideID string) ([]string, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ids []string
	query := `SELECT user_id FROM bookings WHERE ride_id = ? AND status = ?`
	if err := db.SelectContext(ctx, &ids, query, rideID, entity.BookingStatusConfirmed); err != nil {
		return nil, err
	}

	return ids, nil
}
