package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ride-service/src/internal/entity"
	"ride-service/src/pkg/databases/mysql"
)

const rideColumns = `
	id, driver_id,
	pickup_address, pickup_lat, pickup_lng,
	destination_address, destination_lat, destination_lng,
	distance_meters, duration_seconds, route_geometry, route_alternative,
	available_seats, price_per_seat,
	departure_time, finished_at, driver_confirmed_at, passengers_confirmed,
	status, vehicle_type, payment_method, booking_type,
	notes, communication_number,
	created_at, updated_at`

type RideRepository struct {
	DB mysql.DBInterface
}

func NewRideRepository(db mysql.DBInterface) *RideRepository {
	return &RideRepository{DB: db}
}

// Insert persists a freshly geocoded ride inside its own transaction.
func (r *RideRepository) Insert(ctx context.Context, ride *entity.Ride) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		ride.ID, ride.DriverID,
		ride.PickupAddress, ride.PickupLat, ride.PickupLng,
		ride.DestinationAddress, ride.DestinationLat, ride.DestinationLng,
		ride.DistanceMeters, ride.DurationSeconds, ride.RouteGeometry, ride.RouteAlternative,
		ride.AvailableSeats, ride.PricePerSeat,
		ride.DepartureTime, ride.FinishedAt, ride.DriverConfirmedAt, ride.PassengersConfirmed,
		ride.Status, ride.VehicleType, ride.PaymentMethod, ride.BookingType,
		ride.Notes, ride.CommunicationNumber,
		ride.CreatedAt, ride.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *RideRepository) GetByID(ctx context.Context, id string) (*entity.Ride, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var ride entity.Ride
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = ?`
	if err := db.GetContext(ctx, &ride, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	return &ride, nil
}

// ListUpcoming returns rides departing after now, soonest first, with driver info.
func (r *RideRepository) ListUpcoming(ctx context.Context, now time.Time) ([]entity.RideWithDriver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithDriver
	query := `
		SELECT r.*, u.full_name AS driver_name, u.mobile_number AS driver_phone
		FROM rides r
		JOIN users u ON u.user_id = r.driver_id
		WHERE r.departure_time > ?
		ORDER BY r.departure_time ASC
	`
	if err := db.SelectContext(ctx, &rides, query, now); err != nil {
		return nil, err
	}

	return rides, nil
}

// ListForDriver returns the driver's rides annotated with their booking counts.
func (r *RideRepository) ListForDriver(ctx context.Context, driverID string) ([]entity.RideWithBookings, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithBookings
	query := `
		SELECT r.*, COUNT(b.id) AS booking_count
		FROM rides r
		LEFT JOIN bookings b ON b.ride_id = r.id
		WHERE r.driver_id = ?
		GROUP BY r.id
		ORDER BY r.departure_time DESC
	`
	if err := db.SelectContext(ctx, &rides, query, driverID); err != nil {
		return nil, err
	}

	return rides, nil
}

func (r *RideRepository) UpdateStatus(ctx context.Context, id, status string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`UPDATE rides SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrRideNotFound
	}
	return nil
}

// Delete removes the ride and cascades to its bookings in one transaction.
func (r *RideRepository) Delete(ctx context.Context, id string) error {
	db, err := r.DB.GetDB()
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE ride_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM rides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrRideNotFound
	}

	return tx.Commit()
}

// Cancel flips the ride to cancelled. Only the owning driver may cancel and a
// cancelled ride never transitions back.
func (r *RideRepository) Cancel(ctx context.Context, id, driverID string) (*entity.Ride, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var ride entity.Ride
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = ? FOR UPDATE`
	if err := tx.GetContext(ctx, &ride, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRideNotFound
		}
		return nil, err
	}

	if ride.DriverID != driverID {
		return nil, ErrNotRideOwner
	}
	if ride.Status == entity.RideStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE rides SET status = ?, updated_at = ? WHERE id = ?`,
		entity.RideStatusCancelled, now, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	ride.Status = entity.RideStatusCancelled
	ride.UpdatedAt = now
	return &ride, nil
}

// SearchCandidates narrows the search to active rides departing inside the
// window with enough seats. The spatial predicates run in the usecase.
func (r *RideRepository) SearchCandidates(ctx context.Context, from, to time.Time, seats int) ([]entity.RideWithDriver, error) {
	db, err := r.DB.GetDB()
	if err != nil {
		return nil, err
	}

	var rides []entity.RideWithDriver
	query := `
		SELECT r.*, u.full_name AS driver_name, u.mobile_number AS driver_phone
		FROM rides r
		JOIN users u ON u.user_id = r.driver_id
		WHERE r.status = ?
		  AND r.available_seats >= ?
		  AND r.departure_time >= ?
		  AND r.departure_time < ?
		ORDER BY r.departure_time ASC
	`
	if err := db.SelectContext(ctx, &rides, query, entity.RideStatusActive, seats, from, to); err != nil {
		return nil, err
	}

	return rides, nil
}
