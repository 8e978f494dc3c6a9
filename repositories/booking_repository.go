package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBookingNotActive   = errors.New("booking is not in confirmed status")
	ErrBookingDuplicate   = errors.New("active booking already exists for this user and slot")
	ErrBookingSlotInvalid = errors.New("booking slot conflict or invalid")
	ErrBookingUserInvalid = errors.New("booking user conflict or invalid")
)

type BookingRepository interface {
	Create(ctx context.Context, exec SQLExecutor, booking *models.Booking) error
	GetByID(ctx context.Context, id int) (*models.Booking, error)
	// GetWithSlot подтягивает слот: его дата нужна для решения о возврате монеты.
	GetWithSlot(ctx context.Context, id int) (*models.Booking, error)
	FindActiveByUserAndSlot(ctx context.Context, userID, slotID int) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int) ([]models.Booking, error)
	ListByVenue(ctx context.Context, venueID int) ([]models.Booking, error)
	// MarkCancelled переводит бронирование confirmed -> cancelled; гард по
	// статусу защищает от двойной отмены при конкурентных запросах.
	MarkCancelled(ctx context.Context, exec SQLExecutor, id int) error
	SetCheckedIn(ctx context.Context, id int, checkedIn bool) error
	CountConfirmedByAdmin(ctx context.Context, adminID int) (int, error)
	CountDistinctPlayersByAdmin(ctx context.Context, adminID int) (int, error)
}

type postgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) BookingRepository {
	return &postgresBookingRepository{db: db}
}

func (r *postgresBookingRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresBookingRepository) Create(ctx context.Context, exec SQLExecutor, booking *models.Booking) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO bookings (user_id, slot_id, venue_id, status, checked_in, user_name)
		VALUES ($1, $2, $3, $4, FALSE, $5)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		booking.UserID,
		booking.SlotID,
		booking.VenueID,
		booking.Status,
		booking.UserName,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "bookings_active_user_slot_idx" {
				return ErrBookingDuplicate
			}
			if pqErr.Code == "23503" {
				if pqErr.Constraint == "bookings_slot_id_fkey" {
					return ErrBookingSlotInvalid
				}
				if pqErr.Constraint == "bookings_user_id_fkey" {
					return ErrBookingUserInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	query := `
		SELECT id, user_id, slot_id, venue_id, status, checked_in, user_name, created_at
		FROM bookings
		WHERE id = $1`

	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.VenueID,
		&booking.Status,
		&booking.CheckedIn,
		&booking.UserName,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (r *postgresBookingRepository) GetWithSlot(ctx context.Context, id int) (*models.Booking, error) {
	query := `
		SELECT
			b.id, b.user_id, b.slot_id, b.venue_id, b.status, b.checked_in, b.user_name, b.created_at,
			s.id, s.venue_id, s.date, s.day_of_week, s.start_time, s.end_time, s.max_players, s.current_players, s.completed, s.created_at
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		WHERE b.id = $1`

	booking := &models.Booking{}
	slot := &models.Slot{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.VenueID,
		&booking.Status,
		&booking.CheckedIn,
		&booking.UserName,
		&booking.CreatedAt,
		&slot.ID,
		&slot.VenueID,
		&slot.Date,
		&slot.DayOfWeek,
		&slot.StartTime,
		&slot.EndTime,
		&slot.MaxPlayers,
		&slot.CurrentPlayers,
		&slot.Completed,
		&slot.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	booking.Slot = slot
	return booking, nil
}

func (r *postgresBookingRepository) FindActiveByUserAndSlot(ctx context.Context, userID, slotID int) (*models.Booking, error) {
	query := `
		SELECT id, user_id, slot_id, venue_id, status, checked_in, user_name, created_at
		FROM bookings
		WHERE user_id = $1 AND slot_id = $2 AND status = $3`

	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx, query, userID, slotID, models.BookingConfirmed).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.SlotID,
		&booking.VenueID,
		&booking.Status,
		&booking.CheckedIn,
		&booking.UserName,
		&booking.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return booking, nil
}

func (r *postgresBookingRepository) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	query := `
		SELECT
			b.id, b.user_id, b.slot_id, b.venue_id, b.status, b.checked_in, b.user_name, b.created_at,
			s.id, s.venue_id, s.date, s.day_of_week, s.start_time, s.end_time, s.max_players, s.current_players, s.completed, s.created_at
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		WHERE b.user_id = $1
		ORDER BY s.date DESC, s.start_time DESC`
	return r.listWithSlots(ctx, query, userID)
}

func (r *postgresBookingRepository) ListByVenue(ctx context.Context, venueID int) ([]models.Booking, error) {
	query := `
		SELECT
			b.id, b.user_id, b.slot_id, b.venue_id, b.status, b.checked_in, b.user_name, b.created_at,
			s.id, s.venue_id, s.date, s.day_of_week, s.start_time, s.end_time, s.max_players, s.current_players, s.completed, s.created_at
		FROM bookings b
		JOIN slots s ON b.slot_id = s.id
		WHERE b.venue_id = $1
		ORDER BY s.date DESC, s.start_time DESC`
	return r.listWithSlots(ctx, query, venueID)
}

func (r *postgresBookingRepository) MarkCancelled(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2 AND status = $3`

	result, err := executor.ExecContext(ctx, query, models.BookingCancelled, id, models.BookingConfirmed)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		var exists bool
		if scanErr := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if !exists {
			return ErrBookingNotFound
		}
		return ErrBookingNotActive
	}
	return nil
}

func (r *postgresBookingRepository) SetCheckedIn(ctx context.Context, id int, checkedIn bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE bookings SET checked_in = $1 WHERE id = $2`, checkedIn, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBookingNotFound)
}

func (r *postgresBookingRepository) CountConfirmedByAdmin(ctx context.Context, adminID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN venues v ON b.venue_id = v.id
		WHERE v.admin_id = $1 AND b.status = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, adminID, models.BookingConfirmed).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresBookingRepository) CountDistinctPlayersByAdmin(ctx context.Context, adminID int) (int, error) {
	query := `
		SELECT COUNT(DISTINCT b.user_id)
		FROM bookings b
		JOIN venues v ON b.venue_id = v.id
		WHERE v.admin_id = $1 AND b.status = $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, adminID, models.BookingConfirmed).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresBookingRepository) listWithSlots(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var booking models.Booking
		var slot models.Slot
		scanErr := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.SlotID,
			&booking.VenueID,
			&booking.Status,
			&booking.CheckedIn,
			&booking.UserName,
			&booking.CreatedAt,
			&slot.ID,
			&slot.VenueID,
			&slot.Date,
			&slot.DayOfWeek,
			&slot.StartTime,
			&slot.EndTime,
			&slot.MaxPlayers,
			&slot.CurrentPlayers,
			&slot.Completed,
			&slot.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		booking.Slot = &slot
		bookings = append(bookings, booking)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
