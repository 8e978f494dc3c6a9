package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
)

var (
	ErrSlotNotFound     = errors.New("slot not found")
	ErrSlotVenueInvalid = errors.New("slot venue conflict or invalid")
	ErrSlotCapacity     = errors.New("slot is at full capacity")
)

type SlotRepository interface {
	Create(ctx context.Context, slot *models.Slot) error
	GetByID(ctx context.Context, id int) (*models.Slot, error)
	ListByVenue(ctx context.Context, venueID int, historical bool) ([]models.Slot, error)
	Update(ctx context.Context, slot *models.Slot) error
	Delete(ctx context.Context, id int) error
	// IncrementPlayers проходит только пока есть свободные места.
	IncrementPlayers(ctx context.Context, exec SQLExecutor, slotID int) error
	DecrementPlayers(ctx context.Context, exec SQLExecutor, slotID int) error
	MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountUpcomingByAdmin(ctx context.Context, adminID int) (int, error)
}

type postgresSlotRepository struct {
	db *sql.DB
}

func NewPostgresSlotRepository(db *sql.DB) SlotRepository {
	return &postgresSlotRepository{db: db}
}

func (r *postgresSlotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSlotRepository) Create(ctx context.Context, slot *models.Slot) error {
	query := `
		INSERT INTO slots (venue_id, date, day_of_week, start_time, end_time, max_players, current_players, completed)
		VALUES ($1, $2, $3, $4, $5, $6, 0, FALSE)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		slot.VenueID,
		slot.Date,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.MaxPlayers,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "slots_venue_id_fkey" {
				return ErrSlotVenueInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresSlotRepository) GetByID(ctx context.Context, id int) (*models.Slot, error) {
	query := `
		SELECT id, venue_id, date, day_of_week, start_time, end_time, max_players, current_players, completed, created_at
		FROM slots
		WHERE id = $1`

	slot := &models.Slot{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
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
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// ListByVenue разделяет прошедшие и будущие слоты по дате:
// historical=false отдаёт слоты с датой >= сегодня.
func (r *postgresSlotRepository) ListByVenue(ctx context.Context, venueID int, historical bool) ([]models.Slot, error) {
	comparison := ">="
	order := "ASC"
	if historical {
		comparison = "<"
		order = "DESC"
	}
	query := `
		SELECT id, venue_id, date, day_of_week, start_time, end_time, max_players, current_players, completed, created_at
		FROM slots
		WHERE venue_id = $1 AND date ` + comparison + ` CURRENT_DATE
		ORDER BY date ` + order + `, start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.Slot, 0)
	for rows.Next() {
		var slot models.Slot
		scanErr := rows.Scan(
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
		slots = append(slots, slot)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *postgresSlotRepository) Update(ctx context.Context, slot *models.Slot) error {
	query := `
		UPDATE slots SET
			date = $1,
			day_of_week = $2,
			start_time = $3,
			end_time = $4,
			max_players = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		slot.Date,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.MaxPlayers,
		slot.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSlotNotFound)
}

func (r *postgresSlotRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM slots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSlotNotFound)
}

func (r *postgresSlotRepository) IncrementPlayers(ctx context.Context, exec SQLExecutor, slotID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE slots
		SET current_players = current_players + 1
		WHERE id = $1 AND current_players < max_players`

	result, err := executor.ExecContext(ctx, query, slotID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		var exists bool
		if scanErr := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM slots WHERE id = $1)`, slotID).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if !exists {
			return ErrSlotNotFound
		}
		return ErrSlotCapacity
	}
	return nil
}

func (r *postgresSlotRepository) DecrementPlayers(ctx context.Context, exec SQLExecutor, slotID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE slots
		SET current_players = current_players - 1
		WHERE id = $1 AND current_players > 0`

	result, err := executor.ExecContext(ctx, query, slotID)
	if err != nil {
		return err
	}
	// Счётчик на нуле не считается ошибкой: отмена уже отменённого
	// бронирования отфильтровывается выше по стеку.
	_, err = result.RowsAffected()
	return err
}

func (r *postgresSlotRepository) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE slots SET completed = TRUE WHERE completed = FALSE AND date < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *postgresSlotRepository) CountUpcomingByAdmin(ctx context.Context, adminID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM slots s
		JOIN venues v ON s.venue_id = v.id
		WHERE v.admin_id = $1 AND s.date >= CURRENT_DATE`

	var count int
	if err := r.db.QueryRowContext(ctx, query, adminID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
