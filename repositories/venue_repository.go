package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
)

var (
	ErrVenueNotFound     = errors.New("venue not found")
	ErrVenueAdminInvalid = errors.New("venue admin conflict or invalid")
)

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, id int) (*models.Venue, error)
	ListAll(ctx context.Context) ([]models.Venue, error)
	ListByAdmin(ctx context.Context, adminID int) ([]models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	UpdateImageKey(ctx context.Context, id int, imageKey *string) error
	Delete(ctx context.Context, id int) error
	CountByAdmin(ctx context.Context, adminID int) (int, error)
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

func (r *postgresVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	query := `
		INSERT INTO venues (admin_id, name, address, city, state, zip, court_count, image_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		venue.AdminID,
		venue.Name,
		venue.Address,
		venue.City,
		venue.State,
		venue.Zip,
		venue.CourtCount,
		venue.ImageKey,
	).Scan(&venue.ID, &venue.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "venues_admin_id_fkey" {
				return ErrVenueAdminInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresVenueRepository) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	query := `
		SELECT id, admin_id, name, address, city, state, zip, court_count, image_key, created_at
		FROM venues
		WHERE id = $1`

	venue := &models.Venue{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&venue.ID,
		&venue.AdminID,
		&venue.Name,
		&venue.Address,
		&venue.City,
		&venue.State,
		&venue.Zip,
		&venue.CourtCount,
		&venue.ImageKey,
		&venue.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}

func (r *postgresVenueRepository) ListAll(ctx context.Context) ([]models.Venue, error) {
	query := `
		SELECT id, admin_id, name, address, city, state, zip, court_count, image_key, created_at
		FROM venues
		ORDER BY name ASC`
	return r.listVenues(ctx, query)
}

func (r *postgresVenueRepository) ListByAdmin(ctx context.Context, adminID int) ([]models.Venue, error) {
	query := `
		SELECT id, admin_id, name, address, city, state, zip, court_count, image_key, created_at
		FROM venues
		WHERE admin_id = $1
		ORDER BY name ASC`
	return r.listVenues(ctx, query, adminID)
}

func (r *postgresVenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	query := `
		UPDATE venues SET
			name = $1,
			address = $2,
			city = $3,
			state = $4,
			zip = $5,
			court_count = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		venue.Name,
		venue.Address,
		venue.City,
		venue.State,
		venue.Zip,
		venue.CourtCount,
		venue.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE venues SET image_key = $1 WHERE id = $2`, imageKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM venues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrVenueNotFound)
}

func (r *postgresVenueRepository) CountByAdmin(ctx context.Context, adminID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues WHERE admin_id = $1`, adminID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresVenueRepository) listVenues(ctx context.Context, query string, args ...interface{}) ([]models.Venue, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	venues := make([]models.Venue, 0)
	for rows.Next() {
		var venue models.Venue
		scanErr := rows.Scan(
			&venue.ID,
			&venue.AdminID,
			&venue.Name,
			&venue.Address,
			&venue.City,
			&venue.State,
			&venue.Zip,
			&venue.CourtCount,
			&venue.ImageKey,
			&venue.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		venues = append(venues, venue)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}
