package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtbook/booking-system/models"
)

var ErrAdminSettingsNotFound = errors.New("admin settings not found")

type AdminSettingsRepository interface {
	GetByVenue(ctx context.Context, venueID int) (*models.AdminSettings, error)
	Upsert(ctx context.Context, settings *models.AdminSettings) error
}

type postgresAdminSettingsRepository struct {
	db *sql.DB
}

func NewPostgresAdminSettingsRepository(db *sql.DB) AdminSettingsRepository {
	return &postgresAdminSettingsRepository{db: db}
}

func (r *postgresAdminSettingsRepository) GetByVenue(ctx context.Context, venueID int) (*models.AdminSettings, error) {
	query := `
		SELECT id, venue_id, admin_id, allow_booking_without_coins
		FROM admin_settings
		WHERE venue_id = $1`

	settings := &models.AdminSettings{}
	err := r.db.QueryRowContext(ctx, query, venueID).Scan(
		&settings.ID,
		&settings.VenueID,
		&settings.AdminID,
		&settings.AllowBookingWithoutCoins,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminSettingsNotFound
		}
		return nil, err
	}
	return settings, nil
}

func (r *postgresAdminSettingsRepository) Upsert(ctx context.Context, settings *models.AdminSettings) error {
	query := `
		INSERT INTO admin_settings (venue_id, admin_id, allow_booking_without_coins)
		VALUES ($1, $2, $3)
		ON CONFLICT (venue_id) DO UPDATE SET
			admin_id = EXCLUDED.admin_id,
			allow_booking_without_coins = EXCLUDED.allow_booking_without_coins
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		settings.VenueID,
		settings.AdminID,
		settings.AllowBookingWithoutCoins,
	).Scan(&settings.ID)
}
