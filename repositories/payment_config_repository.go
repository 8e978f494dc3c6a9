package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
)

var (
	ErrPaymentConfigNotFound     = errors.New("payment config not found")
	ErrPaymentConfigVenueInvalid = errors.New("payment config venue conflict or invalid")
)

type PaymentConfigRepository interface {
	Create(ctx context.Context, config *models.PaymentConfig) error
	GetByID(ctx context.Context, id int) (*models.PaymentConfig, error)
	ListByVenue(ctx context.Context, venueID int) ([]models.PaymentConfig, error)
	Update(ctx context.Context, config *models.PaymentConfig) error
	Delete(ctx context.Context, id int) error
}

type postgresPaymentConfigRepository struct {
	db *sql.DB
}

func NewPostgresPaymentConfigRepository(db *sql.DB) PaymentConfigRepository {
	return &postgresPaymentConfigRepository{db: db}
}

func (r *postgresPaymentConfigRepository) Create(ctx context.Context, config *models.PaymentConfig) error {
	query := `
		INSERT INTO payment_configs (venue_id, slot_count, amount_cents)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		config.VenueID,
		config.SlotCount,
		config.AmountCents,
	).Scan(&config.ID, &config.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23503" && pqErr.Constraint == "payment_configs_venue_id_fkey" {
				return ErrPaymentConfigVenueInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPaymentConfigRepository) GetByID(ctx context.Context, id int) (*models.PaymentConfig, error) {
	query := `
		SELECT id, venue_id, slot_count, amount_cents, created_at
		FROM payment_configs
		WHERE id = $1`

	config := &models.PaymentConfig{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&config.ID,
		&config.VenueID,
		&config.SlotCount,
		&config.AmountCents,
		&config.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentConfigNotFound
		}
		return nil, err
	}
	return config, nil
}

func (r *postgresPaymentConfigRepository) ListByVenue(ctx context.Context, venueID int) ([]models.PaymentConfig, error) {
	query := `
		SELECT id, venue_id, slot_count, amount_cents, created_at
		FROM payment_configs
		WHERE venue_id = $1
		ORDER BY slot_count ASC`

	rows, err := r.db.QueryContext(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := make([]models.PaymentConfig, 0)
	for rows.Next() {
		var config models.PaymentConfig
		scanErr := rows.Scan(
			&config.ID,
			&config.VenueID,
			&config.SlotCount,
			&config.AmountCents,
			&config.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		configs = append(configs, config)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *postgresPaymentConfigRepository) Update(ctx context.Context, config *models.PaymentConfig) error {
	query := `
		UPDATE payment_configs SET
			slot_count = $1,
			amount_cents = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, config.SlotCount, config.AmountCents, config.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPaymentConfigNotFound)
}

func (r *postgresPaymentConfigRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM payment_configs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPaymentConfigNotFound)
}
