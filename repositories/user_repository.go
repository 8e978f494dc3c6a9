package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("user email conflict")
	ErrCoinBalanceLow    = errors.New("coin balance would become negative")
)

// UserFilter — необязательные условия для List.
type UserFilter struct {
	SkillLevel *string
	Sex        *string
	NameQuery  *string
	Role       *models.UserRole
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateRole(ctx context.Context, id int, role models.UserRole) error
	// AdjustCoins атомарно меняет баланс; запись не проходит, если
	// баланс стал бы отрицательным.
	AdjustCoins(ctx context.Context, exec SQLExecutor, userID, delta int) error
	List(ctx context.Context, filter UserFilter) ([]models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, age, sex, skill_level, preferred_venues, slot_coins)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Age,
		user.Sex,
		user.SkillLevel,
		pq.Array(user.PreferredVenues),
		user.SlotCoins,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "users_email_key" {
				return ErrUserEmailConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, age, sex, skill_level, preferred_venues, slot_coins, created_at
		FROM users
		WHERE id = $1`
	return r.scanUser(ctx, query, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, age, sex, skill_level, preferred_venues, slot_coins, created_at
		FROM users
		WHERE email = $1`
	return r.scanUser(ctx, query, email)
}

func (r *postgresUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $1,
			age = $2,
			sex = $3,
			skill_level = $4,
			preferred_venues = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		user.Name,
		user.Age,
		user.Sex,
		user.SkillLevel,
		pq.Array(user.PreferredVenues),
		user.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateRole(ctx context.Context, id int, role models.UserRole) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) AdjustCoins(ctx context.Context, exec SQLExecutor, userID, delta int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE users
		SET slot_coins = slot_coins + $2
		WHERE id = $1 AND slot_coins + $2 >= 0`

	result, err := executor.ExecContext(ctx, query, userID, delta)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		// Либо пользователя нет, либо не хватает монет. Вызывающий
		// обычно уже загрузил пользователя, поэтому различаем здесь.
		var exists bool
		if scanErr := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); scanErr != nil {
			return scanErr
		}
		if !exists {
			return ErrUserNotFound
		}
		return ErrCoinBalanceLow
	}
	return nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, error) {
	query := `
		SELECT id, name, email, password_hash, role, age, sex, skill_level, preferred_venues, slot_coins, created_at
		FROM users
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.SkillLevel != nil {
		query += fmt.Sprintf(" AND skill_level = $%d", argID)
		args = append(args, *filter.SkillLevel)
		argID++
	}
	if filter.Sex != nil {
		query += fmt.Sprintf(" AND sex = $%d", argID)
		args = append(args, *filter.Sex)
		argID++
	}
	if filter.NameQuery != nil {
		query += fmt.Sprintf(" AND name ILIKE $%d", argID)
		args = append(args, "%"+*filter.NameQuery+"%")
		argID++
	}
	if filter.Role != nil {
		query += fmt.Sprintf(" AND role = $%d", argID)
		args = append(args, *filter.Role)
		argID++
	}

	query += " ORDER BY name ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		scanErr := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Age,
			&user.Sex,
			&user.SkillLevel,
			pq.Array(&user.PreferredVenues),
			&user.SlotCoins,
			&user.CreatedAt,
		)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) scanUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Age,
		&user.Sex,
		&user.SkillLevel,
		pq.Array(&user.PreferredVenues),
		&user.SlotCoins,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
