package models

import "time"

// UserRole соответствует ENUM user_role в БД.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User объединяет учётную запись и профиль игрока.
type User struct {
	ID              int       `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            UserRole  `json:"role" db:"role"`
	Age             *int      `json:"age,omitempty" db:"age"`
	Sex             *string   `json:"sex,omitempty" db:"sex"`
	SkillLevel      *string   `json:"skill_level,omitempty" db:"skill_level"`
	PreferredVenues []int64   `json:"preferred_venues" db:"preferred_venues"`
	SlotCoins       int       `json:"slot_coins" db:"slot_coins"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
