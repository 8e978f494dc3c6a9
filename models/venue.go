package models

import "time"

// Venue — площадка, принадлежит ровно одному администратору.
type Venue struct {
	ID         int       `json:"id" db:"id"`
	AdminID    int       `json:"admin_id" db:"admin_id"`
	Name       string    `json:"name" db:"name"`
	Address    string    `json:"address" db:"address"`
	City       string    `json:"city" db:"city"`
	State      string    `json:"state" db:"state"`
	Zip        string    `json:"zip" db:"zip"`
	CourtCount int       `json:"court_count" db:"court_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	ImageKey   *string   `json:"-" db:"image_key"`
	ImageURL   *string   `json:"image_url,omitempty" db:"-"`
}
