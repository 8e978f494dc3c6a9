package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/courtbook/booking-system/models"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVenueRepo(t *testing.T) (VenueRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresVenueRepository(db), mock
}

func TestVenueCreate_AssignsIDAndTimestamp(t *testing.T) {
	repo, mock := newVenueRepo(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO venues`).
		WithArgs(50, "Riverside Courts", "12 River Rd", "Austin", "TX", "78701", 4, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))

	venue := &models.Venue{
		AdminID:    50,
		Name:       "Riverside Courts",
		Address:    "12 River Rd",
		City:       "Austin",
		State:      "TX",
		Zip:        "78701",
		CourtCount: 4,
	}
	err := repo.Create(context.Background(), venue)
	require.NoError(t, err)

	assert.Equal(t, 1, venue.ID)
	assert.Equal(t, created, venue.CreatedAt)
}

func TestVenueCreate_UnknownAdmin(t *testing.T) {
	repo, mock := newVenueRepo(t)

	mock.ExpectQuery(`INSERT INTO venues`).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "venues_admin_id_fkey"})

	err := repo.Create(context.Background(), &models.Venue{AdminID: 999, Name: "A", CourtCount: 1})
	assert.ErrorIs(t, err, ErrVenueAdminInvalid)
}

func TestVenueGetByID_NotFound(t *testing.T) {
	repo, mock := newVenueRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM venues`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestVenueUpdate_NotFound(t *testing.T) {
	repo, mock := newVenueRepo(t)

	mock.ExpectExec(`UPDATE venues`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Venue{ID: 999, Name: "A", CourtCount: 1})
	assert.ErrorIs(t, err, ErrVenueNotFound)
}

func TestVenueListByAdmin(t *testing.T) {
	repo, mock := newVenueRepo(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "admin_id", "name", "address", "city", "state", "zip",
		"court_count", "image_key", "created_at",
	}).
		AddRow(1, 50, "A", "", "", "", "", 2, nil, created).
		AddRow(3, 50, "C", "", "", "", "", 6, "venues/3/cover.jpg", created)

	mock.ExpectQuery(`SELECT (.+) FROM venues`).WithArgs(50).WillReturnRows(rows)

	venues, err := repo.ListByAdmin(context.Background(), 50)
	require.NoError(t, err)

	require.Len(t, venues, 2)
	assert.Nil(t, venues[0].ImageKey)
	require.NotNil(t, venues[1].ImageKey)
	assert.Equal(t, "venues/3/cover.jpg", *venues[1].ImageKey)
}
