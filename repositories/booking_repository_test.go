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

func newBookingRepo(t *testing.T) (BookingRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresBookingRepository(db), mock
}

func TestBookingFindActive_NoRowIsNotAnError(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM bookings`).
		WithArgs(7, 10, string(models.BookingConfirmed)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	booking, err := repo.FindActiveByUserAndSlot(context.Background(), 7, 10)
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestBookingGetWithSlot(t *testing.T) {
	repo, mock := newBookingRepo(t)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "slot_id", "venue_id", "status", "checked_in", "user_name", "created_at",
		"s_id", "s_venue_id", "s_date", "s_day_of_week", "s_start_time", "s_end_time",
		"s_max_players", "s_current_players", "s_completed", "s_created_at",
	}).AddRow(
		1, 7, 10, 2, "confirmed", false, "Sam", created,
		10, 2, date, "Monday", "18:00", "19:30", 4, 3, false, created,
	)

	mock.ExpectQuery(`FROM bookings b`).WithArgs(1).WillReturnRows(rows)

	booking, err := repo.GetWithSlot(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, booking.Slot)
	assert.Equal(t, date, booking.Slot.Date)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, "Sam", booking.UserName)
}

func TestBookingMarkCancelled_FlipsConfirmedRow(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(string(models.BookingCancelled), 1, string(models.BookingConfirmed)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkCancelled(context.Background(), nil, 1)
	assert.NoError(t, err)
}

func TestBookingMarkCancelled_AlreadyCancelledRowIsNotTouched(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(string(models.BookingCancelled), 1, string(models.BookingConfirmed)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.MarkCancelled(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrBookingNotActive)
}

func TestBookingMarkCancelled_NotFound(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectExec(`UPDATE bookings`).
		WithArgs(string(models.BookingCancelled), 999, string(models.BookingConfirmed)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.MarkCancelled(context.Background(), nil, 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestBookingCreate_ActiveDuplicateHitsUniqueIndex(t *testing.T) {
	repo, mock := newBookingRepo(t)

	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(7, 10, 2, string(models.BookingConfirmed), "Sam").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "bookings_active_user_slot_idx"})

	booking := &models.Booking{UserID: 7, SlotID: 10, VenueID: 2, Status: models.BookingConfirmed, UserName: "Sam"}
	err := repo.Create(context.Background(), nil, booking)
	assert.ErrorIs(t, err, ErrBookingDuplicate)
}

func TestBookingCreate_ReturnsGeneratedID(t *testing.T) {
	repo, mock := newBookingRepo(t)

	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO bookings`).
		WithArgs(7, 10, 2, string(models.BookingConfirmed), "Sam").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, created))

	booking := &models.Booking{UserID: 7, SlotID: 10, VenueID: 2, Status: models.BookingConfirmed, UserName: "Sam"}
	err := repo.Create(context.Background(), nil, booking)
	require.NoError(t, err)
	assert.Equal(t, 42, booking.ID)
}
