package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlotRepo(t *testing.T) (SlotRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresSlotRepository(db), mock
}

func TestSlotIncrementPlayers_Succeeds(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec(`UPDATE slots`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementPlayers(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotIncrementPlayers_FullSlot(t *testing.T) {
	repo, mock := newSlotRepo(t)

	// Счётчик на пределе: UPDATE не цепляет ни одной строки,
	// а слот при этом существует.
	mock.ExpectExec(`UPDATE slots`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.IncrementPlayers(context.Background(), nil, 10)
	assert.ErrorIs(t, err, ErrSlotCapacity)
}

func TestSlotIncrementPlayers_MissingSlot(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec(`UPDATE slots`).
		WithArgs(999).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.IncrementPlayers(context.Background(), nil, 999)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSlotDecrementPlayers_ZeroRowsIsNotAnError(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectExec(`UPDATE slots`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DecrementPlayers(context.Background(), nil, 10)
	assert.NoError(t, err)
}

func TestSlotGetByID_RoundTrip(t *testing.T) {
	repo, mock := newSlotRepo(t)

	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "venue_id", "date", "day_of_week", "start_time", "end_time",
		"max_players", "current_players", "completed", "created_at",
	}).AddRow(10, 1, date, "Monday", "18:00", "19:30", 4, 2, false, created)

	mock.ExpectQuery(`SELECT (.+) FROM slots`).WithArgs(10).WillReturnRows(rows)

	slot, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, slot.VenueID)
	assert.Equal(t, "Monday", slot.DayOfWeek)
	assert.Equal(t, 2, slot.CurrentPlayers)
	assert.False(t, slot.Completed)
}

func TestSlotGetByID_NotFound(t *testing.T) {
	repo, mock := newSlotRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM slots`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestSlotMarkCompletedBefore(t *testing.T) {
	repo, mock := newSlotRepo(t)

	cutoff := time.Now()
	mock.ExpectExec(`UPDATE slots SET completed = TRUE`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	marked, err := repo.MarkCompletedBefore(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)
}
