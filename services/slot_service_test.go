package services

import (
	"context"
	"testing"
	"time"

	"github.com/courtbook/booking-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSlot_DerivesDayOfWeek(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	slots := newFakeSlotRepo()
	svc := NewSlotService(slots, venues, nil)

	// 2026-09-07 — понедельник.
	date := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	slot, err := svc.CreateSlot(context.Background(), 50, CreateSlotInput{
		VenueID:    1,
		Date:       date,
		StartTime:  "18:00",
		EndTime:    "19:30",
		MaxPlayers: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, "Monday", slot.DayOfWeek)
	assert.Equal(t, 0, slot.CurrentPlayers)
}

func TestCreateSlot_ForeignVenueRejected(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	slots := newFakeSlotRepo()
	svc := NewSlotService(slots, venues, nil)

	_, err := svc.CreateSlot(context.Background(), 51, CreateSlotInput{
		VenueID:    1,
		Date:       time.Now().AddDate(0, 0, 1),
		StartTime:  "18:00",
		EndTime:    "19:30",
		MaxPlayers: 4,
	})
	assert.ErrorIs(t, err, ErrVenueNotOwned)
	assert.Empty(t, slots.slots)
}

func TestCreateSlot_Validation(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	svc := NewSlotService(newFakeSlotRepo(), venues, nil)

	date := time.Now().AddDate(0, 0, 1)

	_, err := svc.CreateSlot(context.Background(), 50, CreateSlotInput{VenueID: 1, StartTime: "18:00", EndTime: "19:00", MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrSlotDateRequired)

	_, err = svc.CreateSlot(context.Background(), 50, CreateSlotInput{VenueID: 1, Date: date, StartTime: "18:00", EndTime: "19:00", MaxPlayers: 0})
	assert.ErrorIs(t, err, ErrSlotCapacityInvalid)

	_, err = svc.CreateSlot(context.Background(), 50, CreateSlotInput{VenueID: 1, Date: date, StartTime: "19:00", EndTime: "18:00", MaxPlayers: 4})
	assert.ErrorIs(t, err, ErrSlotTimeInvalid)
}

func TestUpdateSlot_CapacityCannotDropBelowBooked(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	slots := newFakeSlotRepo(&models.Slot{
		ID: 10, VenueID: 1, Date: time.Now().AddDate(0, 0, 1),
		StartTime: "18:00", EndTime: "19:30", MaxPlayers: 4, CurrentPlayers: 3,
	})
	svc := NewSlotService(slots, venues, nil)

	_, err := svc.UpdateSlot(context.Background(), 50, 10, UpdateSlotInput{MaxPlayers: intPtr(2)})
	assert.ErrorIs(t, err, ErrSlotCapacityInvalid)

	updated, err := svc.UpdateSlot(context.Background(), 50, 10, UpdateSlotInput{MaxPlayers: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.MaxPlayers)
}

func TestUpdateSlot_DateChangeRecomputesDayOfWeek(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	slots := newFakeSlotRepo(&models.Slot{
		ID: 10, VenueID: 1, Date: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC), DayOfWeek: "Monday",
		StartTime: "18:00", EndTime: "19:30", MaxPlayers: 4,
	})
	svc := NewSlotService(slots, venues, nil)

	newDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC) // суббота
	updated, err := svc.UpdateSlot(context.Background(), 50, 10, UpdateSlotInput{Date: &newDate})
	require.NoError(t, err)
	assert.Equal(t, "Saturday", updated.DayOfWeek)
}

func TestDeleteSlot_ForeignAdminRejected(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	slots := newFakeSlotRepo(&models.Slot{
		ID: 10, VenueID: 1, Date: time.Now().AddDate(0, 0, 1),
		StartTime: "18:00", EndTime: "19:30", MaxPlayers: 4,
	})
	svc := NewSlotService(slots, venues, nil)

	err := svc.DeleteSlot(context.Background(), 51, 10)
	assert.ErrorIs(t, err, ErrVenueNotOwned)
	assert.Equal(t, 0, slots.deleteCalls)
}

func TestCompletePastSlots_MarksOnlyPast(t *testing.T) {
	venues := newFakeVenueRepo()
	slots := newFakeSlotRepo(
		&models.Slot{ID: 1, VenueID: 1, Date: time.Now().AddDate(0, 0, -2)},
		&models.Slot{ID: 2, VenueID: 1, Date: time.Now().AddDate(0, 0, 2)},
	)
	svc := NewSlotService(slots, venues, nil)

	require.NoError(t, svc.CompletePastSlots(context.Background()))

	assert.True(t, slots.slots[1].Completed)
	assert.False(t, slots.slots[2].Completed)
}
