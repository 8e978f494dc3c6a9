package services

import (
	"context"
	"testing"

	"github.com/courtbook/booking-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_PatchesOnlyProvidedFields(t *testing.T) {
	age := 34
	users := newFakeUserRepo(&models.User{ID: 7, Name: "Sam", Email: "sam@example.com", Age: &age, SlotCoins: 3})
	svc := NewUserService(users)

	skill := "intermediate"
	user, err := svc.UpdateProfile(context.Background(), 7, UpdateProfileInput{
		SkillLevel:      &skill,
		PreferredVenues: []int64{1, 3},
	})
	require.NoError(t, err)

	assert.Equal(t, "intermediate", *user.SkillLevel)
	assert.Equal(t, []int64{1, 3}, user.PreferredVenues)
	// Непереданные поля сохраняются.
	assert.Equal(t, "Sam", user.Name)
	assert.Equal(t, 34, *user.Age)
	assert.Equal(t, 3, user.SlotCoins)
}

func TestAdjustCoins_NegativeBalanceRejected(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 7, Name: "Sam", SlotCoins: 2})
	svc := NewUserService(users)

	_, err := svc.AdjustCoins(context.Background(), 7, -5)
	assert.ErrorIs(t, err, ErrCoinAdjustmentInvalid)
	assert.Equal(t, 2, users.users[7].SlotCoins)

	user, err := svc.AdjustCoins(context.Background(), 7, 5)
	require.NoError(t, err)
	assert.Equal(t, 7, user.SlotCoins)
}

func TestAdjustCoins_UnknownUser(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.AdjustCoins(context.Background(), 999, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPromoteToAdmin(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 7, Name: "Sam", Role: models.RoleUser})
	svc := NewUserService(users)

	require.NoError(t, svc.PromoteToAdmin(context.Background(), 7))
	assert.Equal(t, models.RoleAdmin, users.users[7].Role)
}

func TestGetProfile_HidesPasswordHash(t *testing.T) {
	users := newFakeUserRepo(&models.User{ID: 7, Name: "Sam", PasswordHash: "hash"})
	svc := NewUserService(users)

	user, err := svc.GetProfile(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
}
