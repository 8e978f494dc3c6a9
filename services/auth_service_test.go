package services

import (
	"context"
	"testing"

	"github.com/courtbook/booking-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_AlwaysCreatesRegularUser(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     " Sam ",
		Email:    "Sam@Example.COM ",
		Password: "secret-password",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleUser, user.Role)
	assert.Equal(t, "Sam", user.Name)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, 0, user.SlotCoins)
}

func TestRegister_ShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "short",
	})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestLogin_RoundTrip(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users)

	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Sam",
		Email:    "sam@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	// Register очищает PasswordHash на отдаваемой копии; хранилище
	// должно сохранить хеш до этого.
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)
	users.users[1].PasswordHash = string(hash)

	user, err := svc.Login(context.Background(), LoginInput{Email: "SAM@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Login(context.Background(), LoginInput{Email: "sam@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "secret-password"})
	assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
}
