package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
)

type UserService interface {
	GetProfile(ctx context.Context, userID int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
	ListUsers(ctx context.Context, filter repositories.UserFilter) ([]models.User, error)
	AdjustCoins(ctx context.Context, userID, delta int) (*models.User, error)
	PromoteToAdmin(ctx context.Context, userID int) error
}

type UpdateProfileInput struct {
	Name            *string `json:"name"`
	Age             *int    `json:"age"`
	Sex             *string `json:"sex"`
	SkillLevel      *string `json:"skill_level"`
	PreferredVenues []int64 `json:"preferred_venues"`
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{
		userRepo: userRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Sex != nil {
		user.Sex = input.Sex
	}
	if input.SkillLevel != nil {
		user.SkillLevel = input.SkillLevel
	}
	if input.PreferredVenues != nil {
		user.PreferredVenues = input.PreferredVenues
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

func (s *userService) AdjustCoins(ctx context.Context, userID, delta int) (*models.User, error) {
	err := s.userRepo.AdjustCoins(ctx, nil, userID, delta)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repositories.ErrCoinBalanceLow):
			return nil, ErrCoinAdjustmentInvalid
		}
		return nil, err
	}
	return s.GetProfile(ctx, userID)
}

func (s *userService) PromoteToAdmin(ctx context.Context, userID int) error {
	err := s.userRepo.UpdateRole(ctx, userID, models.RoleAdmin)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
