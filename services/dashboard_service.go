package services

import (
	"context"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context, adminID int) (models.DashboardStats, error)
}

type dashboardService struct {
	venueRepo   repositories.VenueRepository
	slotRepo    repositories.SlotRepository
	bookingRepo repositories.BookingRepository
}

func NewDashboardService(
	venueRepo repositories.VenueRepository,
	slotRepo repositories.SlotRepository,
	bookingRepo repositories.BookingRepository,
) DashboardService {
	return &dashboardService{
		venueRepo:   venueRepo,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
	}
}

// GetStats собирает счётчики по площадкам администратора параллельно.
func (s *dashboardService) GetStats(ctx context.Context, adminID int) (models.DashboardStats, error) {
	var stats models.DashboardStats

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.venueRepo.CountByAdmin(gCtx, adminID)
		if err != nil {
			return err
		}
		stats.VenuesTotal = count
		return nil
	})
	g.Go(func() error {
		count, err := s.slotRepo.CountUpcomingByAdmin(gCtx, adminID)
		if err != nil {
			return err
		}
		stats.UpcomingSlots = count
		return nil
	})
	g.Go(func() error {
		count, err := s.bookingRepo.CountConfirmedByAdmin(gCtx, adminID)
		if err != nil {
			return err
		}
		stats.ConfirmedBookings = count
		return nil
	})
	g.Go(func() error {
		count, err := s.bookingRepo.CountDistinctPlayersByAdmin(gCtx, adminID)
		if err != nil {
			return err
		}
		stats.DistinctPlayers = count
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
