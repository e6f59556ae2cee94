package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/restaurant-booking/internal/models"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
)

type AvailabilityService interface {
	ComputeAvailability(ctx context.Context, requested time.Time) ([]models.TableAvailability, error)
}

type availabilityService struct {
	tableRepo   repository.TableRepository
	bookingRepo repository.BookingRepository
}

func NewAvailabilityService(tableRepo repository.TableRepository, bookingRepo repository.BookingRepository) AvailabilityService {
	return &availabilityService{tableRepo: tableRepo, bookingRepo: bookingRepo}
}

// ComputeAvailability annotates every table with whether a confirmed booking
// overlaps the window starting at requested.
func (s *availabilityService) ComputeAvailability(ctx context.Context, requested time.Time) ([]models.TableAvailability, error) {
	if requested.IsZero() {
		return nil, validationErrorf("booking time is required")
	}

	after, before := WindowAt(requested.UTC()).OverlappingStarts()
	occupiedIDs, err := s.bookingRepo.FindOccupiedTableIDs(ctx, s.bookingRepo.GetDB(), after, before)
	if err != nil {
		return nil, fmt.Errorf("find occupied tables: %w", err)
	}

	tables, err := s.tableRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	occupied := make(map[uint]struct{}, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = struct{}{}
	}

	result := make([]models.TableAvailability, len(tables))
	for i, t := range tables {
		_, taken := occupied[t.ID]
		result[i] = models.TableAvailability{Table: t, IsAvailable: !taken}
	}
	return result, nil
}
