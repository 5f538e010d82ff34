package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
)

const (
	defaultRiderSearchLimit = 50
	maxRiderSearchLimit     = 200
)

type RiderService struct {
	riderRepo rider.Repository
}

func NewRiderService(riderRepo rider.Repository) *RiderService {
	return &RiderService{riderRepo: riderRepo}
}

// Search returns active riders of a season matching the query on name or
// sponsor, price descending. An empty query lists the catalog.
func (s *RiderService) Search(ctx context.Context, seasonYear int, query string, limit int) ([]rider.Rider, error) {
	ctx, span := startUsecaseSpan(ctx, "RiderService.Search")
	defer span.End()

	if seasonYear <= 0 {
		return nil, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultRiderSearchLimit
	}
	if limit > maxRiderSearchLimit {
		limit = maxRiderSearchLimit
	}

	riders, err := s.riderRepo.Search(ctx, seasonYear, strings.TrimSpace(query), limit)
	if err != nil {
		return nil, fmt.Errorf("search riders: %w", err)
	}

	return riders, nil
}
