package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
)

// RaceDetail is a race plus its ranked results joined with rider fields.
type RaceDetail struct {
	Race    race.Race
	Results []race.ResultDetail
}

type RaceService struct {
	raceRepo race.Repository
	now      func() time.Time
}

func NewRaceService(raceRepo race.Repository) *RaceService {
	return &RaceService{
		raceRepo: raceRepo,
		now:      time.Now,
	}
}

// ListSeason returns the full calendar of a season, date ascending.
func (s *RaceService) ListSeason(ctx context.Context, seasonYear int) ([]race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "RaceService.ListSeason")
	defer span.End()

	if seasonYear <= 0 {
		return nil, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}

	races, err := s.raceRepo.ListBySeason(ctx, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("list races: %w", err)
	}

	return races, nil
}

// Latest returns the most recent past race with its results. Not-found
// means the season has not started yet.
func (s *RaceService) Latest(ctx context.Context, resultLimit int) (RaceDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "RaceService.Latest")
	defer span.End()

	raceRow, exists, err := s.raceRepo.Latest(ctx, s.now().UTC())
	if err != nil {
		return RaceDetail{}, fmt.Errorf("get latest race: %w", err)
	}
	if !exists {
		return RaceDetail{}, fmt.Errorf("%w: no race has been run yet", ErrNotFound)
	}

	results, err := s.raceRepo.ListResultDetails(ctx, raceRow.ID, resultLimit)
	if err != nil {
		return RaceDetail{}, fmt.Errorf("list race results: %w", err)
	}

	return RaceDetail{Race: raceRow, Results: results}, nil
}

// Next returns the nearest upcoming race. Not-found means the season is
// over.
func (s *RaceService) Next(ctx context.Context) (race.Race, error) {
	ctx, span := startUsecaseSpan(ctx, "RaceService.Next")
	defer span.End()

	raceRow, exists, err := s.raceRepo.Next(ctx, s.now().UTC())
	if err != nil {
		return race.Race{}, fmt.Errorf("get next race: %w", err)
	}
	if !exists {
		return race.Race{}, fmt.Errorf("%w: no upcoming race", ErrNotFound)
	}

	return raceRow, nil
}

// Get returns one race with its full ranked result list.
func (s *RaceService) Get(ctx context.Context, raceID string, resultLimit int) (RaceDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "RaceService.Get")
	defer span.End()

	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return RaceDetail{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	raceRow, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return RaceDetail{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return RaceDetail{}, fmt.Errorf("%w: race %s not found", ErrNotFound, raceID)
	}

	results, err := s.raceRepo.ListResultDetails(ctx, raceRow.ID, resultLimit)
	if err != nil {
		return RaceDetail{}, fmt.Errorf("list race results: %w", err)
	}

	return RaceDetail{Race: raceRow, Results: results}, nil
}
