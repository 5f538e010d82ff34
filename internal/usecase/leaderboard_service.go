package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sourcegraph/conc"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/standings"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/cache"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

const leaderboardCachePrefix = "leaderboard:"

// SeasonLeaderboard is the general-classification response payload.
type SeasonLeaderboard struct {
	Season  int
	Entries []standings.Entry
}

// RaceLeaderboard is the single-race response payload. Entries exclude
// teams that scored nothing in the race.
type RaceLeaderboard struct {
	Race    race.Race
	Entries []standings.Entry
}

type LeaderboardService struct {
	teamRepo roster.Repository
	raceRepo race.Repository
	cache    *cache.Store
	logger   *logging.Logger
}

func NewLeaderboardService(
	teamRepo roster.Repository,
	raceRepo race.Repository,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		teamRepo: teamRepo,
		raceRepo: raceRepo,
		cache:    cacheStore,
		logger:   logger,
	}
}

// Season returns the general classification: every team of the season
// ranked by its persisted cumulative points.
func (s *LeaderboardService) Season(ctx context.Context, seasonYear int) (SeasonLeaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Season")
	defer span.End()

	if seasonYear <= 0 {
		return SeasonLeaderboard{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}

	key := leaderboardCachePrefix + "general:" + strconv.Itoa(seasonYear)
	board, err := s.loadCached(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildSeason(ctx, seasonYear)
	})
	if err != nil {
		return SeasonLeaderboard{}, err
	}

	return board.(SeasonLeaderboard), nil
}

// Race returns the leaderboard for one race, scored live from that race's
// result rows against current rosters.
func (s *LeaderboardService) Race(ctx context.Context, raceID string) (RaceLeaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Race")
	defer span.End()

	raceID = strings.TrimSpace(raceID)
	if raceID == "" {
		return RaceLeaderboard{}, fmt.Errorf("%w: race id is required", ErrInvalidInput)
	}

	raceRow, exists, err := s.raceRepo.GetByID(ctx, raceID)
	if err != nil {
		return RaceLeaderboard{}, fmt.Errorf("get race: %w", err)
	}
	if !exists {
		return RaceLeaderboard{}, fmt.Errorf("%w: race %s not found", ErrNotFound, raceID)
	}

	key := leaderboardCachePrefix + "race:" + raceID
	board, err := s.loadCached(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildRace(ctx, raceRow)
	})
	if err != nil {
		return RaceLeaderboard{}, err
	}

	return board.(RaceLeaderboard), nil
}

func (s *LeaderboardService) buildSeason(ctx context.Context, seasonYear int) (SeasonLeaderboard, error) {
	teams, err := s.teamRepo.ListBySeason(ctx, seasonYear)
	if err != nil {
		return SeasonLeaderboard{}, fmt.Errorf("list teams: %w", err)
	}

	entries := make([]standings.Entry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, standings.Entry{
			TeamID:    team.ID,
			TeamName:  team.Name,
			OwnerName: team.OwnerName,
			Points:    team.Points,
		})
	}

	return SeasonLeaderboard{Season: seasonYear, Entries: standings.General(entries)}, nil
}

func (s *LeaderboardService) buildRace(ctx context.Context, raceRow race.Race) (RaceLeaderboard, error) {
	seasonYear := raceRow.Date.Year()

	var (
		results    []race.Result
		teams      []roster.Team
		resultsErr error
		teamsErr   error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		results, resultsErr = s.raceRepo.ListResults(ctx, raceRow.ID)
	})
	wg.Go(func() {
		teams, teamsErr = s.teamRepo.ListBySeason(ctx, seasonYear)
	})
	wg.Wait()

	if resultsErr != nil {
		return RaceLeaderboard{}, fmt.Errorf("list race results: %w", resultsErr)
	}
	if teamsErr != nil {
		return RaceLeaderboard{}, fmt.Errorf("list teams: %w", teamsErr)
	}

	pointsByRider := make(map[string]int64, len(results))
	for _, result := range results {
		pointsByRider[result.RiderID] = result.PointsAwarded
	}

	rosters := make([]standings.TeamRoster, 0, len(teams))
	for _, team := range teams {
		rosters = append(rosters, standings.TeamRoster{
			TeamID:    team.ID,
			TeamName:  team.Name,
			OwnerName: team.OwnerName,
			RiderIDs:  team.RiderIDs(),
		})
	}

	return RaceLeaderboard{
		Race:    raceRow,
		Entries: standings.ScoreRace(pointsByRider, rosters),
	}, nil
}

func (s *LeaderboardService) loadCached(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return loader(ctx)
	}

	return s.cache.GetOrLoad(ctx, key, loader)
}
