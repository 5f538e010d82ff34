package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/season"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/cache"
	idgen "github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/id"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

// SaveTeamInput is the incoming payload for create/update team.
type SaveTeamInput struct {
	UserID   string
	Season   int
	Name     string
	RiderIDs []string
}

// TeamView is a team joined with the full rider rows of its slots, in slot
// order.
type TeamView struct {
	Team   roster.Team
	Riders []rider.Rider
}

type TeamService struct {
	teamRepo  roster.Repository
	riderRepo rider.Repository
	rules     roster.Rules
	locks     season.LockSchedule
	idGen     idgen.Generator
	cache     *cache.Store
	logger    *logging.Logger
	now       func() time.Time
}

func NewTeamService(
	teamRepo roster.Repository,
	riderRepo rider.Repository,
	rules roster.Rules,
	locks season.LockSchedule,
	idGen idgen.Generator,
	cacheStore *cache.Store,
	logger *logging.Logger,
) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		teamRepo:  teamRepo,
		riderRepo: riderRepo,
		rules:     rules,
		locks:     locks,
		idGen:     idGen,
		cache:     cacheStore,
		logger:    logger,
		now:       time.Now,
	}
}

// SaveTeam validates and upserts a user's roster for a season. Prices are
// always re-read from the catalog; client-submitted prices never count
// toward the budget.
func (s *TeamService) SaveTeam(ctx context.Context, input SaveTeamInput) (roster.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.SaveTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)

	if input.UserID == "" {
		return roster.Team{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if input.Season <= 0 {
		return roster.Team{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	if s.locks.Locked(input.Season, now) {
		return roster.Team{}, fmt.Errorf("%w: season %d roster is locked", ErrConflict, input.Season)
	}

	riderIDs, err := cleanRiderIDs(input.RiderIDs)
	if err != nil {
		return roster.Team{}, err
	}

	picks, err := s.pricedPicks(ctx, input.Season, riderIDs)
	if err != nil {
		return roster.Team{}, err
	}

	if err := roster.ValidateRoster(input.Name, picks, s.rules); err != nil {
		return roster.Team{}, fmt.Errorf("validate roster: %w", err)
	}

	existing, exists, err := s.teamRepo.GetByUserAndSeason(ctx, input.UserID, input.Season)
	if err != nil {
		return roster.Team{}, fmt.Errorf("get existing team: %w", err)
	}

	teamID := existing.ID
	createdAt := existing.CreatedAt
	points := existing.Points
	if !exists {
		teamID, err = s.idGen.NewID()
		if err != nil {
			return roster.Team{}, fmt.Errorf("generate team id: %w", err)
		}
		createdAt = now
		points = 0
	}

	slots := make([]roster.Slot, 0, len(picks))
	for i, pick := range picks {
		slots = append(slots, roster.Slot{Slot: i + 1, RiderID: pick.RiderID})
	}

	team := roster.Team{
		ID:        teamID,
		UserID:    input.UserID,
		Season:    input.Season,
		Name:      input.Name,
		OwnerName: existing.OwnerName,
		Slots:     slots,
		TotalCost: roster.TotalCost(picks),
		Points:    points,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	if err := team.ValidateBasic(); err != nil {
		return roster.Team{}, fmt.Errorf("validate team: %w", err)
	}

	if err := s.teamRepo.Upsert(ctx, team); err != nil {
		return roster.Team{}, fmt.Errorf("upsert team: %w", err)
	}

	if s.cache != nil {
		s.cache.DeletePrefix(ctx, leaderboardCachePrefix)
	}

	s.logger.InfoContext(ctx, "team saved",
		"user_id", input.UserID,
		"season", input.Season,
		"team_id", team.ID,
		"rider_count", len(team.Slots),
		"total_cost", team.TotalCost,
	)

	return team, nil
}

// GetMyTeam returns the caller's team for a season together with the rider
// rows behind its slots.
func (s *TeamService) GetMyTeam(ctx context.Context, userID string, seasonYear int) (TeamView, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.GetMyTeam")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TeamView{}, fmt.Errorf("%w: user id is required", ErrUnauthorized)
	}
	if seasonYear <= 0 {
		return TeamView{}, fmt.Errorf("%w: season year is required", ErrInvalidInput)
	}

	team, exists, err := s.teamRepo.GetByUserAndSeason(ctx, userID, seasonYear)
	if err != nil {
		return TeamView{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamView{}, fmt.Errorf("%w: no team for season %d", ErrNotFound, seasonYear)
	}

	return s.hydrate(ctx, team)
}

// GetTeamByID returns any team by id, for the public team detail page.
func (s *TeamService) GetTeamByID(ctx context.Context, teamID string) (TeamView, error) {
	ctx, span := startUsecaseSpan(ctx, "TeamService.GetTeamByID")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return TeamView{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	team, exists, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return TeamView{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamView{}, fmt.Errorf("%w: team %s not found", ErrNotFound, teamID)
	}

	return s.hydrate(ctx, team)
}

func (s *TeamService) hydrate(ctx context.Context, team roster.Team) (TeamView, error) {
	riders, err := s.riderRepo.GetByIDs(ctx, team.Season, team.RiderIDs())
	if err != nil {
		return TeamView{}, fmt.Errorf("get roster riders: %w", err)
	}

	byID := make(map[string]rider.Rider, len(riders))
	for _, r := range riders {
		byID[r.ID] = r
	}

	ordered := make([]rider.Rider, 0, len(team.Slots))
	for _, slot := range team.Slots {
		if r, ok := byID[slot.RiderID]; ok {
			ordered = append(ordered, r)
		}
	}

	return TeamView{Team: team, Riders: ordered}, nil
}

func (s *TeamService) pricedPicks(ctx context.Context, seasonYear int, riderIDs []string) ([]roster.Pick, error) {
	if len(riderIDs) == 0 {
		return nil, nil
	}

	riders, err := s.riderRepo.GetByIDs(ctx, seasonYear, riderIDs)
	if err != nil {
		return nil, fmt.Errorf("get riders by ids: %w", err)
	}

	priceByID := make(map[string]int64, len(riders))
	for _, r := range riders {
		priceByID[r.ID] = r.Price
	}

	picks := make([]roster.Pick, 0, len(riderIDs))
	for _, riderID := range riderIDs {
		price, ok := priceByID[riderID]
		if !ok {
			return nil, fmt.Errorf("%w: rider id %s not found in season %d", ErrInvalidInput, riderID, seasonYear)
		}
		picks = append(picks, roster.Pick{RiderID: riderID, Price: price})
	}

	return picks, nil
}

func cleanRiderIDs(riderIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(riderIDs))
	for _, id := range riderIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: rider id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}
