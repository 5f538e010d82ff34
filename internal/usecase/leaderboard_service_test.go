package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/infrastructure/repository/memory"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/cache"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

func seedLeaderboardTeams(t *testing.T, teams *memory.TeamRepository) {
	t.Helper()

	rows := []roster.Team{
		{
			ID: "team-b", UserID: "user-b", Season: memory.SeedSeason,
			Name: "Kasseistampers", OwnerName: "Bert", Points: 120,
			Slots: []roster.Slot{{Slot: 1, RiderID: "rdr-001"}, {Slot: 2, RiderID: "rdr-009"}},
		},
		{
			ID: "team-a", UserID: "user-a", Season: memory.SeedSeason,
			Name: "De Flandriens", OwnerName: "An", Points: 120,
			Slots: []roster.Slot{{Slot: 1, RiderID: "rdr-002"}, {Slot: 2, RiderID: "rdr-005"}},
		},
		{
			ID: "team-c", UserID: "user-c", Season: memory.SeedSeason,
			Name: "Gruppetto", OwnerName: "Cas", Points: 45,
			Slots: []roster.Slot{{Slot: 1, RiderID: "rdr-012"}, {Slot: 2, RiderID: "rdr-013"}},
		},
	}
	for _, row := range rows {
		if err := teams.Upsert(t.Context(), row); err != nil {
			t.Fatalf("seed team %s: %v", row.ID, err)
		}
	}
}

func newLeaderboardFixture(t *testing.T, cacheStore *cache.Store) (*LeaderboardService, *memory.TeamRepository, *memory.RaceRepository) {
	t.Helper()

	teams := memory.NewTeamRepository()
	seedLeaderboardTeams(t, teams)

	races := memory.NewRaceRepository()
	races.AddRace(race.Race{ID: "race-omloop", Name: "Omloop Het Nieuwsblad", Date: time.Date(2026, 2, 28, 11, 0, 0, 0, time.UTC)})
	races.AddResult(race.Result{RaceID: "race-omloop", RiderID: "rdr-001", Rank: 1, PointsAwarded: 100}, "Milan Vandeputte", "Quickstep Omega")
	races.AddResult(race.Result{RaceID: "race-omloop", RiderID: "rdr-005", Rank: 2, PointsAwarded: 80}, "Arne De Smet", "Jumbo Lease")

	return NewLeaderboardService(teams, races, cacheStore, logging.NewNop()), teams, races
}

func TestLeaderboardService_Season_RanksByPersistedPoints(t *testing.T) {
	service, _, _ := newLeaderboardFixture(t, nil)

	board, err := service.Season(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("season leaderboard failed: %v", err)
	}

	if len(board.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(board.Entries))
	}
	// Equal points resolve by team id ascending.
	want := []string{"team-a", "team-b", "team-c"}
	for i, entry := range board.Entries {
		if entry.TeamID != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i+1, want[i], entry.TeamID)
		}
	}
}

func TestLeaderboardService_Race_ScoresRostersAndDropsZero(t *testing.T) {
	service, _, _ := newLeaderboardFixture(t, nil)

	board, err := service.Race(t.Context(), "race-omloop")
	if err != nil {
		t.Fatalf("race leaderboard failed: %v", err)
	}

	if board.Race.Name != "Omloop Het Nieuwsblad" {
		t.Fatalf("unexpected race %s", board.Race.Name)
	}
	// team-b holds the winner (100), team-a the runner-up (80), team-c
	// scored nothing and is excluded.
	if len(board.Entries) != 2 {
		t.Fatalf("expected 2 scoring teams, got %d", len(board.Entries))
	}
	if board.Entries[0].TeamID != "team-b" || board.Entries[0].Points != 100 {
		t.Fatalf("unexpected leader %+v", board.Entries[0])
	}
	if board.Entries[1].TeamID != "team-a" || board.Entries[1].Points != 80 {
		t.Fatalf("unexpected runner-up %+v", board.Entries[1])
	}
}

func TestLeaderboardService_Race_UnknownRace(t *testing.T) {
	service, _, _ := newLeaderboardFixture(t, nil)

	_, err := service.Race(t.Context(), "race-zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// failingTeamRepository rejects every call with a fixed error.
type failingTeamRepository struct {
	err error
}

func (r failingTeamRepository) GetByUserAndSeason(context.Context, string, int) (roster.Team, bool, error) {
	return roster.Team{}, false, r.err
}

func (r failingTeamRepository) GetByID(context.Context, string) (roster.Team, bool, error) {
	return roster.Team{}, false, r.err
}

func (r failingTeamRepository) ListBySeason(context.Context, int) ([]roster.Team, error) {
	return nil, r.err
}

func (r failingTeamRepository) Upsert(context.Context, roster.Team) error {
	return r.err
}

// failingRaceRepository resolves the race row but fails on every listing,
// matching a store that drops mid-request.
type failingRaceRepository struct {
	row race.Race
	err error
}

func (r failingRaceRepository) GetByID(context.Context, string) (race.Race, bool, error) {
	return r.row, true, nil
}

func (r failingRaceRepository) ListBySeason(context.Context, int) ([]race.Race, error) {
	return nil, r.err
}

func (r failingRaceRepository) Latest(context.Context, time.Time) (race.Race, bool, error) {
	return race.Race{}, false, r.err
}

func (r failingRaceRepository) Next(context.Context, time.Time) (race.Race, bool, error) {
	return race.Race{}, false, r.err
}

func (r failingRaceRepository) ListResults(context.Context, string) ([]race.Result, error) {
	return nil, r.err
}

func (r failingRaceRepository) ListResultDetails(context.Context, string, int) ([]race.ResultDetail, error) {
	return nil, r.err
}

func TestLeaderboardService_Season_EmptySeasonIsNotAnError(t *testing.T) {
	// A season without teams yields an empty board. Only a failed fetch
	// yields an error.
	teams := memory.NewTeamRepository()
	races := memory.NewRaceRepository()
	service := NewLeaderboardService(teams, races, nil, logging.NewNop())

	board, err := service.Season(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("expected no error for empty season, got %v", err)
	}
	if len(board.Entries) != 0 {
		t.Fatalf("expected empty board, got %d entries", len(board.Entries))
	}
}

func TestLeaderboardService_Season_TeamFetchFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	service := NewLeaderboardService(failingTeamRepository{err: storeErr}, memory.NewRaceRepository(), nil, logging.NewNop())

	_, err := service.Season(t.Context(), memory.SeedSeason)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLeaderboardService_Race_ResultFetchFailure(t *testing.T) {
	storeErr := errors.New("connection reset")
	races := failingRaceRepository{
		row: race.Race{ID: "race-omloop", Name: "Omloop Het Nieuwsblad", Date: time.Date(2026, 2, 28, 11, 0, 0, 0, time.UTC)},
		err: storeErr,
	}

	teams := memory.NewTeamRepository()
	seedLeaderboardTeams(t, teams)
	service := NewLeaderboardService(teams, races, nil, logging.NewNop())

	_, err := service.Race(t.Context(), "race-omloop")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestLeaderboardService_Season_ServesFromCacheUntilInvalidated(t *testing.T) {
	store := cache.NewStore(time.Minute)
	service, teams, _ := newLeaderboardFixture(t, store)

	first, err := service.Season(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("season leaderboard failed: %v", err)
	}

	// A write behind the cache's back is invisible until the prefix is
	// dropped, which SaveTeam does after every upsert.
	if err := teams.Upsert(t.Context(), roster.Team{
		ID: "team-d", UserID: "user-d", Season: memory.SeedSeason,
		Name: "Nieuwkomers", Points: 999,
		Slots: []roster.Slot{{Slot: 1, RiderID: "rdr-003"}},
	}); err != nil {
		t.Fatalf("upsert team: %v", err)
	}

	cached, err := service.Season(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("cached season leaderboard failed: %v", err)
	}
	if len(cached.Entries) != len(first.Entries) {
		t.Fatalf("expected cached board with %d entries, got %d", len(first.Entries), len(cached.Entries))
	}

	store.DeletePrefix(t.Context(), "leaderboard:")

	fresh, err := service.Season(t.Context(), memory.SeedSeason)
	if err != nil {
		t.Fatalf("fresh season leaderboard failed: %v", err)
	}
	if len(fresh.Entries) != 4 || fresh.Entries[0].TeamID != "team-d" {
		t.Fatalf("expected rebuilt board led by team-d, got %+v", fresh.Entries)
	}
}
