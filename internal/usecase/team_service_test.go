package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/season"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/infrastructure/repository/memory"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

func newTeamFixture(t *testing.T, locks season.LockSchedule) (*TeamService, *memory.TeamRepository) {
	t.Helper()

	riders := memory.NewRiderRepository()
	for _, row := range memory.SeedRiders() {
		riders.Upsert(memory.SeedSeason, row)
	}
	teams := memory.NewTeamRepository()

	service := NewTeamService(
		teams,
		riders,
		roster.DefaultRules(),
		locks,
		&seqIDGenerator{prefix: "team"},
		nil,
		logging.NewNop(),
	)
	service.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }

	return service, teams
}

// A valid roster under the default 11000 budget.
var affordableRiderIDs = []string{
	"rdr-004", "rdr-005", "rdr-006", "rdr-007", "rdr-008",
	"rdr-009", "rdr-010", "rdr-011", "rdr-012", "rdr-013",
}

func TestTeamService_SaveTeam_CreateThenUpdate(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	created, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: affordableRiderIDs,
	})
	if err != nil {
		t.Fatalf("save team create failed: %v", err)
	}

	if created.ID != "team-001" {
		t.Fatalf("expected team id team-001, got %s", created.ID)
	}
	if len(created.Slots) != len(affordableRiderIDs) {
		t.Fatalf("expected %d slots, got %d", len(affordableRiderIDs), len(created.Slots))
	}
	for i, slot := range created.Slots {
		if slot.Slot != i+1 || slot.RiderID != affordableRiderIDs[i] {
			t.Fatalf("slot %d out of order: %+v", i, slot)
		}
	}
	// 1700+1500+1300+1100+950+800+700+600+500+450
	if created.TotalCost != 9600 {
		t.Fatalf("expected total cost 9600, got %d", created.TotalCost)
	}

	updated, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens 2.0",
		RiderIDs: affordableRiderIDs[:9],
	})
	if err != nil {
		t.Fatalf("save team update failed: %v", err)
	}

	if updated.ID != created.ID {
		t.Fatalf("update must keep the team id, got %s", updated.ID)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("update must keep the creation time")
	}
	if len(updated.Slots) != 9 {
		t.Fatalf("expected 9 slots after update, got %d", len(updated.Slots))
	}
}

func TestTeamService_SaveTeam_UpdateKeepsCumulativePoints(t *testing.T) {
	service, teams := newTeamFixture(t, season.NewLockSchedule(nil))

	created, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: affordableRiderIDs,
	})
	if err != nil {
		t.Fatalf("save team failed: %v", err)
	}

	scored := created
	scored.Points = 180
	if err := teams.Upsert(t.Context(), scored); err != nil {
		t.Fatalf("score team: %v", err)
	}

	updated, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: affordableRiderIDs[:9],
	})
	if err != nil {
		t.Fatalf("save team update failed: %v", err)
	}

	if updated.Points != 180 {
		t.Fatalf("re-rostering must keep cumulative points, got %d", updated.Points)
	}
}

func TestTeamService_SaveTeam_ValidationFailures(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	tests := []struct {
		name    string
		input   SaveTeamInput
		wantErr error
	}{
		{
			name: "blank name",
			input: SaveTeamInput{
				UserID: "user-1", Season: memory.SeedSeason,
				Name: "  x ", RiderIDs: affordableRiderIDs,
			},
			wantErr: roster.ErrEmptyName,
		},
		{
			name: "no riders",
			input: SaveTeamInput{
				UserID: "user-1", Season: memory.SeedSeason,
				Name: "De Flandriens",
			},
			wantErr: roster.ErrEmptyRoster,
		},
		{
			name: "duplicate rider",
			input: SaveTeamInput{
				UserID: "user-1", Season: memory.SeedSeason,
				Name:     "De Flandriens",
				RiderIDs: []string{"rdr-004", "rdr-004", "rdr-005"},
			},
			wantErr: roster.ErrDuplicateRider,
		},
		{
			name: "over budget",
			input: SaveTeamInput{
				UserID: "user-1", Season: memory.SeedSeason,
				Name: "De Flandriens",
				// 2400+2150+1900+1700+1500+1300 = 10950, +950 = 11900
				RiderIDs: []string{"rdr-001", "rdr-002", "rdr-003", "rdr-004", "rdr-005", "rdr-006", "rdr-008"},
			},
			wantErr: roster.ErrBudgetExceeded,
		},
		{
			name: "unknown rider",
			input: SaveTeamInput{
				UserID: "user-1", Season: memory.SeedSeason,
				Name:     "De Flandriens",
				RiderIDs: []string{"rdr-does-not-exist"},
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing user",
			input: SaveTeamInput{
				Season: memory.SeedSeason,
				Name:   "De Flandriens", RiderIDs: affordableRiderIDs,
			},
			wantErr: ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.SaveTeam(t.Context(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTeamService_SaveTeam_BudgetOverageIsReported(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	_, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID: "user-1",
		Season: memory.SeedSeason,
		Name:   "De Flandriens",
		// 2400+2150+1900+1700+1500+1300+950 = 11900 against a cap of 11000.
		RiderIDs: []string{"rdr-001", "rdr-002", "rdr-003", "rdr-004", "rdr-005", "rdr-006", "rdr-008"},
	})

	var budgetErr *roster.BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("expected BudgetExceededError, got %v", err)
	}
	if budgetErr.Over() != 900 {
		t.Fatalf("expected overage of 900, got %d", budgetErr.Over())
	}
}

func TestTeamService_SaveTeam_RejectedAfterSeasonLock(t *testing.T) {
	locks := season.NewLockSchedule(map[int]time.Time{
		memory.SeedSeason: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
	})
	service, _ := newTeamFixture(t, locks)
	service.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	_, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: affordableRiderIDs,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict after lock, got %v", err)
	}
}

func TestTeamService_GetMyTeam_HydratesRidersInSlotOrder(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	if _, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: []string{"rdr-010", "rdr-004", "rdr-008"},
	}); err != nil {
		t.Fatalf("save team failed: %v", err)
	}

	view, err := service.GetMyTeam(t.Context(), "user-1", memory.SeedSeason)
	if err != nil {
		t.Fatalf("get my team failed: %v", err)
	}

	got := make([]string, 0, len(view.Riders))
	for _, r := range view.Riders {
		got = append(got, r.ID)
	}
	want := []string{"rdr-010", "rdr-004", "rdr-008"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected riders %v, got %v", want, got)
		}
	}
}

func TestTeamService_GetMyTeam_NotFound(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	_, err := service.GetMyTeam(t.Context(), "user-1", memory.SeedSeason)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTeamService_GetTeamByID(t *testing.T) {
	service, _ := newTeamFixture(t, season.NewLockSchedule(nil))

	created, err := service.SaveTeam(t.Context(), SaveTeamInput{
		UserID:   "user-1",
		Season:   memory.SeedSeason,
		Name:     "De Flandriens",
		RiderIDs: affordableRiderIDs,
	})
	if err != nil {
		t.Fatalf("save team failed: %v", err)
	}

	view, err := service.GetTeamByID(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get team by id failed: %v", err)
	}
	if view.Team.Name != "De Flandriens" {
		t.Fatalf("unexpected team name %s", view.Team.Name)
	}

	if _, err := service.GetTeamByID(t.Context(), "team-zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for unknown id, got %v", err)
	}
}
