package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]roster.Team)}
}

func (r *TeamRepository) GetByUserAndSeason(_ context.Context, userID string, season int) (roster.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, team := range r.items {
		if team.UserID == userID && team.Season == season {
			return cloneTeam(team), true, nil
		}
	}

	return roster.Team{}, false, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (roster.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.items[teamID]
	if !ok {
		return roster.Team{}, false, nil
	}

	return cloneTeam(team), true, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, season int) ([]roster.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Team, 0)
	for _, team := range r.items {
		if team.Season == season {
			out = append(out, cloneTeam(team))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, team roster.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Preserve the owner display name written by seeds when the caller
	// did not resolve it.
	if team.OwnerName == "" {
		if existing, ok := r.items[team.ID]; ok {
			team.OwnerName = existing.OwnerName
		}
	}

	r.items[team.ID] = cloneTeam(team)
	return nil
}

// SetOwnerName updates the read-side owner join. Test and seed helper.
func (r *TeamRepository) SetOwnerName(teamID, ownerName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if team, ok := r.items[teamID]; ok {
		team.OwnerName = ownerName
		r.items[teamID] = team
	}
}

func cloneTeam(t roster.Team) roster.Team {
	copied := t
	copied.Slots = append([]roster.Slot(nil), t.Slots...)
	return copied
}
