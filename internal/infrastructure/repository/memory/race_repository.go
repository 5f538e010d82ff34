package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
)

type RaceRepository struct {
	mu      sync.RWMutex
	races   map[string]race.Race
	results map[string][]race.Result
	details map[string][]race.ResultDetail
}

func NewRaceRepository() *RaceRepository {
	return &RaceRepository{
		races:   make(map[string]race.Race),
		results: make(map[string][]race.Result),
		details: make(map[string][]race.ResultDetail),
	}
}

// AddRace stores a race. Test and seed helper.
func (r *RaceRepository) AddRace(row race.Race) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.races[row.ID] = row
}

// AddResult stores one rider's result, with the display fields the joined
// detail view would carry.
func (r *RaceRepository) AddResult(result race.Result, riderName, sponsor string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[result.RaceID] = append(r.results[result.RaceID], result)
	r.details[result.RaceID] = append(r.details[result.RaceID], race.ResultDetail{
		Rank:          result.Rank,
		PointsAwarded: result.PointsAwarded,
		RiderName:     riderName,
		Sponsor:       sponsor,
	})
}

func (r *RaceRepository) GetByID(_ context.Context, raceID string) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.races[raceID]
	return row, ok, nil
}

func (r *RaceRepository) ListBySeason(_ context.Context, season int) ([]race.Race, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]race.Race, 0)
	for _, row := range r.races {
		if row.Date.Year() == season {
			out = append(out, row)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *RaceRepository) Latest(_ context.Context, now time.Time) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest race.Race
	var found bool
	for _, row := range r.races {
		if !row.Past(now) {
			continue
		}
		if !found || row.Date.After(latest.Date) {
			latest = row
			found = true
		}
	}

	return latest, found, nil
}

func (r *RaceRepository) Next(_ context.Context, now time.Time) (race.Race, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var next race.Race
	var found bool
	for _, row := range r.races {
		if row.Past(now) {
			continue
		}
		if !found || row.Date.Before(next.Date) {
			next = row
			found = true
		}
	}

	return next, found, nil
}

func (r *RaceRepository) ListResults(_ context.Context, raceID string) ([]race.Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]race.Result(nil), r.results[raceID]...), nil
}

func (r *RaceRepository) ListResultDetails(_ context.Context, raceID string, limit int) ([]race.ResultDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]race.ResultDetail(nil), r.details[raceID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
