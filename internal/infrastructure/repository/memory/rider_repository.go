package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
)

type RiderRepository struct {
	mu      sync.RWMutex
	seasons map[int]map[string]rider.Rider
}

func NewRiderRepository() *RiderRepository {
	return &RiderRepository{seasons: make(map[int]map[string]rider.Rider)}
}

// Upsert stores a rider row for a season. Test and seed helper.
func (r *RiderRepository) Upsert(season int, row rider.Rider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	riders, ok := r.seasons[season]
	if !ok {
		riders = make(map[string]rider.Rider)
		r.seasons[season] = riders
	}
	riders[row.ID] = row
}

func (r *RiderRepository) GetByIDs(_ context.Context, season int, ids []string) ([]rider.Rider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	riders := r.seasons[season]
	out := make([]rider.Rider, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if row, ok := riders[id]; ok {
			out = append(out, row)
		}
	}

	return out, nil
}

func (r *RiderRepository) Search(_ context.Context, season int, query string, limit int) ([]rider.Rider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	out := make([]rider.Rider, 0)
	for _, row := range r.seasons[season] {
		if !row.Active {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(row.Name), needle) &&
			!strings.Contains(strings.ToLower(row.Sponsor), needle) {
			continue
		}
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price > out[j].Price
		}
		return out[i].Name < out[j].Name
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}
