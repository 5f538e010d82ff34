package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
)

// ProfileRepository enforces the same unique index the SQL schema does:
// one profile per access code.
type ProfileRepository struct {
	mu    sync.RWMutex
	items map[string]identity.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{items: make(map[string]identity.Profile)}
}

func (r *ProfileRepository) GetByID(_ context.Context, userID string) (identity.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.items[userID]
	return profile, ok, nil
}

func (r *ProfileRepository) GetByAccessCodeID(_ context.Context, codeID string) (identity.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, profile := range r.items {
		if profile.AccessCodeID == codeID {
			return profile, true, nil
		}
	}

	return identity.Profile{}, false, nil
}

func (r *ProfileRepository) Create(_ context.Context, profile identity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[profile.ID]; ok {
		return fmt.Errorf("profile id %s already exists", profile.ID)
	}
	for _, existing := range r.items {
		if existing.AccessCodeID == profile.AccessCodeID {
			return identity.ErrCodeAlreadyLinked
		}
	}

	r.items[profile.ID] = profile
	return nil
}

func (r *ProfileRepository) Rename(_ context.Context, userID, displayName string) (identity.Profile, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	profile, ok := r.items[userID]
	if !ok {
		return identity.Profile{}, false, nil
	}

	profile.DisplayName = displayName
	r.items[userID] = profile
	return profile, true, nil
}

// Delete removes a profile. Test helper for dangling-link scenarios.
func (r *ProfileRepository) Delete(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, userID)
}

// CodeRepository holds access codes and joins profiles for the admin
// listing through the profile store it was built with.
type CodeRepository struct {
	mu       sync.RWMutex
	items    map[string]identity.AccessCode
	profiles *ProfileRepository
}

func NewCodeRepository(profiles *ProfileRepository) *CodeRepository {
	return &CodeRepository{
		items:    make(map[string]identity.AccessCode),
		profiles: profiles,
	}
}

func (r *CodeRepository) GetActiveByCode(_ context.Context, code string) (identity.AccessCode, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, row := range r.items {
		if row.Code == code && row.Active {
			return row, true, nil
		}
	}

	return identity.AccessCode{}, false, nil
}

func (r *CodeRepository) ListWithProfiles(ctx context.Context) ([]identity.CodeWithProfile, error) {
	r.mu.RLock()
	codes := make([]identity.AccessCode, 0, len(r.items))
	for _, row := range r.items {
		codes = append(codes, row)
	}
	r.mu.RUnlock()

	out := make([]identity.CodeWithProfile, 0, len(codes))
	for _, row := range codes {
		item := identity.CodeWithProfile{AccessCode: row}
		if profile, ok, err := r.profiles.GetByAccessCodeID(ctx, row.ID); err == nil && ok {
			linked := profile
			item.Profile = &linked
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Code < out[j].Code
	})

	return out, nil
}

func (r *CodeRepository) Create(_ context.Context, code identity.AccessCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[code.ID]; ok {
		return fmt.Errorf("access code id %s already exists", code.ID)
	}
	for _, row := range r.items {
		if strings.EqualFold(row.Code, code.Code) {
			return fmt.Errorf("access code %s already exists", code.Code)
		}
	}

	r.items[code.ID] = code
	return nil
}

func (r *CodeRepository) AssignUser(_ context.Context, codeID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, ok := r.items[codeID]
	if !ok {
		return fmt.Errorf("access code id %s not found", codeID)
	}

	code.AssignedUserID = userID
	r.items[codeID] = code
	return nil
}
