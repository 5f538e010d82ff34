package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/infrastructure/repository/memory"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

type seqIDGenerator struct {
	prefix string
	n      int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%03d", g.prefix, g.n), nil
}

type staticMinter struct{}

func (staticMinter) Mint(userID, _ string) (string, error) {
	return "token-for-" + userID, nil
}

func newExchangeFixture(t *testing.T) (*ExchangeService, *memory.CodeRepository, *memory.ProfileRepository) {
	t.Helper()

	profiles := memory.NewProfileRepository()
	codes := memory.NewCodeRepository(profiles)
	service := NewExchangeService(codes, profiles, staticMinter{}, &seqIDGenerator{prefix: "user"}, logging.NewNop())
	service.now = func() time.Time { return time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC) }

	return service, codes, profiles
}

func seedCode(t *testing.T, codes *memory.CodeRepository, code identity.AccessCode) {
	t.Helper()
	if err := codes.Create(t.Context(), code); err != nil {
		t.Fatalf("seed code: %v", err)
	}
}

func TestExchangeService_Exchange_CreatesProfileOnFirstRedemption(t *testing.T) {
	service, codes, profiles := newExchangeFixture(t)
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: true})

	result, err := service.Exchange(t.Context(), "  mb26-aaaaaa ")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if !result.IsNewUser {
		t.Fatal("expected first redemption to report a new user")
	}
	if result.Token != "token-for-"+result.UserID {
		t.Fatalf("unexpected token %s", result.Token)
	}
	if result.DisplayName != "Rookie" {
		t.Fatalf("expected default display name, got %s", result.DisplayName)
	}

	profile, found, err := profiles.GetByAccessCodeID(t.Context(), "code-1")
	if err != nil || !found {
		t.Fatalf("expected profile linked to code, found=%v err=%v", found, err)
	}
	if profile.ID != result.UserID {
		t.Fatalf("profile id mismatch: %s vs %s", profile.ID, result.UserID)
	}

	code, found, err := codes.GetActiveByCode(t.Context(), "MB26-AAAAAA")
	if err != nil || !found {
		t.Fatalf("expected code to remain active, found=%v err=%v", found, err)
	}
	if code.AssignedUserID != result.UserID {
		t.Fatalf("expected forward link %s, got %s", result.UserID, code.AssignedUserID)
	}
}

func TestExchangeService_Exchange_IsIdempotent(t *testing.T) {
	service, codes, _ := newExchangeFixture(t)
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: true})

	first, err := service.Exchange(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}
	second, err := service.Exchange(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("second exchange failed: %v", err)
	}

	if second.UserID != first.UserID {
		t.Fatalf("expected same user on re-exchange, got %s then %s", first.UserID, second.UserID)
	}
	if second.IsNewUser {
		t.Fatal("expected re-exchange to report an existing user")
	}
}

func TestExchangeService_Exchange_RejectsUnknownAndInactiveCodes(t *testing.T) {
	service, codes, _ := newExchangeFixture(t)
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: false})

	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "unknown code", code: "MB26-ZZZZZZ", want: ErrUnauthorized},
		{name: "inactive code", code: "MB26-AAAAAA", want: ErrUnauthorized},
		{name: "blank code", code: "   ", want: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Exchange(t.Context(), tt.code)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestExchangeService_Exchange_RepairsMissingForwardLink(t *testing.T) {
	service, codes, profiles := newExchangeFixture(t)
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: true})

	// Profile exists with the reverse link, but the forward link was never
	// written.
	if err := profiles.Create(t.Context(), identity.Profile{
		ID:           "user-existing",
		AccessCodeID: "code-1",
		DisplayName:  "Eddy",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	result, err := service.Exchange(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if result.UserID != "user-existing" {
		t.Fatalf("expected existing profile to be adopted, got %s", result.UserID)
	}
	if result.IsNewUser {
		t.Fatal("repair must not report a new user")
	}

	code, _, err := codes.GetActiveByCode(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("get code: %v", err)
	}
	if code.AssignedUserID != "user-existing" {
		t.Fatalf("expected forward link repaired to user-existing, got %s", code.AssignedUserID)
	}
}

func TestExchangeService_Exchange_RepairsDanglingForwardLink(t *testing.T) {
	service, codes, profiles := newExchangeFixture(t)
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: true, AssignedUserID: "user-gone"})

	result, err := service.Exchange(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if !result.IsNewUser {
		t.Fatal("expected a fresh profile when the assigned user row is gone")
	}

	profile, found, err := profiles.GetByAccessCodeID(t.Context(), "code-1")
	if err != nil || !found {
		t.Fatalf("expected replacement profile, found=%v err=%v", found, err)
	}
	if profile.ID == "user-gone" {
		t.Fatal("expected a new profile id")
	}
}

// racingProfileRepo makes a competitor win the creation race just before
// the service's own Create lands.
type racingProfileRepo struct {
	*memory.ProfileRepository
	competitor identity.Profile
	raced      bool
}

func (r *racingProfileRepo) Create(ctx context.Context, profile identity.Profile) error {
	if !r.raced {
		r.raced = true
		if err := r.ProfileRepository.Create(ctx, r.competitor); err != nil {
			return err
		}
	}
	return r.ProfileRepository.Create(ctx, profile)
}

func TestExchangeService_Exchange_LoserAdoptsWinningProfile(t *testing.T) {
	profiles := memory.NewProfileRepository()
	codes := memory.NewCodeRepository(profiles)
	racing := &racingProfileRepo{
		ProfileRepository: profiles,
		competitor: identity.Profile{
			ID:           "user-winner",
			AccessCodeID: "code-1",
			DisplayName:  "Rookie",
		},
	}

	service := NewExchangeService(codes, racing, staticMinter{}, &seqIDGenerator{prefix: "user"}, logging.NewNop())
	seedCode(t, codes, identity.AccessCode{ID: "code-1", Code: "MB26-AAAAAA", Active: true})

	result, err := service.Exchange(t.Context(), "MB26-AAAAAA")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}

	if result.UserID != "user-winner" {
		t.Fatalf("expected loser to adopt winner's profile, got %s", result.UserID)
	}
	if result.IsNewUser {
		t.Fatal("losing the race must not report a new user")
	}
}
