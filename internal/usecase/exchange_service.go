package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
	idgen "github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/id"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

const defaultDisplayName = "Rookie"

// TokenMinter issues a signed bearer token for a resolved profile.
type TokenMinter interface {
	Mint(userID, displayName string) (string, error)
}

// ExchangeResult is the outcome of a successful code redemption.
type ExchangeResult struct {
	Token           string
	UserID          string
	DisplayName     string
	ProfileImageURL string
	IsNewUser       bool
}

// ExchangeService turns a valid access code into a bearer token, creating
// the backing profile on first redemption.
type ExchangeService struct {
	codeRepo    identity.CodeRepository
	profileRepo identity.ProfileRepository
	minter      TokenMinter
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewExchangeService(
	codeRepo identity.CodeRepository,
	profileRepo identity.ProfileRepository,
	minter TokenMinter,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ExchangeService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ExchangeService{
		codeRepo:    codeRepo,
		profileRepo: profileRepo,
		minter:      minter,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

// Exchange resolves the profile behind an access code and mints a token for
// it. Redemption is idempotent: the same code always lands on the same
// profile, whichever of the forward link (assigned_user_id) or the reverse
// link (profile.access_code_id) survived earlier partial failures.
func (s *ExchangeService) Exchange(ctx context.Context, rawCode string) (ExchangeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ExchangeService.Exchange")
	defer span.End()

	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return ExchangeResult{}, fmt.Errorf("%w: access code is required", ErrInvalidInput)
	}

	accessCode, exists, err := s.codeRepo.GetActiveByCode(ctx, code)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("get access code: %w", err)
	}
	if !exists {
		return ExchangeResult{}, fmt.Errorf("%w: unknown or inactive access code", ErrUnauthorized)
	}

	profile, isNew, err := s.resolveProfile(ctx, accessCode)
	if err != nil {
		return ExchangeResult{}, err
	}

	token, err := s.minter.Mint(profile.ID, profile.DisplayName)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("mint token: %w", err)
	}

	s.logger.InfoContext(ctx, "access code exchanged",
		"access_code_id", accessCode.ID,
		"user_id", profile.ID,
		"is_new_user", isNew,
	)

	return ExchangeResult{
		Token:           token,
		UserID:          profile.ID,
		DisplayName:     profile.DisplayName,
		ProfileImageURL: profile.ProfileImageURL,
		IsNewUser:       isNew,
	}, nil
}

// Profile returns the profile behind an authenticated principal. A valid
// token whose profile has since been removed reads as unauthorized.
func (s *ExchangeService) Profile(ctx context.Context, userID string) (identity.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "ExchangeService.Profile")
	defer span.End()

	profile, exists, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	if !exists {
		return identity.Profile{}, fmt.Errorf("%w: profile %s no longer exists", ErrUnauthorized, userID)
	}

	return profile, nil
}

// resolveProfile finds or creates the profile for a code. Lookup order:
// forward link, then reverse link, then creation. A dangling forward link
// (assigned user no longer exists) is repaired rather than treated as fatal.
func (s *ExchangeService) resolveProfile(ctx context.Context, accessCode identity.AccessCode) (identity.Profile, bool, error) {
	if accessCode.AssignedUserID != "" {
		profile, found, err := s.profileRepo.GetByID(ctx, accessCode.AssignedUserID)
		if err != nil {
			return identity.Profile{}, false, fmt.Errorf("get assigned profile: %w", err)
		}
		if found {
			return profile, false, nil
		}

		s.logger.WarnContext(ctx, "access code points at missing profile, repairing",
			"access_code_id", accessCode.ID,
			"assigned_user_id", accessCode.AssignedUserID,
		)
	}

	// Reverse link: a profile may already own this code even though the
	// forward link was never written.
	profile, found, err := s.profileRepo.GetByAccessCodeID(ctx, accessCode.ID)
	if err != nil {
		return identity.Profile{}, false, fmt.Errorf("get profile by access code: %w", err)
	}
	if found {
		if err := s.codeRepo.AssignUser(ctx, accessCode.ID, profile.ID); err != nil {
			return identity.Profile{}, false, fmt.Errorf("relink access code: %w", err)
		}
		return profile, false, nil
	}

	return s.createProfile(ctx, accessCode)
}

func (s *ExchangeService) createProfile(ctx context.Context, accessCode identity.AccessCode) (identity.Profile, bool, error) {
	userID, err := s.idGen.NewID()
	if err != nil {
		return identity.Profile{}, false, fmt.Errorf("generate user id: %w", err)
	}

	profile := identity.Profile{
		ID:           userID,
		AccessCodeID: accessCode.ID,
		DisplayName:  defaultDisplayName,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		if errors.Is(err, identity.ErrCodeAlreadyLinked) {
			// Lost the creation race: adopt the winner's profile.
			winner, found, rerr := s.profileRepo.GetByAccessCodeID(ctx, accessCode.ID)
			if rerr != nil {
				return identity.Profile{}, false, fmt.Errorf("get winning profile: %w", rerr)
			}
			if !found {
				return identity.Profile{}, false, fmt.Errorf("create profile: %w", err)
			}
			return winner, false, nil
		}
		return identity.Profile{}, false, fmt.Errorf("create profile: %w", err)
	}

	if err := s.codeRepo.AssignUser(ctx, accessCode.ID, userID); err != nil {
		return identity.Profile{}, false, fmt.Errorf("assign access code: %w", err)
	}

	return profile, true, nil
}
