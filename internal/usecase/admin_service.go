package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
	idgen "github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/id"
	"github.com/CharlesvanZeebroeckDevine/megabike/internal/platform/logging"
)

const (
	maxGenerateCount  = 500
	generateWorkers   = 8
	placeholderPrefix = "Rookie-"
	minDisplayNameLen = 2
	maxDisplayNameLen = 40
)

// GeneratedCode is one freshly minted access code with its placeholder
// profile.
type GeneratedCode struct {
	Code        string
	UserID      string
	DisplayName string
}

type AdminService struct {
	codeRepo     identity.CodeRepository
	profileRepo  identity.ProfileRepository
	idGen        idgen.Generator
	codePrefix   string
	suffixLength int
	logger       *logging.Logger
	now          func() time.Time
}

func NewAdminService(
	codeRepo identity.CodeRepository,
	profileRepo identity.ProfileRepository,
	idGen idgen.Generator,
	codePrefix string,
	suffixLength int,
	logger *logging.Logger,
) *AdminService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AdminService{
		codeRepo:     codeRepo,
		profileRepo:  profileRepo,
		idGen:        idGen,
		codePrefix:   codePrefix,
		suffixLength: suffixLength,
		logger:       logger,
		now:          time.Now,
	}
}

// ListCodes returns every access code with its linked profile, newest first
// per the repository ordering.
func (s *AdminService) ListCodes(ctx context.Context) ([]identity.CodeWithProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "AdminService.ListCodes")
	defer span.End()

	codes, err := s.codeRepo.ListWithProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list access codes: %w", err)
	}

	return codes, nil
}

// GenerateCodes mints count access codes, each pre-linked to a placeholder
// profile named after the code suffix. An empty prefix falls back to the
// configured one. Codes are generated concurrently; a single failed code
// fails the whole batch.
func (s *AdminService) GenerateCodes(ctx context.Context, count int, prefix string) ([]GeneratedCode, error) {
	ctx, span := startUsecaseSpan(ctx, "AdminService.GenerateCodes")
	defer span.End()

	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be greater than zero", ErrInvalidInput)
	}
	if count > maxGenerateCount {
		return nil, fmt.Errorf("%w: count must be at most %d", ErrInvalidInput, maxGenerateCount)
	}

	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = s.codePrefix
	}

	workerCount := generateWorkers
	if count < workerCount {
		workerCount = count
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu        sync.Mutex
		generated = make([]GeneratedCode, 0, count)
		firstErr  error
	)

	var workers sync.WaitGroup
	for i := 0; i < count; i++ {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			item, genErr := s.generateOne(ctx, prefix)

			mu.Lock()
			defer mu.Unlock()
			if genErr != nil {
				if firstErr == nil {
					firstErr = genErr
				}
				return
			}
			generated = append(generated, item)
		}); err != nil {
			workers.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit code generation: %w", err)
			}
			mu.Unlock()
		}
	}
	workers.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	s.logger.InfoContext(ctx, "access codes generated", "count", len(generated))

	return generated, nil
}

func (s *AdminService) generateOne(ctx context.Context, prefix string) (GeneratedCode, error) {
	code, err := idgen.NewAccessCode(prefix, s.suffixLength)
	if err != nil {
		return GeneratedCode{}, fmt.Errorf("generate access code: %w", err)
	}

	codeID, err := s.idGen.NewID()
	if err != nil {
		return GeneratedCode{}, fmt.Errorf("generate code id: %w", err)
	}
	userID, err := s.idGen.NewID()
	if err != nil {
		return GeneratedCode{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now().UTC()
	if err := s.codeRepo.Create(ctx, identity.AccessCode{
		ID:        codeID,
		Code:      code,
		Active:    true,
		CreatedAt: now,
	}); err != nil {
		return GeneratedCode{}, fmt.Errorf("create access code: %w", err)
	}

	displayName := placeholderPrefix + strings.TrimPrefix(code, prefix)
	if err := s.profileRepo.Create(ctx, identity.Profile{
		ID:           userID,
		AccessCodeID: codeID,
		DisplayName:  displayName,
		CreatedAt:    now,
	}); err != nil {
		return GeneratedCode{}, fmt.Errorf("create placeholder profile: %w", err)
	}

	if err := s.codeRepo.AssignUser(ctx, codeID, userID); err != nil {
		return GeneratedCode{}, fmt.Errorf("assign access code: %w", err)
	}

	return GeneratedCode{Code: code, UserID: userID, DisplayName: displayName}, nil
}

// RenameProfile updates a profile's display name.
func (s *AdminService) RenameProfile(ctx context.Context, userID, displayName string) (identity.Profile, error) {
	ctx, span := startUsecaseSpan(ctx, "AdminService.RenameProfile")
	defer span.End()

	userID = strings.TrimSpace(userID)
	displayName = strings.TrimSpace(displayName)

	if userID == "" {
		return identity.Profile{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if len(displayName) < minDisplayNameLen {
		return identity.Profile{}, fmt.Errorf("%w: display name must be at least %d characters", ErrInvalidInput, minDisplayNameLen)
	}
	if len(displayName) > maxDisplayNameLen {
		return identity.Profile{}, fmt.Errorf("%w: display name must be at most %d characters", ErrInvalidInput, maxDisplayNameLen)
	}

	profile, found, err := s.profileRepo.Rename(ctx, userID, displayName)
	if err != nil {
		return identity.Profile{}, fmt.Errorf("rename profile: %w", err)
	}
	if !found {
		return identity.Profile{}, fmt.Errorf("%w: profile %s not found", ErrNotFound, userID)
	}

	s.logger.InfoContext(ctx, "profile renamed", "user_id", userID)

	return profile, nil
}
