package identity

import "context"

// CodeRepository describes access-code persistence needs from use cases.
type CodeRepository interface {
	GetActiveByCode(ctx context.Context, code string) (AccessCode, bool, error)
	ListWithProfiles(ctx context.Context) ([]CodeWithProfile, error)
	Create(ctx context.Context, code AccessCode) error
	AssignUser(ctx context.Context, codeID, userID string) error
}

// ProfileRepository describes profile persistence needs from use cases.
type ProfileRepository interface {
	GetByID(ctx context.Context, userID string) (Profile, bool, error)
	// GetByAccessCodeID is the reverse-link lookup used to repair a code whose
	// assigned_user_id went missing after a partial failure.
	GetByAccessCodeID(ctx context.Context, codeID string) (Profile, bool, error)
	// Create returns ErrCodeAlreadyLinked when another profile already owns
	// the same access code.
	Create(ctx context.Context, profile Profile) error
	Rename(ctx context.Context, userID, displayName string) (Profile, bool, error)
}
