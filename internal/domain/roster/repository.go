package roster

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByUserAndSeason(ctx context.Context, userID string, season int) (Team, bool, error)
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Team, error)
	Upsert(ctx context.Context, team Team) error
}
