package race

import (
	"context"
	"time"
)

// Repository describes race and race-result reads needed by use cases.
type Repository interface {
	GetByID(ctx context.Context, raceID string) (Race, bool, error)
	ListBySeason(ctx context.Context, season int) ([]Race, error)
	Latest(ctx context.Context, now time.Time) (Race, bool, error)
	Next(ctx context.Context, now time.Time) (Race, bool, error)
	ListResults(ctx context.Context, raceID string) ([]Result, error)
	ListResultDetails(ctx context.Context, raceID string, limit int) ([]ResultDetail, error)
}
