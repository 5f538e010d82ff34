package rider

import "context"

// Repository describes rider catalog reads needed by use cases.
type Repository interface {
	GetByIDs(ctx context.Context, season int, ids []string) ([]Rider, error)
	Search(ctx context.Context, season int, query string, limit int) ([]Rider, error)
}
