package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/rider"
)

type RiderRepository struct {
	db *sqlx.DB
}

func NewRiderRepository(db *sqlx.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

type riderRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Sponsor     string `db:"sponsor"`
	Nationality string `db:"nationality"`
	Active      bool   `db:"active"`
	Price       int64  `db:"price"`
	Points      int64  `db:"points"`
}

func (row riderRow) toDomain() rider.Rider {
	return rider.Rider{
		ID:          row.ID,
		Name:        row.Name,
		Sponsor:     row.Sponsor,
		Nationality: row.Nationality,
		Active:      row.Active,
		Price:       row.Price,
		Points:      row.Points,
	}
}

const riderSelectColumns = `
r.id,
r.name,
r.sponsor,
r.nationality,
r.active,
COALESCE(pr.price, 0) AS price,
COALESCE(pt.points, 0) AS points`

func (r *RiderRepository) GetByIDs(ctx context.Context, season int, ids []string) ([]rider.Rider, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
SELECT ` + riderSelectColumns + `
FROM riders r
LEFT JOIN rider_prices pr ON pr.rider_id = r.id AND pr.season = ?
LEFT JOIN rider_points pt ON pt.rider_id = r.id AND pt.season = ?
WHERE r.id IN (?)`

	query, args, err := sqlx.In(query, season, season, ids)
	if err != nil {
		return nil, fmt.Errorf("bind riders by ids query: %w", err)
	}
	query = r.db.Rebind(query)

	var rows []riderRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get riders by ids: %w", err)
	}

	out := make([]rider.Rider, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RiderRepository) Search(ctx context.Context, season int, query string, limit int) ([]rider.Rider, error) {
	const searchQuery = `
SELECT ` + riderSelectColumns + `
FROM riders r
LEFT JOIN rider_prices pr ON pr.rider_id = r.id AND pr.season = $1
LEFT JOIN rider_points pt ON pt.rider_id = r.id AND pt.season = $1
WHERE r.active
  AND ($2 = '' OR r.name ILIKE '%' || $2 || '%' OR r.sponsor ILIKE '%' || $2 || '%')
ORDER BY COALESCE(pr.price, 0) DESC, r.name ASC
LIMIT $3`

	var rows []riderRow
	if err := r.db.SelectContext(ctx, &rows, searchQuery, season, query, limit); err != nil {
		return nil, fmt.Errorf("search riders: %w", err)
	}

	out := make([]rider.Rider, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
