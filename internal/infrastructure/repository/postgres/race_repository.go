package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/race"
)

type RaceRepository struct {
	db *sqlx.DB
}

func NewRaceRepository(db *sqlx.DB) *RaceRepository {
	return &RaceRepository{db: db}
}

type raceRow struct {
	ID   string    `db:"id"`
	Name string    `db:"name"`
	Date time.Time `db:"race_date"`
}

func (row raceRow) toDomain() race.Race {
	return race.Race{ID: row.ID, Name: row.Name, Date: row.Date}
}

func (r *RaceRepository) GetByID(ctx context.Context, raceID string) (race.Race, bool, error) {
	var row raceRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, name, race_date FROM races WHERE id = $1`, raceID)
	if err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get race by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RaceRepository) ListBySeason(ctx context.Context, season int) ([]race.Race, error) {
	var rows []raceRow
	err := r.db.SelectContext(ctx, &rows, `
SELECT id, name, race_date
FROM races
WHERE EXTRACT(YEAR FROM race_date) = $1
ORDER BY race_date ASC`, season)
	if err != nil {
		return nil, fmt.Errorf("list races by season: %w", err)
	}

	out := make([]race.Race, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *RaceRepository) Latest(ctx context.Context, now time.Time) (race.Race, bool, error) {
	var row raceRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, name, race_date
FROM races
WHERE race_date <= $1
ORDER BY race_date DESC
LIMIT 1`, now)
	if err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get latest race: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RaceRepository) Next(ctx context.Context, now time.Time) (race.Race, bool, error) {
	var row raceRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, name, race_date
FROM races
WHERE race_date > $1
ORDER BY race_date ASC
LIMIT 1`, now)
	if err != nil {
		if isNotFound(err) {
			return race.Race{}, false, nil
		}
		return race.Race{}, false, fmt.Errorf("get next race: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *RaceRepository) ListResults(ctx context.Context, raceID string) ([]race.Result, error) {
	var rows []struct {
		RaceID        string `db:"race_id"`
		RiderID       string `db:"rider_id"`
		Rank          int    `db:"rank"`
		PointsAwarded int64  `db:"points_awarded"`
	}
	err := r.db.SelectContext(ctx, &rows, `
SELECT race_id, rider_id, rank, points_awarded
FROM race_results
WHERE race_id = $1
ORDER BY rank ASC`, raceID)
	if err != nil {
		return nil, fmt.Errorf("list race results: %w", err)
	}

	out := make([]race.Result, 0, len(rows))
	for _, row := range rows {
		out = append(out, race.Result{
			RaceID:        row.RaceID,
			RiderID:       row.RiderID,
			Rank:          row.Rank,
			PointsAwarded: row.PointsAwarded,
		})
	}

	return out, nil
}

func (r *RaceRepository) ListResultDetails(ctx context.Context, raceID string, limit int) ([]race.ResultDetail, error) {
	query := `
SELECT rr.rank, rr.points_awarded,
       COALESCE(r.name, '') AS rider_name,
       COALESCE(r.sponsor, '') AS sponsor
FROM race_results rr
LEFT JOIN riders r ON r.id = rr.rider_id
WHERE rr.race_id = $1
ORDER BY rr.rank ASC`

	args := []any{raceID}
	if limit > 0 {
		query += `
LIMIT $2`
		args = append(args, limit)
	}

	var rows []struct {
		Rank          int    `db:"rank"`
		PointsAwarded int64  `db:"points_awarded"`
		RiderName     string `db:"rider_name"`
		Sponsor       string `db:"sponsor"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list race result details: %w", err)
	}

	out := make([]race.ResultDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, race.ResultDetail{
			Rank:          row.Rank,
			PointsAwarded: row.PointsAwarded,
			RiderName:     row.RiderName,
			Sponsor:       row.Sponsor,
		})
	}

	return out, nil
}
