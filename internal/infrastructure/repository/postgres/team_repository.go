package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/roster"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

type teamRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Season    int       `db:"season"`
	Name      string    `db:"name"`
	OwnerName string    `db:"owner_name"`
	TotalCost int64     `db:"total_cost"`
	Points    int64     `db:"points"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type slotRow struct {
	TeamID  string `db:"team_id"`
	Slot    int    `db:"slot"`
	RiderID string `db:"rider_id"`
}

const teamSelectQuery = `
SELECT t.id, t.user_id, t.season, t.name,
       COALESCE(u.display_name, '') AS owner_name,
       t.total_cost, t.points, t.created_at, t.updated_at
FROM teams t
LEFT JOIN users u ON u.id = t.user_id`

func (r *TeamRepository) GetByUserAndSeason(ctx context.Context, userID string, season int) (roster.Team, bool, error) {
	var row teamRow
	err := r.db.GetContext(ctx, &row, teamSelectQuery+`
WHERE t.user_id = $1 AND t.season = $2`, userID, season)
	if err != nil {
		if isNotFound(err) {
			return roster.Team{}, false, nil
		}
		return roster.Team{}, false, fmt.Errorf("get team by user and season: %w", err)
	}

	return r.hydrateOne(ctx, row)
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (roster.Team, bool, error) {
	var row teamRow
	err := r.db.GetContext(ctx, &row, teamSelectQuery+`
WHERE t.id = $1`, teamID)
	if err != nil {
		if isNotFound(err) {
			return roster.Team{}, false, nil
		}
		return roster.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return r.hydrateOne(ctx, row)
}

func (r *TeamRepository) ListBySeason(ctx context.Context, season int) ([]roster.Team, error) {
	var rows []teamRow
	err := r.db.SelectContext(ctx, &rows, teamSelectQuery+`
WHERE t.season = $1
ORDER BY t.id`, season)
	if err != nil {
		return nil, fmt.Errorf("list teams by season: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	teamIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.ID)
	}

	slotsQuery, args, err := sqlx.In(`
SELECT team_id, slot, rider_id
FROM team_riders
WHERE team_id IN (?)
ORDER BY team_id, slot`, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("bind team slots query: %w", err)
	}
	slotsQuery = r.db.Rebind(slotsQuery)

	var slotRows []slotRow
	if err := r.db.SelectContext(ctx, &slotRows, slotsQuery, args...); err != nil {
		return nil, fmt.Errorf("list team slots: %w", err)
	}

	slotsByTeam := make(map[string][]roster.Slot, len(rows))
	for _, s := range slotRows {
		slotsByTeam[s.TeamID] = append(slotsByTeam[s.TeamID], roster.Slot{Slot: s.Slot, RiderID: s.RiderID})
	}

	out := make([]roster.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTeam(row, slotsByTeam[row.ID]))
	}

	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, team roster.Team) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for team upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const upsertTeamQuery = `
INSERT INTO teams (id, user_id, season, name, total_cost, points, created_at, updated_at)
VALUES (:id, :user_id, :season, :name, :total_cost, :points, :created_at, :updated_at)
ON CONFLICT (user_id, season)
DO UPDATE SET
    name = EXCLUDED.name,
    total_cost = EXCLUDED.total_cost,
    updated_at = EXCLUDED.updated_at`

	upsertSQL, upsertArgs, err := sqlx.Named(upsertTeamQuery, map[string]any{
		"id":         team.ID,
		"user_id":    team.UserID,
		"season":     team.Season,
		"name":       team.Name,
		"total_cost": team.TotalCost,
		"points":     team.Points,
		"created_at": team.CreatedAt,
		"updated_at": team.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert team query: %w", err)
	}
	upsertSQL = tx.Rebind(upsertSQL)
	if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}

	// Conflict on (user_id, season) keeps the original team id, so resolve
	// it before rewriting slots.
	var teamID string
	if err := tx.GetContext(ctx, &teamID, `
SELECT id FROM teams WHERE user_id = $1 AND season = $2`, team.UserID, team.Season); err != nil {
		return fmt.Errorf("resolve upserted team id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM team_riders WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("clear team slots: %w", err)
	}

	const insertSlotQuery = `
INSERT INTO team_riders (team_id, slot, rider_id)
VALUES (:team_id, :slot, :rider_id)`
	for _, slot := range team.Slots {
		slotSQL, slotArgs, err := sqlx.Named(insertSlotQuery, map[string]any{
			"team_id":  teamID,
			"slot":     slot.Slot,
			"rider_id": slot.RiderID,
		})
		if err != nil {
			return fmt.Errorf("bind insert team slot query: %w", err)
		}
		slotSQL = tx.Rebind(slotSQL)
		if _, err := tx.ExecContext(ctx, slotSQL, slotArgs...); err != nil {
			return fmt.Errorf("insert team slot %d: %w", slot.Slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit team upsert: %w", err)
	}

	return nil
}

func (r *TeamRepository) hydrateOne(ctx context.Context, row teamRow) (roster.Team, bool, error) {
	var slotRows []slotRow
	if err := r.db.SelectContext(ctx, &slotRows, `
SELECT team_id, slot, rider_id
FROM team_riders
WHERE team_id = $1
ORDER BY slot`, row.ID); err != nil {
		return roster.Team{}, false, fmt.Errorf("list team slots: %w", err)
	}

	slots := make([]roster.Slot, 0, len(slotRows))
	for _, s := range slotRows {
		slots = append(slots, roster.Slot{Slot: s.Slot, RiderID: s.RiderID})
	}

	return toDomainTeam(row, slots), true, nil
}

func toDomainTeam(row teamRow, slots []roster.Slot) roster.Team {
	return roster.Team{
		ID:        row.ID,
		UserID:    row.UserID,
		Season:    row.Season,
		Name:      row.Name,
		OwnerName: row.OwnerName,
		Slots:     slots,
		TotalCost: row.TotalCost,
		Points:    row.Points,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
