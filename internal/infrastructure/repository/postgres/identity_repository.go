package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/CharlesvanZeebroeckDevine/megabike/internal/domain/identity"
)

// usersAccessCodeKey is the unique index behind the one-profile-per-code
// guarantee.
const usersAccessCodeKey = "users_access_code_id_key"

type CodeRepository struct {
	db *sqlx.DB
}

func NewCodeRepository(db *sqlx.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

type accessCodeRow struct {
	ID             string         `db:"id"`
	Code           string         `db:"code"`
	Active         bool           `db:"active"`
	AssignedUserID sql.NullString `db:"assigned_user_id"`
	CreatedAt      time.Time      `db:"created_at"`
}

func (row accessCodeRow) toDomain() identity.AccessCode {
	return identity.AccessCode{
		ID:             row.ID,
		Code:           row.Code,
		Active:         row.Active,
		AssignedUserID: row.AssignedUserID.String,
		CreatedAt:      row.CreatedAt,
	}
}

func (r *CodeRepository) GetActiveByCode(ctx context.Context, code string) (identity.AccessCode, bool, error) {
	var row accessCodeRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, code, active, assigned_user_id, created_at
FROM access_codes
WHERE code = $1 AND active`, code)
	if err != nil {
		if isNotFound(err) {
			return identity.AccessCode{}, false, nil
		}
		return identity.AccessCode{}, false, fmt.Errorf("get access code: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *CodeRepository) ListWithProfiles(ctx context.Context) ([]identity.CodeWithProfile, error) {
	var rows []struct {
		accessCodeRow
		ProfileID       sql.NullString `db:"profile_id"`
		DisplayName     sql.NullString `db:"display_name"`
		ProfileImageURL sql.NullString `db:"profile_image_url"`
		ProfileCreated  sql.NullTime   `db:"profile_created_at"`
	}
	err := r.db.SelectContext(ctx, &rows, `
SELECT c.id, c.code, c.active, c.assigned_user_id, c.created_at,
       u.id AS profile_id,
       u.display_name,
       u.profile_image_url,
       u.created_at AS profile_created_at
FROM access_codes c
LEFT JOIN users u ON u.access_code_id = c.id
ORDER BY c.created_at DESC, c.code ASC`)
	if err != nil {
		return nil, fmt.Errorf("list access codes: %w", err)
	}

	out := make([]identity.CodeWithProfile, 0, len(rows))
	for _, row := range rows {
		item := identity.CodeWithProfile{AccessCode: row.toDomain()}
		if row.ProfileID.Valid {
			item.Profile = &identity.Profile{
				ID:              row.ProfileID.String,
				AccessCodeID:    row.ID,
				DisplayName:     row.DisplayName.String,
				ProfileImageURL: row.ProfileImageURL.String,
				CreatedAt:       row.ProfileCreated.Time,
			}
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *CodeRepository) Create(ctx context.Context, code identity.AccessCode) error {
	const insertQuery = `
INSERT INTO access_codes (id, code, active, created_at)
VALUES (:id, :code, :active, :created_at)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"id":         code.ID,
		"code":       code.Code,
		"active":     code.Active,
		"created_at": code.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert access code query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		return fmt.Errorf("insert access code: %w", err)
	}

	return nil
}

func (r *CodeRepository) AssignUser(ctx context.Context, codeID, userID string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE access_codes SET assigned_user_id = $2 WHERE id = $1`, codeID, userID)
	if err != nil {
		return fmt.Errorf("assign access code: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("assign access code: code %s not found", codeID)
	}

	return nil
}

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

type profileRow struct {
	ID              string         `db:"id"`
	AccessCodeID    string         `db:"access_code_id"`
	DisplayName     string         `db:"display_name"`
	ProfileImageURL sql.NullString `db:"profile_image_url"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (row profileRow) toDomain() identity.Profile {
	return identity.Profile{
		ID:              row.ID,
		AccessCodeID:    row.AccessCodeID,
		DisplayName:     row.DisplayName,
		ProfileImageURL: row.ProfileImageURL.String,
		CreatedAt:       row.CreatedAt,
	}
}

func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (identity.Profile, bool, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, access_code_id, display_name, profile_image_url, created_at
FROM users
WHERE id = $1`, userID)
	if err != nil {
		if isNotFound(err) {
			return identity.Profile{}, false, nil
		}
		return identity.Profile{}, false, fmt.Errorf("get profile by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ProfileRepository) GetByAccessCodeID(ctx context.Context, codeID string) (identity.Profile, bool, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `
SELECT id, access_code_id, display_name, profile_image_url, created_at
FROM users
WHERE access_code_id = $1`, codeID)
	if err != nil {
		if isNotFound(err) {
			return identity.Profile{}, false, nil
		}
		return identity.Profile{}, false, fmt.Errorf("get profile by access code: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ProfileRepository) Create(ctx context.Context, profile identity.Profile) error {
	const insertQuery = `
INSERT INTO users (id, access_code_id, display_name, profile_image_url, created_at)
VALUES (:id, :access_code_id, :display_name, :profile_image_url, :created_at)`

	insertSQL, args, err := sqlx.Named(insertQuery, map[string]any{
		"id":                profile.ID,
		"access_code_id":    profile.AccessCodeID,
		"display_name":      profile.DisplayName,
		"profile_image_url": nullString(profile.ProfileImageURL),
		"created_at":        profile.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind insert profile query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	if _, err := r.db.ExecContext(ctx, insertSQL, args...); err != nil {
		if isUniqueViolation(err, usersAccessCodeKey) {
			return identity.ErrCodeAlreadyLinked
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

func (r *ProfileRepository) Rename(ctx context.Context, userID, displayName string) (identity.Profile, bool, error) {
	var row profileRow
	err := r.db.GetContext(ctx, &row, `
UPDATE users
SET display_name = $2
WHERE id = $1
RETURNING id, access_code_id, display_name, profile_image_url, created_at`, userID, displayName)
	if err != nil {
		if isNotFound(err) {
			return identity.Profile{}, false, nil
		}
		return identity.Profile{}, false, fmt.Errorf("rename profile: %w", err)
	}

	return row.toDomain(), true, nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
