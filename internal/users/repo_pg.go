package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"sensai-backend/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, external_id, email, full_name, picture_url, industry, experience, skills, bio, created_at, updated_at`

func (r *PGRepo) Provision(ctx context.Context, identity Identity) (User, error) {
	const query = `
INSERT INTO users (id, external_id, email, full_name, picture_url, skills, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, '[]'::jsonb, now(), now())
ON CONFLICT (external_id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query,
		uuid.NewString(),
		identity.ExternalID,
		identity.Email,
		nullableString(identity.FullName),
		nullableString(identity.PictureURL),
	)
	user, err := scanUser(row)
	if err != nil {
		return User{}, apperr.Persistence("provision user", err)
	}
	return user, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.getOne(ctx, query, userID)
}

func (r *PGRepo) GetByExternalID(ctx context.Context, externalID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE external_id = $1 LIMIT 1`
	return r.getOne(ctx, query, externalID)
}

func (r *PGRepo) UpdateProfile(ctx context.Context, userID string, profile Profile) (User, error) {
	const query = `
UPDATE users SET industry = $2, experience = $3, skills = $4, bio = $5, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	skills, err := json.Marshal(nonNilSkills(profile.Skills))
	if err != nil {
		return User{}, err
	}
	row := r.DB.QueryRowContext(ctx, query, userID, profile.Industry, profile.Experience, string(skills), nullableString(profile.Bio))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, apperr.Persistence("update profile", err)
	}
	return user, nil
}

func (r *PGRepo) getOne(ctx context.Context, query string, arg string) (User, error) {
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, apperr.Persistence("load user", err)
	}
	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var (
		user       User
		fullName   sql.NullString
		pictureURL sql.NullString
		industry   sql.NullString
		experience sql.NullInt64
		skills     []byte
		bio        sql.NullString
	)
	err := row.Scan(
		&user.ID,
		&user.ExternalID,
		&user.Email,
		&fullName,
		&pictureURL,
		&industry,
		&experience,
		&skills,
		&bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	user.FullName = fullName.String
	user.PictureURL = pictureURL.String
	user.Industry = industry.String
	user.Experience = int(experience.Int64)
	user.Bio = bio.String
	user.Skills = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &user.Skills); err != nil {
			return User{}, err
		}
	}
	return user, nil
}

func nonNilSkills(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
