package resumes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"sensai-backend/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, user_id, content, ats_score, feedback, created_at, updated_at`

func (r *PGRepo) Upsert(ctx context.Context, userID, content string, score int, feedback string) (Resume, error) {
	const query = `
INSERT INTO resumes (id, user_id, content, ats_score, feedback, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  content = EXCLUDED.content,
  ats_score = EXCLUDED.ats_score,
  feedback = EXCLUDED.feedback,
  updated_at = now()
RETURNING ` + resumeColumns
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, uuid.NewString(), userID, content, score, feedback))
	if err != nil {
		return Resume{}, apperr.Persistence("upsert resume", err)
	}
	return res, nil
}

func (r *PGRepo) GetByUserID(ctx context.Context, userID string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 LIMIT 1`
	res, err := scanResume(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, apperr.Persistence("load resume", err)
	}
	return res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var (
		res      Resume
		score    sql.NullInt64
		feedback sql.NullString
	)
	if err := row.Scan(&res.ID, &res.UserID, &res.Content, &score, &feedback, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return Resume{}, err
	}
	res.ATSScore = int(score.Int64)
	res.Feedback = feedback.String
	return res, nil
}

var _ Repo = (*PGRepo)(nil)
