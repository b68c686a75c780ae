package assessments

import (
	"context"
	"database/sql"
	"encoding/json"

	"sensai-backend/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, a Assessment) error {
	const query = `
INSERT INTO assessments (id, user_id, quiz_score, questions, category, improvement_tip, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return err
	}
	var tip any
	if a.ImprovementTip != nil {
		tip = *a.ImprovementTip
	}
	_, err = r.DB.ExecContext(ctx, query, a.ID, a.UserID, a.QuizScore, string(questions), a.Category, tip, a.CreatedAt)
	return apperr.Persistence("create assessment", err)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Assessment, error) {
	const query = `
SELECT id, user_id, quiz_score, questions, category, improvement_tip, created_at
FROM assessments WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Persistence("list assessments", err)
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		var (
			a         Assessment
			questions []byte
			tip       sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizScore, &questions, &a.Category, &tip, &a.CreatedAt); err != nil {
			return nil, apperr.Persistence("scan assessment", err)
		}
		a.Questions = []QuestionResult{}
		if len(questions) > 0 {
			if err := json.Unmarshal(questions, &a.Questions); err != nil {
				return nil, apperr.Persistence("decode assessment questions", err)
			}
		}
		if tip.Valid {
			t := tip.String
			a.ImprovementTip = &t
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list assessments", err)
	}
	return out, nil
}

var _ Repo = (*PGRepo)(nil)
