package insights

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"sensai-backend/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, industry string) (Insight, error) {
	const query = `
SELECT industry, data, last_updated, next_update_at
FROM industry_insights
WHERE industry = $1`
	var (
		in  Insight
		raw []byte
	)
	err := r.DB.QueryRowContext(ctx, query, industry).Scan(&in.Industry, &raw, &in.LastUpdated, &in.NextUpdateAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Insight{}, ErrNotFound
		}
		return Insight{}, apperr.Persistence("load industry insight", err)
	}
	if err := json.Unmarshal(raw, &in.Data); err != nil {
		return Insight{}, apperr.Persistence("decode industry insight", err)
	}
	return in, nil
}

func (r *PGRepo) Upsert(ctx context.Context, in Insight) error {
	raw, err := json.Marshal(in.Data)
	if err != nil {
		return apperr.Persistence("encode industry insight", err)
	}
	const query = `
INSERT INTO industry_insights (industry, data, last_updated, next_update_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (industry) DO UPDATE
SET data = EXCLUDED.data, last_updated = EXCLUDED.last_updated, next_update_at = EXCLUDED.next_update_at`
	_, err = r.DB.ExecContext(ctx, query, in.Industry, raw, in.LastUpdated, in.NextUpdateAt)
	return apperr.Persistence("upsert industry insight", err)
}

var _ Repo = (*PGRepo)(nil)
