package coverletters

import (
	"context"
	"database/sql"
	"errors"

	"sensai-backend/internal/shared/apperr"
)

type PGRepo struct {
	DB *sql.DB
}

const letterColumns = `id, user_id, content, job_description, company_name, job_title, status, created_at`

func (r *PGRepo) Create(ctx context.Context, l CoverLetter) error {
	const query = `
INSERT INTO cover_letters (id, user_id, content, job_description, company_name, job_title, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query, l.ID, l.UserID, l.Content, l.JobDescription, l.CompanyName, l.JobTitle, l.Status, l.CreatedAt)
	return apperr.Persistence("create cover letter", err)
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]CoverLetter, error) {
	const query = `SELECT ` + letterColumns + ` FROM cover_letters WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Persistence("list cover letters", err)
	}
	defer rows.Close()

	out := []CoverLetter{}
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, apperr.Persistence("scan cover letter", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list cover letters", err)
	}
	return out, nil
}

func (r *PGRepo) Get(ctx context.Context, userID, id string) (CoverLetter, error) {
	const query = `SELECT ` + letterColumns + ` FROM cover_letters WHERE id = $1 AND user_id = $2`
	l, err := scanLetter(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CoverLetter{}, ErrNotFound
		}
		return CoverLetter{}, apperr.Persistence("load cover letter", err)
	}
	return l, nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, id string) error {
	const query = `DELETE FROM cover_letters WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperr.Persistence("delete cover letter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete cover letter", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLetter(row rowScanner) (CoverLetter, error) {
	var (
		l       CoverLetter
		jd      sql.NullString
		company sql.NullString
		title   sql.NullString
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Content, &jd, &company, &title, &l.Status, &l.CreatedAt); err != nil {
		return CoverLetter{}, err
	}
	l.JobDescription = jd.String
	l.CompanyName = company.String
	l.JobTitle = title.String
	return l, nil
}

var _ Repo = (*PGRepo)(nil)
