package courses

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

const (
	courseColumns  = `id, name, category, level, include_video, layout, created_by, publish, created_at, updated_at`
	chapterColumns = `id, course_id, position, content, video_id, created_at, updated_at`
)

func (r *PGRepo) Create(ctx context.Context, c Course) (err error) {
	layout, err := json.Marshal(c.Layout)
	if err != nil {
		return apperr.Persistence("encode course layout", err)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Persistence("create course", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
INSERT INTO courses (id, name, category, level, include_video, layout, created_by, publish, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Category, c.Level, c.IncludeVideo, layout, c.CreatedBy, c.Publish, c.CreatedAt, c.UpdatedAt); err != nil {
		return apperr.Persistence("create course", err)
	}
	for _, ch := range c.Chapters {
		if _, err = tx.ExecContext(ctx, `
INSERT INTO chapters (id, course_id, position, content, video_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ch.ID, c.ID, ch.Position, []byte(contentOrEmpty(ch.Content)), nullString(ch.VideoID), ch.CreatedAt, ch.UpdatedAt); err != nil {
			return apperr.Persistence("create chapter", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return apperr.Persistence("create course", err)
	}
	return nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (Course, error) {
	const query = `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	c, err := scanCourse(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Course{}, ErrNotFound
		}
		return Course{}, apperr.Persistence("load course", err)
	}
	chapters, err := r.queryChapters(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE course_id = $1 ORDER BY position`, id)
	if err != nil {
		return Course{}, err
	}
	c.Chapters = chapters
	return c, nil
}

func (r *PGRepo) ListPublished(ctx context.Context) ([]Course, error) {
	return r.list(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE publish = true ORDER BY created_at DESC`,
		`SELECT `+chapterColumns+` FROM chapters WHERE course_id IN (SELECT id FROM courses WHERE publish = true) ORDER BY course_id, position`,
	)
}

func (r *PGRepo) ListByCreator(ctx context.Context, userID string) ([]Course, error) {
	return r.list(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE created_by = $1 ORDER BY created_at DESC`,
		`SELECT `+chapterColumns+` FROM chapters WHERE course_id IN (SELECT id FROM courses WHERE created_by = $1) ORDER BY course_id, position`,
		userID,
	)
}

func (r *PGRepo) list(ctx context.Context, courseQuery, chapterQuery string, args ...any) ([]Course, error) {
	rows, err := r.DB.QueryContext(ctx, courseQuery, args...)
	if err != nil {
		return nil, apperr.Persistence("list courses", err)
	}
	defer rows.Close()

	out := []Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, apperr.Persistence("scan course", err)
		}
		c.Chapters = []Chapter{}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list courses", err)
	}
	if len(out) == 0 {
		return out, nil
	}

	chapters, err := r.queryChapters(ctx, chapterQuery, args...)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(out))
	for i, c := range out {
		index[c.ID] = i
	}
	for _, ch := range chapters {
		if i, ok := index[ch.CourseID]; ok {
			out[i].Chapters = append(out[i].Chapters, ch)
		}
	}
	return out, nil
}

// Reconcile locks the course row so concurrent reconciliations of one course
// serialize; the unique (course_id, position) key backs the create path.
func (r *PGRepo) Reconcile(ctx context.Context, courseID string, inputs []ChapterInput, opts ReconcileOptions) (result ReconcileResult, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ReconcileResult{}, apperr.Persistence("reconcile chapters", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var locked string
	if err = tx.QueryRowContext(ctx, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, courseID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrNotFound
			return ReconcileResult{}, err
		}
		return ReconcileResult{}, apperr.Persistence("lock course", err)
	}

	if opts.Details != nil {
		if err = updateDetails(ctx, tx, courseID, *opts.Details); err != nil {
			return ReconcileResult{}, err
		}
	}

	existing, err := queryChapterRows(ctx, tx, `SELECT `+chapterColumns+` FROM chapters WHERE course_id = $1 ORDER BY position`, courseID)
	if err != nil {
		return ReconcileResult{}, err
	}
	plan := PlanChapters(existing, inputs, opts.Prune)

	for _, w := range plan.Writes {
		content := []byte(contentOrEmpty(w.Input.Content))
		if w.Op == OpUpdate {
			_, err = tx.ExecContext(ctx, `
UPDATE chapters SET content = $2, video_id = $3, updated_at = now() WHERE id = $1`,
				w.ID, content, nullString(w.Input.VideoID))
		} else {
			_, err = tx.ExecContext(ctx, `
INSERT INTO chapters (id, course_id, position, content, video_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (course_id, position) DO UPDATE
SET content = EXCLUDED.content, video_id = EXCLUDED.video_id, updated_at = now()`,
				w.ID, courseID, w.Position, content, nullString(w.Input.VideoID))
		}
		if err != nil {
			return ReconcileResult{}, apperr.Persistence("write chapter", err)
		}
	}
	if len(plan.Prune) > 0 {
		if _, err = tx.ExecContext(ctx, `DELETE FROM chapters WHERE course_id = $1 AND position > $2`, courseID, len(inputs)); err != nil {
			return ReconcileResult{}, apperr.Persistence("prune chapters", err)
		}
	}
	if opts.Publish {
		if _, err = tx.ExecContext(ctx, `UPDATE courses SET publish = true, updated_at = now() WHERE id = $1`, courseID); err != nil {
			return ReconcileResult{}, apperr.Persistence("publish course", err)
		}
	}
	if err = tx.Commit(); err != nil {
		return ReconcileResult{}, apperr.Persistence("reconcile chapters", err)
	}
	return ReconcileResult{
		Created: plan.Count(OpCreate),
		Updated: plan.Count(OpUpdate),
		Pruned:  len(plan.Prune),
	}, nil
}

func updateDetails(ctx context.Context, tx *sql.Tx, courseID string, d CourseDetails) error {
	layout, err := json.Marshal(d.Layout)
	if err != nil {
		return apperr.Persistence("encode course layout", err)
	}
	const query = `
UPDATE courses
SET name = $2, category = $3, level = $4, include_video = $5, layout = $6, updated_at = now()
WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, courseID, d.Name, d.Category, d.Level, d.IncludeVideo, layout); err != nil {
		return apperr.Persistence("update course", err)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for chapters.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return apperr.Persistence("delete course", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("delete course", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) queryChapters(ctx context.Context, query string, args ...any) ([]Chapter, error) {
	return queryChapterRows(ctx, r.DB, query, args...)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryChapterRows(ctx context.Context, q queryer, query string, args ...any) ([]Chapter, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("list chapters", err)
	}
	defer rows.Close()

	out := []Chapter{}
	for rows.Next() {
		var (
			ch      Chapter
			content []byte
			video   sql.NullString
		)
		if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.Position, &content, &video, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, apperr.Persistence("scan chapter", err)
		}
		ch.Content = contentOrEmpty(content)
		ch.VideoID = video.String
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("list chapters", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (Course, error) {
	var (
		c        Course
		category sql.NullString
		layout   []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &category, &c.Level, &c.IncludeVideo, &layout, &c.CreatedBy, &c.Publish, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Course{}, err
	}
	c.Category = category.String
	if len(layout) > 0 {
		if err := json.Unmarshal(layout, &c.Layout); err != nil {
			return Course{}, err
		}
	}
	return c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var _ Repo = (*PGRepo)(nil)
