package coverletters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sensai-backend/internal/shared/apperr"
)

func TestPGRepoDeleteScopedToOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM cover_letters WHERE id = \\$1 AND user_id = \\$2").
		WithArgs("letter-1", "user-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "user-2", "letter-1"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "user_id", "content", "job_description", "company_name", "job_title", "status", "created_at"}).
		AddRow("b", "user-1", "B", nil, "Initech", "SRE", "completed", now).
		AddRow("a", "user-1", "A", "jd", "Acme", "Dev", "completed", now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM cover_letters WHERE user_id = \\$1 ORDER BY created_at DESC").
		WithArgs("user-1").
		WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b" || got[0].JobDescription != "" || got[1].JobDescription != "jd" {
		t.Fatalf("unexpected letters: %#v", got)
	}
}
