package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"sensai-backend/internal/shared/apperr"
)

func TestPGRepoGetDecodesData(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT industry, data, last_updated, next_update_at FROM industry_insights WHERE industry = \\$1").
		WithArgs("tech-data").
		WillReturnRows(sqlmock.NewRows([]string{"industry", "data", "last_updated", "next_update_at"}).
			AddRow("tech-data", []byte(`{"growthRate":4,"demandLevel":"LOW","topSkills":["Go"]}`), now, now.Add(time.Hour)))

	in, err := repo.Get(context.Background(), "tech-data")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if in.GrowthRate != 4 || in.DemandLevel != DemandLow || len(in.TopSkills) != 1 {
		t.Fatalf("unexpected insight: %#v", in)
	}
}

func TestPGRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("FROM industry_insights").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows([]string{"industry", "data", "last_updated", "next_update_at"}))
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPGRepoUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}
	now := time.Now().UTC()

	mock.ExpectExec("INSERT INTO industry_insights (.+) ON CONFLICT \\(industry\\) DO UPDATE").
		WithArgs("tech-data", sqlmock.AnyArg(), now, now.Add(time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Upsert(context.Background(), Insight{Industry: "tech-data", LastUpdated: now, NextUpdateAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
