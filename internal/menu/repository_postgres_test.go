package menu

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

var menuRowColumns = []string{"id", "name", "description", "price", "category", "image", "is_vegetarian", "is_spicy", "is_best_seller", "is_available", "created_at", "updated_at"}

func TestBuildListQuery(t *testing.T) {
	yes := true
	q, args := buildListQuery(Filter{Category: "Curry", Spicy: &yes, Limit: 5})
	want := `SELECT ` + menuColumns + ` FROM menu_items WHERE LOWER(category) = LOWER($1) AND COALESCE(is_spicy, FALSE) = $2 ORDER BY LOWER(category) COLLATE "C", LOWER(name) COLLATE "C", id LIMIT $3`
	if q != want {
		t.Fatalf("unexpected query:\n got %s\nwant %s", q, want)
	}
	if len(args) != 3 || args[0] != "Curry" || args[1] != true || args[2] != 5 {
		t.Fatalf("unexpected args %v", args)
	}

	q, args = buildListQuery(Filter{})
	if len(args) != 0 || q != `SELECT `+menuColumns+` FROM menu_items ORDER BY LOWER(category) COLLATE "C", LOWER(name) COLLATE "C", id` {
		t.Fatalf("unexpected unfiltered query %q %v", q, args)
	}
}

func TestPostgresList_ScansOptionalColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	at := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	rows := sqlmock.NewRows(menuRowColumns).
		AddRow("1", "Larb", "Minced pork salad", 6.5, "Salad", "/img/larb.png", nil, true, nil, false, at, at).
		AddRow("2", "Rice", "Jasmine", 1.0, "Sides", nil, true, nil, nil, nil, at, at)
	mock.ExpectQuery("SELECT .* FROM menu_items WHERE COALESCE\\(is_available, TRUE\\)").WithArgs(true).WillReturnRows(rows)

	yes := true
	items, err := repo.List(context.Background(), Filter{Available: &yes})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	larb := items[0]
	if larb.Image == nil || *larb.Image != "/img/larb.png" || larb.IsVegetarian != nil || larb.IsSpicy == nil || !*larb.IsSpicy {
		t.Fatalf("unexpected first item %+v", larb)
	}
	if larb.IsAvailable == nil || *larb.IsAvailable {
		t.Fatalf("expected explicit unavailable flag, got %+v", larb.IsAvailable)
	}
	if items[1].Image != nil || items[1].IsAvailable != nil {
		t.Fatalf("null columns should stay absent: %+v", items[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM menu_items WHERE id").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(menuRowColumns))

	if _, err := repo.GetByID(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate_UniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("INSERT INTO menu_items").WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = repo.Create(context.Background(), MenuItem{ID: "dup", Name: "a", Description: "b", Category: "c"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateAndDelete_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM menu_items").WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Update(context.Background(), "ghost", MenuItem{Name: "a"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from update, got %v", err)
	}
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresSetAvailability_UsesArrayParam(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	ids := []string{"a", "b"}
	mock.ExpectExec("UPDATE menu_items SET is_available").
		WithArgs(false, sqlmock.AnyArg(), pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.SetAvailability(context.Background(), ids, false, time.Now())
	if err != nil {
		t.Fatalf("set availability: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCountByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT category, COUNT").WillReturnRows(
		sqlmock.NewRows([]string{"category", "count"}).AddRow("Curry", 3).AddRow("Drinks", 1))

	counts, err := repo.CountByCategory(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts["Curry"] != 3 || counts["Drinks"] != 1 {
		t.Fatalf("unexpected counts %v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
