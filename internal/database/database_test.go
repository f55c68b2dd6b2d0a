package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOpen_RequiresURL(t *testing.T) {
	if _, err := Open(context.Background(), ""); !errors.Is(err, ErrNoDatabaseURL) {
		t.Fatalf("expected ErrNoDatabaseURL, got %v", err)
	}
}

func TestMigrate_RunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS categories").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE UNIQUE INDEX IF NOT EXISTS categories_name_lower_idx").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS menu_items").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS menu_items_category_idx").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	boom := errors.New("permission denied")
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS categories").WillReturnError(boom)

	if err := Migrate(context.Background(), db); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestSeedCategories_EmptyTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM categories").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	for _, name := range DefaultCategories {
		mock.ExpectExec("INSERT INTO categories").WithArgs(sqlmock.AnyArg(), name).WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	n, err := SeedCategories(context.Background(), db)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(DefaultCategories) {
		t.Fatalf("expected %d seeded, got %d", len(DefaultCategories), n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSeedCategories_SkipsWhenPopulated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM categories").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := SeedCategories(context.Background(), db)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op seed, got %d %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
