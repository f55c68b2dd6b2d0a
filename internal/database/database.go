package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
)

var ErrNoDatabaseURL = errors.New("DATABASE_URL is not set")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		count INT NOT NULL DEFAULT 0,
		is_active BOOLEAN
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS categories_name_lower_idx ON categories (LOWER(name))`,
	`CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		category TEXT NOT NULL,
		image TEXT,
		is_vegetarian BOOLEAN,
		is_spicy BOOLEAN,
		is_best_seller BOOLEAN,
		is_available BOOLEAN,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS menu_items_category_idx ON menu_items (category)`,
}

// DefaultCategories seeds an empty categories table.
var DefaultCategories = []string{"Starters", "Soups", "Curries", "Noodles", "Rice", "Desserts", "Drinks"}

// Open connects through the pgx stdlib driver and pings the server.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, ErrNoDatabaseURL
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates the tables if they are missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SeedCategories inserts DefaultCategories when the table is empty and
// returns how many rows were added.
func SeedCategories(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	defer tx.Rollback()

	for _, name := range DefaultCategories {
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories (id, name, count, is_active) VALUES ($1, $2, 0, TRUE)`, uuid.NewString(), name); err != nil {
			return 0, fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed categories: %w", err)
	}
	return len(DefaultCategories), nil
}
