package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

const (
	listCategoriesQuery  = `SELECT id, name, count, is_active FROM categories ORDER BY LOWER(name) COLLATE "C", id`
	getCategoryQuery     = `SELECT id, name, count, is_active FROM categories WHERE id = $1`
	insertCategoryQuery  = `INSERT INTO categories (id, name, count, is_active) VALUES ($1, $2, $3, $4)`
	updateCategoryQuery  = `UPDATE categories SET name = $1, count = $2, is_active = $3 WHERE id = $4`
	deleteCategoryQuery  = `DELETE FROM categories WHERE id = $1`
	uniqueViolationState = "23505"
	primaryKeyConstraint = "categories_pkey"
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (Category, error) {
	var (
		c      Category
		active sql.NullBool
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Count, &active); err != nil {
		return Category{}, err
	}
	if active.Valid {
		v := active.Bool
		c.IsActive = &v
	}
	return c, nil
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

// uniqueViolation maps a unique violation to ErrDuplicateID or
// ErrDuplicateName by constraint, and returns nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationState {
		return nil
	}
	if pgErr.ConstraintName == primaryKeyConstraint {
		return ErrDuplicateID
	}
	return ErrDuplicateName
}

// List returns category rows ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesQuery)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, getCategoryQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("get category %s: %w", id, err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c Category) (Category, error) {
	if _, err := r.db.ExecContext(ctx, insertCategoryQuery, c.ID, c.Name, c.Count, nullBool(c.IsActive)); err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return Category{}, dup
		}
		return Category{}, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, c Category) (Category, error) {
	res, err := r.db.ExecContext(ctx, updateCategoryQuery, c.Name, c.Count, nullBool(c.IsActive), id)
	if err != nil {
		if dup := uniqueViolation(err); dup != nil {
			return Category{}, dup
		}
		return Category{}, fmt.Errorf("update category %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Category{}, ErrNotFound
	}
	c.ID = id
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteCategoryQuery, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
