package menu

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

var _ Repository = (*PostgresRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

const (
	menuColumns = `id, name, description, price, category, image, is_vegetarian, is_spicy, is_best_seller, is_available, created_at, updated_at`

	getMenuItemByIDQuery = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = $1`
	insertMenuItemQuery  = `
		INSERT INTO menu_items (` + menuColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	updateMenuItemQuery = `
		UPDATE menu_items
		SET name = $1,
			description = $2,
			price = $3,
			category = $4,
			image = $5,
			is_vegetarian = $6,
			is_spicy = $7,
			is_best_seller = $8,
			is_available = $9,
			updated_at = $10
		WHERE id = $11
	`
	deleteMenuItemQuery     = `DELETE FROM menu_items WHERE id = $1`
	setAvailabilityQuery    = `UPDATE menu_items SET is_available = $1, updated_at = $2 WHERE id = ANY($3)`
	countByCategoryQuery    = `SELECT category, COUNT(*) FROM menu_items GROUP BY category`
	uniqueViolationSQLState = "23505"
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// buildListQuery turns a Filter into a WHERE clause with positional args.
// Missing flags are read with the same defaults as Filter.Match.
func buildListQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}
	if f.Available != nil {
		add("COALESCE(is_available, TRUE) = $%d", *f.Available)
	}
	if f.Vegetarian != nil {
		add("COALESCE(is_vegetarian, FALSE) = $%d", *f.Vegetarian)
	}
	if f.Spicy != nil {
		add("COALESCE(is_spicy, FALSE) = $%d", *f.Spicy)
	}
	if f.BestSeller != nil {
		add("COALESCE(is_best_seller, FALSE) = $%d", *f.BestSeller)
	}

	q := `SELECT ` + menuColumns + ` FROM menu_items`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY LOWER(category) COLLATE "C", LOWER(name) COLLATE "C", id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	return q, args
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]MenuItem, error) {
	q, args := buildListQuery(f)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	out := make([]MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (MenuItem, error) {
	m, err := scanMenuItem(r.db.QueryRowContext(ctx, getMenuItemByIDQuery, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return MenuItem{}, ErrNotFound
		}
		return MenuItem{}, fmt.Errorf("get menu item %s: %w", id, err)
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, m MenuItem) (MenuItem, error) {
	_, err := r.db.ExecContext(ctx, insertMenuItemQuery,
		m.ID, m.Name, m.Description, m.Price, m.Category,
		nullString(m.Image), nullBool(m.IsVegetarian), nullBool(m.IsSpicy),
		nullBool(m.IsBestSeller), nullBool(m.IsAvailable),
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationSQLState {
			return MenuItem{}, ErrDuplicateID
		}
		return MenuItem{}, fmt.Errorf("insert menu item: %w", err)
	}
	return m, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, m MenuItem) (MenuItem, error) {
	res, err := r.db.ExecContext(ctx, updateMenuItemQuery,
		m.Name, m.Description, m.Price, m.Category,
		nullString(m.Image), nullBool(m.IsVegetarian), nullBool(m.IsSpicy),
		nullBool(m.IsBestSeller), nullBool(m.IsAvailable),
		m.UpdatedAt, id,
	)
	if err != nil {
		return MenuItem{}, fmt.Errorf("update menu item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return MenuItem{}, ErrNotFound
	}
	m.ID = id
	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteMenuItemQuery, id)
	if err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetAvailability(ctx context.Context, ids []string, available bool, at time.Time) (int, error) {
	res, err := r.db.ExecContext(ctx, setAvailabilityQuery, available, at, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("set availability: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set availability: %w", err)
	}
	return int(n), nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countByCategoryQuery)
	if err != nil {
		return nil, fmt.Errorf("count menu items: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[name] = n
	}
	return counts, rows.Err()
}

func scanMenuItem(row rowScanner) (MenuItem, error) {
	var (
		m                              MenuItem
		image                          sql.NullString
		vegetarian, spicy, best, avail sql.NullBool
	)
	if err := row.Scan(
		&m.ID, &m.Name, &m.Description, &m.Price, &m.Category,
		&image, &vegetarian, &spicy, &best, &avail,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return MenuItem{}, err
	}
	if image.Valid {
		m.Image = &image.String
	}
	m.IsVegetarian = boolPtr(vegetarian)
	m.IsSpicy = boolPtr(spicy)
	m.IsBestSeller = boolPtr(best)
	m.IsAvailable = boolPtr(avail)
	return m, nil
}

func boolPtr(b sql.NullBool) *bool {
	if !b.Valid {
		return nil
	}
	v := b.Bool
	return &v
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
