package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

var categoryColumns = map[string]string{
	"id":   "c.id",
	"name": "c.name",
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una categoría y asigna su ID.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	err := r.q.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID; nil si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// GetOrCreateByName toma un advisory lock de transacción sobre el nombre antes de buscar,
// de modo que dos transacciones concurrentes con el mismo nombre no insertan dos filas.
// Debe llamarse dentro de una transacción (TxRunner).
func (r *CategoryRepo) GetOrCreateByName(ctx context.Context, name string) (*entity.Category, bool, error) {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('categories:' || $1))`, name); err != nil {
		return nil, false, fmt.Errorf("lock category name: %w", err)
	}
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name FROM categories WHERE name = $1 ORDER BY id LIMIT 1`, name).Scan(&c.ID, &c.Name)
	if err == nil {
		return &c, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("get category by name: %w", err)
	}
	c = entity.Category{Name: name}
	if err := r.Create(ctx, &c); err != nil {
		return nil, false, err
	}
	return &c, true, nil
}

// List lista categorías y devuelve el total sin paginar.
func (r *CategoryRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Category, int, error) {
	b := newListSQL(categoryColumns)
	where := b.where(q, "")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM categories c `+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	query := `SELECT c.id, c.name FROM categories c ` + where + " " + b.orderBy(q, "c.id") + " " + b.page(q)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, total, rows.Err()
}

// Delete elimina una categoría; la FK ON DELETE CASCADE borra sus productos.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
