package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = map[string]string{
	"id":             "p.id",
	"name":           "p.name",
	"description":    "p.description",
	"price":          "p.price",
	"stock":          "p.stock",
	"category":       "p.category_id",
	"category__name": "c.name",
}

const productSelect = `
	SELECT p.id, p.name, p.description, p.price, p.stock, p.category_id, c.name
	FROM products p JOIN categories c ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category_id)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Stock, product.CategoryID,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("category", "la categoría no existe.")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con su categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.name = $1`, name))
	if err != nil {
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// GetByIDs devuelve los productos existentes entre ids.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` WHERE p.id = ANY($1) ORDER BY p.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	return collectProducts(rows)
}

// Update reescribe todos los campos editables del producto.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, stock = $5, category_id = $6
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Stock, product.CategoryID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete elimina un producto por ID. false si no existía.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista productos con búsqueda, filtros, orden y paginación; devuelve el total sin paginar.
func (r *ProductRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Product, int, error) {
	b := newListSQL(productColumns)
	where := b.where(q, "")

	var total int
	countSQL := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id ` + where
	if err := r.q.QueryRow(ctx, countSQL, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := productSelect + " " + where + " " + b.orderBy(q, "p.id") + " " + b.page(q)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var c entity.Category
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CategoryID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.ID = p.CategoryID
	p.Category = &c
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
