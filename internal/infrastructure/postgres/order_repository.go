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

var _ repository.OrderRepository = (*OrderRepo)(nil)

var orderColumns = map[string]string{
	"id":       "o.id",
	"date":     "o.date",
	"quantity": "o.quantity",
}

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// Los productos de cada pedido viven en order_products; cada fila tiene su propio
// id, por lo que un mismo producto puede repetirse en el pedido.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido y sus filas en order_products. Debe ejecutarse dentro de una tx.
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO orders (user_id, quantity, date) VALUES ($1, $2, $3) RETURNING id`,
		order.UserID, order.Quantity, order.Date,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	for _, pid := range order.ProductIDs {
		_, err := r.q.Exec(ctx, `INSERT INTO order_products (order_id, product_id) VALUES ($1, $2)`, order.ID, pid)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.NewValidationError("products", fmt.Sprintf("ID %d inválido: el producto no existe.", pid))
			}
			return fmt.Errorf("insert order product: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un pedido con sus productos.
func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(ctx, `SELECT o.id, o.user_id, o.quantity, o.date FROM orders o WHERE o.id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.Quantity, &o.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadProducts(ctx, []*entity.Order{&o}); err != nil {
		return nil, err
	}
	return &o, nil
}

// List lista pedidos (todos o los de q.OwnerID) con filtros, orden y paginación.
func (r *OrderRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Order, int, error) {
	b := newListSQL(orderColumns)
	where := b.where(q, "o.user_id")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders o `+where, b.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := `SELECT o.id, o.user_id, o.quantity, o.date FROM orders o ` + where + " " + b.orderBy(q, "o.id") + " " + b.page(q)
	rows, err := r.q.Query(ctx, query, b.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Quantity, &o.Date); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	if err := r.loadProducts(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadProducts completa ProductIDs en el orden de inserción de order_products.
func (r *OrderRepo) loadProducts(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*entity.Order, len(orders))
	for _, o := range orders {
		o.ProductIDs = []int64{}
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	rows, err := r.q.Query(ctx,
		`SELECT order_id, product_id FROM order_products WHERE order_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("list order products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orderID, productID int64
		if err := rows.Scan(&orderID, &productID); err != nil {
			return fmt.Errorf("scan order product: %w", err)
		}
		if o := byID[orderID]; o != nil {
			o.ProductIDs = append(o.ProductIDs, productID)
		}
	}
	return rows.Err()
}
