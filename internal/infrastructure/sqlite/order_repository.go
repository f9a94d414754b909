package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

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

// OrderRepo implementación de OrderRepository con GORM sobre SQLite.
type OrderRepo struct {
	db *gorm.DB
}

// NewOrderRepository construye el adaptador. db puede ser una tx.
func NewOrderRepository(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create inserta el pedido y una fila de order_products por cada ID (se admiten repetidos).
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	m := orderModel{UserID: order.UserID, Quantity: order.Quantity, Date: order.Date}
	db := r.db.WithContext(ctx)
	if err := db.Omit("User").Create(&m).Error; err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = m.ID
	if len(order.ProductIDs) == 0 {
		return nil
	}
	links := make([]orderProductModel, 0, len(order.ProductIDs))
	for _, pid := range order.ProductIDs {
		links = append(links, orderProductModel{OrderID: m.ID, ProductID: pid})
	}
	if err := db.Omit("Order", "Product").Create(&links).Error; err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("products", "uno o más productos no existen.")
		}
		return fmt.Errorf("insert order products: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	var m orderModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	list := []*entity.Order{toOrder(m)}
	if err := r.loadProducts(ctx, list); err != nil {
		return nil, err
	}
	return list[0], nil
}

func (r *OrderRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Order, int, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("orders AS o").Scopes(whereScope(q, orderColumns, "o.user_id"))
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	var models []orderModel
	err := base().Select("o.id, o.user_id, o.quantity, o.date").
		Scopes(pageScope(q, orderColumns, "o.id")).
		Scan(&models).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	list := make([]*entity.Order, 0, len(models))
	for _, m := range models {
		list = append(list, toOrder(m))
	}
	if err := r.loadProducts(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, int(total), nil
}

// loadProducts completa ProductIDs en orden de inserción.
func (r *OrderRepo) loadProducts(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*entity.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}
	var links []orderProductModel
	err := r.db.WithContext(ctx).Select("id, order_id, product_id").
		Where("order_id IN ?", ids).Order("id ASC").Find(&links).Error
	if err != nil {
		return fmt.Errorf("list order products: %w", err)
	}
	for _, l := range links {
		if o := byID[l.OrderID]; o != nil {
			o.ProductIDs = append(o.ProductIDs, l.ProductID)
		}
	}
	return nil
}

func toOrder(m orderModel) *entity.Order {
	return &entity.Order{
		ID:         m.ID,
		UserID:     m.UserID,
		ProductIDs: []int64{},
		Quantity:   m.Quantity,
		Date:       m.Date.UTC(),
	}
}
