package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order y su relación con productos.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, q ListQuery) ([]*entity.Order, int, error)
}
