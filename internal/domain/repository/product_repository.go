package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas devuelven el producto con su Category cargada.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	// GetByIDs devuelve los productos existentes entre ids (sin duplicados, sin orden garantizado).
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, q ListQuery) ([]*entity.Product, int, error)
}
