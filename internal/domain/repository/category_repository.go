package repository

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	// GetOrCreateByName es atómico por nombre: dos llamadas concurrentes con el mismo nombre
	// crean a lo sumo una categoría. created indica si se insertó.
	GetOrCreateByName(ctx context.Context, name string) (category *entity.Category, created bool, err error)
	List(ctx context.Context, q ListQuery) ([]*entity.Category, int, error)
	// Delete borra la categoría y, en cascada, sus productos.
	Delete(ctx context.Context, id int64) (bool, error)
}
