package usecase

import (
	"context"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// Repositories conjunto de repositorios atados a una misma transacción.
type Repositories struct {
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	Orders     repository.OrderRepository
	Users      repository.UserRepository
}

// TxRunner ejecuta fn dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
