package sqlite

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/tienda-api/internal/application/usecase"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción GORM.
type TxRunner struct {
	db *gorm.DB
}

// NewTxRunner construye el runner.
func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run hace Commit si fn devuelve nil y Rollback en cualquier otro caso.
func (r *TxRunner) Run(ctx context.Context, fn func(repos usecase.Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
