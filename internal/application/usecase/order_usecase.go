package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/validation"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// OrderUseCase casos de uso para pedidos: creación e historial.
type OrderUseCase struct {
	tx         TxRunner
	repo       repository.OrderRepository
	ownerScope bool
	now        func() time.Time
}

// NewOrderUseCase construye el caso de uso. Con ownerScope=true el historial
// solo incluye los pedidos del usuario autenticado; con false devuelve todos.
func NewOrderUseCase(tx TxRunner, repo repository.OrderRepository, ownerScope bool) *OrderUseCase {
	return &OrderUseCase{tx: tx, repo: repo, ownerScope: ownerScope, now: time.Now}
}

// Create crea un pedido para userID. Los productos deben existir; se admiten IDs repetidos.
func (uc *OrderUseCase) Create(ctx context.Context, userID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	ve := &domain.ValidationError{}
	if in.Products == nil {
		ve.Add("products", validation.MsgRequired)
	}
	if in.Quantity == nil {
		ve.Add("quantity", validation.MsgRequired)
	} else {
		checkIntColumn(ve, "quantity", int(*in.Quantity), math.MinInt32)
	}
	if ve.HasErrors() {
		return nil, ve
	}

	order := &entity.Order{
		UserID:     userID,
		ProductIDs: append([]int64{}, (*in.Products)...),
		Quantity:   int(*in.Quantity),
		Date:       uc.now().UTC(),
	}
	err := uc.tx.Run(ctx, func(r Repositories) error {
		if err := ensureProductsExist(ctx, r.Products, order.ProductIDs); err != nil {
			return err
		}
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// History lista pedidos. userID se usa solo si el caso de uso está en modo owner.
func (uc *OrderUseCase) History(ctx context.Context, userID int64, q repository.ListQuery) ([]dto.OrderResponse, int, error) {
	if uc.ownerScope {
		q.OwnerID = userID
	}
	list, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrderResponse(o))
	}
	return items, total, nil
}

func ensureProductsExist(ctx context.Context, repo repository.ProductRepository, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	exists := make(map[int64]bool, len(found))
	for _, p := range found {
		exists[p.ID] = true
	}
	ve := &domain.ValidationError{}
	for _, id := range ids {
		if !exists[id] {
			ve.Add("products", fmt.Sprintf("ID %d inválido: el producto no existe.", id))
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	if o == nil {
		return nil
	}
	products := o.ProductIDs
	if products == nil {
		products = []int64{}
	}
	return &dto.OrderResponse{
		ID:       o.ID,
		User:     o.UserID,
		Products: products,
		Quantity: o.Quantity,
		Date:     o.Date,
	}
}
