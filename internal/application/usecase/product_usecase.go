package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/validation"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// Límites de NUMERIC(10,2) para price.
const (
	priceDecimalPlaces = 2
	priceWholeDigits   = 8
)

var maxPriceWhole = decimal.New(1, priceWholeDigits) // 10^8

// checkIntColumn agrega un error en field si v es menor que min o no entra en
// una columna INTEGER.
func checkIntColumn(ve *domain.ValidationError, field string, v, min int) {
	switch {
	case v < min:
		ve.Add(field, fmt.Sprintf("asegúrese de que este valor sea mayor o igual a %d.", min))
	case v > math.MaxInt32:
		ve.Add(field, fmt.Sprintf("asegúrese de que este valor sea menor o igual a %d.", math.MaxInt32))
	}
}

// ProductUseCase casos de uso CRUD para productos. Las escrituras resuelven la
// categoría (por ID o get-or-create por nombre) en la misma transacción que el producto.
type ProductUseCase struct {
	tx   TxRunner
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(tx TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo}
}

// Create crea un producto. Falla con *domain.ValidationError si faltan campos,
// el precio o el stock son inválidos, el nombre ya existe o la categoría no existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateProduct(&in, false); err != nil {
		return nil, err
	}
	product := &entity.Product{}
	applyProduct(product, in)

	err := uc.tx.Run(ctx, func(r Repositories) error {
		if err := ensureUniqueName(ctx, r.Products, product.Name, 0); err != nil {
			return err
		}
		category, err := resolveCategory(ctx, r.Categories, *in.Category)
		if err != nil {
			return err
		}
		product.CategoryID = category.ID
		product.Category = category
		return duplicateAsValidation(r.Products.Create(ctx, product))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID con su categoría.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update reemplaza (partial=false) o actualiza parcialmente (partial=true) un producto.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.ProductRequest, partial bool) (*dto.ProductResponse, error) {
	if err := validateProduct(&in, partial); err != nil {
		return nil, err
	}
	var product *entity.Product
	err := uc.tx.Run(ctx, func(r Repositories) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		applyProduct(product, in)
		if in.Name != nil {
			if err := ensureUniqueName(ctx, r.Products, product.Name, product.ID); err != nil {
				return err
			}
		}
		if in.Category != nil {
			category, err := resolveCategory(ctx, r.Categories, *in.Category)
			if err != nil {
				return err
			}
			product.CategoryID = category.ID
			product.Category = category
		}
		return duplicateAsValidation(r.Products.Update(ctx, product))
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete elimina un producto por ID.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos según q; devuelve también el total sin paginar.
func (uc *ProductUseCase) List(ctx context.Context, q repository.ListQuery) ([]dto.ProductResponse, int, error) {
	list, total, err := uc.repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, total, nil
}

// resolveCategory devuelve la categoría referenciada: por ID (debe existir) o
// get-or-create por nombre.
func resolveCategory(ctx context.Context, repo repository.CategoryRepository, ref dto.CategoryRef) (*entity.Category, error) {
	if !ref.Nested() {
		category, err := repo.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.NewValidationError("category", fmt.Sprintf("ID %d inválido: la categoría no existe.", ref.ID))
		}
		return category, nil
	}
	category, _, err := repo.GetOrCreateByName(ctx, ref.Name)
	return category, err
}

func ensureUniqueName(ctx context.Context, repo repository.ProductRepository, name string, selfID int64) error {
	existing, err := repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return errDuplicateProductName()
	}
	return nil
}

func duplicateAsValidation(err error) error {
	if errors.Is(err, domain.ErrDuplicate) {
		return errDuplicateProductName()
	}
	return err
}

func errDuplicateProductName() error {
	return domain.NewValidationError("name", "ya existe un producto con este nombre.")
}

// validateProduct normaliza y valida la entrada. Con partial=false todos los campos son obligatorios.
func validateProduct(in *dto.ProductRequest, partial bool) error {
	ve := &domain.ValidationError{}
	if err := validation.Struct(in); err != nil {
		var fieldErrs *domain.ValidationError
		if !errors.As(err, &fieldErrs) {
			return err
		}
		ve = fieldErrs
	}
	required := func(field string, present bool) bool {
		if !present && !partial {
			ve.Add(field, validation.MsgRequired)
		}
		return present
	}

	if required("name", in.Name != nil) {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
		if name == "" {
			ve.Add("name", validation.MsgBlank)
		}
	}
	if required("description", in.Description != nil) {
		desc := strings.TrimSpace(*in.Description)
		in.Description = &desc
		if desc == "" {
			ve.Add("description", validation.MsgBlank)
		}
	}
	if required("price", in.Price != nil) {
		price := *in.Price
		switch {
		case price.IsNegative():
			ve.Add("price", "asegúrese de que este valor sea mayor o igual a 0.")
		case !price.Equal(price.Truncate(priceDecimalPlaces)):
			ve.Add("price", fmt.Sprintf("asegúrese de que no haya más de %d decimales.", priceDecimalPlaces))
		case price.Truncate(0).GreaterThanOrEqual(maxPriceWhole):
			ve.Add("price", fmt.Sprintf("asegúrese de que no haya más de %d dígitos antes del punto decimal.", priceWholeDigits))
		}
	}
	if required("stock", in.Stock != nil) {
		checkIntColumn(ve, "stock", int(*in.Stock), 0)
	}
	if required("category", in.Category != nil) && in.Category.Nested() {
		in.Category.Name = strings.TrimSpace(in.Category.Name)
		switch {
		case in.Category.Name == "":
			ve.Add("category.name", validation.MsgRequired)
		case !validation.MaxLen(in.Category.Name, 255):
			ve.Add("category.name", "asegúrese de que este campo no tenga más de 255 caracteres.")
		}
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func applyProduct(p *entity.Product, in dto.ProductRequest) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = in.Price.Round(priceDecimalPlaces)
	}
	if in.Stock != nil {
		p.Stock = int(*in.Stock)
	}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	out := &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(priceDecimalPlaces),
		Stock:       p.Stock,
		Category:    dto.CategoryResponse{ID: p.CategoryID},
	}
	if p.Category != nil {
		out.Category.Name = p.Category.Name
	}
	return out
}
