package sqlite

import (
	"context"
	"fmt"

	"gorm.io/gorm"

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

// ProductRepo implementación de ProductRepository con GORM sobre SQLite.
type ProductRepo struct {
	db *gorm.DB
}

// NewProductRepository construye el adaptador. db puede ser una tx.
func NewProductRepository(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table("products AS p").Joins("JOIN categories c ON c.id = p.category_id")
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	m := toProductModel(product)
	if err := r.db.WithContext(ctx).Omit("Category").Create(&m).Error; err != nil {
		return productWriteError("insert product", err)
	}
	product.ID = m.ID
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.findOne(ctx, "p.id = ?", id)
}

func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.findOne(ctx, "p.name = ?", name)
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []productRow
	err := r.joined(ctx).Select(productRowSelect).Where("p.id IN ?", ids).Order("p.id ASC").Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	return toProducts(rows), nil
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	err := r.db.WithContext(ctx).Model(&productModel{ID: product.ID}).Updates(map[string]any{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"stock":       product.Stock,
		"category_id": product.CategoryID,
	}).Error
	if err != nil {
		return productWriteError("update product", err)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&productModel{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete product: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ProductRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Product, int, error) {
	var total int64
	if err := r.joined(ctx).Scopes(whereScope(q, productColumns, "")).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	var rows []productRow
	err := r.joined(ctx).Select(productRowSelect).
		Scopes(whereScope(q, productColumns, ""), pageScope(q, productColumns, "p.id")).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return toProducts(rows), int(total), nil
}

func (r *ProductRepo) findOne(ctx context.Context, cond string, arg any) (*entity.Product, error) {
	var rows []productRow
	if err := r.joined(ctx).Select(productRowSelect).Where(cond, arg).Limit(1).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toProduct(rows[0]), nil
}

func productWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return domain.NewValidationError("category", "la categoría no existe.")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func toProductModel(p *entity.Product) productModel {
	return productModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
	}
}

func toProduct(row productRow) *entity.Product {
	return &entity.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Price:       row.Price,
		Stock:       row.Stock,
		CategoryID:  row.CategoryID,
		Category:    &entity.Category{ID: row.CategoryID, Name: row.CategoryName},
	}
}

func toProducts(rows []productRow) []*entity.Product {
	list := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		list = append(list, toProduct(row))
	}
	return list
}
