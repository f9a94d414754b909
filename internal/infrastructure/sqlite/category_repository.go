package sqlite

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

var categoryColumns = map[string]string{
	"id":   "c.id",
	"name": "c.name",
}

// CategoryRepo implementación de CategoryRepository con GORM sobre SQLite.
type CategoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository construye el adaptador. db puede ser una tx.
func NewCategoryRepository(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	m := categoryModel{Name: category.Name}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	category.ID = m.ID
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var m categoryModel
	err := r.db.WithContext(ctx).First(&m, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &entity.Category{ID: m.ID, Name: m.Name}, nil
}

// GetOrCreateByName busca por nombre (menor ID si hay varias) o inserta.
// SQLite serializa las escrituras, por lo que dentro de una tx no hay carrera.
func (r *CategoryRepo) GetOrCreateByName(ctx context.Context, name string) (*entity.Category, bool, error) {
	var m categoryModel
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&m).Error
	if err == nil {
		return &entity.Category{ID: m.ID, Name: m.Name}, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("get category by name: %w", err)
	}
	c := &entity.Category{Name: name}
	if err := r.Create(ctx, c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (r *CategoryRepo) List(ctx context.Context, q repository.ListQuery) ([]*entity.Category, int, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Table("categories AS c").Scopes(whereScope(q, categoryColumns, ""))
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}
	var models []categoryModel
	if err := base().Select("c.id, c.name").Scopes(pageScope(q, categoryColumns, "c.id")).Scan(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	list := make([]*entity.Category, 0, len(models))
	for _, m := range models {
		list = append(list, &entity.Category{ID: m.ID, Name: m.Name})
	}
	return list, int(total), nil
}

// Delete borra la categoría; la FK con ON DELETE CASCADE elimina sus productos.
func (r *CategoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&categoryModel{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("delete category: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}
