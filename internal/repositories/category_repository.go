package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"astrocrm/internal/models/db_models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *db_models.Category) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Category, error)
	FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.Category, error)
	// FindByName matches case-insensitively, skipping the record with id exclude.
	FindByName(ctx context.Context, name string, exclude uuid.UUID) (*db_models.Category, error)
	List(ctx context.Context) ([]db_models.Category, error)
	Rename(ctx context.Context, category *db_models.Category, name string) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *db_models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Category, error) {
	var category db_models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByIds(ctx context.Context, ids []uuid.UUID) ([]db_models.Category, error) {
	if len(ids) == 0 {
		return []db_models.Category{}, nil
	}
	var categories []db_models.Category
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string, exclude uuid.UUID) (*db_models.Category, error) {
	var category db_models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Where("id <> ?", exclude).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]db_models.Category, error) {
	var categories []db_models.Category
	if err := r.db.WithContext(ctx).Order(orderBy("name", false)).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Rename(ctx context.Context, category *db_models.Category, name string) error {
	if err := r.db.WithContext(ctx).Model(category).Update("name", name).Error; err != nil {
		return err
	}
	category.Name = name
	return nil
}

// Delete removes the category, its subcategories and its consultation links.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM consultation_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&db_models.Subcategory{}, "category_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&db_models.Category{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
