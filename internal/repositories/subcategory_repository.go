package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"astrocrm/internal/models/db_models"
)

type SubcategoryRepository interface {
	Create(ctx context.Context, sub *db_models.Subcategory) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Subcategory, error)
	// FindByName matches case-insensitively within one category, skipping the record with id exclude.
	FindByName(ctx context.Context, categoryID uuid.UUID, name string, exclude uuid.UUID) (*db_models.Subcategory, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]db_models.Subcategory, error)
	Update(ctx context.Context, sub *db_models.Subcategory, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type subcategoryRepository struct {
	db *gorm.DB
}

func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

func (r *subcategoryRepository) Create(ctx context.Context, sub *db_models.Subcategory) error {
	return r.db.WithContext(ctx).Omit("Category").Create(sub).Error
}

func (r *subcategoryRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Subcategory, error) {
	var sub db_models.Subcategory
	err := r.db.WithContext(ctx).Preload("Category").First(&sub, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subcategoryRepository) FindByName(ctx context.Context, categoryID uuid.UUID, name string, exclude uuid.UUID) (*db_models.Subcategory, error) {
	var sub db_models.Subcategory
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Where("LOWER(name) = LOWER(?)", name).
		Where("id <> ?", exclude).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (r *subcategoryRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]db_models.Subcategory, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}

	var subs []db_models.Subcategory
	if err := q.Order(orderBy("name", false)).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subcategoryRepository) Update(ctx context.Context, sub *db_models.Subcategory, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(sub).Omit("Category").Updates(fields).Error; err != nil {
			return err
		}
		return tx.Preload("Category").First(sub, "id = ?", sub.ID).Error
	})
}

func (r *subcategoryRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&db_models.Subcategory{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
