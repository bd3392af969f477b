package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/repositories"
	"astrocrm/pkg/utils"
)

type CategoryServiceInterface interface {
	Create(ctx context.Context, request request_models.CategoryRequest) (*db_models.Category, error)
	List(ctx context.Context) ([]db_models.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*db_models.Category, error)
	Update(ctx context.Context, id uuid.UUID, request request_models.CategoryRequest) (*db_models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryService manages the global category list. Names are unique ignoring case.
type CategoryService struct {
	categoryRepo repositories.CategoryRepository
}

func NewCategoryService(categoryRepo repositories.CategoryRepository) CategoryServiceInterface {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) Create(ctx context.Context, request request_models.CategoryRequest) (*db_models.Category, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, utils.Validation("Category name is required")
	}

	existing, err := s.categoryRepo.FindByName(ctx, name, uuid.Nil)
	if err != nil {
		return nil, utils.DatabaseError("find category by name", err)
	}
	if existing != nil {
		return nil, utils.Conflict("Category already exists")
	}

	category := &db_models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, utils.DatabaseError("create category", err)
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]db_models.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, utils.DatabaseError("list categories", err)
	}
	if categories == nil {
		categories = []db_models.Category{}
	}
	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*db_models.Category, error) {
	category, err := s.categoryRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find category", err)
	}
	if category == nil {
		return nil, utils.NotFound("Category not found")
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, request request_models.CategoryRequest) (*db_models.Category, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, utils.Validation("Category name is required")
	}

	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing, err := s.categoryRepo.FindByName(ctx, name, id)
	if err != nil {
		return nil, utils.DatabaseError("find category by name", err)
	}
	if existing != nil {
		return nil, utils.Conflict("Category name already exists")
	}

	if err := s.categoryRepo.Rename(ctx, category, name); err != nil {
		return nil, utils.DatabaseError("rename category", err)
	}
	return category, nil
}

// Delete also removes the category's subcategories and unlinks it from consultations.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.categoryRepo.Delete(ctx, id)
	if err != nil {
		return utils.DatabaseError("delete category", err)
	}
	if !deleted {
		return utils.NotFound("Category not found")
	}
	return nil
}
