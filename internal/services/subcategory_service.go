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

type SubcategoryServiceInterface interface {
	Create(ctx context.Context, request request_models.SubcategoryRequest) (*db_models.Subcategory, error)
	List(ctx context.Context) ([]db_models.Subcategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]db_models.Subcategory, error)
	Get(ctx context.Context, id uuid.UUID) (*db_models.Subcategory, error)
	Update(ctx context.Context, id uuid.UUID, request request_models.SubcategoryRequest) (*db_models.Subcategory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubcategoryService keeps names unique within a category, ignoring case.
type SubcategoryService struct {
	subcategoryRepo repositories.SubcategoryRepository
	categoryRepo    repositories.CategoryRepository
}

func NewSubcategoryService(subcategoryRepo repositories.SubcategoryRepository, categoryRepo repositories.CategoryRepository) SubcategoryServiceInterface {
	return &SubcategoryService{subcategoryRepo: subcategoryRepo, categoryRepo: categoryRepo}
}

func (s *SubcategoryService) parseRequest(ctx context.Context, request request_models.SubcategoryRequest) (string, uuid.UUID, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return "", uuid.Nil, utils.Validation("Subcategory name is required")
	}
	categoryID, err := uuid.Parse(request.CategoryID)
	if err != nil {
		return "", uuid.Nil, utils.Validation("Invalid category id")
	}

	category, err := s.categoryRepo.FindById(ctx, categoryID)
	if err != nil {
		return "", uuid.Nil, utils.DatabaseError("find category", err)
	}
	if category == nil {
		return "", uuid.Nil, utils.NotFound("Category not found")
	}
	return name, categoryID, nil
}

func (s *SubcategoryService) Create(ctx context.Context, request request_models.SubcategoryRequest) (*db_models.Subcategory, error) {
	name, categoryID, err := s.parseRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	existing, err := s.subcategoryRepo.FindByName(ctx, categoryID, name, uuid.Nil)
	if err != nil {
		return nil, utils.DatabaseError("find subcategory by name", err)
	}
	if existing != nil {
		return nil, utils.Conflict("Subcategory already exists for this category")
	}

	sub := &db_models.Subcategory{Name: name, CategoryID: categoryID}
	if err := s.subcategoryRepo.Create(ctx, sub); err != nil {
		return nil, utils.DatabaseError("create subcategory", err)
	}
	return s.Get(ctx, sub.ID)
}

func (s *SubcategoryService) List(ctx context.Context) ([]db_models.Subcategory, error) {
	return s.list(ctx, nil)
}

func (s *SubcategoryService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]db_models.Subcategory, error) {
	return s.list(ctx, &categoryID)
}

func (s *SubcategoryService) list(ctx context.Context, categoryID *uuid.UUID) ([]db_models.Subcategory, error) {
	subs, err := s.subcategoryRepo.List(ctx, categoryID)
	if err != nil {
		return nil, utils.DatabaseError("list subcategories", err)
	}
	if subs == nil {
		subs = []db_models.Subcategory{}
	}
	return subs, nil
}

func (s *SubcategoryService) Get(ctx context.Context, id uuid.UUID) (*db_models.Subcategory, error) {
	sub, err := s.subcategoryRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.DatabaseError("find subcategory", err)
	}
	if sub == nil {
		return nil, utils.NotFound("Subcategory not found")
	}
	return sub, nil
}

func (s *SubcategoryService) Update(ctx context.Context, id uuid.UUID, request request_models.SubcategoryRequest) (*db_models.Subcategory, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, categoryID, err := s.parseRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	existing, err := s.subcategoryRepo.FindByName(ctx, categoryID, name, id)
	if err != nil {
		return nil, utils.DatabaseError("find subcategory by name", err)
	}
	if existing != nil {
		return nil, utils.Conflict("Subcategory name already exists for this category")
	}

	if err := s.subcategoryRepo.Update(ctx, sub, map[string]interface{}{"name": name, "category_id": categoryID}); err != nil {
		return nil, utils.DatabaseError("update subcategory", err)
	}
	return sub, nil
}

func (s *SubcategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.subcategoryRepo.Delete(ctx, id)
	if err != nil {
		return utils.DatabaseError("delete subcategory", err)
	}
	if !deleted {
		return utils.NotFound("Subcategory not found")
	}
	return nil
}
