package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"astrocrm/internal/models/db_models"
	"astrocrm/internal/models/request_models"
	"astrocrm/internal/repositories"
	"astrocrm/internal/testutil"
	"astrocrm/pkg/utils"
)

func TestCategory_NamesAreUniqueIgnoringCase(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCategoryService(repositories.NewCategoryRepository(db))
	ctx := context.Background()

	career, err := svc.Create(ctx, request_models.CategoryRequest{Name: "  Career "})
	require.NoError(t, err)
	assert.Equal(t, "Career", career.Name)

	_, err = svc.Create(ctx, request_models.CategoryRequest{Name: "CAREER"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	health, err := svc.Create(ctx, request_models.CategoryRequest{Name: "Health"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, health.ID, request_models.CategoryRequest{Name: "career"})
	assert.ErrorIs(t, err, utils.ErrConflict)

	renamed, err := svc.Update(ctx, health.ID, request_models.CategoryRequest{Name: "health"})
	require.NoError(t, err, "renaming to a different case of its own name is allowed")
	assert.Equal(t, "health", renamed.Name)

	_, err = svc.Create(ctx, request_models.CategoryRequest{Name: " "})
	assert.ErrorIs(t, err, utils.ErrValidation)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCategory_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	categories := repositories.NewCategoryRepository(db)
	svc := NewCategoryService(categories)
	subs := NewSubcategoryService(repositories.NewSubcategoryRepository(db), categories)
	ctx := context.Background()

	owner := testutil.SeedAccount(t, db, "alice@example.com", db_models.RoleUser, db_models.StatusApproved)
	career, err := svc.Create(ctx, request_models.CategoryRequest{Name: "Career"})
	require.NoError(t, err)
	_, err = subs.Create(ctx, request_models.SubcategoryRequest{Name: "Promotion", CategoryID: career.ID.String()})
	require.NoError(t, err)

	consultations := repositories.NewConsultationRepository(db)
	c := &db_models.Consultation{
		Name: "Ravi", DateOfBirth: mustDate(t, "1990-05-17"), TimeOfBirth: "06:30", PlaceOfBirth: "Varanasi",
		Phone: "1", Status: db_models.ConsultationPending, CreatedBy: owner.ID,
		Categories: []db_models.Category{*career},
	}
	require.NoError(t, consultations.Create(ctx, c))

	require.NoError(t, svc.Delete(ctx, career.ID))

	_, err = svc.Get(ctx, career.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	remaining, err := subs.ListByCategory(ctx, career.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	reloaded, err := consultations.FindById(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Empty(t, reloaded.Categories)

	assert.ErrorIs(t, svc.Delete(ctx, career.ID), utils.ErrNotFound)
}

func TestSubcategory_ScopedToCategory(t *testing.T) {
	db := testutil.NewDB(t)
	categories := repositories.NewCategoryRepository(db)
	catSvc := NewCategoryService(categories)
	svc := NewSubcategoryService(repositories.NewSubcategoryRepository(db), categories)
	ctx := context.Background()

	career, err := catSvc.Create(ctx, request_models.CategoryRequest{Name: "Career"})
	require.NoError(t, err)
	health, err := catSvc.Create(ctx, request_models.CategoryRequest{Name: "Health"})
	require.NoError(t, err)

	promotion, err := svc.Create(ctx, request_models.SubcategoryRequest{Name: "Promotion", CategoryID: career.ID.String()})
	require.NoError(t, err)
	require.NotNil(t, promotion.Category)
	assert.Equal(t, "Career", promotion.Category.Name)

	_, err = svc.Create(ctx, request_models.SubcategoryRequest{Name: "promotion", CategoryID: career.ID.String()})
	assert.ErrorIs(t, err, utils.ErrConflict)

	_, err = svc.Create(ctx, request_models.SubcategoryRequest{Name: "Promotion", CategoryID: health.ID.String()})
	require.NoError(t, err, "the same name may exist under another category")

	_, err = svc.Create(ctx, request_models.SubcategoryRequest{Name: "Diet", CategoryID: uuid.NewString()})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = svc.Create(ctx, request_models.SubcategoryRequest{Name: "Diet", CategoryID: "not-a-uuid"})
	assert.ErrorIs(t, err, utils.ErrValidation)

	underCareer, err := svc.ListByCategory(ctx, career.ID)
	require.NoError(t, err)
	assert.Len(t, underCareer, 1)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	moved, err := svc.Update(ctx, promotion.ID, request_models.SubcategoryRequest{Name: "Promotion", CategoryID: health.ID.String()})
	assert.ErrorIs(t, err, utils.ErrConflict)
	assert.Nil(t, moved)

	renamed, err := svc.Update(ctx, promotion.ID, request_models.SubcategoryRequest{Name: "Job change", CategoryID: career.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "Job change", renamed.Name)

	require.NoError(t, svc.Delete(ctx, promotion.ID))
	_, err = svc.Get(ctx, promotion.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
