package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astrocrm/internal/models/request_models"
	"astrocrm/internal/services"
	"astrocrm/pkg/utils"
)

type CategoryController struct {
	categoryService    services.CategoryServiceInterface
	subcategoryService services.SubcategoryServiceInterface
}

func NewCategoryController(categoryService services.CategoryServiceInterface, subcategoryService services.SubcategoryServiceInterface) *CategoryController {
	return &CategoryController{
		categoryService:    categoryService,
		subcategoryService: subcategoryService,
	}
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CategoryRequest true "Category"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/categories [post]
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req request_models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	category, err := cc.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, category, "Category created successfully")
}

// ListCategories godoc
// @Summary List categories
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/categories [get]
func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.categoryService.List(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, categories, "")
}

// GetCategory godoc
// @Summary One category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/categories/{id} [get]
func (cc *CategoryController) GetCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid category id")
	if !ok {
		return
	}

	category, err := cc.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, category, "")
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Param request body request_models.CategoryRequest true "Category"
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/categories/{id} [put]
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid category id")
	if !ok {
		return
	}

	var req request_models.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	category, err := cc.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, category, "Category updated successfully")
}

// DeleteCategory godoc
// @Summary Delete a category and its subcategories
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Category ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/categories/{id} [delete]
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid category id")
	if !ok {
		return
	}

	if err := cc.categoryService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Category deleted successfully")
}

// CreateSubcategory godoc
// @Summary Create a subcategory
// @Tags Subcategories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.SubcategoryRequest true "Subcategory"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/subcategories [post]
func (cc *CategoryController) CreateSubcategory(c *gin.Context) {
	var req request_models.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sub, err := cc.subcategoryService.Create(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, sub, "Subcategory created successfully")
}

// ListSubcategories godoc
// @Summary List subcategories
// @Tags Subcategories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/subcategories [get]
func (cc *CategoryController) ListSubcategories(c *gin.Context) {
	subs, err := cc.subcategoryService.List(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, subs, "")
}

// ListSubcategoriesByCategory godoc
// @Summary Subcategories of one category
// @Tags Subcategories
// @Produce json
// @Security BearerAuth
// @Param categoryId path string true "Category ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/subcategories/category/{categoryId} [get]
func (cc *CategoryController) ListSubcategoriesByCategory(c *gin.Context) {
	categoryID, ok := uuidParam(c, "categoryId", "Invalid category id")
	if !ok {
		return
	}

	subs, err := cc.subcategoryService.ListByCategory(c.Request.Context(), categoryID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, subs, "")
}

// GetSubcategory godoc
// @Summary One subcategory
// @Tags Subcategories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subcategory ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/subcategories/{id} [get]
func (cc *CategoryController) GetSubcategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid subcategory id")
	if !ok {
		return
	}

	sub, err := cc.subcategoryService.Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "")
}

// UpdateSubcategory godoc
// @Summary Update a subcategory
// @Tags Subcategories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subcategory ID"
// @Param request body request_models.SubcategoryRequest true "Subcategory"
// @Success 200 {object} utils.APIResponse
// @Router /api/subcategories/{id} [put]
func (cc *CategoryController) UpdateSubcategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid subcategory id")
	if !ok {
		return
	}

	var req request_models.SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	sub, err := cc.subcategoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, sub, "Subcategory updated successfully")
}

// DeleteSubcategory godoc
// @Summary Delete a subcategory
// @Tags Subcategories
// @Produce json
// @Security BearerAuth
// @Param id path string true "Subcategory ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/subcategories/{id} [delete]
func (cc *CategoryController) DeleteSubcategory(c *gin.Context) {
	id, ok := uuidParam(c, "id", "Invalid subcategory id")
	if !ok {
		return
	}

	if err := cc.subcategoryService.Delete(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Subcategory deleted successfully")
}
