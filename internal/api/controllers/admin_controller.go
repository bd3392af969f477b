package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astrocrm/internal/models/request_models"
	"astrocrm/internal/services"
	"astrocrm/pkg/utils"
)

type AdminController struct {
	adminService services.AdminServiceInterface
}

func NewAdminController(adminService services.AdminServiceInterface) *AdminController {
	return &AdminController{adminService: adminService}
}

// ListAccounts godoc
// @Summary List accounts
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "pending, approved or rejected"
// @Param role query string false "admin or user"
// @Success 200 {object} utils.APIResponse
// @Router /api/admin/users [get]
func (a *AdminController) ListAccounts(c *gin.Context) {
	var req request_models.ListAccountsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	resp, err := a.adminService.ListAccounts(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// PendingAccounts godoc
// @Summary Accounts awaiting approval, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/admin/users/pending [get]
func (a *AdminController) PendingAccounts(c *gin.Context) {
	resp, err := a.adminService.PendingAccounts(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}

// Approve godoc
// @Summary Approve an account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/admin/users/{userId}/approve [put]
func (a *AdminController) Approve(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	target, ok := uuidParam(c, "userId", "Invalid user id")
	if !ok {
		return
	}

	resp, err := a.adminService.Approve(c.Request.Context(), admin, target)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "User approved successfully")
}

// Reject godoc
// @Summary Reject an account
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Account ID"
// @Param request body request_models.RejectAccountRequest false "Rejection reason"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/admin/users/{userId}/reject [put]
func (a *AdminController) Reject(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	target, ok := uuidParam(c, "userId", "Invalid user id")
	if !ok {
		return
	}

	// The body is optional; a missing reason falls back to the default.
	var req request_models.RejectAccountRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	resp, err := a.adminService.Reject(c.Request.Context(), admin, target, req.Reason)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "User rejected successfully")
}

// DeleteAccount godoc
// @Summary Delete an account
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Account ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/admin/users/{userId} [delete]
func (a *AdminController) DeleteAccount(c *gin.Context) {
	admin, ok := caller(c)
	if !ok {
		return
	}
	target, ok := uuidParam(c, "userId", "Invalid user id")
	if !ok {
		return
	}

	if err := a.adminService.DeleteAccount(c.Request.Context(), admin, target); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "User deleted successfully")
}

// Stats godoc
// @Summary Account statistics by status and role
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/admin/stats [get]
func (a *AdminController) Stats(c *gin.Context) {
	resp, err := a.adminService.Stats(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, resp, "")
}
