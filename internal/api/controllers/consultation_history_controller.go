package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astrocrm/internal/models/request_models"
	"astrocrm/internal/services"
	"astrocrm/pkg/utils"
)

type ConsultationHistoryController struct {
	historyService services.ConsultationHistoryServiceInterface
}

func NewConsultationHistoryController(historyService services.ConsultationHistoryServiceInterface) *ConsultationHistoryController {
	return &ConsultationHistoryController{historyService: historyService}
}

type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// Add godoc
// @Summary Log a session against a consultation
// @Tags Consultation history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param consultationId path string true "Consultation ID"
// @Param request body request_models.ConsultationHistoryRequest true "Session"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultation-history/consultation/{consultationId} [post]
func (h *ConsultationHistoryController) Add(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	consultationID, ok := uuidParam(c, "consultationId", "Invalid consultation id")
	if !ok {
		return
	}

	var req request_models.ConsultationHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	entry, err := h.historyService.Add(c.Request.Context(), identity, consultationID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, entry, "Consultation history added successfully")
}

// ListForConsultation godoc
// @Summary Sessions of one consultation, newest first
// @Tags Consultation history
// @Produce json
// @Security BearerAuth
// @Param consultationId path string true "Consultation ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /api/consultation-history/consultation/{consultationId} [get]
func (h *ConsultationHistoryController) ListForConsultation(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	consultationID, ok := uuidParam(c, "consultationId", "Invalid consultation id")
	if !ok {
		return
	}

	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.historyService.ListForConsultation(c.Request.Context(), identity, consultationID, q.Page, q.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// ListMine godoc
// @Summary Sessions across the caller's consultations
// @Tags Consultation history
// @Produce json
// @Security BearerAuth
// @Param consultationId query string false "Restrict to one consultation"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /api/consultation-history/my [get]
func (h *ConsultationHistoryController) ListMine(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var q request_models.HistoryListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	page, err := h.historyService.ListMine(c.Request.Context(), identity, q)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// Get godoc
// @Summary One session
// @Tags Consultation history
// @Produce json
// @Security BearerAuth
// @Param historyId path string true "History entry ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/consultation-history/{historyId} [get]
func (h *ConsultationHistoryController) Get(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	historyID, ok := uuidParam(c, "historyId", "Invalid history id")
	if !ok {
		return
	}

	entry, err := h.historyService.Get(c.Request.Context(), identity, historyID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "")
}

// Update godoc
// @Summary Update a session
// @Tags Consultation history
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param historyId path string true "History entry ID"
// @Param request body request_models.ConsultationHistoryUpdateRequest true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Router /api/consultation-history/{historyId} [put]
func (h *ConsultationHistoryController) Update(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	historyID, ok := uuidParam(c, "historyId", "Invalid history id")
	if !ok {
		return
	}

	var req request_models.ConsultationHistoryUpdateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
			return
		}
	}

	entry, err := h.historyService.Update(c.Request.Context(), identity, historyID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Consultation history updated successfully")
}

// Delete godoc
// @Summary Delete a session
// @Tags Consultation history
// @Produce json
// @Security BearerAuth
// @Param historyId path string true "History entry ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/consultation-history/{historyId} [delete]
func (h *ConsultationHistoryController) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	historyID, ok := uuidParam(c, "historyId", "Invalid history id")
	if !ok {
		return
	}

	if err := h.historyService.Delete(c.Request.Context(), identity, historyID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Consultation history deleted successfully")
}
