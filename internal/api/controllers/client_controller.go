package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"astrocrm/internal/models/request_models"
	"astrocrm/internal/services"
	"astrocrm/pkg/utils"
)

type ClientController struct {
	clientService services.ClientServiceInterface
}

func NewClientController(clientService services.ClientServiceInterface) *ClientController {
	return &ClientController{clientService: clientService}
}

// Create godoc
// @Summary Create a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.ClientRequest true "Client"
// @Success 201 {object} utils.APIResponse
// @Router /api/clients [post]
func (cc *ClientController) Create(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var req request_models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	client, err := cc.clientService.Create(c.Request.Context(), identity, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, client, "Client created successfully")
}

// List godoc
// @Summary List the caller's clients
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, phone or e-mail contains"
// @Param dob query string false "Date of birth"
// @Success 200 {object} utils.APIResponse
// @Router /api/clients [get]
func (cc *ClientController) List(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	var q request_models.ClientListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	clients, err := cc.clientService.List(c.Request.Context(), identity, q)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, clients, "")
}

// Get godoc
// @Summary A client with their consultations
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/clients/{id} [get]
func (cc *ClientController) Get(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid client id")
	if !ok {
		return
	}

	detail, err := cc.clientService.Get(c.Request.Context(), identity, id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, detail, "")
}

// Update godoc
// @Summary Update a client
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Param request body request_models.ClientRequest true "Client"
// @Success 200 {object} utils.APIResponse
// @Router /api/clients/{id} [put]
func (cc *ClientController) Update(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid client id")
	if !ok {
		return
	}

	var req request_models.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	client, err := cc.clientService.Update(c.Request.Context(), identity, id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, client, "Client updated successfully")
}

// Delete godoc
// @Summary Delete a client
// @Tags Clients
// @Produce json
// @Security BearerAuth
// @Param id path string true "Client ID"
// @Success 200 {object} utils.APIResponse
// @Router /api/clients/{id} [delete]
func (cc *ClientController) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "Invalid client id")
	if !ok {
		return
	}

	if err := cc.clientService.Delete(c.Request.Context(), identity, id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Client deleted successfully")
}
