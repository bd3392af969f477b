package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"astrocrm/internal/access"
	"astrocrm/pkg/middleware"
	"astrocrm/pkg/utils"
)

// caller returns the identity set by the auth middleware. Routes reaching a
// controller without one are misconfigured, so the request is refused.
func caller(c *gin.Context) (access.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "Not authenticated")
	}
	return id, ok
}

func uuidParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, message)
		return uuid.Nil, false
	}
	return id, true
}
