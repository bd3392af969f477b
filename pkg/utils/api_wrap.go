package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

const loggerKey = "logger"

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

// WithLogger attaches the application logger to the request so error responses are logged through it.
func WithLogger(c *gin.Context, log *logrus.Logger) {
	c.Set(loggerKey, log)
}

func requestLogger(c *gin.Context) *logrus.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if log, ok := v.(*logrus.Logger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	respondError(c, code, message, nil)
}

func respondError(c *gin.Context, code int, message string, data interface{}) {
	c.AbortWithStatusJSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

// HandleServiceError translates a service error into the HTTP status of its kind.
// Messages of ServiceError values are shown verbatim; anything else is logged and hidden.
func HandleServiceError(c *gin.Context, err error) {
	message := "Internal server error"
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		respondError(c, http.StatusBadRequest, "Invalid credentials", nil)
	case errors.Is(err, ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, message, nil)
	case errors.Is(err, ErrAccountNotApproved):
		var status string
		if svcErr != nil {
			status = svcErr.Status
		}
		respondError(c, http.StatusForbidden, message, gin.H{"status": status})
	case errors.Is(err, ErrForbidden):
		respondError(c, http.StatusForbidden, message, nil)
	case errors.Is(err, ErrNotFound):
		respondError(c, http.StatusNotFound, message, nil)
	case errors.Is(err, ErrConflict):
		respondError(c, http.StatusConflict, message, nil)
	case errors.Is(err, ErrValidation):
		respondError(c, http.StatusBadRequest, message, nil)
	case errors.Is(err, ErrInvalidPage):
		respondError(c, http.StatusBadRequest, "Page must be greater than 0", nil)
	case errors.Is(err, ErrInvalidPageSize):
		respondError(c, http.StatusBadRequest, "Page size must be between 1 and 100", nil)
	case errors.Is(err, ErrDatabaseError):
		requestLogger(c).WithError(err).WithField("trace_id", traceID(c)).Error("Database error")
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	default:
		requestLogger(c).WithError(err).WithField("trace_id", traceID(c)).Error("Unhandled service error")
		respondError(c, http.StatusInternalServerError, "Internal server error", nil)
	}
}
