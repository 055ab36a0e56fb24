package handlers

import (
	"net/http"
	"strconv"

	"taskerhub/internal/events"
	"taskerhub/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

var (
	jwtSecret string
	publisher *events.Publisher
)

// Configure wires process-level dependencies into the handlers package.
// Called once from router setup.
func Configure(secret string, pub *events.Publisher) {
	jwtSecret = secret
	publisher = pub
}

// RespondError sends standard error payload with request_id included.
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		RespondError(c, http.StatusBadRequest, "empty body", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return false
	}
	return true
}

// pathID parses a positive integer path parameter; 0 means invalid (an error
// response was already written).
func pathID(c *gin.Context, name string) int64 {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid "+name, err)
		return 0
	}
	return id
}

// paging reads limit/offset query params with defaults.
func paging(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
