package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/middleware"
	"medivault-server/internal/policy"
	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

// respondError maps a service error onto its HTTP status. Anything unrecognised
// is logged and reported as a bare 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid email or password")
	case errors.Is(err, services.ErrInvalidToken):
		utils.Unauthorized(c, "Invalid or expired token")
	case errors.Is(err, services.ErrForbidden):
		utils.Forbidden(c, "Access denied")
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrConflict):
		utils.BadRequest(c, err.Error())
	default:
		log.Error("unhandled error",
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
		)
		_ = c.Error(err)
		utils.InternalServerError(c, "Internal server error")
	}
}

// principal returns the authenticated caller, answering 401 when there is none.
func principal(c *gin.Context) (policy.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "Authentication required")
	}
	return p, ok
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		utils.Error(c, http.StatusBadRequest, "Invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return uint(v), true
}

type statusRequest struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}
