package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

// UserHandler serves the directory of users other roles may look up.
type UserHandler struct {
	Service *services.AuthService
	Log     *zap.Logger
}

func NewUserHandler(svc *services.AuthService, log *zap.Logger) *UserHandler {
	return &UserHandler{Service: svc, Log: log}
}

// GetDoctors lists the doctors a patient can book with.
func (h *UserHandler) GetDoctors(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	doctors, err := h.Service.Doctors(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, doctors)
}
