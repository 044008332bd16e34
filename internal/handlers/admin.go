package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

type AdminHandler struct {
	Service *services.AdminService
	Log     *zap.Logger
}

func NewAdminHandler(svc *services.AdminService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{Service: svc, Log: log}
}

func (h *AdminHandler) GetUsers(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	users, err := h.Service.Users(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, users)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.Service.DeleteUser(c.Request.Context(), p, id); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, messageResponse{Message: "User deleted"})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	stats, err := h.Service.Stats(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, stats)
}
