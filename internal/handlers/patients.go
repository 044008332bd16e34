package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

type PatientHandler struct {
	Service *services.PatientService
	Log     *zap.Logger
}

func NewPatientHandler(svc *services.PatientService, log *zap.Logger) *PatientHandler {
	return &PatientHandler{Service: svc, Log: log}
}

func (h *PatientHandler) GetPatients(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	patients, err := h.Service.List(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, patients)
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	patient, err := h.Service.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, patient)
}

func (h *PatientHandler) GetPatientByUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		return
	}
	patient, err := h.Service.GetByUser(c.Request.Context(), p, userID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, patient)
}

// GetSummary serves the emergency summary behind a patient's QR code.
func (h *PatientHandler) GetSummary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	summary, err := h.Service.Summary(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, summary)
}
