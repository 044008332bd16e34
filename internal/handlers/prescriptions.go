package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

type PrescriptionHandler struct {
	Service *services.PrescriptionService
	Log     *zap.Logger
}

func NewPrescriptionHandler(svc *services.PrescriptionService, log *zap.Logger) *PrescriptionHandler {
	return &PrescriptionHandler{Service: svc, Log: log}
}

type MedicationRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Dose         string `json:"dose" binding:"max=100"`
	Frequency    string `json:"frequency" binding:"max=100"`
	Duration     string `json:"duration" binding:"max=100"`
	Instructions string `json:"instructions"`
}

// CreatePrescriptionRequest has no doctor field: the issuer is always the caller.
type CreatePrescriptionRequest struct {
	PatientID   string              `json:"patientId" binding:"required"`
	VisitReason string              `json:"visitReason" binding:"max=255"`
	Symptoms    string              `json:"symptoms"`
	Diagnosis   string              `json:"diagnosis" binding:"required,max=255"`
	Notes       string              `json:"notes"`
	FollowUp    string              `json:"followUp" binding:"max=255"`
	Medications []MedicationRequest `json:"medications" binding:"dive"`
	LabTests    []string            `json:"labTests"`
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CreatePrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	in := services.CreatePrescriptionInput{
		PatientID:   req.PatientID,
		VisitReason: req.VisitReason,
		Symptoms:    req.Symptoms,
		Diagnosis:   req.Diagnosis,
		Notes:       req.Notes,
		FollowUp:    req.FollowUp,
		LabTests:    req.LabTests,
	}
	for _, m := range req.Medications {
		in.Medications = append(in.Medications, services.MedicationInput(m))
	}

	rx, err := h.Service.Create(c.Request.Context(), p, in)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, rx)
}

func (h *PrescriptionHandler) GetPrescription(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rx, err := h.Service.Get(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, rx)
}

func (h *PrescriptionHandler) GetPatientPrescriptions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := h.Service.ListByPatient(c.Request.Context(), p, c.Param("patientId"))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, list)
}

func (h *PrescriptionHandler) GetDoctorPrescriptions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	doctorID, ok := parseUintParam(c, "doctorId")
	if !ok {
		return
	}
	list, err := h.Service.ListByDoctor(c.Request.Context(), p, doctorID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, list)
}

func (h *PrescriptionHandler) UpdatePrescriptionStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req statusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	rx, err := h.Service.UpdateStatus(c.Request.Context(), p, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, rx)
}
