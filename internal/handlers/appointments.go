package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	Service *services.AppointmentService
	Log     *zap.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(svc *services.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Service: svc, Log: log}
}

// CreateAppointmentRequest represents the request body for creating an appointment.
// Required fields are checked by the service so the error names all three at once.
// A client-supplied status is accepted and ignored.
type CreateAppointmentRequest struct {
	PatientID string `json:"patientId"`
	DoctorID  uint   `json:"doctorId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Reason    string `json:"reason" binding:"max=255"`
	Status    string `json:"status"`
}

// CreateAppointment handles creating a new appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, err := h.Service.Create(c.Request.Context(), p, services.CreateAppointmentInput{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	})
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, appt)
}

func (h *AppointmentHandler) GetPatientAppointments(c *gin.Context) {
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

func (h *AppointmentHandler) GetDoctorAppointments(c *gin.Context) {
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

// UpdateAppointmentStatus moves an appointment to the status in the body.
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	appt, err := h.Service.UpdateStatus(c.Request.Context(), p, id, req.Status)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, appt)
}
