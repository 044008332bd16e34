package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medivault-server/internal/services"
	"medivault-server/internal/utils"
)

type DocumentHandler struct {
	Service *services.DocumentService
	Log     *zap.Logger
}

func NewDocumentHandler(svc *services.DocumentService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{Service: svc, Log: log}
}

// AddDocumentRequest describes a file already stored at FileURL.
type AddDocumentRequest struct {
	PatientID  string `json:"patientId" binding:"required"`
	Name       string `json:"name" binding:"required,max=255"`
	Type       string `json:"type" binding:"max=100"`
	UploadedBy string `json:"uploadedBy" binding:"max=150"`
	Size       string `json:"size" binding:"max=50"`
	FileURL    string `json:"fileUrl" binding:"omitempty,url,max=1024"`
}

func (h *DocumentHandler) AddDocument(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req AddDocumentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	doc, err := h.Service.Add(c.Request.Context(), p, services.AddDocumentInput(req))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Created(c, doc)
}

func (h *DocumentHandler) GetPatientDocuments(c *gin.Context) {
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

func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := h.Service.Delete(c.Request.Context(), p, c.Param("id")); err != nil {
		respondError(c, h.Log, err)
		return
	}
	utils.Success(c, messageResponse{Message: "Document deleted"})
}
