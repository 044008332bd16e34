package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
)

type DocumentService struct {
	store   repository.Store
	log     *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time
}

func NewDocumentService(store repository.Store, log *zap.Logger, m *metrics.Collector) *DocumentService {
	return &DocumentService{store: store, log: log, metrics: m, now: time.Now}
}

type AddDocumentInput struct {
	PatientID  string
	Name       string
	Type       string
	UploadedBy string
	Size       string
	FileURL    string
}

// Add records metadata for a file stored elsewhere. The date is today.
func (s *DocumentService) Add(ctx context.Context, p policy.Principal, in AddDocumentInput) (*models.DocumentResponse, error) {
	if err := policy.Authorize(p, policy.DocumentCreate); err != nil {
		return nil, err
	}
	patientID := strings.TrimSpace(in.PatientID)
	if patientID == "" {
		return nil, fail(ErrMissingField, "patientId is required")
	}

	var doc *models.Document
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		patient, err := resolvePatient(ctx, tx, p, patientID)
		if err != nil {
			return err
		}
		size := strings.TrimSpace(in.Size)
		if size == "" {
			size = models.DefaultDocumentSize
		}
		y, m, d := s.now().UTC().Date()
		doc = &models.Document{
			BaseModel:  models.BaseModel{ID: models.NewID(models.DocumentIDPrefix)},
			PatientID:  patient.ID,
			Name:       in.Name,
			Type:       in.Type,
			Date:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			UploadedBy: in.UploadedBy,
			Size:       size,
			FileURL:    in.FileURL,
		}
		return tx.Documents().Create(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.DocumentsAdded.Inc()
	s.log.Info("document added", zap.String("document_id", doc.ID), zap.String("patient_id", doc.PatientID))
	out := doc.Response()
	return &out, nil
}

func (s *DocumentService) ListByPatient(ctx context.Context, p policy.Principal, patientID string) ([]models.DocumentResponse, error) {
	if err := policy.Authorize(p, policy.DocumentListPatient); err != nil {
		return nil, err
	}
	if _, err := resolvePatient(ctx, s.store, p, patientID); err != nil {
		return nil, err
	}
	list, err := s.store.Documents().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	out := make([]models.DocumentResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].Response())
	}
	return out, nil
}

func (s *DocumentService) Delete(ctx context.Context, p policy.Principal, id string) error {
	if err := policy.Authorize(p, policy.DocumentDelete); err != nil {
		return err
	}
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		return tx.Documents().Delete(ctx, id)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return fail(ErrNotFound, "Document not found: %s", id)
	}
	if err != nil {
		return err
	}
	s.log.Info("document deleted", zap.String("document_id", id), zap.Uint("by_user_id", p.UserID))
	return nil
}
