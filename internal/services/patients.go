package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
)

type PatientService struct {
	store repository.Store
	log   *zap.Logger
}

func NewPatientService(store repository.Store, log *zap.Logger) *PatientService {
	return &PatientService{store: store, log: log}
}

func (s *PatientService) List(ctx context.Context, p policy.Principal) ([]models.PatientResponse, error) {
	if err := policy.Authorize(p, policy.PatientList); err != nil {
		return nil, err
	}
	patients, err := s.store.Patients().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, patients[i].Response())
	}
	return out, nil
}

func (s *PatientService) Get(ctx context.Context, p policy.Principal, id string) (*models.PatientResponse, error) {
	if err := policy.Authorize(p, policy.PatientRead); err != nil {
		return nil, err
	}
	patient, err := resolvePatient(ctx, s.store, p, id)
	if err != nil {
		return nil, err
	}
	out := patient.Response()
	return &out, nil
}

// GetByUser looks a record up by its owning identity. PATIENT callers may only
// ask for their own identity.
func (s *PatientService) GetByUser(ctx context.Context, p policy.Principal, userID uint) (*models.PatientResponse, error) {
	if err := policy.Authorize(p, policy.PatientReadByUser); err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwner(p, userID); err != nil {
		return nil, err
	}
	patient, err := s.store.Patients().FindByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Patient not found for user: %d", userID)
	}
	if err != nil {
		return nil, err
	}
	out := patient.Response()
	return &out, nil
}

// Summary returns the emergency view shown when a clinician scans the patient's code.
func (s *PatientService) Summary(ctx context.Context, p policy.Principal, id string) (*models.PatientSummary, error) {
	if err := policy.Authorize(p, policy.PatientSummary); err != nil {
		return nil, err
	}
	patient, err := resolvePatient(ctx, s.store, p, id)
	if err != nil {
		return nil, err
	}
	out := patient.Summary()
	return &out, nil
}
