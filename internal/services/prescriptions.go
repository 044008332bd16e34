package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
)

type PrescriptionService struct {
	store   repository.Store
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewPrescriptionService(store repository.Store, log *zap.Logger, m *metrics.Collector) *PrescriptionService {
	return &PrescriptionService{store: store, log: log, metrics: m}
}

type MedicationInput struct {
	Name         string
	Dose         string
	Frequency    string
	Duration     string
	Instructions string
}

type CreatePrescriptionInput struct {
	PatientID   string
	VisitReason string
	Symptoms    string
	Diagnosis   string
	Notes       string
	FollowUp    string
	Medications []MedicationInput
	LabTests    []string
}

// validate checks the whole aggregate before anything is written.
func (in CreatePrescriptionInput) validate() error {
	if strings.TrimSpace(in.PatientID) == "" {
		return fail(ErrMissingField, "patientId is required")
	}
	if strings.TrimSpace(in.Diagnosis) == "" {
		return fail(ErrMissingField, "diagnosis is required")
	}
	for i, m := range in.Medications {
		if strings.TrimSpace(m.Name) == "" {
			return fail(ErrMissingField, "medications[%d].name is required", i)
		}
	}
	return nil
}

// Create issues a prescription as the authenticated caller. The caller's
// profile is copied into the prescription and never re-read afterwards.
func (s *PrescriptionService) Create(ctx context.Context, p policy.Principal, in CreatePrescriptionInput) (*models.PrescriptionResponse, error) {
	if err := policy.Authorize(p, policy.PrescriptionCreate); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *models.Prescription
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		patient, err := resolvePatient(ctx, tx, p, strings.TrimSpace(in.PatientID))
		if err != nil {
			return err
		}
		issuer, err := tx.Users().FindByID(ctx, p.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(ErrNotFound, "Doctor not found")
		}
		if err != nil {
			return err
		}

		rx := &models.Prescription{
			BaseModel:   models.BaseModel{ID: models.NewID(models.PrescriptionIDPrefix)},
			PatientID:   patient.ID,
			DoctorID:    issuer.ID,
			IssuedBy:    models.SnapshotDoctor(issuer),
			VisitReason: in.VisitReason,
			Symptoms:    in.Symptoms,
			Diagnosis:   strings.TrimSpace(in.Diagnosis),
			Notes:       in.Notes,
			FollowUp:    in.FollowUp,
			Status:      models.PrescriptionActive,
			LabTests:    in.LabTests,
			Medications: make([]models.Medication, 0, len(in.Medications)),
		}
		for _, m := range in.Medications {
			rx.Medications = append(rx.Medications, models.Medication{
				Name:         strings.TrimSpace(m.Name),
				Dose:         m.Dose,
				Frequency:    m.Frequency,
				Duration:     m.Duration,
				Instructions: m.Instructions,
			})
		}
		if err := tx.Prescriptions().Create(ctx, rx); err != nil {
			return err
		}
		created, err = tx.Prescriptions().FindByID(ctx, rx.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PrescriptionsIssued.Inc()
	s.log.Info("prescription issued",
		zap.String("prescription_id", created.ID),
		zap.String("patient_id", created.PatientID),
		zap.Uint("doctor_id", created.DoctorID),
		zap.Int("medications", len(created.Medications)),
	)
	out := created.Response()
	return &out, nil
}

// Get returns one prescription. For PATIENT callers an unknown id and a foreign
// prescription are both refused.
func (s *PrescriptionService) Get(ctx context.Context, p policy.Principal, id string) (*models.PrescriptionResponse, error) {
	if err := policy.Authorize(p, policy.PrescriptionRead); err != nil {
		return nil, err
	}
	rx, err := s.store.Prescriptions().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		if p.IsPatient() {
			return nil, ErrForbidden
		}
		return nil, fail(ErrNotFound, "Prescription not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	owner, err := ownerOf(ctx, s.store, rx.PatientID)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeOwner(p, owner); err != nil {
		return nil, err
	}
	out := rx.Response()
	return &out, nil
}

func (s *PrescriptionService) ListByPatient(ctx context.Context, p policy.Principal, patientID string) ([]models.PrescriptionResponse, error) {
	if err := policy.Authorize(p, policy.PrescriptionListPatient); err != nil {
		return nil, err
	}
	if _, err := resolvePatient(ctx, s.store, p, patientID); err != nil {
		return nil, err
	}
	list, err := s.store.Prescriptions().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return prescriptionResponses(list), nil
}

func (s *PrescriptionService) ListByDoctor(ctx context.Context, p policy.Principal, doctorID uint) ([]models.PrescriptionResponse, error) {
	if err := policy.Authorize(p, policy.PrescriptionListDoctor); err != nil {
		return nil, err
	}
	list, err := s.store.Prescriptions().ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return prescriptionResponses(list), nil
}

// UpdateStatus moves the prescription to any of the known statuses.
func (s *PrescriptionService) UpdateStatus(ctx context.Context, p policy.Principal, id, status string) (*models.PrescriptionResponse, error) {
	if err := policy.Authorize(p, policy.PrescriptionUpdateStatus); err != nil {
		return nil, err
	}

	var updated *models.Prescription
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Prescriptions().FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fail(ErrNotFound, "Prescription not found: %s", id)
			}
			return err
		}
		st, ok := models.ParsePrescriptionStatus(status)
		if !ok {
			return fail(ErrInvalidStatus, "Invalid status: %s", status)
		}
		if err := tx.Prescriptions().UpdateStatus(ctx, id, st); err != nil {
			return err
		}
		var err error
		updated, err = tx.Prescriptions().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := updated.Response()
	return &out, nil
}

func prescriptionResponses(list []models.Prescription) []models.PrescriptionResponse {
	out := make([]models.PrescriptionResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].Response())
	}
	return out
}
