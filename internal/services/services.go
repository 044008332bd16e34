// Package services holds the business operations of the API. Every operation
// re-checks the authorization policy and every mutation runs in one transaction.
package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
	"medivault-server/internal/utils"
)

// Services bundles the operation sets served by the HTTP layer.
type Services struct {
	Auth          *AuthService
	Patients      *PatientService
	Appointments  *AppointmentService
	Prescriptions *PrescriptionService
	Documents     *DocumentService
	Admin         *AdminService
}

func New(store repository.Store, tokens *utils.TokenService, log *zap.Logger, m *metrics.Collector) *Services {
	return &Services{
		Auth:          NewAuthService(store, tokens, log, m),
		Patients:      NewPatientService(store, log),
		Appointments:  NewAppointmentService(store, log, m),
		Prescriptions: NewPrescriptionService(store, log, m),
		Documents:     NewDocumentService(store, log, m),
		Admin:         NewAdminService(store, log),
	}
}

// resolvePatient loads the patient record an operation is scoped to. A PATIENT
// caller is compared against their own record before anything else is looked
// up, so a foreign id is refused whether or not it exists.
func resolvePatient(ctx context.Context, store repository.Store, p policy.Principal, patientID string) (*models.Patient, error) {
	if p.IsPatient() {
		own, err := store.Patients().FindByUserID(ctx, p.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			own, err = nil, nil
		}
		if err != nil {
			return nil, err
		}
		if err := policy.AuthorizePatientRecord(p, own, patientID); err != nil {
			return nil, err
		}
		return own, nil
	}

	patient, err := store.Patients().FindByID(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "Patient not found: %s", patientID)
	}
	return patient, err
}

// ownerOf returns the user id owning patientID, or 0 when the record is gone.
func ownerOf(ctx context.Context, store repository.Store, patientID string) (uint, error) {
	patient, err := store.Patients().FindByID(ctx, patientID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return patient.UserID, nil
}
