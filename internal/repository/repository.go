// Package repository persists the clinical aggregates. Store implementations must run
// Transaction as one atomic unit: on error nothing written inside it becomes visible.
package repository

import (
	"context"
	"errors"

	"medivault-server/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
}

type PatientRepository interface {
	Create(ctx context.Context, p *models.Patient) error
	FindByID(ctx context.Context, id string) (*models.Patient, error)
	FindByUserID(ctx context.Context, userID uint) (*models.Patient, error)
	List(ctx context.Context) ([]models.Patient, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, a *models.Appointment) error
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error)
	UpdateStatus(ctx context.Context, id uint, status models.AppointmentStatus) error
	CountByPatient(ctx context.Context, patientID string) (int64, error)
	CountByDoctor(ctx context.Context, doctorID uint) (int64, error)
}

type PrescriptionRepository interface {
	// Create inserts the prescription together with its medication lines.
	Create(ctx context.Context, p *models.Prescription) error
	FindByID(ctx context.Context, id string) (*models.Prescription, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]models.Prescription, error)
	UpdateStatus(ctx context.Context, id string, status models.PrescriptionStatus) error
	Count(ctx context.Context) (int64, error)
	CountByPatient(ctx context.Context, patientID string) (int64, error)
	CountByDoctor(ctx context.Context, doctorID uint) (int64, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, d *models.Document) error
	FindByID(ctx context.Context, id string) (*models.Document, error)
	ListByPatient(ctx context.Context, patientID string) ([]models.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByPatient(ctx context.Context, patientID string) (int64, error)
}

// Store groups the repositories that share one storage engine.
type Store interface {
	Users() UserRepository
	Patients() PatientRepository
	Appointments() AppointmentRepository
	Prescriptions() PrescriptionRepository
	Documents() DocumentRepository

	// Transaction runs fn against a Store bound to a single unit of work.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
