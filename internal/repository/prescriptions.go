package repository

import (
	"context"

	"gorm.io/gorm"

	"medivault-server/internal/models"
)

type prescriptionRepo struct {
	db *gorm.DB
}

func (r *prescriptionRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Medications", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

func (r *prescriptionRepo) Create(ctx context.Context, p *models.Prescription) error {
	for i := range p.Medications {
		p.Medications[i].PrescriptionID = p.ID
		p.Medications[i].Position = i
	}
	return translate(r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(p).Error, "creating prescription")
}

func (r *prescriptionRepo) FindByID(ctx context.Context, id string) (*models.Prescription, error) {
	var p models.Prescription
	if err := r.withRelations(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "finding prescription")
	}
	return &p, nil
}

func (r *prescriptionRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Prescription, error) {
	var list []models.Prescription
	err := r.withRelations(ctx).
		Where("patient_id = ?", patientID).
		Order("issued_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "listing patient prescriptions")
	}
	return list, nil
}

func (r *prescriptionRepo) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Prescription, error) {
	var list []models.Prescription
	err := r.withRelations(ctx).
		Where("doctor_id = ?", doctorID).
		Order("issued_at DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "listing doctor prescriptions")
	}
	return list, nil
}

func (r *prescriptionRepo) UpdateStatus(ctx context.Context, id string, status models.PrescriptionStatus) error {
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).Where("id = ?", id).Update("status", status).Error
	return translate(err, "updating prescription status")
}

func (r *prescriptionRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &models.Prescription{}, "counting prescriptions", "")
}

func (r *prescriptionRepo) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return count(ctx, r.db, &models.Prescription{}, "counting patient prescriptions", "patient_id = ?", patientID)
}

func (r *prescriptionRepo) CountByDoctor(ctx context.Context, doctorID uint) (int64, error) {
	return count(ctx, r.db, &models.Prescription{}, "counting doctor prescriptions", "doctor_id = ?", doctorID)
}
