package repository

import (
	"context"

	"gorm.io/gorm"

	"medivault-server/internal/models"
)

type appointmentRepo struct {
	db *gorm.DB
}

func (r *appointmentRepo) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Patient").Preload("Doctor")
}

func (r *appointmentRepo) Create(ctx context.Context, a *models.Appointment) error {
	return translate(r.db.WithContext(ctx).Omit("Patient", "Doctor").Create(a).Error, "creating appointment")
}

func (r *appointmentRepo) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var a models.Appointment
	if err := r.withRelations(ctx).First(&a, id).Error; err != nil {
		return nil, translate(err, "finding appointment")
	}
	return &a, nil
}

func (r *appointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.withRelations(ctx).
		Where("patient_id = ?", patientID).
		Order("start_time DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "listing patient appointments")
	}
	return list, nil
}

func (r *appointmentRepo) ListByDoctor(ctx context.Context, doctorID uint) ([]models.Appointment, error) {
	var list []models.Appointment
	err := r.withRelations(ctx).
		Where("doctor_id = ?", doctorID).
		Order("start_time ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "listing doctor appointments")
	}
	return list, nil
}

func (r *appointmentRepo) UpdateStatus(ctx context.Context, id uint, status models.AppointmentStatus) error {
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Update("status", status).Error
	return translate(err, "updating appointment status")
}

func (r *appointmentRepo) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return count(ctx, r.db, &models.Appointment{}, "counting patient appointments", "patient_id = ?", patientID)
}

func (r *appointmentRepo) CountByDoctor(ctx context.Context, doctorID uint) (int64, error) {
	return count(ctx, r.db, &models.Appointment{}, "counting doctor appointments", "doctor_id = ?", doctorID)
}
