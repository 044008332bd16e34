package repository

import (
	"context"

	"gorm.io/gorm"

	"medivault-server/internal/models"
)

type patientRepo struct {
	db *gorm.DB
}

func (r *patientRepo) Create(ctx context.Context, p *models.Patient) error {
	return translate(r.db.WithContext(ctx).Omit("User").Create(p).Error, "creating patient")
}

func (r *patientRepo) FindByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "finding patient")
	}
	return &p, nil
}

func (r *patientRepo) FindByUserID(ctx context.Context, userID uint) (*models.Patient, error) {
	var p models.Patient
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err, "finding patient by user")
	}
	return &p, nil
}

func (r *patientRepo) List(ctx context.Context) ([]models.Patient, error) {
	var patients []models.Patient
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&patients).Error; err != nil {
		return nil, translate(err, "listing patients")
	}
	return patients, nil
}

func (r *patientRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Patient{})
	if res.Error != nil {
		return translate(res.Error, "deleting patient")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *patientRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &models.Patient{}, "counting patients", "")
}
