package repository

import (
	"context"

	"gorm.io/gorm"

	"medivault-server/internal/models"
)

type documentRepo struct {
	db *gorm.DB
}

func (r *documentRepo) Create(ctx context.Context, d *models.Document) error {
	return translate(r.db.WithContext(ctx).Omit("Patient").Create(d).Error, "creating document")
}

func (r *documentRepo) FindByID(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, translate(err, "finding document")
	}
	return &d, nil
}

func (r *documentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Document, error) {
	var list []models.Document
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("date DESC, id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err, "listing patient documents")
	}
	return list, nil
}

func (r *documentRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Document{})
	if res.Error != nil {
		return translate(res.Error, "deleting document")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *documentRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &models.Document{}, "counting documents", "")
}

func (r *documentRepo) CountByPatient(ctx context.Context, patientID string) (int64, error) {
	return count(ctx, r.db, &models.Document{}, "counting patient documents", "patient_id = ?", patientID)
}
