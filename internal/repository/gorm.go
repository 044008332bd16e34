package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore returns a Store backed by db. The connection should be opened with
// TranslateError so unique violations surface as ErrDuplicate.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository                 { return &userRepo{db: s.db} }
func (s *gormStore) Patients() PatientRepository           { return &patientRepo{db: s.db} }
func (s *gormStore) Appointments() AppointmentRepository   { return &appointmentRepo{db: s.db} }
func (s *gormStore) Prescriptions() PrescriptionRepository { return &prescriptionRepo{db: s.db} }
func (s *gormStore) Documents() DocumentRepository         { return &documentRepo{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// translate maps driver-level errors onto the package sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func count(ctx context.Context, db *gorm.DB, model any, op string, query string, args ...any) (int64, error) {
	var n int64
	q := db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err, op)
	}
	return n, nil
}
