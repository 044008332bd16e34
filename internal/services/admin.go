package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
)

type AdminService struct {
	store repository.Store
	log   *zap.Logger
}

func NewAdminService(store repository.Store, log *zap.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

// Stats are the dashboard counters.
type Stats struct {
	Users         int64 `json:"users"`
	Patients      int64 `json:"patients"`
	Prescriptions int64 `json:"prescriptions"`
	Documents     int64 `json:"documents"`
	Doctors       int64 `json:"doctors"`
}

func (s *AdminService) Users(ctx context.Context, p policy.Principal) ([]models.UserSanitized, error) {
	if err := policy.Authorize(p, policy.AdminUsers); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		out = append(out, users[i].Sanitize())
	}
	return out, nil
}

// DeleteUser removes an identity that no clinical record points at, together
// with its patient record if it has one.
func (s *AdminService) DeleteUser(ctx context.Context, p policy.Principal, id uint) error {
	if err := policy.Authorize(p, policy.AdminDeleteUser); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fail(ErrNotFound, "User not found: %d", id)
			}
			return err
		}

		refs, err := sumCounts(
			func() (int64, error) { return tx.Appointments().CountByDoctor(ctx, id) },
			func() (int64, error) { return tx.Prescriptions().CountByDoctor(ctx, id) },
		)
		if err != nil {
			return err
		}

		patient, err := tx.Patients().FindByUserID(ctx, id)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			patient = nil
		case err != nil:
			return err
		}
		if patient != nil {
			n, err := sumCounts(
				func() (int64, error) { return tx.Appointments().CountByPatient(ctx, patient.ID) },
				func() (int64, error) { return tx.Prescriptions().CountByPatient(ctx, patient.ID) },
				func() (int64, error) { return tx.Documents().CountByPatient(ctx, patient.ID) },
			)
			if err != nil {
				return err
			}
			refs += n
		}
		if refs > 0 {
			return fail(ErrConflict, "User %d is referenced by %d clinical records and cannot be deleted", id, refs)
		}

		if patient != nil {
			if err := tx.Patients().Delete(ctx, patient.ID); err != nil {
				return err
			}
		}
		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", zap.Uint("user_id", id), zap.Uint("by_user_id", p.UserID))
	return nil
}

func (s *AdminService) Stats(ctx context.Context, p policy.Principal) (*Stats, error) {
	if err := policy.Authorize(p, policy.AdminStats); err != nil {
		return nil, err
	}
	var st Stats
	counters := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&st.Users, func() (int64, error) { return s.store.Users().Count(ctx) }},
		{&st.Patients, func() (int64, error) { return s.store.Patients().Count(ctx) }},
		{&st.Prescriptions, func() (int64, error) { return s.store.Prescriptions().Count(ctx) }},
		{&st.Documents, func() (int64, error) { return s.store.Documents().Count(ctx) }},
		{&st.Doctors, func() (int64, error) { return s.store.Users().CountByRole(ctx, models.RoleDoctor) }},
	}
	for _, c := range counters {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return &st, nil
}

func sumCounts(fns ...func() (int64, error)) (int64, error) {
	var total int64
	for _, fn := range fns {
		n, err := fn()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}
