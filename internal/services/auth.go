package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
	"medivault-server/internal/utils"
)

// dummyHash is compared against when the email is unknown, so both failure
// paths spend the same bcrypt work.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("medivault-dummy-password"), bcrypt.DefaultCost)
	return h
})

type AuthService struct {
	store   repository.Store
	tokens  *utils.TokenService
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewAuthService(store repository.Store, tokens *utils.TokenService, log *zap.Logger, m *metrics.Collector) *AuthService {
	return &AuthService{store: store, tokens: tokens, log: log, metrics: m}
}

type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Role      string
	Specialty string
	License   string
	Hospital  string
	Phone     string
}

// Login verifies the credentials and issues a session token. Unknown email and
// wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	user, err := s.store.Users().FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		s.metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn("failed login attempt", zap.Uint("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	s.metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	resp := models.NewAuthResponse(token, user)
	return &resp, nil
}

// Register creates an identity. A PATIENT identity gets its patient record in
// the same transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, fail(ErrInvalidRole, "Invalid role: %s", in.Role)
	}

	user := &models.User{
		Name:      strings.TrimSpace(in.Name),
		Email:     in.Email,
		Role:      role,
		Specialty: in.Specialty,
		License:   in.License,
		Hospital:  in.Hospital,
		Phone:     in.Phone,
	}
	user.ClearDoctorAttributes()
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		exists, err := tx.Users().ExistsByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return fail(ErrConflict, "Email already registered: %s", in.Email)
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return fail(ErrConflict, "Email already registered: %s", in.Email)
			}
			return err
		}

		if role != models.RolePatient {
			return nil
		}
		return tx.Patients().Create(ctx, &models.Patient{
			BaseModel: models.BaseModel{ID: models.NewID(models.PatientIDPrefix)},
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RegistrationsTotal.WithLabelValues(string(role)).Inc()
	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(role)))

	token, _, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}
	resp := models.NewAuthResponse(token, user)
	return &resp, nil
}

// Profile returns the caller's own identity.
func (s *AuthService) Profile(ctx context.Context, p policy.Principal) (*models.UserSanitized, error) {
	if err := policy.Authorize(p, policy.AuthProfile); err != nil {
		return nil, err
	}
	user, err := s.store.Users().FindByID(ctx, p.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	out := user.Sanitize()
	return &out, nil
}

// Doctors lists every DOCTOR identity, for booking.
func (s *AuthService) Doctors(ctx context.Context, p policy.Principal) ([]models.UserSanitized, error) {
	if err := policy.Authorize(p, policy.UserDoctors); err != nil {
		return nil, err
	}
	doctors, err := s.store.Users().ListByRole(ctx, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSanitized, 0, len(doctors))
	for i := range doctors {
		out = append(out, doctors[i].Sanitize())
	}
	return out, nil
}
