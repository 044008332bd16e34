package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"medivault-server/internal/metrics"
	"medivault-server/internal/models"
	"medivault-server/internal/policy"
	"medivault-server/internal/repository"
)

// Accepted ISO-8601 local date-times. Fractional seconds are accepted by the
// second layout as well.
var dateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDateTime(s string) (time.Time, error) {
	var err error
	for _, layout := range dateTimeLayouts {
		var t time.Time
		if t, err = time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

type AppointmentService struct {
	store   repository.Store
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewAppointmentService(store repository.Store, log *zap.Logger, m *metrics.Collector) *AppointmentService {
	return &AppointmentService{store: store, log: log, metrics: m}
}

type CreateAppointmentInput struct {
	PatientID string
	DoctorID  uint
	StartTime string
	EndTime   string
	Reason    string
}

// Create books an appointment. The initial status is always REQUESTED.
func (s *AppointmentService) Create(ctx context.Context, p policy.Principal, in CreateAppointmentInput) (*models.AppointmentResponse, error) {
	if err := policy.Authorize(p, policy.AppointmentCreate); err != nil {
		return nil, err
	}
	in.PatientID = strings.TrimSpace(in.PatientID)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	if in.PatientID == "" || in.DoctorID == 0 || in.StartTime == "" {
		return nil, fail(ErrMissingField, "patientId, doctorId and startTime are required")
	}

	var created *models.Appointment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := resolvePatient(ctx, tx, p, in.PatientID); err != nil {
			return err
		}

		doctor, err := tx.Users().FindByID(ctx, in.DoctorID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(ErrNotFound, "Doctor not found: %d", in.DoctorID)
		}
		if err != nil {
			return err
		}
		if doctor.Role != models.RoleDoctor {
			return fail(ErrInvalidRole, "Selected user is not a doctor")
		}

		start, err := parseDateTime(in.StartTime)
		if err != nil {
			return fail(ErrInvalidFormat, "Invalid date format. Use ISO-8601, e.g. 2026-03-02T10:30")
		}
		var end *time.Time
		if in.EndTime != "" {
			t, err := parseDateTime(in.EndTime)
			if err != nil {
				return fail(ErrInvalidFormat, "Invalid date format. Use ISO-8601, e.g. 2026-03-02T10:30")
			}
			if t.Before(start) {
				return fail(ErrInvalidRange, "End time cannot be before start time")
			}
			end = &t
		}

		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = models.DefaultAppointmentReason
		}
		a := &models.Appointment{
			PatientID: in.PatientID,
			DoctorID:  doctor.ID,
			StartTime: start,
			EndTime:   end,
			Reason:    reason,
			Status:    models.AppointmentRequested,
		}
		if err := tx.Appointments().Create(ctx, a); err != nil {
			return err
		}
		created, err = tx.Appointments().FindByID(ctx, a.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AppointmentsBooked.Inc()
	s.log.Info("appointment booked",
		zap.Uint("appointment_id", created.ID),
		zap.String("patient_id", created.PatientID),
		zap.Uint("doctor_id", created.DoctorID),
	)
	out := created.Response()
	return &out, nil
}

func (s *AppointmentService) ListByPatient(ctx context.Context, p policy.Principal, patientID string) ([]models.AppointmentResponse, error) {
	if err := policy.Authorize(p, policy.AppointmentListPatient); err != nil {
		return nil, err
	}
	if _, err := resolvePatient(ctx, s.store, p, patientID); err != nil {
		return nil, err
	}
	list, err := s.store.Appointments().ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return appointmentResponses(list), nil
}

func (s *AppointmentService) ListByDoctor(ctx context.Context, p policy.Principal, doctorID uint) ([]models.AppointmentResponse, error) {
	if err := policy.Authorize(p, policy.AppointmentListDoctor); err != nil {
		return nil, err
	}
	list, err := s.store.Appointments().ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return appointmentResponses(list), nil
}

// UpdateStatus moves the appointment to any of the known statuses. There is no
// transition table.
func (s *AppointmentService) UpdateStatus(ctx context.Context, p policy.Principal, id uint, status string) (*models.AppointmentResponse, error) {
	if err := policy.Authorize(p, policy.AppointmentUpdateStatus); err != nil {
		return nil, err
	}

	var updated *models.Appointment
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Appointments().FindByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fail(ErrNotFound, "Appointment not found: %d", id)
			}
			return err
		}
		st, ok := models.ParseAppointmentStatus(status)
		if !ok {
			return fail(ErrInvalidStatus, "Invalid status: %s", status)
		}
		if err := tx.Appointments().UpdateStatus(ctx, id, st); err != nil {
			return err
		}
		var err error
		updated, err = tx.Appointments().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := updated.Response()
	return &out, nil
}

func appointmentResponses(list []models.Appointment) []models.AppointmentResponse {
	out := make([]models.AppointmentResponse, 0, len(list))
	for i := range list {
		out = append(out, list[i].Response())
	}
	return out
}
