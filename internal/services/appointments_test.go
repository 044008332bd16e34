package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medivault-server/internal/models"
	"medivault-server/internal/repository"
)

func appointmentCount(t *testing.T, f *fixture, patientID string) int64 {
	return f.count(t, func(s repository.Store) (int64, error) {
		return s.Appointments().CountByPatient(context.Background(), patientID)
	})
}

func TestCreateAppointment_PatientBooksForOtherPatient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, target := range []string{f.bobID, "P-DOES-NOT-EXIST"} {
		_, err := f.svc.Appointments.Create(ctx, f.alice, CreateAppointmentInput{
			PatientID: target,
			DoctorID:  f.doctor.UserID,
			StartTime: "2026-03-02T10:30",
		})
		assert.ErrorIs(t, err, ErrForbidden, target)
	}
	assert.Zero(t, appointmentCount(t, f, f.bobID))
}

func TestCreateAppointment_PatientBooksForSelf(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Appointments.Create(context.Background(), f.alice, CreateAppointmentInput{
		PatientID: f.aliceID,
		DoctorID:  f.doctor.UserID,
		StartTime: "2026-03-02T10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "requested", resp.Status)
	assert.Equal(t, models.DefaultAppointmentReason, resp.Reason)
	assert.Equal(t, "2026-03-02T10:30:00", resp.StartTime)
	assert.Equal(t, "", resp.EndTime)
	assert.Equal(t, "Alice", resp.PatientName)
	assert.Equal(t, "Dr. House", resp.DoctorName)
}

func TestCreateAppointment_StaffBooksForAnyone(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Appointments.Create(context.Background(), f.doctor, CreateAppointmentInput{
		PatientID: f.bobID, DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30", Reason: "Follow-up",
	})
	require.NoError(t, err)
	_, err = f.svc.Appointments.Create(context.Background(), f.admin, CreateAppointmentInput{
		PatientID: f.bobID, DoctorID: f.doctor.UserID, StartTime: "2026-03-03T10:30",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, appointmentCount(t, f, f.bobID))
}

func TestCreateAppointment_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateAppointmentInput
		want error
	}{
		{"missing patient", CreateAppointmentInput{DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30"}, ErrMissingField},
		{"missing doctor", CreateAppointmentInput{PatientID: f.aliceID, StartTime: "2026-03-02T10:30"}, ErrMissingField},
		{"missing start", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: f.doctor.UserID}, ErrMissingField},
		{"unknown patient", CreateAppointmentInput{PatientID: "P-NOPE", DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30"}, ErrNotFound},
		{"unknown doctor", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: 9999, StartTime: "2026-03-02T10:30"}, ErrNotFound},
		{"not a doctor", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: f.admin.UserID, StartTime: "2026-03-02T10:30"}, ErrInvalidRole},
		{"bad start", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: "02/03/2026 10:30"}, ErrInvalidFormat},
		{"bad end", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30", EndTime: "soon"}, ErrInvalidFormat},
		{"end before start", CreateAppointmentInput{PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30", EndTime: "2026-03-02T10:29"}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Appointments.Create(ctx, f.doctor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, appointmentCount(t, f, f.aliceID))
}

func TestCreateAppointment_EndTimeBoundaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	same, err := f.svc.Appointments.Create(ctx, f.doctor, CreateAppointmentInput{
		PatientID: f.aliceID, DoctorID: f.doctor.UserID,
		StartTime: "2026-03-02T10:30", EndTime: "2026-03-02T10:30:00",
	})
	require.NoError(t, err)
	assert.Equal(t, same.StartTime, same.EndTime)

	absent, err := f.svc.Appointments.Create(ctx, f.doctor, CreateAppointmentInput{
		PatientID: f.aliceID, DoctorID: f.doctor.UserID,
		StartTime: "2026-03-02T11:00:00.250",
	})
	require.NoError(t, err)
	assert.Equal(t, "", absent.EndTime)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Appointments.Create(ctx, f.alice, CreateAppointmentInput{
		PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30",
	})
	require.NoError(t, err)

	_, err = f.svc.Appointments.UpdateStatus(ctx, f.alice, a.ID, "CANCELLED")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Appointments.UpdateStatus(ctx, f.doctor, 9999, "APPROVED")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Appointments.UpdateStatus(ctx, f.doctor, a.ID, "RESCHEDULED")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	for _, st := range []string{"completed", "Requested", "NO_SHOW", "approved"} {
		got, err := f.svc.Appointments.UpdateStatus(ctx, f.doctor, a.ID, st)
		require.NoError(t, err, st)
		assert.Equal(t, strings.ToLower(st), got.Status)
	}
}

func TestListAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, start := range []string{"2026-03-02T09:00", "2026-03-04T09:00", "2026-03-03T09:00"} {
		_, err := f.svc.Appointments.Create(ctx, f.doctor, CreateAppointmentInput{
			PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: start,
		})
		require.NoError(t, err)
	}

	mine, err := f.svc.Appointments.ListByPatient(ctx, f.alice, f.aliceID)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	assert.Equal(t, "2026-03-04T09:00:00", mine[0].StartTime)

	_, err = f.svc.Appointments.ListByPatient(ctx, f.bob, f.aliceID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Appointments.ListByDoctor(ctx, f.alice, f.doctor.UserID)
	assert.ErrorIs(t, err, ErrForbidden)

	schedule, err := f.svc.Appointments.ListByDoctor(ctx, f.doctor, f.doctor.UserID)
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	assert.Equal(t, "2026-03-02T09:00:00", schedule[0].StartTime)
}
