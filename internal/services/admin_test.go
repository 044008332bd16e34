package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medivault-server/internal/repository"
)

func TestAdmin_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Prescriptions.Create(ctx, f.doctor, twoLineInput(f.aliceID))
	require.NoError(t, err)
	_, err = f.svc.Documents.Add(ctx, f.alice, AddDocumentInput{PatientID: f.aliceID, Name: "x"})
	require.NoError(t, err)

	st, err := f.svc.Admin.Stats(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, Stats{Users: 4, Patients: 2, Prescriptions: 1, Documents: 1, Doctors: 1}, *st)

	_, err = f.svc.Admin.Stats(ctx, f.doctor)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdmin_Users(t *testing.T) {
	f := newFixture(t)
	users, err := f.svc.Admin.Users(context.Background(), f.admin)
	require.NoError(t, err)
	require.Len(t, users, 4)
	assert.Equal(t, "admin@example.com", users[0].Email)

	_, err = f.svc.Admin.Users(context.Background(), f.alice)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAdmin_DeleteUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Appointments.Create(ctx, f.alice, CreateAppointmentInput{
		PatientID: f.aliceID, DoctorID: f.doctor.UserID, StartTime: "2026-03-02T10:30",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Admin.DeleteUser(ctx, f.doctor, f.bob.UserID), ErrForbidden)
	assert.ErrorIs(t, f.svc.Admin.DeleteUser(ctx, f.admin, f.alice.UserID), ErrConflict)
	assert.ErrorIs(t, f.svc.Admin.DeleteUser(ctx, f.admin, f.doctor.UserID), ErrConflict)
	assert.ErrorIs(t, f.svc.Admin.DeleteUser(ctx, f.admin, 9999), ErrNotFound)

	require.NoError(t, f.svc.Admin.DeleteUser(ctx, f.admin, f.bob.UserID))
	_, err = f.store.Users().FindByID(ctx, f.bob.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = f.store.Patients().FindByID(ctx, f.bobID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.store.Patients().FindByID(ctx, f.aliceID)
	assert.NoError(t, err)
}
