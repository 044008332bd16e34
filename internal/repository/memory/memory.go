// Package memory is a process-local Store used for development and tests.
// Transactions run against a private copy of the data, which replaces the shared
// copy only when the unit of work succeeds.
package memory

import (
	"context"
	"sync"
	"time"

	"medivault-server/internal/models"
	"medivault-server/internal/repository"
)

type state struct {
	users         map[uint]models.User
	patients      map[string]models.Patient
	appointments  map[uint]models.Appointment
	prescriptions map[string]models.Prescription
	documents     map[string]models.Document

	nextUserID        uint
	nextAppointmentID uint
	nextMedicationID  uint
}

func newState() *state {
	return &state{
		users:         make(map[uint]models.User),
		patients:      make(map[string]models.Patient),
		appointments:  make(map[uint]models.Appointment),
		prescriptions: make(map[string]models.Prescription),
		documents:     make(map[string]models.Document),
	}
}

// clone copies the maps. Stored values are never mutated in place, so the
// copies may share them.
func (s *state) clone() *state {
	c := *s
	c.users = cloneMap(s.users)
	c.patients = cloneMap(s.patients)
	c.appointments = cloneMap(s.appointments)
	c.prescriptions = cloneMap(s.prescriptions)
	c.documents = cloneMap(s.documents)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

type Store struct {
	mu   sync.RWMutex
	data *state
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newState(), now: func() time.Time { return time.Now().UTC() }}
}

// WithClock sets the time source used for storage-maintained timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Patients() repository.PatientRepository           { return patientRepo{s} }
func (s *Store) Appointments() repository.AppointmentRepository   { return appointmentRepo{s} }
func (s *Store) Prescriptions() repository.PrescriptionRepository { return prescriptionRepo{s} }
func (s *Store) Documents() repository.DocumentRepository         { return documentRepo{s} }

// Transaction holds the write lock for the whole unit of work, so transactions
// are serialized and readers see either the old or the new state.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Store{data: s.data.clone(), now: s.now}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = tx.data
	return nil
}

func (s *Store) read(fn func(d *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

func (s *Store) write(fn func(d *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}
