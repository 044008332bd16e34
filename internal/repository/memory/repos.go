package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"medivault-server/internal/models"
	"medivault-server/internal/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	return r.s.write(func(d *state) error {
		for _, existing := range d.users {
			if existing.Email == u.Email {
				return fmt.Errorf("creating user: %w", repository.ErrDuplicate)
			}
		}
		d.nextUserID++
		now := r.s.now()
		u.ID, u.CreatedAt, u.UpdatedAt = d.nextUserID, now, now
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	var out models.User
	err := r.s.read(func(d *state) error {
		u, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.s.read(func(d *state) error {
		for _, u := range d.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r userRepo) List(_ context.Context) ([]models.User, error) {
	return r.filter(func(models.User) bool { return true }, func(a, b models.User) int {
		return cmpUint(a.ID, b.ID)
	}), nil
}

func (r userRepo) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.Role == role }, func(a, b models.User) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmpUint(a.ID, b.ID)
	}), nil
}

func (r userRepo) filter(keep func(models.User) bool, cmp func(a, b models.User) int) []models.User {
	var out []models.User
	_ = r.s.read(func(d *state) error {
		for _, u := range d.users {
			if keep(u) {
				out = append(out, u)
			}
		}
		return nil
	})
	slices.SortFunc(out, cmp)
	return out
}

func (r userRepo) Update(_ context.Context, u *models.User) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.users[u.ID]; !ok {
			return repository.ErrNotFound
		}
		for id, existing := range d.users {
			if id != u.ID && existing.Email == u.Email {
				return fmt.Errorf("updating user: %w", repository.ErrDuplicate)
			}
		}
		u.UpdatedAt = r.s.now()
		d.users[u.ID] = *u
		return nil
	})
}

func (r userRepo) Delete(_ context.Context, id uint) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.users[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.users, id)
		for pid, p := range d.patients {
			if p.UserID == id {
				delete(d.patients, pid)
			}
		}
		return nil
	})
}

func (r userRepo) Count(_ context.Context) (int64, error) {
	var n int64
	_ = r.s.read(func(d *state) error {
		n = int64(len(d.users))
		return nil
	})
	return n, nil
}

func (r userRepo) CountByRole(_ context.Context, role models.Role) (int64, error) {
	var n int64
	_ = r.s.read(func(d *state) error {
		for _, u := range d.users {
			if u.Role == role {
				n++
			}
		}
		return nil
	})
	return n, nil
}

type patientRepo struct{ s *Store }

func (r patientRepo) Create(_ context.Context, p *models.Patient) error {
	if err := p.BeforeCreate(nil); err != nil {
		return fmt.Errorf("creating patient: %w", err)
	}
	return r.s.write(func(d *state) error {
		if _, ok := d.patients[p.ID]; ok {
			return fmt.Errorf("creating patient: %w", repository.ErrDuplicate)
		}
		for _, existing := range d.patients {
			if existing.UserID == p.UserID {
				return fmt.Errorf("creating patient: %w", repository.ErrDuplicate)
			}
		}
		now := r.s.now()
		p.CreatedAt, p.UpdatedAt = now, now
		d.patients[p.ID] = copyPatient(*p)
		return nil
	})
}

func (r patientRepo) FindByID(_ context.Context, id string) (*models.Patient, error) {
	var out models.Patient
	err := r.s.read(func(d *state) error {
		p, ok := d.patients[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = copyPatient(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r patientRepo) FindByUserID(_ context.Context, userID uint) (*models.Patient, error) {
	var out *models.Patient
	err := r.s.read(func(d *state) error {
		for _, p := range d.patients {
			if p.UserID == userID {
				cp := copyPatient(p)
				out = &cp
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r patientRepo) List(_ context.Context) ([]models.Patient, error) {
	var out []models.Patient
	_ = r.s.read(func(d *state) error {
		for _, p := range d.patients {
			out = append(out, copyPatient(p))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b models.Patient) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (r patientRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.patients[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.patients, id)
		return nil
	})
}

func (r patientRepo) Count(_ context.Context) (int64, error) {
	var n int64
	_ = r.s.read(func(d *state) error {
		n = int64(len(d.patients))
		return nil
	})
	return n, nil
}

type appointmentRepo struct{ s *Store }

func (r appointmentRepo) Create(_ context.Context, a *models.Appointment) error {
	_ = a.BeforeCreate(nil)
	return r.s.write(func(d *state) error {
		d.nextAppointmentID++
		now := r.s.now()
		a.ID, a.CreatedAt, a.UpdatedAt = d.nextAppointmentID, now, now
		stored := *a
		stored.Patient, stored.Doctor = nil, nil
		d.appointments[a.ID] = stored
		return nil
	})
}

func (r appointmentRepo) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	var out models.Appointment
	err := r.s.read(func(d *state) error {
		a, ok := d.appointments[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = d.loadAppointment(a)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r appointmentRepo) ListByPatient(_ context.Context, patientID string) ([]models.Appointment, error) {
	out := r.list(func(a models.Appointment) bool { return a.PatientID == patientID })
	slices.SortFunc(out, func(a, b models.Appointment) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		return cmpUint(b.ID, a.ID)
	})
	return out, nil
}

func (r appointmentRepo) ListByDoctor(_ context.Context, doctorID uint) ([]models.Appointment, error) {
	out := r.list(func(a models.Appointment) bool { return a.DoctorID == doctorID })
	slices.SortFunc(out, func(a, b models.Appointment) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return cmpUint(a.ID, b.ID)
	})
	return out, nil
}

func (r appointmentRepo) list(keep func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	_ = r.s.read(func(d *state) error {
		for _, a := range d.appointments {
			if keep(a) {
				out = append(out, d.loadAppointment(a))
			}
		}
		return nil
	})
	return out
}

func (r appointmentRepo) UpdateStatus(_ context.Context, id uint, status models.AppointmentStatus) error {
	return r.s.write(func(d *state) error {
		a, ok := d.appointments[id]
		if !ok {
			return nil
		}
		a.Status, a.UpdatedAt = status, r.s.now()
		d.appointments[id] = a
		return nil
	})
}

func (r appointmentRepo) CountByPatient(_ context.Context, patientID string) (int64, error) {
	return int64(len(r.list(func(a models.Appointment) bool { return a.PatientID == patientID }))), nil
}

func (r appointmentRepo) CountByDoctor(_ context.Context, doctorID uint) (int64, error) {
	return int64(len(r.list(func(a models.Appointment) bool { return a.DoctorID == doctorID }))), nil
}

type prescriptionRepo struct{ s *Store }

func (r prescriptionRepo) Create(_ context.Context, p *models.Prescription) error {
	if err := p.BeforeCreate(nil); err != nil {
		return fmt.Errorf("creating prescription: %w", err)
	}
	return r.s.write(func(d *state) error {
		if _, ok := d.prescriptions[p.ID]; ok {
			return fmt.Errorf("creating prescription: %w", repository.ErrDuplicate)
		}
		now := r.s.now()
		p.CreatedAt, p.UpdatedAt = now, now
		if p.Status == "" {
			p.Status = models.PrescriptionActive
		}
		for i := range p.Medications {
			d.nextMedicationID++
			p.Medications[i].ID = d.nextMedicationID
			p.Medications[i].PrescriptionID = p.ID
			p.Medications[i].Position = i
		}
		stored := copyPrescription(*p)
		stored.Patient, stored.Doctor = nil, nil
		d.prescriptions[p.ID] = stored
		return nil
	})
}

func (r prescriptionRepo) FindByID(_ context.Context, id string) (*models.Prescription, error) {
	var out models.Prescription
	err := r.s.read(func(d *state) error {
		p, ok := d.prescriptions[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = d.loadPrescription(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r prescriptionRepo) ListByPatient(_ context.Context, patientID string) ([]models.Prescription, error) {
	return r.list(func(p models.Prescription) bool { return p.PatientID == patientID }), nil
}

func (r prescriptionRepo) ListByDoctor(_ context.Context, doctorID uint) ([]models.Prescription, error) {
	return r.list(func(p models.Prescription) bool { return p.DoctorID == doctorID }), nil
}

func (r prescriptionRepo) list(keep func(models.Prescription) bool) []models.Prescription {
	var out []models.Prescription
	_ = r.s.read(func(d *state) error {
		for _, p := range d.prescriptions {
			if keep(p) {
				out = append(out, d.loadPrescription(p))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b models.Prescription) int {
		if c := b.IssuedAt.Compare(a.IssuedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out
}

func (r prescriptionRepo) UpdateStatus(_ context.Context, id string, status models.PrescriptionStatus) error {
	return r.s.write(func(d *state) error {
		p, ok := d.prescriptions[id]
		if !ok {
			return nil
		}
		p.Status, p.UpdatedAt = status, r.s.now()
		d.prescriptions[id] = p
		return nil
	})
}

func (r prescriptionRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.list(func(models.Prescription) bool { return true }))), nil
}

func (r prescriptionRepo) CountByPatient(_ context.Context, patientID string) (int64, error) {
	return int64(len(r.list(func(p models.Prescription) bool { return p.PatientID == patientID }))), nil
}

func (r prescriptionRepo) CountByDoctor(_ context.Context, doctorID uint) (int64, error) {
	return int64(len(r.list(func(p models.Prescription) bool { return p.DoctorID == doctorID }))), nil
}

type documentRepo struct{ s *Store }

func (r documentRepo) Create(_ context.Context, doc *models.Document) error {
	if err := doc.BeforeCreate(nil); err != nil {
		return fmt.Errorf("creating document: %w", err)
	}
	return r.s.write(func(d *state) error {
		if _, ok := d.documents[doc.ID]; ok {
			return fmt.Errorf("creating document: %w", repository.ErrDuplicate)
		}
		now := r.s.now()
		doc.CreatedAt, doc.UpdatedAt = now, now
		stored := *doc
		stored.Patient = nil
		d.documents[doc.ID] = stored
		return nil
	})
}

func (r documentRepo) FindByID(_ context.Context, id string) (*models.Document, error) {
	var out models.Document
	err := r.s.read(func(d *state) error {
		doc, ok := d.documents[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r documentRepo) ListByPatient(_ context.Context, patientID string) ([]models.Document, error) {
	out := r.list(func(doc models.Document) bool { return doc.PatientID == patientID })
	slices.SortFunc(out, func(a, b models.Document) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r documentRepo) list(keep func(models.Document) bool) []models.Document {
	var out []models.Document
	_ = r.s.read(func(d *state) error {
		for _, doc := range d.documents {
			if keep(doc) {
				out = append(out, doc)
			}
		}
		return nil
	})
	return out
}

func (r documentRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.documents[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.documents, id)
		return nil
	})
}

func (r documentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.list(func(models.Document) bool { return true }))), nil
}

func (r documentRepo) CountByPatient(_ context.Context, patientID string) (int64, error) {
	return int64(len(r.list(func(doc models.Document) bool { return doc.PatientID == patientID }))), nil
}

// loadAppointment attaches copies of the related patient and doctor, like a preload.
func (d *state) loadAppointment(a models.Appointment) models.Appointment {
	if p, ok := d.patients[a.PatientID]; ok {
		cp := copyPatient(p)
		a.Patient = &cp
	}
	if u, ok := d.users[a.DoctorID]; ok {
		a.Doctor = &u
	}
	return a
}

func (d *state) loadPrescription(p models.Prescription) models.Prescription {
	out := copyPrescription(p)
	if pt, ok := d.patients[p.PatientID]; ok {
		cp := copyPatient(pt)
		out.Patient = &cp
	}
	slices.SortFunc(out.Medications, func(a, b models.Medication) int { return a.Position - b.Position })
	return out
}

func copyPatient(p models.Patient) models.Patient {
	p.User = nil
	p.Allergies = slices.Clone(p.Allergies)
	p.ChronicConditions = slices.Clone(p.ChronicConditions)
	if p.DOB != nil {
		dob := *p.DOB
		p.DOB = &dob
	}
	return p
}

func copyPrescription(p models.Prescription) models.Prescription {
	p.Medications = slices.Clone(p.Medications)
	p.LabTests = slices.Clone(p.LabTests)
	return p
}

func cmpUint(a, b uint) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
