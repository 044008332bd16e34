// Package policy decides whether an authenticated caller may run an operation.
package policy

import (
	"errors"

	"medivault-server/internal/models"
)

// ErrForbidden is returned for both role and ownership denials so callers cannot tell them apart.
var ErrForbidden = errors.New("access denied")

// Principal is the verified caller of a request.
type Principal struct {
	UserID uint
	Role   models.Role
}

func (p Principal) IsPatient() bool { return p.Role == models.RolePatient }

// RoleSet is an explicit allow-list. There is no implied hierarchy between roles.
type RoleSet map[models.Role]struct{}

func Roles(roles ...models.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Contains(r models.Role) bool {
	_, ok := s[r]
	return ok
}

// Operation names a protected action and the roles allowed to run it.
type Operation struct {
	Name  string
	Roles RoleSet
}

var (
	anyone = Roles(models.RolePatient, models.RoleDoctor, models.RoleAdmin)
	staff  = Roles(models.RoleDoctor, models.RoleAdmin)
	admin  = Roles(models.RoleAdmin)
)

var (
	AuthProfile = Operation{"auth.profile", anyone}
	UserDoctors = Operation{"user.doctors", anyone}

	PatientList       = Operation{"patient.list", staff}
	PatientSummary    = Operation{"patient.summary", staff}
	PatientRead       = Operation{"patient.read", anyone}
	PatientReadByUser = Operation{"patient.read_by_user", anyone}

	AppointmentCreate       = Operation{"appointment.create", anyone}
	AppointmentListPatient  = Operation{"appointment.list_patient", anyone}
	AppointmentListDoctor   = Operation{"appointment.list_doctor", staff}
	AppointmentUpdateStatus = Operation{"appointment.update_status", staff}

	PrescriptionCreate       = Operation{"prescription.create", staff}
	PrescriptionUpdateStatus = Operation{"prescription.update_status", staff}
	PrescriptionListDoctor   = Operation{"prescription.list_doctor", staff}
	PrescriptionRead         = Operation{"prescription.read", anyone}
	PrescriptionListPatient  = Operation{"prescription.list_patient", anyone}

	DocumentCreate      = Operation{"document.create", anyone}
	DocumentListPatient = Operation{"document.list_patient", anyone}
	DocumentDelete      = Operation{"document.delete", admin}

	AdminUsers      = Operation{"admin.users", admin}
	AdminDeleteUser = Operation{"admin.delete_user", admin}
	AdminStats      = Operation{"admin.stats", admin}
)

// Authorize allows the call iff the principal's role is in the operation's set.
func Authorize(p Principal, op Operation) error {
	if !op.Roles.Contains(p.Role) {
		return ErrForbidden
	}
	return nil
}

// AuthorizePatientRecord decides whether the caller may act on the patient
// record requestedID. own is the caller's own record, nil when they have none.
// Only PATIENT callers are restricted; they may only name the record they own.
func AuthorizePatientRecord(p Principal, own *models.Patient, requestedID string) error {
	if !p.IsPatient() {
		return nil
	}
	if own == nil || !own.OwnedBy(p.UserID) || own.ID != requestedID {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner restricts PATIENT callers to records owned by their own identity.
// Other roles pass unconditionally.
func AuthorizeOwner(p Principal, ownerUserID uint) error {
	if p.IsPatient() && (ownerUserID == 0 || ownerUserID != p.UserID) {
		return ErrForbidden
	}
	return nil
}
