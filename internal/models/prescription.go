package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// PrescriptionStatus represents the lifecycle state of a prescription.
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "ACTIVE"
	PrescriptionCompleted PrescriptionStatus = "COMPLETED"
	PrescriptionCancelled PrescriptionStatus = "CANCELLED"
)

// ParsePrescriptionStatus matches one of the known statuses in any letter case.
func ParsePrescriptionStatus(s string) (PrescriptionStatus, bool) {
	st := PrescriptionStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case PrescriptionActive, PrescriptionCompleted, PrescriptionCancelled:
		return st, true
	}
	return "", false
}

// DoctorSnapshot is a by-value copy of the issuing doctor's profile taken at issuance.
// It is never re-synced with the live user record.
type DoctorSnapshot struct {
	Name      string `gorm:"size:150"`
	Specialty string `gorm:"size:150"`
	License   string `gorm:"size:100"`
	Hospital  string `gorm:"size:200"`
	Phone     string `gorm:"size:50"`
}

// SnapshotDoctor copies the profile fields of u.
func SnapshotDoctor(u *User) DoctorSnapshot {
	return DoctorSnapshot{
		Name:      u.Name,
		Specialty: u.Specialty,
		License:   u.License,
		Hospital:  u.Hospital,
		Phone:     u.Phone,
	}
}

// Prescription is the aggregate root for a visit's diagnosis and its medication lines.
type Prescription struct {
	BaseModel
	PatientID string   `gorm:"type:varchar(48);not null;index"`
	Patient   *Patient `gorm:"foreignKey:PatientID"`
	DoctorID  uint     `gorm:"not null;index"`
	Doctor    *User    `gorm:"foreignKey:DoctorID"`

	IssuedBy DoctorSnapshot `gorm:"embedded;embeddedPrefix:doctor_"`

	VisitReason string `gorm:"size:255"`
	Symptoms    string `gorm:"type:text"`
	Diagnosis   string `gorm:"size:255;not null"`
	Notes       string `gorm:"type:text"`
	FollowUp    string `gorm:"size:255"`

	Status   PrescriptionStatus `gorm:"size:20;not null;default:'ACTIVE';index"`
	IssuedAt time.Time          `gorm:"not null;index"`

	Medications []Medication `gorm:"foreignKey:PrescriptionID;constraint:OnDelete:CASCADE"`
	LabTests    []string     `gorm:"serializer:json"`
}

// BeforeCreate validates the business id and stamps IssuedAt exactly once.
func (p *Prescription) BeforeCreate(tx *gorm.DB) error {
	if err := p.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if p.IssuedAt.IsZero() {
		p.IssuedAt = time.Now().UTC()
	}
	return nil
}

// Medication is a line of a prescription. It has no lifecycle outside its parent.
type Medication struct {
	ID             uint   `gorm:"primaryKey"`
	PrescriptionID string `gorm:"type:varchar(48);not null;index"`
	Position       int    `gorm:"not null"`
	Name           string `gorm:"size:200;not null"`
	Dose           string `gorm:"size:100"`
	Frequency      string `gorm:"size:100"`
	Duration       string `gorm:"size:100"`
	Instructions   string `gorm:"type:text"`
}
