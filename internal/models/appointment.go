package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentRequested AppointmentStatus = "REQUESTED"
	AppointmentApproved  AppointmentStatus = "APPROVED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentNoShow    AppointmentStatus = "NO_SHOW"
)

// DefaultAppointmentReason is stored when a booking carries no reason.
const DefaultAppointmentReason = "Consultation"

// ParseAppointmentStatus matches one of the five known statuses in any letter case.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	st := AppointmentStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch st {
	case AppointmentRequested, AppointmentApproved, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return st, true
	}
	return "", false
}

// Appointment represents a scheduled medical appointment
type Appointment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	PatientID string     `gorm:"type:varchar(48);not null;index" json:"patientId"`
	DoctorID  uint       `gorm:"not null;index" json:"doctorId"`
	StartTime time.Time  `gorm:"not null;index" json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Reason    string     `gorm:"size:255;not null" json:"reason"`

	Status AppointmentStatus `gorm:"size:20;not null;default:'REQUESTED';index" json:"status"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  *User    `gorm:"foreignKey:DoctorID" json:"-"`
}

// BeforeCreate fills the storage defaults for status and reason.
func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = AppointmentRequested
	}
	if a.Reason == "" {
		a.Reason = DefaultAppointmentReason
	}
	return nil
}
