package models

import (
	"strings"
	"time"
)

// Layouts used when rendering times to callers.
const (
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
)

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Specialty string `json:"specialty"`
	License   string `json:"license"`
	Hospital  string `json:"hospital"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"createdAt"`
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Specialty: u.Specialty,
		License:   u.License,
		Hospital:  u.Hospital,
		Phone:     u.Phone,
		CreatedAt: formatDateTime(&u.CreatedAt),
	}
}

// AuthResponse is returned by login and registration.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	Specialty string `json:"specialty"`
	License   string `json:"license"`
	Hospital  string `json:"hospital"`
	Phone     string `json:"phone"`
}

func NewAuthResponse(token string, u *User) AuthResponse {
	return AuthResponse{
		Token:     token,
		Type:      "Bearer",
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Specialty: u.Specialty,
		License:   u.License,
		Hospital:  u.Hospital,
		Phone:     u.Phone,
	}
}

type PatientResponse struct {
	ID                       string   `json:"id"`
	UserID                   uint     `json:"userId"`
	Name                     string   `json:"name"`
	DOB                      string   `json:"dob"`
	Gender                   string   `json:"gender"`
	BloodGroup               string   `json:"bloodGroup"`
	Phone                    string   `json:"phone"`
	Email                    string   `json:"email"`
	Address                  string   `json:"address"`
	InsuranceID              string   `json:"insuranceId"`
	Allergies                []string `json:"allergies"`
	ChronicConditions        []string `json:"chronicConditions"`
	EmergencyContactName     string   `json:"emergencyContactName"`
	EmergencyContactRelation string   `json:"emergencyContactRelation"`
	EmergencyContactPhone    string   `json:"emergencyContactPhone"`
}

func (p *Patient) Response() PatientResponse {
	return PatientResponse{
		ID:                       p.ID,
		UserID:                   p.UserID,
		Name:                     p.Name,
		DOB:                      formatDate(p.DOB),
		Gender:                   p.Gender,
		BloodGroup:               p.BloodGroup,
		Phone:                    p.Phone,
		Email:                    p.Email,
		Address:                  p.Address,
		InsuranceID:              p.InsuranceID,
		Allergies:                nonNil(p.Allergies),
		ChronicConditions:        nonNil(p.ChronicConditions),
		EmergencyContactName:     p.EmergencyContactName,
		EmergencyContactRelation: p.EmergencyContactRelation,
		EmergencyContactPhone:    p.EmergencyContactPhone,
	}
}

// PatientSummary is the emergency view a clinician gets when scanning a patient's code.
type PatientSummary struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	DOB                      string   `json:"dob"`
	Gender                   string   `json:"gender"`
	BloodGroup               string   `json:"bloodGroup"`
	Allergies                []string `json:"allergies"`
	ChronicConditions        []string `json:"chronicConditions"`
	EmergencyContactName     string   `json:"emergencyContactName"`
	EmergencyContactRelation string   `json:"emergencyContactRelation"`
	EmergencyContactPhone    string   `json:"emergencyContactPhone"`
	Phone                    string   `json:"phone"`
	Email                    string   `json:"email"`
}

func (p *Patient) Summary() PatientSummary {
	return PatientSummary{
		ID:                       p.ID,
		Name:                     p.Name,
		DOB:                      formatDate(p.DOB),
		Gender:                   p.Gender,
		BloodGroup:               p.BloodGroup,
		Allergies:                nonNil(p.Allergies),
		ChronicConditions:        nonNil(p.ChronicConditions),
		EmergencyContactName:     p.EmergencyContactName,
		EmergencyContactRelation: p.EmergencyContactRelation,
		EmergencyContactPhone:    p.EmergencyContactPhone,
		Phone:                    p.Phone,
		Email:                    p.Email,
	}
}

type AppointmentResponse struct {
	ID              uint   `json:"id"`
	PatientID       string `json:"patientId"`
	PatientName     string `json:"patientName"`
	DoctorID        uint   `json:"doctorId"`
	DoctorName      string `json:"doctorName"`
	DoctorSpecialty string `json:"doctorSpecialty"`
	DoctorHospital  string `json:"doctorHospital"`
	Reason          string `json:"reason"`
	Status          string `json:"status"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	CreatedAt       string `json:"createdAt"`
}

// Response renders the appointment with live patient and doctor names when they are loaded.
func (a *Appointment) Response() AppointmentResponse {
	r := AppointmentResponse{
		ID:        a.ID,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
		Reason:    a.Reason,
		Status:    strings.ToLower(string(a.Status)),
		StartTime: formatDateTime(&a.StartTime),
		EndTime:   formatDateTime(a.EndTime),
		CreatedAt: formatDateTime(&a.CreatedAt),
	}
	if a.Patient != nil {
		r.PatientName = a.Patient.Name
	}
	if a.Doctor != nil {
		r.DoctorName = a.Doctor.Name
		r.DoctorSpecialty = a.Doctor.Specialty
		r.DoctorHospital = a.Doctor.Hospital
	}
	return r
}

type MedicationItem struct {
	Name         string `json:"name"`
	Dose         string `json:"dose"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type PrescriptionResponse struct {
	ID              string           `json:"id"`
	PatientID       string           `json:"patientId"`
	PatientName     string           `json:"patientName"`
	DoctorID        uint             `json:"doctorId"`
	DoctorName      string           `json:"doctorName"`
	DoctorSpecialty string           `json:"doctorSpecialty"`
	DoctorLicense   string           `json:"doctorLicense"`
	DoctorHospital  string           `json:"doctorHospital"`
	DoctorPhone     string           `json:"doctorPhone"`
	VisitReason     string           `json:"visitReason"`
	Symptoms        string           `json:"symptoms"`
	Diagnosis       string           `json:"diagnosis"`
	Notes           string           `json:"notes"`
	FollowUp        string           `json:"followUp"`
	Status          string           `json:"status"`
	IssuedAt        string           `json:"issuedAt"`
	Medications     []MedicationItem `json:"medications"`
	LabTests        []string         `json:"labTests"`
}

// Response renders the prescription. Doctor fields come from the issuance snapshot,
// never from the doctor's current profile.
func (p *Prescription) Response() PrescriptionResponse {
	r := PrescriptionResponse{
		ID:              p.ID,
		PatientID:       p.PatientID,
		DoctorID:        p.DoctorID,
		DoctorName:      p.IssuedBy.Name,
		DoctorSpecialty: p.IssuedBy.Specialty,
		DoctorLicense:   p.IssuedBy.License,
		DoctorHospital:  p.IssuedBy.Hospital,
		DoctorPhone:     p.IssuedBy.Phone,
		VisitReason:     p.VisitReason,
		Symptoms:        p.Symptoms,
		Diagnosis:       p.Diagnosis,
		Notes:           p.Notes,
		FollowUp:        p.FollowUp,
		Status:          strings.ToLower(string(p.Status)),
		IssuedAt:        formatDateTime(&p.IssuedAt),
		Medications:     make([]MedicationItem, 0, len(p.Medications)),
		LabTests:        nonNil(p.LabTests),
	}
	if p.Patient != nil {
		r.PatientName = p.Patient.Name
	}
	for _, m := range p.Medications {
		r.Medications = append(r.Medications, MedicationItem{
			Name:         m.Name,
			Dose:         m.Dose,
			Frequency:    m.Frequency,
			Duration:     m.Duration,
			Instructions: m.Instructions,
		})
	}
	return r
}

type DocumentResponse struct {
	ID         string `json:"id"`
	PatientID  string `json:"patientId"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Date       string `json:"date"`
	UploadedBy string `json:"uploadedBy"`
	Size       string `json:"size"`
	FileURL    string `json:"fileUrl"`
}

func (d *Document) Response() DocumentResponse {
	return DocumentResponse{
		ID:         d.ID,
		PatientID:  d.PatientID,
		Name:       d.Name,
		Type:       d.Type,
		Date:       formatDate(&d.Date),
		UploadedBy: d.UploadedBy,
		Size:       d.Size,
		FileURL:    d.FileURL,
	}
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateTimeLayout)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
