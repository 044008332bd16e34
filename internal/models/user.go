package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

func (r Role) IsValid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User represents an authenticated identity. Role is assigned once at creation.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role      Role      `gorm:"size:20;not null;index" json:"role"`

	// Doctor-only attributes
	Specialty string `gorm:"size:150" json:"specialty"`
	License   string `gorm:"size:100" json:"license"`
	Hospital  string `gorm:"size:200" json:"hospital"`

	Phone string `gorm:"size:50" json:"phone"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// ClearDoctorAttributes drops specialty, license and hospital unless the user is a doctor.
func (u *User) ClearDoctorAttributes() {
	if u.Role == RoleDoctor {
		return
	}
	u.Specialty = ""
	u.License = ""
	u.Hospital = ""
}
