package models

import "time"

// Patient is the clinical-subject record owned by exactly one PATIENT user.
type Patient struct {
	BaseModel
	UserID uint  `gorm:"uniqueIndex;not null" json:"userId"`
	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	Name        string     `gorm:"size:150;not null" json:"name"`
	DOB         *time.Time `gorm:"type:date" json:"dob"`
	Gender      string     `gorm:"size:20" json:"gender"`
	BloodGroup  string     `gorm:"size:10" json:"bloodGroup"`
	Phone       string     `gorm:"size:50" json:"phone"`
	Email       string     `gorm:"size:255" json:"email"`
	Address     string     `gorm:"size:255" json:"address"`
	InsuranceID string     `gorm:"size:100" json:"insuranceId"`

	Allergies         []string `gorm:"serializer:json" json:"allergies"`
	ChronicConditions []string `gorm:"serializer:json" json:"chronicConditions"`

	EmergencyContactName     string `gorm:"size:150" json:"emergencyContactName"`
	EmergencyContactRelation string `gorm:"size:50" json:"emergencyContactRelation"`
	EmergencyContactPhone    string `gorm:"size:50" json:"emergencyContactPhone"`
}

// OwnedBy reports whether the given user is the record's owning identity.
func (p *Patient) OwnedBy(userID uint) bool {
	return p.UserID != 0 && p.UserID == userID
}
