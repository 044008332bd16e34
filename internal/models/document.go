package models

import "time"

// DefaultDocumentSize is recorded when the uploader does not report one.
const DefaultDocumentSize = "0 KB"

// Document holds descriptive metadata of a patient file. The content itself lives at FileURL.
type Document struct {
	BaseModel
	PatientID  string    `gorm:"type:varchar(48);not null;index" json:"patientId"`
	Patient    *Patient  `gorm:"foreignKey:PatientID" json:"-"`
	Name       string    `gorm:"size:255" json:"name"`
	Type       string    `gorm:"size:100" json:"type"`
	Date       time.Time `gorm:"type:date;index" json:"date"`
	UploadedBy string    `gorm:"size:150" json:"uploadedBy"`
	Size       string    `gorm:"size:50" json:"size"`
	FileURL    string    `gorm:"size:1024" json:"fileUrl"`
}
