package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Prefixes of business-assigned identifiers.
const (
	PatientIDPrefix      = "P"
	PrescriptionIDPrefix = "RX"
	DocumentIDPrefix     = "DOC"
)

// ErrMissingID is returned when a business-keyed record reaches the database without an id.
var ErrMissingID = errors.New("business id must be assigned before insert")

// BaseModel contains common columns for tables keyed by a business-assigned string id.
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(48)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate refuses to insert a row whose id was not chosen by the creating operation.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		return ErrMissingID
	}
	return nil
}

// NewID generates a business id such as "RX-0190f3c2-...". The UUIDv7 suffix is time-ordered,
// so ids sort by creation and are unique per call.
func NewID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + "-" + strings.ToUpper(id.String())
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// InitDB opens the configured SQL dialect, sizes the pool and migrates the schema.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case "mysql":
		dialector = mysql.Open(config.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{DSN: config.DSN})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables of every persisted model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Patient{},
		&Appointment{},
		&Prescription{},
		&Medication{},
		&Document{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}
	return nil
}
