package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor is a per-clinic physician record.
type Doctor struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`
	// Crm is the regional medical-council registration number.
	Crm       string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Specialty string `gorm:"not null"`
	Phone     *string
	Email     *string
	// AppointmentPriceCents is the default consultation price, in cents.
	AppointmentPriceCents int64 `gorm:"not null;default:0"`
	Active                bool  `gorm:"not null;default:true"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
