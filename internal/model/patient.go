package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a per-clinic patient record.
type Patient struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`
	// Cpf is the Brazilian taxpayer id, digits only.
	Cpf       *string `gorm:"type:varchar(11);index"`
	Phone     *string `gorm:"type:varchar(20)"`
	Email     *string
	BirthDate *time.Time `gorm:"type:date"`
	// Sex: "male" | "female"
	Sex       *string `gorm:"type:varchar(10)"`
	Notes     *string
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
