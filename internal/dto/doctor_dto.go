package dto

type CreateDoctorRequest struct {
	Name                  string  `json:"name"      validate:"required,min=3"`
	Crm                   string  `json:"crm"       validate:"required,min=4"`
	Specialty             string  `json:"specialty" validate:"required"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"     validate:"omitempty,email"`
	AppointmentPriceCents int64   `json:"appointment_price_cents" validate:"min=0"`
}

type UpdateDoctorRequest struct {
	Name                  *string `json:"name"      validate:"omitempty,min=3"`
	Specialty             *string `json:"specialty"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"     validate:"omitempty,email"`
	AppointmentPriceCents *int64  `json:"appointment_price_cents" validate:"omitempty,min=0"`
}

type DoctorResponse struct {
	ID                    string  `json:"id"`
	ClinicID              string  `json:"clinic_id"`
	Name                  string  `json:"name"`
	Crm                   string  `json:"crm"`
	Specialty             string  `json:"specialty"`
	Phone                 *string `json:"phone,omitempty"`
	Email                 *string `json:"email,omitempty"`
	AppointmentPriceCents int64   `json:"appointment_price_cents"`
	Active                bool    `json:"active"`
	CreatedAt             string  `json:"created_at"`
}
