package dto

type CreatePatientRequest struct {
	Name      string  `json:"name"       validate:"required,min=3"`
	Cpf       *string `json:"cpf"        validate:"omitempty,len=11,numeric"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Sex       *string `json:"sex"        validate:"omitempty,oneof=male female"`
	Notes     *string `json:"notes"`
}

type UpdatePatientRequest struct {
	Name      *string `json:"name"       validate:"omitempty,min=3"`
	Cpf       *string `json:"cpf"        validate:"omitempty,len=11,numeric"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	BirthDate *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Sex       *string `json:"sex"        validate:"omitempty,oneof=male female"`
	Notes     *string `json:"notes"`
}

type PatientResponse struct {
	ID        string  `json:"id"`
	ClinicID  string  `json:"clinic_id"`
	Name      string  `json:"name"`
	Cpf       *string `json:"cpf,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
}
