package service

import (
	"context"
	"errors"
	"time"

	"doutoragenda/internal/dto"
	"doutoragenda/internal/model"
	"doutoragenda/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrCrmTaken       = errors.New("a doctor with this CRM already exists")
)

type DoctorService interface {
	Create(ctx context.Context, clinicID uuid.UUID, req dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
	List(ctx context.Context, clinicID uuid.UUID, specialty string) ([]dto.DoctorResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type doctorService struct {
	repo repository.DoctorRepository
}

func NewDoctorService(repo repository.DoctorRepository) DoctorService {
	return &doctorService{repo: repo}
}

func (s *doctorService) Create(ctx context.Context, clinicID uuid.UUID, req dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	if existing, err := s.repo.FindByCrm(ctx, req.Crm); err == nil && existing != nil {
		return nil, ErrCrmTaken
	}

	d := &model.Doctor{
		ClinicID:              clinicID,
		Name:                  req.Name,
		Crm:                   req.Crm,
		Specialty:             req.Specialty,
		Phone:                 req.Phone,
		Email:                 req.Email,
		AppointmentPriceCents: req.AppointmentPriceCents,
		Active:                true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	resp := buildDoctorResponse(d)
	return &resp, nil
}

func (s *doctorService) Get(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	resp := buildDoctorResponse(d)
	return &resp, nil
}

func (s *doctorService) List(ctx context.Context, clinicID uuid.UUID, specialty string) ([]dto.DoctorResponse, error) {
	doctors, err := s.repo.List(ctx, clinicID, specialty)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DoctorResponse, 0, len(doctors))
	for i := range doctors {
		out = append(out, buildDoctorResponse(&doctors[i]))
	}
	return out, nil
}

func (s *doctorService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrDoctorNotFound
	}
	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Specialty != nil {
		d.Specialty = *req.Specialty
	}
	if req.Phone != nil {
		d.Phone = req.Phone
	}
	if req.Email != nil {
		d.Email = req.Email
	}
	if req.AppointmentPriceCents != nil {
		d.AppointmentPriceCents = *req.AppointmentPriceCents
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	resp := buildDoctorResponse(d)
	return &resp, nil
}

func (s *doctorService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *doctorService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

func buildDoctorResponse(d *model.Doctor) dto.DoctorResponse {
	return dto.DoctorResponse{
		ID:                    d.ID.String(),
		ClinicID:              d.ClinicID.String(),
		Name:                  d.Name,
		Crm:                   d.Crm,
		Specialty:             d.Specialty,
		Phone:                 d.Phone,
		Email:                 d.Email,
		AppointmentPriceCents: d.AppointmentPriceCents,
		Active:                d.Active,
		CreatedAt:             d.CreatedAt.Format(time.RFC3339),
	}
}
