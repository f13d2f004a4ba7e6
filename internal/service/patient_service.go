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

var ErrPatientNotFound = errors.New("patient not found")

type PatientService interface {
	Create(ctx context.Context, clinicID uuid.UUID, req dto.CreatePatientRequest) (*dto.PatientResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	List(ctx context.Context, clinicID uuid.UUID, search string, page, limit int) ([]dto.PatientResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePatientRequest) (*dto.PatientResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type patientService struct {
	repo repository.PatientRepository
}

func NewPatientService(repo repository.PatientRepository) PatientService {
	return &patientService{repo: repo}
}

func (s *patientService) Create(ctx context.Context, clinicID uuid.UUID, req dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	p := &model.Patient{
		ClinicID: clinicID,
		Name:     req.Name,
		Cpf:      req.Cpf,
		Phone:    req.Phone,
		Email:    req.Email,
		Sex:      req.Sex,
		Notes:    req.Notes,
		Active:   true,
	}
	if req.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, errors.New("invalid birth_date")
		}
		p.BirthDate = &bd
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := buildPatientResponse(p)
	return &resp, nil
}

func (s *patientService) Get(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	resp := buildPatientResponse(p)
	return &resp, nil
}

func (s *patientService) List(ctx context.Context, clinicID uuid.UUID, search string, page, limit int) ([]dto.PatientResponse, int64, error) {
	patients, total, err := s.repo.List(ctx, clinicID, search, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		out = append(out, buildPatientResponse(&patients[i]))
	}
	return out, total, nil
}

func (s *patientService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrPatientNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Cpf != nil {
		p.Cpf = req.Cpf
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Sex != nil {
		p.Sex = req.Sex
	}
	if req.Notes != nil {
		p.Notes = req.Notes
	}
	if req.BirthDate != nil {
		bd, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, errors.New("invalid birth_date")
		}
		p.BirthDate = &bd
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := buildPatientResponse(p)
	return &resp, nil
}

func (s *patientService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *patientService) Reactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetActive(ctx, id, true)
}

func buildPatientResponse(p *model.Patient) dto.PatientResponse {
	resp := dto.PatientResponse{
		ID:        p.ID.String(),
		ClinicID:  p.ClinicID.String(),
		Name:      p.Name,
		Cpf:       p.Cpf,
		Phone:     p.Phone,
		Email:     p.Email,
		Sex:       p.Sex,
		Notes:     p.Notes,
		Active:    p.Active,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.BirthDate != nil {
		bd := p.BirthDate.Format("2006-01-02")
		resp.BirthDate = &bd
	}
	return resp
}
