package repository

import (
	"context"

	"doutoragenda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(ctx context.Context, p *model.Patient) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, search string, page, limit int) ([]model.Patient, int64, error)
	Update(ctx context.Context, p *model.Patient) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type patientRepo struct{ db *gorm.DB }

func NewPatientRepository(db *gorm.DB) PatientRepository { return &patientRepo{db: db} }

func (r *patientRepo) Create(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *patientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepo) List(ctx context.Context, clinicID uuid.UUID, search string, page, limit int) ([]model.Patient, int64, error) {
	var patients []model.Patient
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Patient{}).
		Where("clinic_id = ? AND active = true", clinicID)
	if search != "" {
		q = q.Where("name ILIKE ? OR cpf = ?", "%"+search+"%", search)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&patients).Error
	return patients, total, err
}

func (r *patientRepo) Update(ctx context.Context, p *model.Patient) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *patientRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Patient{}).
		Where("id = ?", id).
		Update("active", active).Error
}
