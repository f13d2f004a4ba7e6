package repository

import (
	"context"

	"doutoragenda/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *model.Doctor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	FindByCrm(ctx context.Context, crm string) (*model.Doctor, error)
	List(ctx context.Context, clinicID uuid.UUID, specialty string) ([]model.Doctor, error)
	Update(ctx context.Context, d *model.Doctor) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type doctorRepo struct{ db *gorm.DB }

func NewDoctorRepository(db *gorm.DB) DoctorRepository { return &doctorRepo{db: db} }

func (r *doctorRepo) Create(ctx context.Context, d *model.Doctor) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *doctorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var d model.Doctor
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepo) FindByCrm(ctx context.Context, crm string) (*model.Doctor, error) {
	var d model.Doctor
	err := r.db.WithContext(ctx).First(&d, "crm = ?", crm).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorRepo) List(ctx context.Context, clinicID uuid.UUID, specialty string) ([]model.Doctor, error) {
	var doctors []model.Doctor
	q := r.db.WithContext(ctx).Where("clinic_id = ? AND active = true", clinicID)
	if specialty != "" {
		q = q.Where("specialty = ?", specialty)
	}
	err := q.Order("name ASC").Find(&doctors).Error
	return doctors, err
}

func (r *doctorRepo) Update(ctx context.Context, d *model.Doctor) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *doctorRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Doctor{}).
		Where("id = ?", id).
		Update("active", active).Error
}
