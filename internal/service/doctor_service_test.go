package service_test

import (
	"context"
	"testing"

	"doutoragenda/internal/dto"
	"doutoragenda/internal/model"
	"doutoragenda/internal/repository"
	"doutoragenda/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*model.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[uuid.UUID]*model.Doctor)}
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	d, ok := r.doctors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *fakeDoctorRepo) FindByCrm(_ context.Context, crm string) (*model.Doctor, error) {
	for _, d := range r.doctors {
		if d.Crm == crm {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeDoctorRepo) List(_ context.Context, clinicID uuid.UUID, specialty string) ([]model.Doctor, error) {
	var out []model.Doctor
	for _, d := range r.doctors {
		if d.ClinicID != clinicID || !d.Active {
			continue
		}
		if specialty != "" && d.Specialty != specialty {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error {
	r.doctors[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if d, ok := r.doctors[id]; ok {
		d.Active = active
	}
	return nil
}

var _ repository.DoctorRepository = (*fakeDoctorRepo)(nil)

func TestCreateDoctor(t *testing.T) {
	svc := service.NewDoctorService(newFakeDoctorRepo())

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreateDoctorRequest{
		Name:                  "Dr. Carlos Lima",
		Crm:                   "CRM-SP-123456",
		Specialty:             "cardiology",
		AppointmentPriceCents: 25000,
	})

	require.NoError(t, err)
	assert.Equal(t, "Dr. Carlos Lima", resp.Name)
	assert.Equal(t, int64(25000), resp.AppointmentPriceCents)
	assert.True(t, resp.Active)
}

func TestCreateDoctorDuplicateCrm(t *testing.T) {
	svc := service.NewDoctorService(newFakeDoctorRepo())

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreateDoctorRequest{
		Name: "Dr. Carlos Lima", Crm: "CRM-SP-123456", Specialty: "cardiology",
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), uuid.New(), dto.CreateDoctorRequest{
		Name: "Dr. Ana Prado", Crm: "CRM-SP-123456", Specialty: "dermatology",
	})
	assert.ErrorIs(t, err, service.ErrCrmTaken)
}

func TestListDoctorsBySpecialty(t *testing.T) {
	svc := service.NewDoctorService(newFakeDoctorRepo())
	clinicID := uuid.New()

	_, err := svc.Create(context.Background(), clinicID, dto.CreateDoctorRequest{
		Name: "Dr. Carlos Lima", Crm: "CRM-SP-1", Specialty: "cardiology",
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), clinicID, dto.CreateDoctorRequest{
		Name: "Dr. Ana Prado", Crm: "CRM-SP-2", Specialty: "dermatology",
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background(), clinicID, "cardiology")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Dr. Carlos Lima", list[0].Name)
}

func TestUpdateDoctorPrice(t *testing.T) {
	svc := service.NewDoctorService(newFakeDoctorRepo())

	created, err := svc.Create(context.Background(), uuid.New(), dto.CreateDoctorRequest{
		Name: "Dr. Carlos Lima", Crm: "CRM-SP-1", Specialty: "cardiology",
		AppointmentPriceCents: 20000,
	})
	require.NoError(t, err)

	newPrice := int64(30000)
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdateDoctorRequest{
		AppointmentPriceCents: &newPrice,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, updated.AppointmentPriceCents)
}

func TestGetDoctorNotFound(t *testing.T) {
	svc := service.NewDoctorService(newFakeDoctorRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrDoctorNotFound)
}
