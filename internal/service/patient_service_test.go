package service_test

import (
	"context"
	"strings"
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

type fakePatientRepo struct {
	patients map[uuid.UUID]*model.Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]*model.Patient)}
}

func (r *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *fakePatientRepo) List(_ context.Context, clinicID uuid.UUID, search string, page, limit int) ([]model.Patient, int64, error) {
	var out []model.Patient
	for _, p := range r.patients {
		if p.ClinicID != clinicID || !p.Active {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	r.patients[p.ID] = p
	return nil
}

func (r *fakePatientRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	if p, ok := r.patients[id]; ok {
		p.Active = active
	}
	return nil
}

var _ repository.PatientRepository = (*fakePatientRepo)(nil)

func TestCreatePatient(t *testing.T) {
	svc := service.NewPatientService(newFakePatientRepo())
	cpf := "12345678901"
	birth := "1990-04-15"

	resp, err := svc.Create(context.Background(), uuid.New(), dto.CreatePatientRequest{
		Name:      "Maria Souza",
		Cpf:       &cpf,
		BirthDate: &birth,
	})

	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", resp.Name)
	assert.True(t, resp.Active)
	require.NotNil(t, resp.BirthDate)
	assert.Equal(t, "1990-04-15", *resp.BirthDate)
}

func TestCreatePatientInvalidBirthDate(t *testing.T) {
	svc := service.NewPatientService(newFakePatientRepo())
	birth := "15/04/1990"

	_, err := svc.Create(context.Background(), uuid.New(), dto.CreatePatientRequest{
		Name:      "Maria Souza",
		BirthDate: &birth,
	})
	assert.ErrorContains(t, err, "invalid birth_date")
}

func TestGetPatientNotFound(t *testing.T) {
	svc := service.NewPatientService(newFakePatientRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrPatientNotFound)
}

func TestUpdatePatient(t *testing.T) {
	repo := newFakePatientRepo()
	svc := service.NewPatientService(repo)

	created, err := svc.Create(context.Background(), uuid.New(), dto.CreatePatientRequest{Name: "Maria Souza"})
	require.NoError(t, err)

	phone := "11987654321"
	updated, err := svc.Update(context.Background(), uuid.MustParse(created.ID), dto.UpdatePatientRequest{
		Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)
}

func TestDeactivatePatientHidesFromList(t *testing.T) {
	repo := newFakePatientRepo()
	svc := service.NewPatientService(repo)
	clinicID := uuid.New()

	created, err := svc.Create(context.Background(), clinicID, dto.CreatePatientRequest{Name: "Maria Souza"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), uuid.MustParse(created.ID)))

	list, total, err := svc.List(context.Background(), clinicID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, list)

	require.NoError(t, svc.Reactivate(context.Background(), uuid.MustParse(created.ID)))

	_, total, err = svc.List(context.Background(), clinicID, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
