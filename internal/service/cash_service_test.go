package service_test

import (
	"context"
	"testing"
	"time"

	"doutoragenda/internal/dto"
	"doutoragenda/internal/model"
	"doutoragenda/internal/repository"
	"doutoragenda/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── Full in-memory CashRepository ────────────────────────────────────────────

type fullCashRepo struct {
	sessions   map[uuid.UUID]*model.DailyCash
	operations []model.CashOperation
}

func newFullCashRepo() *fullCashRepo {
	return &fullCashRepo{sessions: make(map[uuid.UUID]*model.DailyCash)}
}

func (r *fullCashRepo) CreateSession(_ context.Context, s *model.DailyCash, opening *model.CashOperation) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessions[s.ID] = s
	opening.DailyCashID = s.ID
	return r.CreateOperationTx(nil, opening)
}

func (r *fullCashRepo) FindOpenSession(_ context.Context, clinicID, userID uuid.UUID, day time.Time) (*model.DailyCash, error) {
	for _, s := range r.sessions {
		if s.ClinicID == clinicID && s.UserID == userID && s.Date.Equal(day) && s.Status == model.CashStatusOpen {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fullCashRepo) FindSessionByID(_ context.Context, id uuid.UUID) (*model.DailyCash, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// Attach related operations, insertion order = created_at order
	copied := *s
	copied.Operations = nil
	for _, op := range r.operations {
		if op.DailyCashID == id {
			copied.Operations = append(copied.Operations, op)
		}
	}
	return &copied, nil
}

func (r *fullCashRepo) FindOperationByID(_ context.Context, id uuid.UUID) (*model.CashOperation, error) {
	for i := range r.operations {
		if r.operations[i].ID == id {
			op := r.operations[i]
			return &op, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fullCashRepo) ListOperations(_ context.Context, dailyCashID uuid.UUID) ([]model.CashOperation, error) {
	return r.ListOperationsTx(nil, dailyCashID)
}

func (r *fullCashRepo) ListSessions(_ context.Context, clinicID uuid.UUID, page, limit int) ([]model.DailyCash, int64, error) {
	all := make([]model.DailyCash, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.ClinicID == clinicID {
			all = append(all, *s)
		}
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fullCashRepo) MutateSession(_ context.Context, id uuid.UUID, fn func(tx *gorm.DB, s *model.DailyCash) error) error {
	s, ok := r.sessions[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	return fn(nil, s)
}

func (r *fullCashRepo) CreateOperationTx(_ *gorm.DB, op *model.CashOperation) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	r.operations = append(r.operations, *op)
	return nil
}

func (r *fullCashRepo) DeleteOperationTx(_ *gorm.DB, id uuid.UUID) error {
	for i := range r.operations {
		if r.operations[i].ID == id {
			r.operations = append(r.operations[:i], r.operations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fullCashRepo) ListOperationsTx(_ *gorm.DB, dailyCashID uuid.UUID) ([]model.CashOperation, error) {
	var out []model.CashOperation
	for _, op := range r.operations {
		if op.DailyCashID == dailyCashID {
			out = append(out, op)
		}
	}
	return out, nil
}

func (r *fullCashRepo) SaveSessionTx(_ *gorm.DB, s *model.DailyCash) error {
	r.sessions[s.ID] = s
	return nil
}

var _ repository.CashRepository = (*fullCashRepo)(nil)

// Notifier spy — records every enqueued closing report.
type spyNotifier struct {
	enqueued []uuid.UUID
}

func (n *spyNotifier) EnqueueClosingReport(_ context.Context, id uuid.UUID) error {
	n.enqueued = append(n.enqueued, id)
	return nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func openSession(t *testing.T, svc service.CashService, openingCents int64) *dto.CashSessionResponse {
	t.Helper()
	resp, err := svc.Open(context.Background(), uuid.New(), uuid.New(), dto.OpenCashRequest{
		OpeningAmountCents: openingCents,
	})
	require.NoError(t, err)
	return resp
}

func addOp(t *testing.T, svc service.CashService, sessionID, opType string, cents int64) *dto.CashOperationResponse {
	t.Helper()
	resp, err := svc.AddOperation(context.Background(), dto.AddOperationRequest{
		DailyCashID:    sessionID,
		Type:           opType,
		AmountCents:    cents,
		Description:    "Consultation payment",
		PaymentMethods: []string{"cash"},
	})
	require.NoError(t, err)
	return resp
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestOpenCash(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)

	resp := openSession(t, svc, 10000)

	assert.Equal(t, model.CashStatusOpen, resp.Status)
	assert.Equal(t, int64(10000), resp.OpeningAmountCents)
	require.NotNil(t, resp.ExpectedAmountCents)
	assert.Equal(t, int64(10000), *resp.ExpectedAmountCents)
	require.Len(t, resp.Operations, 1)
	assert.Equal(t, model.OpTypeOpening, resp.Operations[0].Type)
	assert.Nil(t, resp.Difference)
}

func TestOpenCashDuplicate(t *testing.T) {
	repo := newFullCashRepo()
	svc := service.NewCashService(repo, nil)
	clinicID, userID := uuid.New(), uuid.New()

	_, err := svc.Open(context.Background(), clinicID, userID, dto.OpenCashRequest{OpeningAmountCents: 5000})
	require.NoError(t, err)

	// Second open for the same clinic/user/day must fail
	_, err = svc.Open(context.Background(), clinicID, userID, dto.OpenCashRequest{OpeningAmountCents: 2000})
	assert.ErrorIs(t, err, service.ErrAlreadyOpen)
}

func TestOpenCashNegativeAmount(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)

	_, err := svc.Open(context.Background(), uuid.New(), uuid.New(), dto.OpenCashRequest{OpeningAmountCents: -1})
	assert.ErrorIs(t, err, service.ErrInvalidAmount)
}

func TestAddOperationRecomputesTotals(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)

	addOp(t, svc, sess.ID, model.OpTypeCashIn, 5000)

	report, err := svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(15000), *report.ExpectedAmountCents)
	assert.Equal(t, int64(5000), report.TotalCashInCents)
	assert.Equal(t, int64(5000), report.TotalRevenueCents)

	addOp(t, svc, sess.ID, model.OpTypeCashOut, 2000)

	report, err = svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(13000), *report.ExpectedAmountCents)
	assert.Equal(t, int64(2000), report.TotalCashOutCents)
	assert.Equal(t, int64(2000), report.TotalExpensesCents)
}

func TestAdjustmentDoesNotMoveExpected(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)

	addOp(t, svc, sess.ID, model.OpTypeAdjustment, 300)

	report, err := svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), *report.ExpectedAmountCents)
	assert.Equal(t, int64(300), report.TotalRevenueCents)
	assert.Equal(t, int64(0), report.TotalCashInCents)
}

func TestAddOperationValidation(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 1000)

	cases := []struct {
		name string
		req  dto.AddOperationRequest
		want error
	}{
		{"invalid session id", dto.AddOperationRequest{
			DailyCashID: "not-a-uuid", Type: model.OpTypeCashIn, AmountCents: 100,
			Description: "abc", PaymentMethods: []string{"cash"},
		}, service.ErrValidation},
		{"bad type", dto.AddOperationRequest{
			DailyCashID: sess.ID, Type: "opening", AmountCents: 100,
			Description: "abc", PaymentMethods: []string{"cash"},
		}, service.ErrValidation},
		{"zero amount", dto.AddOperationRequest{
			DailyCashID: sess.ID, Type: model.OpTypeCashIn, AmountCents: 0,
			Description: "abc", PaymentMethods: []string{"cash"},
		}, service.ErrInvalidAmount},
		{"short description", dto.AddOperationRequest{
			DailyCashID: sess.ID, Type: model.OpTypeCashIn, AmountCents: 100,
			Description: "ab", PaymentMethods: []string{"cash"},
		}, service.ErrValidation},
		{"no payment methods", dto.AddOperationRequest{
			DailyCashID: sess.ID, Type: model.OpTypeCashIn, AmountCents: 100,
			Description: "abc",
		}, service.ErrValidation},
		{"unknown payment method", dto.AddOperationRequest{
			DailyCashID: sess.ID, Type: model.OpTypeCashIn, AmountCents: 100,
			Description: "abc", PaymentMethods: []string{"barter"},
		}, service.ErrValidation},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := svc.AddOperation(context.Background(), c.req)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func TestAddOperationSessionNotFound(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)

	_, err := svc.AddOperation(context.Background(), dto.AddOperationRequest{
		DailyCashID:    uuid.NewString(),
		Type:           model.OpTypeCashIn,
		AmountCents:    100,
		Description:    "Consultation payment",
		PaymentMethods: []string{"cash"},
	})
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestCloseExactMatch(t *testing.T) {
	repo := newFullCashRepo()
	notifier := &spyNotifier{}
	svc := service.NewCashService(repo, notifier)
	sess := openSession(t, svc, 10000)
	addOp(t, svc, sess.ID, model.OpTypeCashIn, 5000)
	addOp(t, svc, sess.ID, model.OpTypeCashOut, 2000)

	// Counted exactly the expected 13000
	report, err := svc.Close(context.Background(), dto.CloseCashRequest{
		DailyCashID:        sess.ID,
		ClosingAmountCents: 13000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.CashStatusClosed, report.Status)
	require.NotNil(t, report.ClosingAmountCents)
	assert.Equal(t, int64(13000), *report.ClosingAmountCents)
	require.NotNil(t, report.Difference)
	assert.Equal(t, int64(0), report.Difference.AmountCents)
	assert.Equal(t, "normal", report.Difference.Classification)
	assert.NotNil(t, report.ClosedAt)

	// A synthetic closing row is appended, and the report job is enqueued
	last := report.Operations[len(report.Operations)-1]
	assert.Equal(t, model.OpTypeClosing, last.Type)
	require.Len(t, notifier.enqueued, 1)
	assert.Equal(t, sess.ID, notifier.enqueued[0].String())
}

func TestCloseWithShortage(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)
	addOp(t, svc, sess.ID, model.OpTypeCashIn, 3000)

	// expected = 13000, counted 12800 → diff -200, -1.54% → warning
	report, err := svc.Close(context.Background(), dto.CloseCashRequest{
		DailyCashID:        sess.ID,
		ClosingAmountCents: 12800,
	})
	require.NoError(t, err)

	require.NotNil(t, report.Difference)
	assert.Equal(t, int64(-200), report.Difference.AmountCents)
	assert.Equal(t, "warning", report.Difference.Classification)
}

func TestCloseAlreadyClosed(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)

	_, err := svc.Close(context.Background(), dto.CloseCashRequest{DailyCashID: sess.ID, ClosingAmountCents: 10000})
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), dto.CloseCashRequest{DailyCashID: sess.ID, ClosingAmountCents: 10000})
	assert.ErrorIs(t, err, service.ErrAlreadyClosed)
}

func TestPostCloseAmendment(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)
	addOp(t, svc, sess.ID, model.OpTypeCashIn, 3000)

	_, err := svc.Close(context.Background(), dto.CloseCashRequest{DailyCashID: sess.ID, ClosingAmountCents: 13000})
	require.NoError(t, err)

	// A forgotten operation is added after close: the entry is stamped, the
	// counted amount stays frozen and the difference is re-derived against it.
	created := addOp(t, svc, sess.ID, model.OpTypeCashIn, 1000)
	assert.True(t, created.AddedToClosedCash)

	report, err := svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, model.CashStatusClosed, report.Status)
	assert.Equal(t, int64(13000), *report.ClosingAmountCents)
	assert.Equal(t, int64(14000), *report.ExpectedAmountCents)
	require.NotNil(t, report.Difference)
	assert.Equal(t, int64(-1000), report.Difference.AmountCents)
	// -1000/14000 ≈ -7.14% → critical
	assert.Equal(t, "critical", report.Difference.Classification)
}

func TestDeleteOperationRecomputes(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)
	created := addOp(t, svc, sess.ID, model.OpTypeCashIn, 5000)

	err := svc.DeleteOperation(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)

	report, err := svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), *report.ExpectedAmountCents)
	assert.Equal(t, int64(0), report.TotalCashInCents)
	assert.Equal(t, int64(0), report.TotalRevenueCents)
}

func TestDeleteProtectedOperation(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)
	sess := openSession(t, svc, 10000)

	err := svc.DeleteOperation(context.Background(), uuid.MustParse(sess.Operations[0].ID))
	assert.ErrorIs(t, err, service.ErrProtectedOperation)

	// Totals untouched
	report, err := svc.GetReport(context.Background(), uuid.MustParse(sess.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(10000), *report.ExpectedAmountCents)
	require.Len(t, report.Operations, 1)
}

func TestDeleteOperationNotFound(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)

	err := svc.DeleteOperation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrOperationNotFound)
}

func TestSuspendedSessionRejectsMutations(t *testing.T) {
	repo := newFullCashRepo()
	svc := service.NewCashService(repo, nil)
	sess := openSession(t, svc, 10000)

	repo.sessions[uuid.MustParse(sess.ID)].Status = model.CashStatusSuspended

	_, err := svc.AddOperation(context.Background(), dto.AddOperationRequest{
		DailyCashID:    sess.ID,
		Type:           model.OpTypeCashIn,
		AmountCents:    100,
		Description:    "Consultation payment",
		PaymentMethods: []string{"cash"},
	})
	assert.ErrorIs(t, err, service.ErrSessionSuspended)

	_, err = svc.Close(context.Background(), dto.CloseCashRequest{DailyCashID: sess.ID, ClosingAmountCents: 10000})
	assert.ErrorIs(t, err, service.ErrSessionSuspended)
}

func TestGetOpenNone(t *testing.T) {
	svc := service.NewCashService(newFullCashRepo(), nil)

	resp, err := svc.GetOpen(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestGetOpenReturnsCurrentSession(t *testing.T) {
	repo := newFullCashRepo()
	svc := service.NewCashService(repo, nil)
	clinicID, userID := uuid.New(), uuid.New()

	opened, err := svc.Open(context.Background(), clinicID, userID, dto.OpenCashRequest{OpeningAmountCents: 2000})
	require.NoError(t, err)

	resp, err := svc.GetOpen(context.Background(), clinicID, userID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, opened.ID, resp.ID)
	assert.Equal(t, model.CashStatusOpen, resp.Status)
}

func TestHistoryPagination(t *testing.T) {
	repo := newFullCashRepo()
	svc := service.NewCashService(repo, nil)
	clinicID := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.Open(context.Background(), clinicID, uuid.New(), dto.OpenCashRequest{OpeningAmountCents: 1000})
		require.NoError(t, err)
	}

	page, total, err := svc.History(context.Background(), clinicID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}
