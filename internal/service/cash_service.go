package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doutoragenda/internal/dto"
	"doutoragenda/internal/model"
	"doutoragenda/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Sentinel errors of the cash lifecycle. Handlers map these to HTTP status
// codes with errors.Is.
var (
	ErrAlreadyOpen        = errors.New("an open cash session already exists for this user today")
	ErrAlreadyClosed      = errors.New("cash session is already closed")
	ErrSessionNotFound    = errors.New("cash session not found")
	ErrOperationNotFound  = errors.New("cash operation not found")
	ErrProtectedOperation = errors.New("opening and closing operations cannot be deleted")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrSessionSuspended   = errors.New("cash session is suspended")
	ErrValidation         = errors.New("validation error")
)

// ClosingNotifier dispatches the post-close report job. Implemented by the
// worker dispatcher; nil disables notification (tests, seed tooling).
type ClosingNotifier interface {
	EnqueueClosingReport(ctx context.Context, dailyCashID uuid.UUID) error
}

type CashService interface {
	Open(ctx context.Context, clinicID, userID uuid.UUID, req dto.OpenCashRequest) (*dto.CashSessionResponse, error)
	AddOperation(ctx context.Context, req dto.AddOperationRequest) (*dto.CashOperationResponse, error)
	DeleteOperation(ctx context.Context, operationID uuid.UUID) error
	Close(ctx context.Context, req dto.CloseCashRequest) (*dto.CashSessionResponse, error)
	// GetOpen returns (nil, nil) when no open session exists for the scope.
	GetOpen(ctx context.Context, clinicID, userID uuid.UUID) (*dto.CashSessionResponse, error)
	GetReport(ctx context.Context, sessionID uuid.UUID) (*dto.CashSessionResponse, error)
	History(ctx context.Context, clinicID uuid.UUID, page, limit int) ([]dto.CashSessionResponse, int64, error)
}

type cashService struct {
	repo     repository.CashRepository
	notifier ClosingNotifier
}

func NewCashService(repo repository.CashRepository, notifier ClosingNotifier) CashService {
	return &cashService{repo: repo, notifier: notifier}
}

// ── Open ─────────────────────────────────────────────────────────────────────
// Creates the session in "open" status plus its synthetic opening operation.
// One open session per clinic/user/day.

func (s *cashService) Open(ctx context.Context, clinicID, userID uuid.UUID, req dto.OpenCashRequest) (*dto.CashSessionResponse, error) {
	if req.OpeningAmountCents < 0 {
		return nil, ErrInvalidAmount
	}

	day := todayUTC()
	if existing, err := s.repo.FindOpenSession(ctx, clinicID, userID, day); err == nil && existing != nil {
		return nil, ErrAlreadyOpen
	}

	now := time.Now().UTC()
	expected := req.OpeningAmountCents
	session := &model.DailyCash{
		ClinicID:            clinicID,
		UserID:              userID,
		Date:                day,
		Status:              model.CashStatusOpen,
		OpeningAmountCents:  req.OpeningAmountCents,
		ExpectedAmountCents: &expected,
		OpeningNotes:        req.OpeningNotes,
		OpenedAt:            now,
	}
	opening := &model.CashOperation{
		Type:           model.OpTypeOpening,
		AmountCents:    req.OpeningAmountCents,
		Description:    "Cash session opening",
		PaymentMethods: model.PaymentMethods{"cash"},
		CreatedAt:      now,
	}
	if err := s.repo.CreateSession(ctx, session, opening); err != nil {
		return nil, err
	}

	resp := buildSessionResponse(session, []model.CashOperation{*opening})
	return resp, nil
}

// ── AddOperation ─────────────────────────────────────────────────────────────
// Appends a ledger entry and recomputes the session totals in the same
// transaction. Deliberately allowed on closed sessions ("add forgotten
// operation"); such entries are stamped addedToClosedCash for UI disclosure,
// and the difference is re-derived against the unchanged counted amount.

func (s *cashService) AddOperation(ctx context.Context, req dto.AddOperationRequest) (*dto.CashOperationResponse, error) {
	sessionID, err := uuid.Parse(req.DailyCashID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid daily_cash_id", ErrValidation)
	}
	if err := validateOperationInput(req); err != nil {
		return nil, err
	}

	var created model.CashOperation
	err = s.repo.MutateSession(ctx, sessionID, func(tx *gorm.DB, session *model.DailyCash) error {
		if session.Status == model.CashStatusSuspended {
			return ErrSessionSuspended
		}

		meta := &model.OperationMetadata{}
		if req.Metadata != nil {
			meta.CustomerName = req.Metadata.CustomerName
			meta.CustomerCpf = req.Metadata.CustomerCpf
			meta.ReceiptNumber = req.Metadata.ReceiptNumber
		}
		meta.AddedToClosedCash = session.Status == model.CashStatusClosed

		op := &model.CashOperation{
			DailyCashID:    session.ID,
			Type:           req.Type,
			AmountCents:    req.AmountCents,
			Description:    req.Description,
			PaymentMethods: model.PaymentMethods(req.PaymentMethods),
			Metadata:       meta,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.repo.CreateOperationTx(tx, op); err != nil {
			return err
		}

		ops, err := s.repo.ListOperationsTx(tx, session.ID)
		if err != nil {
			return err
		}
		ComputeTotals(ops, session.OpeningAmountCents, session.ClosingAmountCents).Apply(session)

		created = *op
		return s.repo.SaveSessionTx(tx, session)
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}

	resp := buildOperationResponse(created)
	return &resp, nil
}

// ── DeleteOperation ──────────────────────────────────────────────────────────

func (s *cashService) DeleteOperation(ctx context.Context, operationID uuid.UUID) error {
	op, err := s.repo.FindOperationByID(ctx, operationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOperationNotFound
		}
		return err
	}
	if op.Protected() {
		return ErrProtectedOperation
	}

	err = s.repo.MutateSession(ctx, op.DailyCashID, func(tx *gorm.DB, session *model.DailyCash) error {
		if err := s.repo.DeleteOperationTx(tx, op.ID); err != nil {
			return err
		}
		ops, err := s.repo.ListOperationsTx(tx, session.ID)
		if err != nil {
			return err
		}
		ComputeTotals(ops, session.OpeningAmountCents, session.ClosingAmountCents).Apply(session)
		return s.repo.SaveSessionTx(tx, session)
	})
	return mapSessionErr(err)
}

// ── Close ────────────────────────────────────────────────────────────────────
// Writes the synthetic closing operation, freezes the counted amount, derives
// the difference, and flips the status. Closing does NOT freeze the operation
// list — later add/delete calls keep re-deriving expected and difference
// against the fixed counted amount.

func (s *cashService) Close(ctx context.Context, req dto.CloseCashRequest) (*dto.CashSessionResponse, error) {
	sessionID, err := uuid.Parse(req.DailyCashID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid daily_cash_id", ErrValidation)
	}
	if req.ClosingAmountCents < 0 {
		return nil, ErrInvalidAmount
	}

	err = s.repo.MutateSession(ctx, sessionID, func(tx *gorm.DB, session *model.DailyCash) error {
		switch session.Status {
		case model.CashStatusClosed:
			return ErrAlreadyClosed
		case model.CashStatusSuspended:
			return ErrSessionSuspended
		}

		now := time.Now().UTC()
		closing := &model.CashOperation{
			DailyCashID:    session.ID,
			Type:           model.OpTypeClosing,
			AmountCents:    req.ClosingAmountCents,
			Description:    "Cash session closing",
			PaymentMethods: model.PaymentMethods{"cash"},
			CreatedAt:      now,
		}
		if err := s.repo.CreateOperationTx(tx, closing); err != nil {
			return err
		}

		ops, err := s.repo.ListOperationsTx(tx, session.ID)
		if err != nil {
			return err
		}
		counted := req.ClosingAmountCents
		ComputeTotals(ops, session.OpeningAmountCents, &counted).Apply(session)

		session.ClosingAmountCents = &counted
		session.ClosingNotes = req.ClosingNotes
		session.Status = model.CashStatusClosed
		session.ClosedAt = &now
		return s.repo.SaveSessionTx(tx, session)
	})
	if err != nil {
		return nil, mapSessionErr(err)
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueClosingReport(ctx, sessionID); err != nil {
			log.Warn().Err(err).Str("daily_cash_id", sessionID.String()).
				Msg("failed to enqueue closing report")
		}
	}

	return s.GetReport(ctx, sessionID)
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *cashService) GetOpen(ctx context.Context, clinicID, userID uuid.UUID) (*dto.CashSessionResponse, error) {
	session, err := s.repo.FindOpenSession(ctx, clinicID, userID, todayUTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.GetReport(ctx, session.ID)
}

func (s *cashService) GetReport(ctx context.Context, sessionID uuid.UUID) (*dto.CashSessionResponse, error) {
	session, err := s.repo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return nil, mapSessionErr(err)
	}
	return buildSessionResponse(session, session.Operations), nil
}

func (s *cashService) History(ctx context.Context, clinicID uuid.UUID, page, limit int) ([]dto.CashSessionResponse, int64, error) {
	sessions, total, err := s.repo.ListSessions(ctx, clinicID, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.CashSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, *buildSessionResponse(&sessions[i], nil))
	}
	return out, total, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func validateOperationInput(req dto.AddOperationRequest) error {
	switch req.Type {
	case model.OpTypeCashIn, model.OpTypeCashOut, model.OpTypeAdjustment:
	default:
		return fmt.Errorf("%w: type must be cash_in, cash_out or adjustment", ErrValidation)
	}
	if req.AmountCents <= 0 {
		return ErrInvalidAmount
	}
	if len(req.Description) < 3 {
		return fmt.Errorf("%w: description must have at least 3 characters", ErrValidation)
	}
	if len(req.PaymentMethods) == 0 {
		return fmt.Errorf("%w: at least one payment method is required", ErrValidation)
	}
	for _, m := range req.PaymentMethods {
		if !model.PaymentMethodTags[m] {
			return fmt.Errorf("%w: unknown payment method %q", ErrValidation, m)
		}
	}
	return nil
}

func mapSessionErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSessionNotFound
	}
	return err
}

func todayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func buildSessionResponse(s *model.DailyCash, ops []model.CashOperation) *dto.CashSessionResponse {
	resp := &dto.CashSessionResponse{
		ID:                  s.ID.String(),
		ClinicID:            s.ClinicID.String(),
		UserID:              s.UserID.String(),
		Date:                s.Date.Format("2006-01-02"),
		Status:              s.Status,
		OpeningAmountCents:  s.OpeningAmountCents,
		ClosingAmountCents:  s.ClosingAmountCents,
		ExpectedAmountCents: s.ExpectedAmountCents,
		TotalCashInCents:    s.TotalCashInCents,
		TotalCashOutCents:   s.TotalCashOutCents,
		TotalRevenueCents:   s.TotalRevenueCents,
		TotalExpensesCents:  s.TotalExpensesCents,
		OpeningNotes:        s.OpeningNotes,
		ClosingNotes:        s.ClosingNotes,
		OpenedAt:            s.OpenedAt.Format(time.RFC3339),
	}

	if s.DifferenceCents != nil && s.DifferencePct != nil && s.DifferenceClass != nil {
		resp.Difference = &dto.CashDifferenceResponse{
			AmountCents:    *s.DifferenceCents,
			Percentage:     *s.DifferencePct,
			Classification: *s.DifferenceClass,
		}
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	for _, op := range ops {
		resp.Operations = append(resp.Operations, buildOperationResponse(op))
	}
	return resp
}

func buildOperationResponse(op model.CashOperation) dto.CashOperationResponse {
	resp := dto.CashOperationResponse{
		ID:             op.ID.String(),
		DailyCashID:    op.DailyCashID.String(),
		Type:           op.Type,
		AmountCents:    op.AmountCents,
		Description:    op.Description,
		PaymentMethods: op.PaymentMethods,
		CreatedAt:      op.CreatedAt.Format(time.RFC3339),
	}
	if op.Metadata != nil {
		resp.CustomerName = op.Metadata.CustomerName
		resp.CustomerCpf = op.Metadata.CustomerCpf
		resp.ReceiptNumber = op.Metadata.ReceiptNumber
		resp.AddedToClosedCash = op.Metadata.AddedToClosedCash
	}
	return resp
}
