package worker

// report_worker.go
// Processes closing-report jobs: renders the daily cash report PDF for a
// closed session and emails it to the cashier who ran the drawer.

import (
	"context"
	"encoding/json"
	"fmt"

	"doutoragenda/internal/infra"
	"doutoragenda/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ReportWorker struct {
	cashRepo    repository.CashRepository
	userRepo    repository.UserRepository
	mailer      *infra.Mailer
	clinicName  string
	storagePath string
}

func NewReportWorker(cashRepo repository.CashRepository, userRepo repository.UserRepository, mailer *infra.Mailer, clinicName, storagePath string) *ReportWorker {
	return &ReportWorker{
		cashRepo:    cashRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		clinicName:  clinicName,
		storagePath: storagePath,
	}
}

// Process renders and delivers one closing report. A returned error sends the
// job to the DLQ.
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ClosingReportPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("report_worker: invalid payload: %w", err)
	}
	sessionID, err := uuid.Parse(payload.DailyCashID)
	if err != nil {
		return fmt.Errorf("report_worker: invalid daily_cash_id: %w", err)
	}

	session, err := w.cashRepo.FindSessionByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("report_worker: load session: %w", err)
	}

	pdfPath, err := infra.GenerateCashReportPDF(session, session.Operations, w.clinicName, w.storagePath)
	if err != nil {
		return fmt.Errorf("report_worker: generate pdf: %w", err)
	}

	user, err := w.userRepo.FindByID(ctx, session.UserID)
	if err != nil || user.Email == nil || *user.Email == "" {
		// No recipient is not a failure — the PDF remains on disk for the UI.
		log.Warn().Str("daily_cash_id", sessionID.String()).Msg("report_worker: no cashier email, skipping delivery")
		return nil
	}

	subject := fmt.Sprintf("Daily cash report — %s", session.Date.Format("02/01/2006"))
	body := fmt.Sprintf(
		"Cash session %s was closed.\n\nExpected: %s\nCounted: %s\n\nThe full report is attached.",
		sessionID, formatOptionalCents(session.ExpectedAmountCents), formatOptionalCents(session.ClosingAmountCents))

	if err := w.mailer.SendReport(*user.Email, subject, body, pdfPath); err != nil {
		return fmt.Errorf("report_worker: send email: %w", err)
	}

	log.Info().Str("daily_cash_id", sessionID.String()).Str("to", *user.Email).
		Msg("report_worker: closing report sent")
	return nil
}

func formatOptionalCents(cents *int64) string {
	if cents == nil {
		return "-"
	}
	return infra.FormatCents(*cents)
}
