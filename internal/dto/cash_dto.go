package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenCashRequest struct {
	OpeningAmountCents int64   `json:"opening_amount_cents" validate:"min=0"`
	OpeningNotes       *string `json:"opening_notes"`
}

type OperationMetadataRequest struct {
	CustomerName  *string `json:"customer_name"`
	CustomerCpf   *string `json:"customer_cpf" validate:"omitempty,len=11,numeric"`
	ReceiptNumber *string `json:"receipt_number"`
}

type AddOperationRequest struct {
	DailyCashID    string                    `json:"daily_cash_id"   validate:"required,uuid"`
	Type           string                    `json:"type"            validate:"required,oneof=cash_in cash_out adjustment"`
	AmountCents    int64                     `json:"amount_cents"    validate:"required,gt=0"`
	Description    string                    `json:"description"     validate:"required,min=3"`
	PaymentMethods []string                  `json:"payment_methods" validate:"required,min=1,dive,oneof=cash pix credit_card debit_card bank_transfer other"`
	Metadata       *OperationMetadataRequest `json:"metadata"`
}

type CloseCashRequest struct {
	DailyCashID        string  `json:"daily_cash_id"        validate:"required,uuid"`
	ClosingAmountCents int64   `json:"closing_amount_cents" validate:"min=0"`
	ClosingNotes       *string `json:"closing_notes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CashOperationResponse struct {
	ID                string   `json:"id"`
	DailyCashID       string   `json:"daily_cash_id"`
	Type              string   `json:"type"`
	AmountCents       int64    `json:"amount_cents"`
	Description       string   `json:"description"`
	PaymentMethods    []string `json:"payment_methods"`
	CustomerName      *string  `json:"customer_name,omitempty"`
	CustomerCpf       *string  `json:"customer_cpf,omitempty"`
	ReceiptNumber     *string  `json:"receipt_number,omitempty"`
	AddedToClosedCash bool     `json:"added_to_closed_cash"`
	CreatedAt         string   `json:"created_at"`
}

type CashDifferenceResponse struct {
	AmountCents    int64           `json:"amount_cents"`
	Percentage     decimal.Decimal `json:"percentage"`
	Classification string          `json:"classification"` // normal | warning | critical
}

type CashSessionResponse struct {
	ID                  string                  `json:"id"`
	ClinicID            string                  `json:"clinic_id"`
	UserID              string                  `json:"user_id"`
	Date                string                  `json:"date"`
	Status              string                  `json:"status"`
	OpeningAmountCents  int64                   `json:"opening_amount_cents"`
	ClosingAmountCents  *int64                  `json:"closing_amount_cents,omitempty"`
	ExpectedAmountCents *int64                  `json:"expected_amount_cents,omitempty"`
	TotalCashInCents    int64                   `json:"total_cash_in_cents"`
	TotalCashOutCents   int64                   `json:"total_cash_out_cents"`
	TotalRevenueCents   int64                   `json:"total_revenue_cents"`
	TotalExpensesCents  int64                   `json:"total_expenses_cents"`
	Difference          *CashDifferenceResponse `json:"difference,omitempty"`
	OpeningNotes        *string                 `json:"opening_notes,omitempty"`
	ClosingNotes        *string                 `json:"closing_notes,omitempty"`
	OpenedAt            string                  `json:"opened_at"`
	ClosedAt            *string                 `json:"closed_at,omitempty"`

	Operations []CashOperationResponse `json:"operations,omitempty"`
}
