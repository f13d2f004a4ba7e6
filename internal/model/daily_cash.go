package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash session status values.
// A session opens once, closes exactly once, and "suspended" is an
// administrative flag with no transition logic in the normal flows.
const (
	CashStatusOpen      = "open"
	CashStatusClosed    = "closed"
	CashStatusSuspended = "suspended"
)

// Cash operation types.
const (
	OpTypeOpening    = "opening"
	OpTypeClosing    = "closing"
	OpTypeCashIn     = "cash_in"
	OpTypeCashOut    = "cash_out"
	OpTypeAdjustment = "adjustment"
)

// Payment method tags accepted on cash operations.
var PaymentMethodTags = map[string]bool{
	"cash":          true,
	"pix":           true,
	"credit_card":   true,
	"debit_card":    true,
	"bank_transfer": true,
	"other":         true,
}

// DailyCash is one daily cash-drawer session for a clinic/user pair.
// All money amounts are integer cents. The derived columns (expected,
// difference, the four totals) are recomputed from the full operation set on
// every mutation — never updated incrementally.
type DailyCash struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Date     time.Time `gorm:"type:date;not null"`
	Status   string    `gorm:"type:varchar(20);not null;default:'open'"`

	// OpeningAmountCents is set at creation and never changes.
	OpeningAmountCents int64 `gorm:"not null"`
	// ClosingAmountCents is the physically counted cash, written exactly once
	// at close and immutable afterwards.
	ClosingAmountCents  *int64
	ExpectedAmountCents *int64
	// DifferenceCents = closing − expected, re-derived against the fixed
	// closing amount whenever the operation set changes after close.
	DifferenceCents *int64

	TotalCashInCents   int64 `gorm:"not null;default:0"`
	TotalCashOutCents  int64 `gorm:"not null;default:0"`
	TotalRevenueCents  int64 `gorm:"not null;default:0"`
	TotalExpensesCents int64 `gorm:"not null;default:0"`

	// DifferencePct / DifferenceClass classify the reconciliation variance
	// relative to the expected amount: "normal" | "warning" | "critical".
	DifferencePct   *decimal.Decimal `gorm:"type:decimal(5,2)"`
	DifferenceClass *string          `gorm:"type:varchar(20)"`

	OpeningNotes *string
	ClosingNotes *string
	OpenedAt     time.Time
	ClosedAt     *time.Time

	Operations []CashOperation `gorm:"foreignKey:DailyCashID"`
}

func (DailyCash) TableName() string { return "daily_cash" }

// PaymentMethods is the non-empty set of payment-method tags on an operation,
// stored as a JSON array.
type PaymentMethods []string

// OperationMetadata is the structured metadata blob on an operation.
// AddedToClosedCash marks operations posted after the session was closed so
// the UI can disclose post-close amendments.
type OperationMetadata struct {
	CustomerName      *string `json:"customerName,omitempty"`
	CustomerCpf       *string `json:"customerCpf,omitempty"`
	ReceiptNumber     *string `json:"receiptNumber,omitempty"`
	AddedToClosedCash bool    `json:"addedToClosedCash,omitempty"`
}

// CashOperation is a single ledger entry against a DailyCash session.
// Opening and closing rows are synthetic and never user-deletable; the other
// types may be deleted, which triggers a full recomputation of the session.
type CashOperation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DailyCashID uuid.UUID `gorm:"type:uuid;index;not null"`
	Type        string    `gorm:"type:varchar(20);not null"`
	AmountCents int64     `gorm:"not null"`
	Description string    `gorm:"not null"`

	PaymentMethods PaymentMethods     `gorm:"serializer:json;not null"`
	Metadata       *OperationMetadata `gorm:"serializer:json"`

	CreatedAt time.Time `gorm:"index"`
}

func (CashOperation) TableName() string { return "cash_operations" }

// Protected reports whether the operation row must never be deleted.
func (o *CashOperation) Protected() bool {
	return o.Type == OpTypeOpening || o.Type == OpTypeClosing
}
