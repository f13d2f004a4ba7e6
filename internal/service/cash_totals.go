package service

import (
	"doutoragenda/internal/model"

	"github.com/shopspring/decimal"
)

// CashTotals is the result of recomputing a session's aggregates from its full
// operation set. Difference fields are only present when a closing amount is
// known.
type CashTotals struct {
	CashInCents   int64
	CashOutCents  int64
	RevenueCents  int64
	ExpensesCents int64
	ExpectedCents int64

	DifferenceCents *int64
	DifferencePct   *decimal.Decimal
	DifferenceClass *string
}

// ComputeTotals derives session aggregates from the complete operation list.
// It always re-sums from scratch — no incremental deltas — so repeated calls
// over the same operation set yield identical results.
//
// Type mapping: cash_in and cash_out move the physical drawer and drive the
// expected amount; adjustments are bookkeeping corrections that count toward
// revenue but never toward expected. Opening and closing rows carry the
// session's own amounts and are excluded from all sums.
func ComputeTotals(ops []model.CashOperation, openingCents int64, closingCents *int64) CashTotals {
	var t CashTotals
	for _, op := range ops {
		switch op.Type {
		case model.OpTypeCashIn:
			t.CashInCents += op.AmountCents
			t.RevenueCents += op.AmountCents
		case model.OpTypeCashOut:
			t.CashOutCents += op.AmountCents
			t.ExpensesCents += op.AmountCents
		case model.OpTypeAdjustment:
			t.RevenueCents += op.AmountCents
		}
	}
	t.ExpectedCents = openingCents + t.CashInCents - t.CashOutCents

	if closingCents != nil {
		diff := *closingCents - t.ExpectedCents
		t.DifferenceCents = &diff

		pct := decimal.Zero
		if t.ExpectedCents != 0 {
			pct = decimal.NewFromInt(diff).
				Div(decimal.NewFromInt(t.ExpectedCents)).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
		t.DifferencePct = &pct

		class := classifyDifference(pct)
		t.DifferenceClass = &class
	}
	return t
}

// Apply writes the recomputed aggregates onto the session row. The caller is
// responsible for persisting the row in the same transaction that changed the
// operation set.
func (t CashTotals) Apply(s *model.DailyCash) {
	s.TotalCashInCents = t.CashInCents
	s.TotalCashOutCents = t.CashOutCents
	s.TotalRevenueCents = t.RevenueCents
	s.TotalExpensesCents = t.ExpensesCents
	expected := t.ExpectedCents
	s.ExpectedAmountCents = &expected
	s.DifferenceCents = t.DifferenceCents
	s.DifferencePct = t.DifferencePct
	s.DifferenceClass = t.DifferenceClass
}

// classifyDifference returns "normal" | "warning" | "critical".
// normal: |pct| <= 1%, warning: <= 5%, critical: > 5%
func classifyDifference(pct decimal.Decimal) string {
	abs := pct.Abs()
	one := decimal.NewFromInt(1)
	five := decimal.NewFromInt(5)
	switch {
	case abs.LessThanOrEqual(one):
		return "normal"
	case abs.LessThanOrEqual(five):
		return "warning"
	default:
		return "critical"
	}
}
