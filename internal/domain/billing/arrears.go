package billing

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArrearsEntry is one outstanding bill's position in a contract's arrears
// timeline. RollingDue is the cumulative amount owed up to and including this
// month, not just this month's shortfall.
type ArrearsEntry struct {
	BillID          uuid.UUID       `json:"bill_id"`
	BillMonth       BillMonth       `json:"bill_month"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	ServiceAmount   decimal.Decimal `json:"service_amount"`
	MonthlyTotal    decimal.Decimal `json:"monthly_total"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	RollingDue      decimal.Decimal `json:"rolling_due"`
}

// ComputeArrears derives the ordered arrears view from a contract's bills.
// Bills that are fully paid are skipped; the rest are ordered oldest month
// first, which is the order payment allocation walks them in. The computation
// is pure: it never mutates its input and two calls over the same bills yield
// identical output.
func ComputeArrears(bills []BillLedger) []ArrearsEntry {
	outstanding := make([]BillLedger, 0, len(bills))
	for _, b := range bills {
		if b.IsOutstanding() {
			outstanding = append(outstanding, b)
		}
	}

	sort.Slice(outstanding, func(i, j int) bool {
		return outstanding[i].BillMonth.Before(outstanding[j].BillMonth)
	})

	entries := make([]ArrearsEntry, 0, len(outstanding))
	rollingDue := decimal.Zero
	for _, b := range outstanding {
		remaining := b.RemainingAmount()
		rollingDue = rollingDue.Add(remaining)
		entries = append(entries, ArrearsEntry{
			BillID:          b.ID,
			BillMonth:       b.BillMonth,
			RentAmount:      b.RentAmount,
			ServiceAmount:   b.ServiceAmount,
			MonthlyTotal:    b.MonthlyTotal,
			PaidAmount:      b.PaidAmount,
			RemainingAmount: remaining,
			RollingDue:      rollingDue,
		})
	}
	return entries
}

// TotalArrears sums the remaining amounts across arrears entries. For a
// non-empty arrears list this equals the last entry's RollingDue.
func TotalArrears(entries []ArrearsEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.RemainingAmount)
	}
	return total
}
