package billing

import (
	"sort"

	"github.com/parklease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AllocationOutcome is the full result of spreading one payment across a
// contract's arrears. Every taka is accounted for:
//
//	sum(Trail[i].Allocated) + ExcessAmount == payment amount
//
// FullyAllocated is true iff the arrears absorbed the whole payment.
type AllocationOutcome struct {
	Trail          []AllocationRecord `json:"trail"`
	TotalAllocated decimal.Decimal    `json:"total_allocated"`
	ExcessAmount   decimal.Decimal    `json:"excess_amount"`
	FullyAllocated bool               `json:"fully_allocated"`
}

// PaymentAllocator spreads payment amounts across outstanding bills oldest
// month first. A newer bill never receives a single taka while an older one
// still has a remaining balance.
type PaymentAllocator struct{}

// NewPaymentAllocator creates a new PaymentAllocator
func NewPaymentAllocator() *PaymentAllocator {
	return &PaymentAllocator{}
}

// Allocate walks the contract's outstanding bills in bill-month order and
// credits the payment against each until the payment or the arrears run out.
// The bills are mutated in place; callers own persisting them, atomically,
// together with the payment's recorded trail. A payment against a contract
// with no outstanding bills is not an error: the trail is empty and the whole
// amount is excess.
func (a *PaymentAllocator) Allocate(amount decimal.Decimal, bills []*BillLedger) (*AllocationOutcome, error) {
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}

	ordered := make([]*BillLedger, 0, len(bills))
	for _, b := range bills {
		if b.IsOutstanding() {
			ordered = append(ordered, b)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].BillMonth.Before(ordered[j].BillMonth)
	})

	trail := make([]AllocationRecord, 0, len(ordered))
	remaining := amount
	totalAllocated := decimal.Zero

	for _, bill := range ordered {
		if remaining.IsZero() {
			break
		}

		allocated := decimal.Min(remaining, bill.RemainingAmount())
		previousPaid := bill.PaidAmount
		if err := bill.ApplyAllocation(allocated); err != nil {
			return nil, err
		}

		trail = append(trail, AllocationRecord{
			BillID:       bill.ID,
			BillMonth:    bill.BillMonth,
			Allocated:    allocated,
			PreviousPaid: previousPaid,
			NewPaid:      bill.PaidAmount,
			Status:       bill.Status,
		})

		totalAllocated = totalAllocated.Add(allocated)
		remaining = remaining.Sub(allocated)
	}

	return &AllocationOutcome{
		Trail:          trail,
		TotalAllocated: totalAllocated,
		ExcessAmount:   remaining,
		FullyAllocated: remaining.IsZero(),
	}, nil
}
