package billing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents how much of a bill has been settled
type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "unpaid"  // Nothing paid
	PaymentStatusPartial PaymentStatus = "partial" // 0 < paid < total
	PaymentStatusPaid    PaymentStatus = "paid"    // Fully settled
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPartial, PaymentStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of PaymentStatus
func (s PaymentStatus) String() string {
	return string(s)
}

// IsOutstanding returns true if the bill can still receive allocations
func (s PaymentStatus) IsOutstanding() bool {
	return s == PaymentStatusUnpaid || s == PaymentStatusPartial
}

// PaymentStatusFor derives the status from paid vs total. It is the single
// source of truth for bill status; callers never set status directly.
func PaymentStatusFor(paidAmount, monthlyTotal decimal.Decimal) PaymentStatus {
	switch {
	case paidAmount.GreaterThanOrEqual(monthlyTotal):
		return PaymentStatusPaid
	case paidAmount.IsPositive():
		return PaymentStatusPartial
	default:
		return PaymentStatusUnpaid
	}
}

// BillLedger is the billing record for one contract and one calendar month.
// Exactly one ledger row exists per (contract, month) pair. The monthly total
// is fixed at creation; only PaidAmount and Status change afterwards, and
// PaidAmount never decreases.
type BillLedger struct {
	shared.BaseAggregateRoot
	ContractID    uuid.UUID       `json:"contract_id"`
	BillMonth     BillMonth       `json:"bill_month"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	ServiceAmount decimal.Decimal `json:"service_amount"`
	MonthlyTotal  decimal.Decimal `json:"monthly_total"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        PaymentStatus   `json:"payment_status"`
}

// NewBillLedger creates an unpaid bill for the given contract and month
func NewBillLedger(contractID uuid.UUID, month BillMonth, rentAmount, serviceAmount decimal.Decimal) (*BillLedger, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if month.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILL_MONTH", "Bill month cannot be empty")
	}
	if rentAmount.IsNegative() || serviceAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill amounts cannot be negative")
	}

	return &BillLedger{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		BillMonth:         month,
		RentAmount:        rentAmount,
		ServiceAmount:     serviceAmount,
		MonthlyTotal:      rentAmount.Add(serviceAmount),
		PaidAmount:        decimal.Zero,
		Status:            PaymentStatusUnpaid,
	}, nil
}

// RemainingAmount returns how much of the bill is still owed
func (b *BillLedger) RemainingAmount() decimal.Decimal {
	return b.MonthlyTotal.Sub(b.PaidAmount)
}

// IsOutstanding returns true if any amount is still owed
func (b *BillLedger) IsOutstanding() bool {
	return b.Status.IsOutstanding()
}

// ApplyAllocation credits part of a payment against the bill. The amount must
// be positive and must not exceed the remaining balance; status is recomputed
// from the new paid amount.
func (b *BillLedger) ApplyAllocation(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if amount.GreaterThan(b.RemainingAmount()) {
		return shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Allocation %s exceeds remaining balance %s", amount.String(), b.RemainingAmount().String()))
	}

	b.PaidAmount = b.PaidAmount.Add(amount)
	b.Status = PaymentStatusFor(b.PaidAmount, b.MonthlyTotal)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// GetMonthlyTotalMoney returns the monthly total as Money
func (b *BillLedger) GetMonthlyTotalMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(b.MonthlyTotal)
}

// GetRemainingMoney returns the remaining balance as Money
func (b *BillLedger) GetRemainingMoney() valueobject.Money {
	return valueobject.NewMoneyBDT(b.RemainingAmount())
}
