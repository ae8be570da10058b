package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/shared"
)

// BillLedgerRepository is the persistence contract for BillLedger aggregates.
// Create must fail with shared.ErrAlreadyExists when a row for the same
// (contract, month) pair exists; the storage layer backs this with a unique
// index so concurrent creates cannot both succeed.
type BillLedgerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillLedger, error)
	FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month BillMonth) (*BillLedger, error)
	// FindByContract returns all of a contract's bills ascending by bill month.
	FindByContract(ctx context.Context, contractID uuid.UUID) ([]BillLedger, error)
	// FindOutstandingByContract returns unpaid and partial bills ascending by
	// bill month. Inside a transaction the rows are locked against concurrent
	// allocation for the same contract.
	FindOutstandingByContract(ctx context.Context, contractID uuid.UUID) ([]BillLedger, error)
	Create(ctx context.Context, bill *BillLedger) error
	// UpdatePaidAmount persists a bill's paid amount and derived status.
	UpdatePaidAmount(ctx context.Context, bill *BillLedger) error
}

// PaymentFilter holds filter options for payment queries
type PaymentFilter struct {
	shared.Filter
	Status *ApprovalStatus
}

// PaymentRepository is the persistence contract for Payment aggregates
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByContract(ctx context.Context, contractID uuid.UUID, filter PaymentFilter) ([]Payment, int64, error)
	// FindApprovedByContract returns approved payments ascending by payment date.
	FindApprovedByContract(ctx context.Context, contractID uuid.UUID) ([]Payment, error)
	Create(ctx context.Context, payment *Payment) error
	// Save persists a mutated payment with optimistic locking and must fail
	// with shared.ErrConcurrencyConflict when the stored row is no longer at
	// the version the caller loaded. Callers save after each mutation.
	Save(ctx context.Context, payment *Payment) error
}
