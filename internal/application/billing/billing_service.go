package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/billing"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillingService orchestrates the billing ledger: monthly bill creation,
// payment review, FIFO allocation and ledger reporting. All multi-write
// operations run inside a single transaction so the ledger can never be left
// half-updated.
type BillingService struct {
	contractRepo leasing.ContractRepository
	billRepo     billing.BillLedgerRepository
	paymentRepo  billing.PaymentRepository
	allocator    *billing.PaymentAllocator
	txManager    shared.TransactionManager
}

// NewBillingService creates a new BillingService
func NewBillingService(
	contractRepo leasing.ContractRepository,
	billRepo billing.BillLedgerRepository,
	paymentRepo billing.PaymentRepository,
	txManager shared.TransactionManager,
) *BillingService {
	return &BillingService{
		contractRepo: contractRepo,
		billRepo:     billRepo,
		paymentRepo:  paymentRepo,
		allocator:    billing.NewPaymentAllocator(),
		txManager:    txManager,
	}
}

// CreateMonthlyBill materializes the bill for one contract and one month at
// the contract's current rates. A bill that already exists for the month is a
// conflict, not a silent reuse; the storage layer's unique index backs the
// same rule under concurrent calls.
func (s *BillingService) CreateMonthlyBill(ctx context.Context, contractID uuid.UUID, billMonth string) (*billing.BillLedger, error) {
	month, err := billing.ParseBillMonth(billMonth)
	if err != nil {
		return nil, err
	}

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if !contract.IsActive() {
		return nil, shared.NewDomainError("CONTRACT_NOT_ACTIVE",
			fmt.Sprintf("Contract %s is not active", contract.ContractNumber))
	}

	existing, err := s.billRepo.FindByContractAndMonth(ctx, contractID, month)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("BILL_EXISTS",
			fmt.Sprintf("Bill for %s already exists", month))
	}

	rentAmount := contract.MonthlyRent().Amount()
	serviceAmount := contract.MonthlyServiceCharge().Amount()

	bill, err := billing.NewBillLedger(contractID, month, rentAmount, serviceAmount)
	if err != nil {
		return nil, err
	}
	if err := s.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ComputeArrears returns the contract's ordered arrears view, derived fresh
// from the current bill rows on every call
func (s *BillingService) ComputeArrears(ctx context.Context, contractID uuid.UUID) ([]billing.ArrearsEntry, error) {
	bills, err := s.billRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	return billing.ComputeArrears(bills), nil
}

// AllocatePayment spreads an approved payment amount across the contract's
// arrears, oldest bill first. The read-arrears, update-bills, link-payment
// sequence runs in one transaction: either every touched bill commits or none
// does. paymentID may be uuid.Nil when the caller has no payment record to
// link.
func (s *BillingService) AllocatePayment(ctx context.Context, contractID uuid.UUID, amount decimal.Decimal, paymentID uuid.UUID) (*billing.AllocationOutcome, error) {
	var outcome *billing.AllocationOutcome

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		outcome, err = s.allocateLocked(txCtx, contractID, amount, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// allocateLocked performs the allocation walk. It must run inside a
// transaction: FindOutstandingByContract locks the contract's open bill rows,
// serializing concurrent allocations against the same contract.
func (s *BillingService) allocateLocked(ctx context.Context, contractID uuid.UUID, amount decimal.Decimal, paymentID uuid.UUID) (*billing.AllocationOutcome, error) {
	outstanding, err := s.billRepo.FindOutstandingByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	bills := make([]*billing.BillLedger, len(outstanding))
	for i := range outstanding {
		bills[i] = &outstanding[i]
	}

	outcome, err := s.allocator.Allocate(amount, bills)
	if err != nil {
		return nil, err
	}

	touched := make(map[uuid.UUID]*billing.BillLedger, len(outcome.Trail))
	for i := range bills {
		touched[bills[i].ID] = bills[i]
	}
	for _, rec := range outcome.Trail {
		if err := s.billRepo.UpdatePaidAmount(ctx, touched[rec.BillID]); err != nil {
			return nil, err
		}
	}

	if paymentID != uuid.Nil {
		payment, err := s.paymentRepo.FindByID(ctx, paymentID)
		if err != nil {
			return nil, err
		}
		payment.RecordAllocations(outcome.Trail)
		if err := s.paymentRepo.Save(ctx, payment); err != nil {
			return nil, err
		}
	}

	return outcome, nil
}

// RecordPaymentRequest carries the details of a tenant remittance
type RecordPaymentRequest struct {
	ContractID    uuid.UUID
	Amount        decimal.Decimal
	PaymentDate   time.Time
	Method        billing.PaymentMethod
	CheckNumber   string
	CheckImageRef string
}

// RecordPayment registers a pending payment awaiting review. Nothing is
// allocated until a reviewer approves it.
func (s *BillingService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*billing.Payment, error) {
	if _, err := s.contractRepo.FindByID(ctx, req.ContractID); err != nil {
		return nil, err
	}

	payment, err := billing.NewPayment(req.ContractID, req.Amount, req.PaymentDate, req.Method, req.CheckNumber, req.CheckImageRef)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ReviewResult is the outcome of reviewing a payment. Allocation is nil for
// rejected payments.
type ReviewResult struct {
	Payment    *billing.Payment
	Allocation *billing.AllocationOutcome
}

// ReviewPayment approves or rejects a pending payment. Approval triggers FIFO
// allocation in the same transaction as the status change, so an allocation
// failure also rolls back the approval. Reviewing a non-pending payment fails
// with a conflict.
func (s *BillingService) ReviewPayment(ctx context.Context, paymentID uuid.UUID, approve bool, reviewerID uuid.UUID) (*ReviewResult, error) {
	var result *ReviewResult

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		payment, err := s.paymentRepo.FindByID(txCtx, paymentID)
		if err != nil {
			return err
		}

		if !approve {
			if err := payment.Reject(reviewerID); err != nil {
				return err
			}
			if err := s.paymentRepo.Save(txCtx, payment); err != nil {
				return err
			}
			result = &ReviewResult{Payment: payment}
			return nil
		}

		if err := payment.Approve(reviewerID); err != nil {
			return err
		}
		if err := s.paymentRepo.Save(txCtx, payment); err != nil {
			return err
		}

		outcome, err := s.allocateLocked(txCtx, payment.ContractID, payment.Amount, payment.ID)
		if err != nil {
			return err
		}
		result = &ReviewResult{Payment: payment, Allocation: outcome}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetPayment retrieves a payment, including its allocation trail
func (s *BillingService) GetPayment(ctx context.Context, paymentID uuid.UUID) (*billing.Payment, error) {
	return s.paymentRepo.FindByID(ctx, paymentID)
}

// ListPayments returns a page of a contract's payments, newest payment date
// first
func (s *BillingService) ListPayments(ctx context.Context, contractID uuid.UUID, filter billing.PaymentFilter) (shared.Paginated[billing.Payment], error) {
	payments, total, err := s.paymentRepo.FindByContract(ctx, contractID, filter)
	if err != nil {
		return shared.Paginated[billing.Payment]{}, err
	}
	return shared.NewPaginated(payments, total, filter.Page, filter.PageSize), nil
}

// LedgerSummary aggregates a contract's billing position. All amounts share
// the single ledger currency.
type LedgerSummary struct {
	TotalBilled      decimal.Decimal      `json:"total_billed"`
	TotalPaid        decimal.Decimal      `json:"total_paid"`
	TotalOutstanding decimal.Decimal      `json:"total_outstanding"`
	Currency         valueobject.Currency `json:"currency"`
}

// LedgerSnapshot is the complete ledger view for a contract: every bill
// oldest month first, every approved payment oldest first, the arrears
// timeline and the summary totals. Purely derived; nothing is cached.
type LedgerSnapshot struct {
	Bills        []billing.BillLedger   `json:"bills"`
	Payments     []billing.Payment      `json:"payments"`
	Arrears      []billing.ArrearsEntry `json:"arrears"`
	TotalArrears decimal.Decimal        `json:"total_arrears"`
	Summary      LedgerSummary          `json:"summary"`
}

// GetContractLedger assembles the ledger snapshot for a contract
func (s *BillingService) GetContractLedger(ctx context.Context, contractID uuid.UUID) (*LedgerSnapshot, error) {
	if _, err := s.contractRepo.FindByID(ctx, contractID); err != nil {
		return nil, err
	}

	bills, err := s.billRepo.FindByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindApprovedByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	arrears := billing.ComputeArrears(bills)
	totalArrears := billing.TotalArrears(arrears)

	totalBilled := valueobject.ZeroBDT()
	remaining := valueobject.ZeroBDT()
	for i := range bills {
		if totalBilled, err = totalBilled.Add(bills[i].GetMonthlyTotalMoney()); err != nil {
			return nil, err
		}
		if remaining, err = remaining.Add(bills[i].GetRemainingMoney()); err != nil {
			return nil, err
		}
	}
	totalPaid, err := totalBilled.Sub(remaining)
	if err != nil {
		return nil, err
	}

	return &LedgerSnapshot{
		Bills:        bills,
		Payments:     payments,
		Arrears:      arrears,
		TotalArrears: totalArrears,
		Summary: LedgerSummary{
			TotalBilled:      totalBilled.Amount(),
			TotalPaid:        totalPaid.Amount(),
			TotalOutstanding: totalArrears,
			Currency:         totalBilled.Currency(),
		},
	}, nil
}
