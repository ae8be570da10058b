package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApprovalStatus represents the review status of a payment
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"  // Awaiting review
	ApprovalStatusApproved ApprovalStatus = "approved" // Accepted and allocated
	ApprovalStatusRejected ApprovalStatus = "rejected" // Declined, never allocated
)

// IsValid checks if the status is a valid ApprovalStatus
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ApprovalStatus
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the payment has been reviewed; terminal
// statuses never transition again
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// PaymentMethod represents how a tenant remitted a payment
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCheck         PaymentMethod = "check"
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodMobileBanking PaymentMethod = "mobile_banking"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCheck, PaymentMethodBankTransfer, PaymentMethodMobileBanking:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// AllocationRecord is one step of a payment's allocation trail: how much of
// the payment landed on which bill, and the bill's state after it did.
// It is a value object within the Payment aggregate, stored as JSONB.
type AllocationRecord struct {
	BillID       uuid.UUID       `json:"bill_id"`
	BillMonth    BillMonth       `json:"bill_month"`
	Allocated    decimal.Decimal `json:"allocated"`
	PreviousPaid decimal.Decimal `json:"previous_paid"`
	NewPaid      decimal.Decimal `json:"new_paid"`
	Status       PaymentStatus   `json:"status"`
}

// AllocationRecords is a slice of AllocationRecord that implements GORM
// Scanner/Valuer for JSONB storage
type AllocationRecords []AllocationRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (a AllocationRecords) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (a *AllocationRecords) Scan(value interface{}) error {
	if value == nil {
		*a = AllocationRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan AllocationRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*a = AllocationRecords{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Payment represents a tenant remittance against a contract. It is created
// pending; a reviewer approves or rejects it exactly once. Only approved
// payments are ever allocated against bills.
type Payment struct {
	shared.BaseAggregateRoot
	ContractID    uuid.UUID         `json:"contract_id"`
	Amount        decimal.Decimal   `json:"amount"`
	PaymentDate   time.Time         `json:"payment_date"`
	Method        PaymentMethod     `json:"method"`
	CheckNumber   string            `json:"check_number,omitempty"`
	CheckImageRef string            `json:"check_image_ref,omitempty"`
	Status        ApprovalStatus    `json:"status"`
	ApprovedBy    *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time        `json:"approved_at,omitempty"`
	// BillLedgerID points at the LAST bill the payment touched during
	// allocation. The full breakdown lives in Allocations; this link is kept
	// for callers that only care about the most recent month settled.
	BillLedgerID *uuid.UUID        `json:"bill_ledger_id,omitempty"`
	Allocations  AllocationRecords `json:"allocations"`
}

// NewPayment creates a pending payment awaiting review
func NewPayment(contractID uuid.UUID, amount decimal.Decimal, paymentDate time.Time, method PaymentMethod, checkNumber, checkImageRef string) (*Payment, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTRACT", "Contract ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method is not valid")
	}
	if method == PaymentMethodCheck && checkNumber == "" {
		return nil, shared.NewDomainError("INVALID_CHECK", "Check payments require a check number")
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractID:        contractID,
		Amount:            amount,
		PaymentDate:       paymentDate,
		Method:            method,
		CheckNumber:       checkNumber,
		CheckImageRef:     checkImageRef,
		Status:            ApprovalStatusPending,
		Allocations:       AllocationRecords{},
	}, nil
}

// Approve marks the payment approved. Reviewing a payment twice is a conflict.
func (p *Payment) Approve(reviewerID uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("ALREADY_REVIEWED", "Only pending payments can be approved")
	}
	now := time.Now()
	p.Status = ApprovalStatusApproved
	p.ApprovedBy = &reviewerID
	p.ApprovedAt = &now
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Reject declines the payment. Reviewing a payment twice is a conflict.
func (p *Payment) Reject(reviewerID uuid.UUID) error {
	if p.Status.IsTerminal() {
		return shared.NewDomainError("ALREADY_REVIEWED", "Only pending payments can be rejected")
	}
	now := time.Now()
	p.Status = ApprovalStatusRejected
	p.ApprovedBy = &reviewerID
	p.ApprovedAt = &now
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsApproved returns true if the payment has been approved
func (p *Payment) IsApproved() bool {
	return p.Status == ApprovalStatusApproved
}

// RecordAllocations stores the allocation trail and the last-touched bill link
func (p *Payment) RecordAllocations(records []AllocationRecord) {
	p.Allocations = records
	if len(records) > 0 {
		last := records[len(records)-1].BillID
		p.BillLedgerID = &last
	}
	p.Touch()
	p.IncrementVersion()
}
