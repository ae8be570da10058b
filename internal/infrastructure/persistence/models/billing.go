package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// BillLedgerModel is the persistence model for the BillLedger aggregate root.
// The unique index on (contract_id, bill_month) enforces one bill per
// contract per month even under concurrent creates.
type BillLedgerModel struct {
	AggregateModel
	ContractID    uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_bill_contract_month,priority:1"`
	BillMonth     billing.BillMonth     `gorm:"type:varchar(7);not null;uniqueIndex:idx_bill_contract_month,priority:2"`
	RentAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	ServiceAmount decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	MonthlyTotal  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PaidAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status        billing.PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid';index"`
}

// TableName returns the table name for GORM
func (BillLedgerModel) TableName() string {
	return "bill_ledgers"
}

// ToDomain converts the persistence model to a domain BillLedger entity.
func (m *BillLedgerModel) ToDomain() *billing.BillLedger {
	return &billing.BillLedger{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		BillMonth:         m.BillMonth,
		RentAmount:        m.RentAmount,
		ServiceAmount:     m.ServiceAmount,
		MonthlyTotal:      m.MonthlyTotal,
		PaidAmount:        m.PaidAmount,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain BillLedger entity.
func (m *BillLedgerModel) FromDomain(b *billing.BillLedger) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ContractID = b.ContractID
	m.BillMonth = b.BillMonth
	m.RentAmount = b.RentAmount
	m.ServiceAmount = b.ServiceAmount
	m.MonthlyTotal = b.MonthlyTotal
	m.PaidAmount = b.PaidAmount
	m.Status = b.Status
}

// BillLedgerModelFromDomain creates a new persistence model from a domain BillLedger.
func BillLedgerModelFromDomain(b *billing.BillLedger) *BillLedgerModel {
	m := &BillLedgerModel{}
	m.FromDomain(b)
	return m
}

// PaymentModel is the persistence model for the Payment aggregate root.
// The allocation trail is stored as JSONB alongside the payment.
type PaymentModel struct {
	AggregateModel
	ContractID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	PaymentDate   time.Time                 `gorm:"not null;index"`
	Method        billing.PaymentMethod     `gorm:"type:varchar(20);not null"`
	CheckNumber   string                    `gorm:"type:varchar(50)"`
	CheckImageRef string                    `gorm:"type:varchar(500)"`
	Status        billing.ApprovalStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	ApprovedBy    *uuid.UUID                `gorm:"type:uuid"`
	ApprovedAt    *time.Time
	BillLedgerID  *uuid.UUID                `gorm:"type:uuid;index"`
	Allocations   billing.AllocationRecords `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *billing.Payment {
	return &billing.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractID:        m.ContractID,
		Amount:            m.Amount,
		PaymentDate:       m.PaymentDate,
		Method:            m.Method,
		CheckNumber:       m.CheckNumber,
		CheckImageRef:     m.CheckImageRef,
		Status:            m.Status,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		BillLedgerID:      m.BillLedgerID,
		Allocations:       m.Allocations,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *billing.Payment) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ContractID = p.ContractID
	m.Amount = p.Amount
	m.PaymentDate = p.PaymentDate
	m.Method = p.Method
	m.CheckNumber = p.CheckNumber
	m.CheckImageRef = p.CheckImageRef
	m.Status = p.Status
	m.ApprovedBy = p.ApprovedBy
	m.ApprovedAt = p.ApprovedAt
	m.BillLedgerID = p.BillLedgerID
	m.Allocations = p.Allocations
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment.
func PaymentModelFromDomain(p *billing.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
