package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/shopspring/decimal"
)

// ClientModel is the persistence model for the Client aggregate root.
type ClientModel struct {
	AggregateModel
	CompanyName   string `gorm:"type:varchar(200);not null"`
	ContactPerson string `gorm:"type:varchar(100)"`
	Email         string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone         string `gorm:"type:varchar(30)"`
	Address       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
func (m *ClientModel) ToDomain() *leasing.Client {
	return &leasing.Client{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CompanyName:       m.CompanyName,
		ContactPerson:     m.ContactPerson,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *leasing.Client) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.CompanyName = c.CompanyName
	m.ContactPerson = c.ContactPerson
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
}

// ClientModelFromDomain creates a new persistence model from a domain Client.
func ClientModelFromDomain(c *leasing.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}

// ContractModel is the persistence model for the Contract aggregate root.
type ContractModel struct {
	AggregateModel
	ContractNumber    string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	ClientID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	SpaceInSqft       decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	RentRate          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	ServiceChargeRate decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Status            leasing.ContractStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	StartDate         time.Time              `gorm:"not null"`
	EndDate           *time.Time
}

// TableName returns the table name for GORM
func (ContractModel) TableName() string {
	return "contracts"
}

// ToDomain converts the persistence model to a domain Contract entity.
func (m *ContractModel) ToDomain() *leasing.Contract {
	return &leasing.Contract{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ContractNumber:    m.ContractNumber,
		ClientID:          m.ClientID,
		SpaceInSqft:       m.SpaceInSqft,
		RentRate:          m.RentRate,
		ServiceChargeRate: m.ServiceChargeRate,
		Status:            m.Status,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
	}
}

// FromDomain populates the persistence model from a domain Contract entity.
func (m *ContractModel) FromDomain(c *leasing.Contract) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ContractNumber = c.ContractNumber
	m.ClientID = c.ClientID
	m.SpaceInSqft = c.SpaceInSqft
	m.RentRate = c.RentRate
	m.ServiceChargeRate = c.ServiceChargeRate
	m.Status = c.Status
	m.StartDate = c.StartDate
	m.EndDate = c.EndDate
}

// ContractModelFromDomain creates a new persistence model from a domain Contract.
func ContractModelFromDomain(c *leasing.Contract) *ContractModel {
	m := &ContractModel{}
	m.FromDomain(c)
	return m
}

// RateHistoryModel is the persistence model for contract rate history entries.
type RateHistoryModel struct {
	BaseModel
	ContractID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	RentRate          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ServiceChargeRate decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	EffectiveDate     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RateHistoryModel) TableName() string {
	return "contract_rate_history"
}

// ToDomain converts the persistence model to a domain RateHistoryEntry.
func (m *RateHistoryModel) ToDomain() *leasing.RateHistoryEntry {
	return &leasing.RateHistoryEntry{
		BaseEntity:        m.BaseModel.ToDomain(),
		ContractID:        m.ContractID,
		RentRate:          m.RentRate,
		ServiceChargeRate: m.ServiceChargeRate,
		EffectiveDate:     m.EffectiveDate,
	}
}

// RateHistoryModelFromDomain creates a new persistence model from a domain RateHistoryEntry.
func RateHistoryModelFromDomain(e *leasing.RateHistoryEntry) *RateHistoryModel {
	m := &RateHistoryModel{}
	m.FromDomainBaseEntity(e.BaseEntity)
	m.ContractID = e.ContractID
	m.RentRate = e.RentRate
	m.ServiceChargeRate = e.ServiceChargeRate
	m.EffectiveDate = e.EffectiveDate
	return m
}
