package leasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the lifecycle status of a lease contract
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"     // Billable
	ContractStatusExpired    ContractStatus = "expired"    // Past end date
	ContractStatusTerminated ContractStatus = "terminated" // Ended early
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusTerminated:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// Contract represents a leased space agreement with a client.
// Rates on the contract are the CURRENT rates; monthly bills are always priced
// from them at creation time, never from historical rate entries.
type Contract struct {
	shared.BaseAggregateRoot
	ContractNumber    string          `json:"contract_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	SpaceInSqft       decimal.Decimal `json:"space_in_sqft"`
	RentRate          decimal.Decimal `json:"rent_rate"`           // per sqft per month
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate"` // per sqft per month
	Status            ContractStatus  `json:"status"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           *time.Time      `json:"end_date"`
}

// RateHistoryEntry records a rate change on a contract
type RateHistoryEntry struct {
	shared.BaseEntity
	ContractID        uuid.UUID       `json:"contract_id"`
	RentRate          decimal.Decimal `json:"rent_rate"`
	ServiceChargeRate decimal.Decimal `json:"service_charge_rate"`
	EffectiveDate     time.Time       `json:"effective_date"`
}

// NewContract creates a new lease contract in active status, together with its
// initial rate history entry
func NewContract(
	clientID uuid.UUID,
	contractNumber string,
	spaceInSqft, rentRate, serviceChargeRate decimal.Decimal,
	startDate time.Time,
	endDate *time.Time,
) (*Contract, *RateHistoryEntry, error) {
	if clientID == uuid.Nil {
		return nil, nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if contractNumber == "" {
		return nil, nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if len(contractNumber) > 50 {
		return nil, nil, shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot exceed 50 characters")
	}
	if spaceInSqft.LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewDomainError("INVALID_SPACE", "Space must be positive")
	}
	if rentRate.IsNegative() || serviceChargeRate.IsNegative() {
		return nil, nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	if endDate != nil && endDate.Before(startDate) {
		return nil, nil, shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}

	c := &Contract{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContractNumber:    contractNumber,
		ClientID:          clientID,
		SpaceInSqft:       spaceInSqft,
		RentRate:          rentRate,
		ServiceChargeRate: serviceChargeRate,
		Status:            ContractStatusActive,
		StartDate:         startDate,
		EndDate:           endDate,
	}
	return c, c.rateHistoryAt(startDate), nil
}

// IsActive returns true if the contract can be billed
func (c *Contract) IsActive() bool {
	return c.Status == ContractStatusActive
}

// UpdateRates replaces the contract's current rates and returns the history
// entry recording the change
func (c *Contract) UpdateRates(rentRate, serviceChargeRate decimal.Decimal, effectiveDate time.Time) (*RateHistoryEntry, error) {
	if rentRate.IsNegative() || serviceChargeRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Rates cannot be negative")
	}
	c.RentRate = rentRate
	c.ServiceChargeRate = serviceChargeRate
	c.Touch()
	c.IncrementVersion()
	return c.rateHistoryAt(effectiveDate), nil
}

// Renumber changes the contract's number
func (c *Contract) Renumber(contractNumber string) error {
	if contractNumber == "" {
		return shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if len(contractNumber) > 50 {
		return shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot exceed 50 characters")
	}
	c.ContractNumber = contractNumber
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Resize changes the leased space. Already-issued bills keep their amounts;
// only future bills are priced from the new space.
func (c *Contract) Resize(spaceInSqft decimal.Decimal) error {
	if spaceInSqft.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_SPACE", "Space must be positive")
	}
	c.SpaceInSqft = spaceInSqft
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Reschedule moves the contract's start and end dates
func (c *Contract) Reschedule(startDate time.Time, endDate *time.Time) error {
	if endDate != nil && endDate.Before(startDate) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}
	c.StartDate = startDate
	c.EndDate = endDate
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Terminate ends the contract early
func (c *Contract) Terminate(endDate time.Time) error {
	if c.Status != ContractStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active contracts can be terminated")
	}
	c.Status = ContractStatusTerminated
	c.EndDate = &endDate
	c.Touch()
	c.IncrementVersion()
	return nil
}

// MarkExpired transitions an active contract past its end date to expired
func (c *Contract) MarkExpired() error {
	if c.Status != ContractStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active contracts can expire")
	}
	if c.EndDate == nil || time.Now().Before(*c.EndDate) {
		return shared.NewDomainError("INVALID_STATE", "Contract end date has not passed")
	}
	c.Status = ContractStatusExpired
	c.Touch()
	c.IncrementVersion()
	return nil
}

// MonthlyRent returns the rent amount for one month at current rates
func (c *Contract) MonthlyRent() valueobject.Money {
	return valueobject.NewMoneyBDT(c.SpaceInSqft.Mul(c.RentRate))
}

// MonthlyServiceCharge returns the service charge for one month at current rates
func (c *Contract) MonthlyServiceCharge() valueobject.Money {
	return valueobject.NewMoneyBDT(c.SpaceInSqft.Mul(c.ServiceChargeRate))
}

func (c *Contract) rateHistoryAt(effectiveDate time.Time) *RateHistoryEntry {
	return &RateHistoryEntry{
		BaseEntity:        shared.NewBaseEntity(),
		ContractID:        c.ID,
		RentRate:          c.RentRate,
		ServiceChargeRate: c.ServiceChargeRate,
		EffectiveDate:     effectiveDate,
	}
}
