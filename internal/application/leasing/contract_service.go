package leasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ContractService manages lease contracts and their rate history
type ContractService struct {
	contractRepo leasing.ContractRepository
	clientRepo   leasing.ClientRepository
	txManager    shared.TransactionManager
}

// NewContractService creates a new ContractService
func NewContractService(
	contractRepo leasing.ContractRepository,
	clientRepo leasing.ClientRepository,
	txManager shared.TransactionManager,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		clientRepo:   clientRepo,
		txManager:    txManager,
	}
}

// CreateContractRequest carries the details of a new lease contract
type CreateContractRequest struct {
	ClientID          uuid.UUID
	ContractNumber    string
	SpaceInSqft       decimal.Decimal
	RentRate          decimal.Decimal
	ServiceChargeRate decimal.Decimal
	StartDate         time.Time
	EndDate           *time.Time
}

// CreateContract registers a new lease contract together with its initial
// rate history entry. Contract and history row commit or roll back together.
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (*leasing.Contract, error) {
	if _, err := s.clientRepo.FindByID(ctx, req.ClientID); err != nil {
		return nil, err
	}

	existing, err := s.contractRepo.FindByNumber(ctx, req.ContractNumber)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("CONTRACT_EXISTS", "A contract with this number already exists")
	}

	contract, historyEntry, err := leasing.NewContract(
		req.ClientID, req.ContractNumber,
		req.SpaceInSqft, req.RentRate, req.ServiceChargeRate,
		req.StartDate, req.EndDate,
	)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.contractRepo.Save(txCtx, contract); err != nil {
			return err
		}
		return s.contractRepo.AppendRateHistory(txCtx, historyEntry)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// GetContract retrieves a contract by ID
func (s *ContractService) GetContract(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	return s.contractRepo.FindByID(ctx, id)
}

// GetContractByNumber retrieves a contract by its contract number
func (s *ContractService) GetContractByNumber(ctx context.Context, contractNumber string) (*leasing.Contract, error) {
	return s.contractRepo.FindByNumber(ctx, contractNumber)
}

// ListContracts returns a page of contracts
func (s *ContractService) ListContracts(ctx context.Context, filter leasing.ContractFilter) (shared.Paginated[leasing.Contract], error) {
	contracts, total, err := s.contractRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Contract]{}, err
	}
	return shared.NewPaginated(contracts, total, filter.Page, filter.PageSize), nil
}

// UpdateContractRequest carries a partial update of a contract's details.
// Zero-value fields are left unchanged; rate changes go through UpdateRates.
type UpdateContractRequest struct {
	ContractNumber string
	SpaceInSqft    decimal.Decimal
	StartDate      *time.Time
	EndDate        *time.Time
}

// UpdateContract updates a contract's number, space or schedule. Already-issued
// bills keep their amounts.
func (s *ContractService) UpdateContract(ctx context.Context, id uuid.UUID, req UpdateContractRequest) (*leasing.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ContractNumber != "" && req.ContractNumber != contract.ContractNumber {
		existing, err := s.contractRepo.FindByNumber(ctx, req.ContractNumber)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("CONTRACT_EXISTS", "A contract with this number already exists")
		}
		if err := contract.Renumber(req.ContractNumber); err != nil {
			return nil, err
		}
	}
	if req.SpaceInSqft.IsPositive() {
		if err := contract.Resize(req.SpaceInSqft); err != nil {
			return nil, err
		}
	}
	if req.StartDate != nil || req.EndDate != nil {
		startDate := contract.StartDate
		if req.StartDate != nil {
			startDate = *req.StartDate
		}
		endDate := contract.EndDate
		if req.EndDate != nil {
			endDate = req.EndDate
		}
		if err := contract.Reschedule(startDate, endDate); err != nil {
			return nil, err
		}
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// ExpireContract moves an active contract past its end date to expired
func (s *ContractService) ExpireContract(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.MarkExpired(); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// UpdateRatesRequest carries a contract rate revision
type UpdateRatesRequest struct {
	RentRate          decimal.Decimal
	ServiceChargeRate decimal.Decimal
	EffectiveDate     time.Time
}

// UpdateRates revises a contract's rates and appends the change to its rate
// history. Already-issued bills keep their amounts; only future bills pick up
// the new rates.
func (s *ContractService) UpdateRates(ctx context.Context, id uuid.UUID, req UpdateRatesRequest) (*leasing.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	historyEntry, err := contract.UpdateRates(req.RentRate, req.ServiceChargeRate, req.EffectiveDate)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.contractRepo.Save(txCtx, contract); err != nil {
			return err
		}
		return s.contractRepo.AppendRateHistory(txCtx, historyEntry)
	})
	if err != nil {
		return nil, err
	}
	return contract, nil
}

// GetRateHistory returns a contract's rate revisions, oldest first
func (s *ContractService) GetRateHistory(ctx context.Context, id uuid.UUID) ([]leasing.RateHistoryEntry, error) {
	if _, err := s.contractRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.contractRepo.RateHistory(ctx, id)
}

// TerminateContract ends a contract early
func (s *ContractService) TerminateContract(ctx context.Context, id uuid.UUID, endDate time.Time) (*leasing.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := contract.Terminate(endDate); err != nil {
		return nil, err
	}
	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}
