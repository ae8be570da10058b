package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContractRepository implements leasing.ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

func (r *GormContractRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	var model models.ContractModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a contract by its contract number
func (r *GormContractRepository) FindByNumber(ctx context.Context, contractNumber string) (*leasing.Contract, error) {
	var model models.ContractModel
	if err := r.conn(ctx).First(&model, "contract_number = ?", contractNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds contracts matching the filter, with the total count before
// pagination
func (r *GormContractRepository) FindAll(ctx context.Context, filter leasing.ContractFilter) ([]leasing.Contract, int64, error) {
	query := r.conn(ctx).Model(&models.ContractModel{})

	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var contractModels []models.ContractModel
	if err := query.
		Order("contract_number ASC").
		Find(&contractModels).Error; err != nil {
		return nil, 0, err
	}

	contracts := make([]leasing.Contract, len(contractModels))
	for i, model := range contractModels {
		contracts[i] = *model.ToDomain()
	}
	return contracts, total, nil
}

// Save creates or updates a contract
func (r *GormContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	model := models.ContractModelFromDomain(contract)
	if err := r.conn(ctx).Save(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// AppendRateHistory records a rate change for a contract
func (r *GormContractRepository) AppendRateHistory(ctx context.Context, entry *leasing.RateHistoryEntry) error {
	model := models.RateHistoryModelFromDomain(entry)
	return r.conn(ctx).Create(model).Error
}

// RateHistory returns a contract's rate changes ordered by effective date,
// oldest first
func (r *GormContractRepository) RateHistory(ctx context.Context, contractID uuid.UUID) ([]leasing.RateHistoryEntry, error) {
	var historyModels []models.RateHistoryModel
	if err := r.conn(ctx).
		Where("contract_id = ?", contractID).
		Order("effective_date ASC").
		Find(&historyModels).Error; err != nil {
		return nil, err
	}

	entries := make([]leasing.RateHistoryEntry, len(historyModels))
	for i, model := range historyModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}
