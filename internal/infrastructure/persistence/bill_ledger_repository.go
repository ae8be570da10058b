package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/billing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillLedgerRepository implements billing.BillLedgerRepository using GORM
type GormBillLedgerRepository struct {
	db *gorm.DB
}

// NewGormBillLedgerRepository creates a new GormBillLedgerRepository
func NewGormBillLedgerRepository(db *gorm.DB) *GormBillLedgerRepository {
	return &GormBillLedgerRepository{db: db}
}

func (r *GormBillLedgerRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a bill by its ID
func (r *GormBillLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillLedger, error) {
	var model models.BillLedgerModel
	if err := r.conn(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContractAndMonth finds the bill for one contract and one month
func (r *GormBillLedgerRepository) FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month billing.BillMonth) (*billing.BillLedger, error) {
	var model models.BillLedgerModel
	if err := r.conn(ctx).
		Where("contract_id = ? AND bill_month = ?", contractID, month).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByContract returns all of a contract's bills ascending by bill month
func (r *GormBillLedgerRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.BillLedger, error) {
	var billModels []models.BillLedgerModel
	if err := r.conn(ctx).
		Where("contract_id = ?", contractID).
		Order("bill_month ASC").
		Find(&billModels).Error; err != nil {
		return nil, err
	}
	return toDomainBills(billModels), nil
}

// FindOutstandingByContract returns unpaid and partial bills ascending by
// bill month. When called inside a transaction the rows are locked with
// SELECT ... FOR UPDATE so concurrent allocations against the same contract
// serialize instead of double-spending a bill's remaining amount.
func (r *GormBillLedgerRepository) FindOutstandingByContract(ctx context.Context, contractID uuid.UUID) ([]billing.BillLedger, error) {
	query := r.conn(ctx).
		Where("contract_id = ? AND status IN ?", contractID, []billing.PaymentStatus{
			billing.PaymentStatusUnpaid,
			billing.PaymentStatusPartial,
		}).
		Order("bill_month ASC")

	if inTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var billModels []models.BillLedgerModel
	if err := query.Find(&billModels).Error; err != nil {
		return nil, err
	}
	return toDomainBills(billModels), nil
}

// Create inserts a new bill. A bill already existing for the same contract
// and month fails with shared.ErrAlreadyExists via the unique index.
func (r *GormBillLedgerRepository) Create(ctx context.Context, bill *billing.BillLedger) error {
	model := models.BillLedgerModelFromDomain(bill)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// UpdatePaidAmount persists a bill's paid amount and derived status with
// optimistic locking
func (r *GormBillLedgerRepository) UpdatePaidAmount(ctx context.Context, bill *billing.BillLedger) error {
	result := r.conn(ctx).
		Model(&models.BillLedgerModel{}).
		Where("id = ? AND version = ?", bill.ID, bill.Version-1).
		Updates(map[string]interface{}{
			"paid_amount": bill.PaidAmount,
			"status":      bill.Status,
			"version":     bill.Version,
			"updated_at":  bill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func toDomainBills(billModels []models.BillLedgerModel) []billing.BillLedger {
	bills := make([]billing.BillLedger, len(billModels))
	for i, model := range billModels {
		bills[i] = *model.ToDomain()
	}
	return bills
}
