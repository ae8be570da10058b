package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupLeasingTestDB creates an in-memory SQLite database with the leasing tables
func setupLeasingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.ClientModel{}, &models.ContractModel{}, &models.RateHistoryModel{})
	require.NoError(t, err)

	return db
}

func mustContract(t *testing.T, clientID uuid.UUID, number string) (*leasing.Contract, *leasing.RateHistoryEntry) {
	t.Helper()
	contract, entry, err := leasing.NewContract(clientID, number,
		decimal.NewFromInt(2000), decimal.NewFromInt(30), decimal.NewFromInt(5),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	require.NoError(t, err)
	return contract, entry
}

func TestGormClientRepository_SaveAndFind(t *testing.T) {
	db := setupLeasingTestDB(t)
	repo := NewGormClientRepository(db)
	ctx := context.Background()

	client, err := leasing.NewClient("Acme Textiles Ltd", "Rahim Uddin", "rahim@acme.example", "+8801711000000", "Dhaka")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))

	t.Run("finds by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Textiles Ltd", found.CompanyName)
	})

	t.Run("finds by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "rahim@acme.example")
		require.NoError(t, err)
		assert.Equal(t, client.ID, found.ID)
	})

	t.Run("returns ErrNotFound for unknown email", func(t *testing.T) {
		_, err := repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("updates on second save", func(t *testing.T) {
		require.NoError(t, client.Rename("Acme Group Ltd"))
		require.NoError(t, repo.Save(ctx, client))

		found, err := repo.FindByID(ctx, client.ID)
		require.NoError(t, err)
		assert.Equal(t, "Acme Group Ltd", found.CompanyName)
	})

	t.Run("delete removes the client", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, client.ID))
		_, err := repo.FindByID(ctx, client.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, client.ID), shared.ErrNotFound)
	})
}

func TestGormContractRepository_SaveAndFind(t *testing.T) {
	db := setupLeasingTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()
	clientID := uuid.New()

	contract, _ := mustContract(t, clientID, "CT-2025-001")
	require.NoError(t, repo.Save(ctx, contract))

	t.Run("finds by number", func(t *testing.T) {
		found, err := repo.FindByNumber(ctx, "CT-2025-001")
		require.NoError(t, err)
		assert.Equal(t, contract.ID, found.ID)
		assert.Equal(t, "2000", found.SpaceInSqft.String())
		assert.Equal(t, leasing.ContractStatusActive, found.Status)
	})

	t.Run("duplicate contract number is rejected", func(t *testing.T) {
		other, _ := mustContract(t, clientID, "CT-2025-001")
		assert.ErrorIs(t, repo.Save(ctx, other), shared.ErrAlreadyExists)
	})

	t.Run("filters by client and status", func(t *testing.T) {
		second, _ := mustContract(t, clientID, "CT-2025-002")
		require.NoError(t, second.Terminate(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, repo.Save(ctx, second))

		active := leasing.ContractStatusActive
		contracts, total, err := repo.FindAll(ctx, leasing.ContractFilter{
			Filter:   shared.Filter{Page: 1, PageSize: 10},
			ClientID: &clientID,
			Status:   &active,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, contracts, 1)
		assert.Equal(t, "CT-2025-001", contracts[0].ContractNumber)
	})
}

func TestGormContractRepository_RateHistory(t *testing.T) {
	db := setupLeasingTestDB(t)
	repo := NewGormContractRepository(db)
	ctx := context.Background()

	contract, initial := mustContract(t, uuid.New(), "CT-2025-001")
	require.NoError(t, repo.Save(ctx, contract))
	require.NoError(t, repo.AppendRateHistory(ctx, initial))

	revised, err := contract.UpdateRates(decimal.NewFromInt(35), decimal.NewFromInt(6),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, contract))
	require.NoError(t, repo.AppendRateHistory(ctx, revised))

	history, err := repo.RateHistory(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	// oldest first
	assert.Equal(t, "30", history[0].RentRate.String())
	assert.Equal(t, "35", history[1].RentRate.String())
	assert.True(t, history[0].EffectiveDate.Before(history[1].EffectiveDate))
}
