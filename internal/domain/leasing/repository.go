package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/shared"
)

// ClientFilter holds filter options for client queries
type ClientFilter struct {
	shared.Filter
	Search string
}

// ClientRepository is the persistence contract for Client aggregates
type ClientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Client, error)
	FindByEmail(ctx context.Context, email string) (*Client, error)
	FindAll(ctx context.Context, filter ClientFilter) ([]Client, int64, error)
	Save(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractFilter holds filter options for contract queries
type ContractFilter struct {
	shared.Filter
	ClientID *uuid.UUID
	Status   *ContractStatus
}

// ContractRepository is the persistence contract for Contract aggregates
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByNumber(ctx context.Context, contractNumber string) (*Contract, error)
	FindAll(ctx context.Context, filter ContractFilter) ([]Contract, int64, error)
	Save(ctx context.Context, contract *Contract) error
	AppendRateHistory(ctx context.Context, entry *RateHistoryEntry) error
	RateHistory(ctx context.Context, contractID uuid.UUID) ([]RateHistoryEntry, error)
}
