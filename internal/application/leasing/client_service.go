package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
)

// ClientService manages the tenant client registry
type ClientService struct {
	clientRepo leasing.ClientRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo leasing.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// CreateClientRequest carries the details of a new client
type CreateClientRequest struct {
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// CreateClient registers a new client. Email is the uniqueness key when
// provided.
func (s *ClientService) CreateClient(ctx context.Context, req CreateClientRequest) (*leasing.Client, error) {
	if req.Email != "" {
		existing, err := s.clientRepo.FindByEmail(ctx, req.Email)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("CLIENT_EXISTS", "A client with this email already exists")
		}
	}

	client, err := leasing.NewClient(req.CompanyName, req.ContactPerson, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*leasing.Client, error) {
	return s.clientRepo.FindByID(ctx, id)
}

// ListClients returns a page of clients
func (s *ClientService) ListClients(ctx context.Context, filter leasing.ClientFilter) (shared.Paginated[leasing.Client], error) {
	clients, total, err := s.clientRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[leasing.Client]{}, err
	}
	return shared.NewPaginated(clients, total, filter.Page, filter.PageSize), nil
}

// UpdateClientRequest carries updatable client fields
type UpdateClientRequest struct {
	CompanyName   string
	ContactPerson string
	Email         string
	Phone         string
	Address       string
}

// UpdateClient updates a client's name and contact details
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, req UpdateClientRequest) (*leasing.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyName != "" && req.CompanyName != client.CompanyName {
		if err := client.Rename(req.CompanyName); err != nil {
			return nil, err
		}
	}
	if req.Email != "" && req.Email != client.Email {
		existing, err := s.clientRepo.FindByEmail(ctx, req.Email)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("CLIENT_EXISTS", "A client with this email already exists")
		}
		if err := client.ChangeEmail(req.Email); err != nil {
			return nil, err
		}
	}
	client.UpdateContactInfo(req.ContactPerson, req.Phone, req.Address)

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client from the registry
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clientRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}
