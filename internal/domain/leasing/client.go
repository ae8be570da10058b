package leasing

import (
	"github.com/parklease/backend/internal/domain/shared"
)

// Client represents a tenant company leasing space in the park
type Client struct {
	shared.BaseAggregateRoot
	CompanyName   string `json:"company_name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// NewClient creates a new client
func NewClient(companyName, contactPerson, email, phone, address string) (*Client, error) {
	if companyName == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(companyName) > 200 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 200 characters")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}

	return &Client{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyName:       companyName,
		ContactPerson:     contactPerson,
		Email:             email,
		Phone:             phone,
		Address:           address,
	}, nil
}

// UpdateContactInfo updates the client's contact details
func (c *Client) UpdateContactInfo(contactPerson, phone, address string) {
	c.ContactPerson = contactPerson
	c.Phone = phone
	c.Address = address
	c.Touch()
	c.IncrementVersion()
}

// ChangeEmail updates the client's email address
func (c *Client) ChangeEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	c.Email = email
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Rename changes the company name
func (c *Client) Rename(companyName string) error {
	if companyName == "" {
		return shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	c.CompanyName = companyName
	c.Touch()
	c.IncrementVersion()
	return nil
}
