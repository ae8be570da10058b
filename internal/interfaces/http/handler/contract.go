package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	leasingapp "github.com/parklease/backend/internal/application/leasing"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/interfaces/http/dto"
)

const dateLayout = "2006-01-02"

// ContractHandler handles lease contract API endpoints
type ContractHandler struct {
	BaseHandler
	contractService *leasingapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contractService *leasingapp.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// CreateContractRequest represents a request to create a lease contract
type CreateContractRequest struct {
	ClientID          string  `json:"client_id" binding:"required,uuid"`
	ContractNumber    string  `json:"contract_number" binding:"required,min=1,max=50"`
	SpaceInSqft       float64 `json:"space_in_sqft" binding:"required,gt=0"`
	RentRate          float64 `json:"rent_rate" binding:"required,gt=0"`
	ServiceChargeRate float64 `json:"service_charge_rate" binding:"gte=0"`
	StartDate         string  `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate           string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateContractRequest represents a partial update of a contract's details.
// Omitted fields stay unchanged; rate revisions use the rates endpoint.
type UpdateContractRequest struct {
	ContractNumber string  `json:"contract_number" binding:"omitempty,min=1,max=50"`
	SpaceInSqft    float64 `json:"space_in_sqft" binding:"omitempty,gt=0"`
	StartDate      string  `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate        string  `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateRatesRequest represents a request to revise a contract's rates
type UpdateRatesRequest struct {
	RentRate          float64 `json:"rent_rate" binding:"required,gt=0"`
	ServiceChargeRate float64 `json:"service_charge_rate" binding:"gte=0"`
	EffectiveDate     string  `json:"effective_date" binding:"required,datetime=2006-01-02"`
}

// TerminateContractRequest represents a request to end a contract early
type TerminateContractRequest struct {
	EndDate string `json:"end_date" binding:"required,datetime=2006-01-02"`
}

// ContractListFilter represents contract list query parameters
type ContractListFilter struct {
	dto.ListRequest
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active expired terminated"`
}

// Create registers a new lease contract
func (h *ContractHandler) Create(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start date")
		return
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date")
			return
		}
		endDate = &parsed
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), leasingapp.CreateContractRequest{
		ClientID:          clientID,
		ContractNumber:    req.ContractNumber,
		SpaceInSqft:       decimal.NewFromFloat(req.SpaceInSqft),
		RentRate:          decimal.NewFromFloat(req.RentRate),
		ServiceChargeRate: decimal.NewFromFloat(req.ServiceChargeRate),
		StartDate:         startDate,
		EndDate:           endDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, contract)
}

// GetByID retrieves a contract by its ID
func (h *ContractHandler) GetByID(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// GetByNumber retrieves a contract by its contract number
func (h *ContractHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Contract number is required")
		return
	}

	contract, err := h.contractService.GetContractByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// List returns contracts with pagination and optional filters
func (h *ContractHandler) List(c *gin.Context) {
	var req ContractListFilter
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	var filter leasing.ContractFilter
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			h.BadRequest(c, "Invalid client ID format")
			return
		}
		filter.ClientID = &clientID
	}
	if req.Status != "" {
		status := leasing.ContractStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.contractService.ListContracts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update changes a contract's number, space or schedule
func (h *ContractHandler) Update(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updateReq := leasingapp.UpdateContractRequest{
		ContractNumber: req.ContractNumber,
	}
	if req.SpaceInSqft > 0 {
		updateReq.SpaceInSqft = decimal.NewFromFloat(req.SpaceInSqft)
	}
	if req.StartDate != "" {
		startDate, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start date")
			return
		}
		updateReq.StartDate = &startDate
	}
	if req.EndDate != "" {
		endDate, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end date")
			return
		}
		updateReq.EndDate = &endDate
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), contractID, updateReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// UpdateRates revises a contract's rates and records the change in its history
func (h *ContractHandler) UpdateRates(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req UpdateRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	effectiveDate, err := time.Parse(dateLayout, req.EffectiveDate)
	if err != nil {
		h.BadRequest(c, "Invalid effective date")
		return
	}

	contract, err := h.contractService.UpdateRates(c.Request.Context(), contractID, leasingapp.UpdateRatesRequest{
		RentRate:          decimal.NewFromFloat(req.RentRate),
		ServiceChargeRate: decimal.NewFromFloat(req.ServiceChargeRate),
		EffectiveDate:     effectiveDate,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// GetRateHistory returns a contract's rate changes oldest first
func (h *ContractHandler) GetRateHistory(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	history, err := h.contractService.GetRateHistory(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}

// Terminate ends a contract before its natural end date
func (h *ContractHandler) Terminate(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req TerminateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		h.BadRequest(c, "Invalid end date")
		return
	}

	contract, err := h.contractService.TerminateContract(c.Request.Context(), contractID, endDate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// Expire moves a contract past its end date to expired
func (h *ContractHandler) Expire(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contractService.ExpireContract(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, contract)
}

// RegisterRoutes registers contract routes
func (h *ContractHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	{
		contracts.POST("", h.Create)
		contracts.GET("", h.List)
		contracts.GET("/:id", h.GetByID)
		contracts.PUT("/:id", h.Update)
		contracts.GET("/number/:number", h.GetByNumber)
		contracts.PUT("/:id/rates", h.UpdateRates)
		contracts.GET("/:id/rate-history", h.GetRateHistory)
		contracts.POST("/:id/terminate", h.Terminate)
		contracts.POST("/:id/expire", h.Expire)
	}
}
