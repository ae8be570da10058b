package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	billingapp "github.com/parklease/backend/internal/application/billing"
)

// BillHandler handles monthly bill and ledger API endpoints
type BillHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billingService *billingapp.BillingService) *BillHandler {
	return &BillHandler{
		billingService: billingService,
	}
}

// CreateBillRequest represents a request to generate a monthly bill
type CreateBillRequest struct {
	BillMonth string `json:"bill_month" binding:"required,billmonth"`
}

// CreateMonthlyBill generates the bill for a contract and month at the
// contract's current rates
func (h *BillHandler) CreateMonthlyBill(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	bill, err := h.billingService.CreateMonthlyBill(c.Request.Context(), contractID, req.BillMonth)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, bill)
}

// GetArrears returns the contract's unpaid bills oldest first with rolling
// running totals
func (h *BillHandler) GetArrears(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	arrears, err := h.billingService.ComputeArrears(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, arrears)
}

// GetLedger returns the full billing ledger for a contract: bills, approved
// payments, arrears and totals
func (h *BillHandler) GetLedger(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	ledger, err := h.billingService.GetContractLedger(c.Request.Context(), contractID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ledger)
}

// RegisterRoutes registers bill and ledger routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	contracts := rg.Group("/contracts")
	{
		contracts.POST("/:id/bills", h.CreateMonthlyBill)
		contracts.GET("/:id/arrears", h.GetArrears)
		contracts.GET("/:id/ledger", h.GetLedger)
	}
}
