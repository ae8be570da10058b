package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/parklease/backend/internal/application/billing"
	"github.com/parklease/backend/internal/domain/billing"
	"github.com/parklease/backend/internal/interfaces/http/dto"
)

// PaymentHandler handles payment recording and review API endpoints
type PaymentHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(billingService *billingapp.BillingService) *PaymentHandler {
	return &PaymentHandler{
		billingService: billingService,
	}
}

// RecordPaymentRequest represents a request to record a tenant payment
type RecordPaymentRequest struct {
	ContractID    string  `json:"contract_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	PaymentDate   string  `json:"payment_date" binding:"required,datetime=2006-01-02"`
	Method        string  `json:"method" binding:"required,oneof=cash check bank_transfer mobile_banking"`
	CheckNumber   string  `json:"check_number" binding:"max=50"`
	CheckImageRef string  `json:"check_image_ref" binding:"max=500"`
}

// ReviewPaymentRequest represents a review decision on a pending payment
type ReviewPaymentRequest struct {
	ReviewerID string `json:"reviewer_id" binding:"required,uuid"`
}

// PaymentListFilter represents payment list query parameters
type PaymentListFilter struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
}

// Record registers a payment awaiting review
func (h *PaymentHandler) Record(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}
	paymentDate, err := time.Parse(dateLayout, req.PaymentDate)
	if err != nil {
		h.BadRequest(c, "Invalid payment date")
		return
	}

	payment, err := h.billingService.RecordPayment(c.Request.Context(), billingapp.RecordPaymentRequest{
		ContractID:    contractID,
		Amount:        decimal.NewFromFloat(req.Amount),
		PaymentDate:   paymentDate,
		Method:        billing.PaymentMethod(req.Method),
		CheckNumber:   req.CheckNumber,
		CheckImageRef: req.CheckImageRef,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// GetByID retrieves a payment with its allocation trail
func (h *PaymentHandler) GetByID(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.billingService.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// Approve accepts a pending payment and allocates it across outstanding bills
func (h *PaymentHandler) Approve(c *gin.Context) {
	h.review(c, true)
}

// Reject declines a pending payment without touching any bill
func (h *PaymentHandler) Reject(c *gin.Context) {
	h.review(c, false)
}

func (h *PaymentHandler) review(c *gin.Context, approve bool) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ReviewPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	reviewerID, err := uuid.Parse(req.ReviewerID)
	if err != nil {
		h.BadRequest(c, "Invalid reviewer ID format")
		return
	}

	result, err := h.billingService.ReviewPayment(c.Request.Context(), paymentID, approve, reviewerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByContract returns a contract's payments newest first
func (h *PaymentHandler) ListByContract(c *gin.Context) {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	var req PaymentListFilter
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

	var filter billing.PaymentFilter
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	if req.Status != "" {
		status := billing.ApprovalStatus(req.Status)
		filter.Status = &status
	}

	result, err := h.billingService.ListPayments(c.Request.Context(), contractID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Record)
		payments.GET("/:id", h.GetByID)
		payments.POST("/:id/approve", h.Approve)
		payments.POST("/:id/reject", h.Reject)
	}

	contracts := rg.Group("/contracts")
	{
		contracts.GET("/:id/payments", h.ListByContract)
	}
}
