package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	billingapp "github.com/parklease/backend/internal/application/billing"
	"github.com/parklease/backend/internal/domain/billing"
	"github.com/parklease/backend/internal/domain/leasing"
	"github.com/parklease/backend/internal/domain/shared"
	"github.com/parklease/backend/internal/interfaces/http/dto"
)

// MockContractRepository implements leasing.ContractRepository for testing
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*leasing.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByNumber(ctx context.Context, contractNumber string) (*leasing.Contract, error) {
	args := m.Called(ctx, contractNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leasing.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter leasing.ContractFilter) ([]leasing.Contract, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]leasing.Contract), args.Get(1).(int64), args.Error(2)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *leasing.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) AppendRateHistory(ctx context.Context, entry *leasing.RateHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockContractRepository) RateHistory(ctx context.Context, contractID uuid.UUID) ([]leasing.RateHistoryEntry, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]leasing.RateHistoryEntry), args.Error(1)
}

// MockBillLedgerRepository implements billing.BillLedgerRepository for testing
type MockBillLedgerRepository struct {
	mock.Mock
}

func (m *MockBillLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.BillLedger, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillLedger), args.Error(1)
}

func (m *MockBillLedgerRepository) FindByContractAndMonth(ctx context.Context, contractID uuid.UUID, month billing.BillMonth) (*billing.BillLedger, error) {
	args := m.Called(ctx, contractID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.BillLedger), args.Error(1)
}

func (m *MockBillLedgerRepository) FindByContract(ctx context.Context, contractID uuid.UUID) ([]billing.BillLedger, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillLedger), args.Error(1)
}

func (m *MockBillLedgerRepository) FindOutstandingByContract(ctx context.Context, contractID uuid.UUID) ([]billing.BillLedger, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.BillLedger), args.Error(1)
}

func (m *MockBillLedgerRepository) Create(ctx context.Context, bill *billing.BillLedger) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillLedgerRepository) UpdatePaidAmount(ctx context.Context, bill *billing.BillLedger) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

// MockPaymentRepository implements billing.PaymentRepository for testing
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByContract(ctx context.Context, contractID uuid.UUID, filter billing.PaymentFilter) ([]billing.Payment, int64, error) {
	args := m.Called(ctx, contractID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) FindApprovedByContract(ctx context.Context, contractID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// fakeTxManager runs the unit of work directly without a database
type fakeTxManager struct{}

func (fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type billingTestServer struct {
	engine       *gin.Engine
	contractRepo *MockContractRepository
	billRepo     *MockBillLedgerRepository
	paymentRepo  *MockPaymentRepository
}

func newBillingTestServer() *billingTestServer {
	s := &billingTestServer{
		contractRepo: new(MockContractRepository),
		billRepo:     new(MockBillLedgerRepository),
		paymentRepo:  new(MockPaymentRepository),
	}
	service := billingapp.NewBillingService(s.contractRepo, s.billRepo, s.paymentRepo, fakeTxManager{})

	s.engine = gin.New()
	api := s.engine.Group("/api/v1")
	NewBillHandler(service).RegisterRoutes(api)
	NewPaymentHandler(service).RegisterRoutes(api)
	return s
}

func (s *billingTestServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func activeContract(t *testing.T) *leasing.Contract {
	t.Helper()
	contract, _, err := leasing.NewContract(
		uuid.New(),
		"CT-2025-001",
		decimal.NewFromInt(2000),
		decimal.NewFromInt(30),
		decimal.NewFromInt(5),
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		nil,
	)
	require.NoError(t, err)
	return contract
}

func unpaidBill(t *testing.T, contractID uuid.UUID, month string, total int64) billing.BillLedger {
	t.Helper()
	m, err := billing.ParseBillMonth(month)
	require.NoError(t, err)
	bill, err := billing.NewBillLedger(contractID, m, decimal.NewFromInt(total), decimal.Zero)
	require.NoError(t, err)
	return *bill
}

func TestBillHandler_CreateMonthlyBill(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	s.contractRepo.On("FindByID", mock.Anything, contract.ID).Return(contract, nil)
	s.billRepo.On("FindByContractAndMonth", mock.Anything, contract.ID, billing.BillMonth("2025-03")).
		Return(nil, shared.ErrNotFound)
	s.billRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.BillLedger")).Return(nil)

	w := s.do(t, "POST", "/api/v1/contracts/"+contract.ID.String()+"/bills",
		gin.H{"bill_month": "2025-03"})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "2025-03", data["bill_month"])
	assert.Equal(t, "60000", data["rent_amount"])
	assert.Equal(t, "10000", data["service_amount"])
	assert.Equal(t, "70000", data["monthly_total"])
	assert.Equal(t, "unpaid", data["payment_status"])
}

func TestBillHandler_CreateMonthlyBill_InvalidMonth(t *testing.T) {
	s := newBillingTestServer()
	contractID := uuid.New()

	for _, month := range []string{"2025-13", "2025-3", "March 2025", ""} {
		w := s.do(t, "POST", "/api/v1/contracts/"+contractID.String()+"/bills",
			gin.H{"bill_month": month})
		assert.Equal(t, http.StatusBadRequest, w.Code, "month %q", month)
	}

	s.billRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBillHandler_CreateMonthlyBill_Duplicate(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)
	existing := unpaidBill(t, contract.ID, "2025-03", 70000)

	s.contractRepo.On("FindByID", mock.Anything, contract.ID).Return(contract, nil)
	s.billRepo.On("FindByContractAndMonth", mock.Anything, contract.ID, billing.BillMonth("2025-03")).
		Return(&existing, nil)

	w := s.do(t, "POST", "/api/v1/contracts/"+contract.ID.String()+"/bills",
		gin.H{"bill_month": "2025-03"})

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeBillExists, resp.Error.Code)
	s.billRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBillHandler_CreateMonthlyBill_InvalidContractID(t *testing.T) {
	s := newBillingTestServer()

	w := s.do(t, "POST", "/api/v1/contracts/not-a-uuid/bills", gin.H{"bill_month": "2025-03"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBillHandler_GetArrears(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)
	bills := []billing.BillLedger{
		unpaidBill(t, contract.ID, "2025-01", 70000),
		unpaidBill(t, contract.ID, "2025-02", 70000),
	}

	s.billRepo.On("FindByContract", mock.Anything, contract.ID).Return(bills, nil)

	w := s.do(t, "GET", "/api/v1/contracts/"+contract.ID.String()+"/arrears", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	entries := resp.Data.([]any)
	require.Len(t, entries, 2)

	first := entries[0].(map[string]any)
	second := entries[1].(map[string]any)
	assert.Equal(t, "2025-01", first["bill_month"])
	assert.Equal(t, "70000", first["rolling_due"])
	assert.Equal(t, "2025-02", second["bill_month"])
	assert.Equal(t, "140000", second["rolling_due"])
}

func TestPaymentHandler_Record(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	s.contractRepo.On("FindByID", mock.Anything, contract.ID).Return(contract, nil)
	s.paymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Payment")).Return(nil)

	w := s.do(t, "POST", "/api/v1/payments", gin.H{
		"contract_id":  contract.ID.String(),
		"amount":       50000,
		"payment_date": "2025-03-10",
		"method":       "check",
		"check_number": "CHQ-4471",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, "CHQ-4471", data["check_number"])
}

func TestPaymentHandler_Record_InvalidMethod(t *testing.T) {
	s := newBillingTestServer()

	w := s.do(t, "POST", "/api/v1/payments", gin.H{
		"contract_id":  uuid.New().String(),
		"amount":       50000,
		"payment_date": "2025-03-10",
		"method":       "barter",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	s.paymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentHandler_GetByID(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)
	billID := uuid.New()

	payment, err := billing.NewPayment(contract.ID, decimal.NewFromInt(70000),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), billing.PaymentMethodCash, "", "")
	require.NoError(t, err)
	require.NoError(t, payment.Approve(uuid.New()))
	payment.RecordAllocations([]billing.AllocationRecord{
		{
			BillID:    billID,
			BillMonth: "2025-01",
			Allocated: decimal.NewFromInt(70000),
			NewPaid:   decimal.NewFromInt(70000),
			Status:    billing.PaymentStatusPaid,
		},
	})

	s.paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)

	w := s.do(t, "GET", "/api/v1/payments/"+payment.ID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "approved", data["status"])
	assert.Equal(t, billID.String(), data["bill_ledger_id"])
	allocations := data["allocations"].([]any)
	require.Len(t, allocations, 1)
	assert.Equal(t, "70000", allocations[0].(map[string]any)["allocated"])
}

func TestPaymentHandler_GetByID_NotFound(t *testing.T) {
	s := newBillingTestServer()
	paymentID := uuid.New()

	s.paymentRepo.On("FindByID", mock.Anything, paymentID).Return(nil, shared.ErrNotFound)

	w := s.do(t, "GET", "/api/v1/payments/"+paymentID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentHandler_Approve_AllocatesAcrossBills(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	payment, err := billing.NewPayment(contract.ID, decimal.NewFromInt(100000),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), billing.PaymentMethodCash, "", "")
	require.NoError(t, err)

	bills := []billing.BillLedger{
		unpaidBill(t, contract.ID, "2025-01", 70000),
		unpaidBill(t, contract.ID, "2025-02", 70000),
	}

	s.paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	s.paymentRepo.On("Save", mock.Anything, payment).Return(nil)
	s.billRepo.On("FindOutstandingByContract", mock.Anything, contract.ID).Return(bills, nil)
	s.billRepo.On("UpdatePaidAmount", mock.Anything, mock.AnythingOfType("*billing.BillLedger")).Return(nil)

	w := s.do(t, "POST", "/api/v1/payments/"+payment.ID.String()+"/approve",
		gin.H{"reviewer_id": uuid.New().String()})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	// Oldest bill settled in full, second bill partially
	s.billRepo.AssertNumberOfCalls(t, "UpdatePaidAmount", 2)
}

func TestPaymentHandler_Reject(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	payment, err := billing.NewPayment(contract.ID, decimal.NewFromInt(100000),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), billing.PaymentMethodCash, "", "")
	require.NoError(t, err)

	s.paymentRepo.On("FindByID", mock.Anything, payment.ID).Return(payment, nil)
	s.paymentRepo.On("Save", mock.Anything, payment).Return(nil)

	w := s.do(t, "POST", "/api/v1/payments/"+payment.ID.String()+"/reject",
		gin.H{"reviewer_id": uuid.New().String()})

	assert.Equal(t, http.StatusOK, w.Code)
	s.billRepo.AssertNotCalled(t, "FindOutstandingByContract", mock.Anything, mock.Anything)
	s.billRepo.AssertNotCalled(t, "UpdatePaidAmount", mock.Anything, mock.Anything)
}

func TestPaymentHandler_ListByContract(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	payment, err := billing.NewPayment(contract.ID, decimal.NewFromInt(5000),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), billing.PaymentMethodCash, "", "")
	require.NoError(t, err)

	s.paymentRepo.On("FindByContract", mock.Anything, contract.ID, mock.AnythingOfType("billing.PaymentFilter")).
		Return([]billing.Payment{*payment}, int64(1), nil)

	w := s.do(t, "GET", "/api/v1/contracts/"+contract.ID.String()+"/payments?status=pending", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
}

func TestBillHandler_GetLedger(t *testing.T) {
	s := newBillingTestServer()
	contract := activeContract(t)

	paid := unpaidBill(t, contract.ID, "2025-01", 70000)
	require.NoError(t, paid.ApplyAllocation(decimal.NewFromInt(70000)))
	open := unpaidBill(t, contract.ID, "2025-02", 70000)

	s.contractRepo.On("FindByID", mock.Anything, contract.ID).Return(contract, nil)
	s.billRepo.On("FindByContract", mock.Anything, contract.ID).Return([]billing.BillLedger{paid, open}, nil)
	s.paymentRepo.On("FindApprovedByContract", mock.Anything, contract.ID).Return([]billing.Payment{}, nil)

	w := s.do(t, "GET", "/api/v1/contracts/"+contract.ID.String()+"/ledger", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "70000", data["total_arrears"])

	summary := data["summary"].(map[string]any)
	assert.Equal(t, "140000", summary["total_billed"])
	assert.Equal(t, "70000", summary["total_paid"])
	assert.Equal(t, "70000", summary["total_outstanding"])
	assert.Equal(t, "BDT", summary["currency"])
}
