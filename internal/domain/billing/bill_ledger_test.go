package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helpers

func newTestBill(t *testing.T, month string, rent, service int64) *BillLedger {
	t.Helper()
	m, err := ParseBillMonth(month)
	require.NoError(t, err)
	bill, err := NewBillLedger(uuid.New(), m, decimal.NewFromInt(rent), decimal.NewFromInt(service))
	require.NoError(t, err)
	return bill
}

func TestPaymentStatusFor(t *testing.T) {
	total := decimal.NewFromInt(70000)

	tests := []struct {
		name string
		paid int64
		want PaymentStatus
	}{
		{"nothing paid", 0, PaymentStatusUnpaid},
		{"partially paid", 30000, PaymentStatusPartial},
		{"one taka short", 69999, PaymentStatusPartial},
		{"exactly paid", 70000, PaymentStatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PaymentStatusFor(decimal.NewFromInt(tt.paid), total)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentStatus_IsOutstanding(t *testing.T) {
	assert.True(t, PaymentStatusUnpaid.IsOutstanding())
	assert.True(t, PaymentStatusPartial.IsOutstanding())
	assert.False(t, PaymentStatusPaid.IsOutstanding())
}

func TestNewBillLedger(t *testing.T) {
	t.Run("creates unpaid bill with total fixed at creation", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		assert.Equal(t, BillMonth("2024-01"), bill.BillMonth)
		assert.Equal(t, "70000", bill.MonthlyTotal.String())
		assert.True(t, bill.PaidAmount.IsZero())
		assert.Equal(t, PaymentStatusUnpaid, bill.Status)
		assert.Equal(t, "70000", bill.RemainingAmount().String())
	})

	t.Run("rejects nil contract", func(t *testing.T) {
		_, err := NewBillLedger(uuid.Nil, BillMonth("2024-01"), decimal.NewFromInt(1), decimal.NewFromInt(1))
		assert.Error(t, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := NewBillLedger(uuid.New(), BillMonth("2024-01"), decimal.NewFromInt(-1), decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty month", func(t *testing.T) {
		_, err := NewBillLedger(uuid.New(), BillMonth(""), decimal.NewFromInt(1), decimal.NewFromInt(1))
		assert.Error(t, err)
	})
}

func TestBillLedger_ApplyAllocation(t *testing.T) {
	t.Run("partial allocation moves status to partial", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		err := bill.ApplyAllocation(decimal.NewFromInt(30000))
		require.NoError(t, err)

		assert.Equal(t, "30000", bill.PaidAmount.String())
		assert.Equal(t, PaymentStatusPartial, bill.Status)
		assert.Equal(t, "40000", bill.RemainingAmount().String())
	})

	t.Run("full allocation settles the bill", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		err := bill.ApplyAllocation(decimal.NewFromInt(70000))
		require.NoError(t, err)

		assert.Equal(t, PaymentStatusPaid, bill.Status)
		assert.True(t, bill.RemainingAmount().IsZero())
	})

	t.Run("paid amount never exceeds the monthly total", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		err := bill.ApplyAllocation(decimal.NewFromInt(70001))
		assert.Error(t, err)
		assert.True(t, bill.PaidAmount.IsZero())
		assert.Equal(t, PaymentStatusUnpaid, bill.Status)
	})

	t.Run("rejects zero and negative allocations", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		assert.Error(t, bill.ApplyAllocation(decimal.Zero))
		assert.Error(t, bill.ApplyAllocation(decimal.NewFromInt(-5)))
	})

	t.Run("paid amount only ever increases", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)

		require.NoError(t, bill.ApplyAllocation(decimal.NewFromInt(10000)))
		require.NoError(t, bill.ApplyAllocation(decimal.NewFromInt(20000)))
		require.NoError(t, bill.ApplyAllocation(decimal.NewFromInt(40000)))

		assert.Equal(t, "70000", bill.PaidAmount.String())
		assert.Equal(t, PaymentStatusPaid, bill.Status)

		// Settled bills take no further allocations
		assert.Error(t, bill.ApplyAllocation(decimal.NewFromInt(1)))
	})

	t.Run("status always matches the derivation function", func(t *testing.T) {
		bill := newTestBill(t, "2024-01", 50000, 20000)
		steps := []int64{1, 9999, 25000, 35000}

		for _, s := range steps {
			require.NoError(t, bill.ApplyAllocation(decimal.NewFromInt(s)))
			assert.Equal(t, PaymentStatusFor(bill.PaidAmount, bill.MonthlyTotal), bill.Status)
		}
	})
}
