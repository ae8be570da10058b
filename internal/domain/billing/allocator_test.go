package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentAllocator_Allocate(t *testing.T) {
	allocator := NewPaymentAllocator()

	t.Run("spreads payment across two months oldest first", func(t *testing.T) {
		jan := newTestBill(t, "2024-01", 50000, 20000)
		feb := newTestBill(t, "2024-02", 50000, 20000)

		outcome, err := allocator.Allocate(decimal.NewFromInt(100000), []*BillLedger{feb, jan})
		require.NoError(t, err)

		require.Len(t, outcome.Trail, 2)
		assert.Equal(t, BillMonth("2024-01"), outcome.Trail[0].BillMonth)
		assert.Equal(t, "70000", outcome.Trail[0].Allocated.String())
		assert.Equal(t, "0", outcome.Trail[0].PreviousPaid.String())
		assert.Equal(t, "70000", outcome.Trail[0].NewPaid.String())
		assert.Equal(t, PaymentStatusPaid, outcome.Trail[0].Status)

		assert.Equal(t, BillMonth("2024-02"), outcome.Trail[1].BillMonth)
		assert.Equal(t, "30000", outcome.Trail[1].Allocated.String())
		assert.Equal(t, PaymentStatusPartial, outcome.Trail[1].Status)

		assert.True(t, outcome.FullyAllocated)
		assert.True(t, outcome.ExcessAmount.IsZero())

		assert.Equal(t, PaymentStatusPaid, jan.Status)
		assert.Equal(t, "30000", feb.PaidAmount.String())
	})

	t.Run("overpayment settles everything and reports excess", func(t *testing.T) {
		jan := newTestBill(t, "2024-01", 50000, 20000)
		feb := newTestBill(t, "2024-02", 50000, 20000)

		outcome, err := allocator.Allocate(decimal.NewFromInt(200000), []*BillLedger{jan, feb})
		require.NoError(t, err)

		require.Len(t, outcome.Trail, 2)
		assert.Equal(t, "70000", outcome.Trail[0].Allocated.String())
		assert.Equal(t, "70000", outcome.Trail[1].Allocated.String())
		assert.Equal(t, "60000", outcome.ExcessAmount.String())
		assert.False(t, outcome.FullyAllocated)
		assert.Equal(t, PaymentStatusPaid, jan.Status)
		assert.Equal(t, PaymentStatusPaid, feb.Status)
	})

	t.Run("no outstanding bills is a valid no-op", func(t *testing.T) {
		outcome, err := allocator.Allocate(decimal.NewFromInt(5000), nil)
		require.NoError(t, err)

		assert.Empty(t, outcome.Trail)
		assert.Equal(t, "5000", outcome.ExcessAmount.String())
		assert.False(t, outcome.FullyAllocated)
	})

	t.Run("zero payment allocates nothing", func(t *testing.T) {
		jan := newTestBill(t, "2024-01", 50000, 20000)

		outcome, err := allocator.Allocate(decimal.Zero, []*BillLedger{jan})
		require.NoError(t, err)

		assert.Empty(t, outcome.Trail)
		assert.True(t, outcome.FullyAllocated)
		assert.True(t, outcome.ExcessAmount.IsZero())
		assert.Equal(t, PaymentStatusUnpaid, jan.Status)
	})

	t.Run("rejects negative payment", func(t *testing.T) {
		_, err := allocator.Allocate(decimal.NewFromInt(-1), nil)
		assert.Error(t, err)
	})

	t.Run("never touches a newer bill while an older one is open", func(t *testing.T) {
		jan := newTestBill(t, "2024-01", 50000, 20000)
		feb := newTestBill(t, "2024-02", 50000, 20000)
		mar := newTestBill(t, "2024-03", 50000, 20000)

		outcome, err := allocator.Allocate(decimal.NewFromInt(50000), []*BillLedger{mar, feb, jan})
		require.NoError(t, err)

		require.Len(t, outcome.Trail, 1)
		assert.Equal(t, BillMonth("2024-01"), outcome.Trail[0].BillMonth)
		assert.Equal(t, PaymentStatusPartial, jan.Status)
		assert.Equal(t, PaymentStatusUnpaid, feb.Status)
		assert.Equal(t, PaymentStatusUnpaid, mar.Status)
	})

	t.Run("skips settled bills", func(t *testing.T) {
		jan := newTestBill(t, "2024-01", 50000, 20000)
		require.NoError(t, jan.ApplyAllocation(decimal.NewFromInt(70000)))
		feb := newTestBill(t, "2024-02", 50000, 20000)

		outcome, err := allocator.Allocate(decimal.NewFromInt(10000), []*BillLedger{jan, feb})
		require.NoError(t, err)

		require.Len(t, outcome.Trail, 1)
		assert.Equal(t, feb.ID, outcome.Trail[0].BillID)
	})

	t.Run("conserves the payment amount exactly", func(t *testing.T) {
		amounts := []int64{0, 1, 30000, 70000, 100000, 140000, 200000}

		for _, amt := range amounts {
			jan := newTestBill(t, "2024-01", 50000, 20000)
			feb := newTestBill(t, "2024-02", 50000, 20000)

			outcome, err := allocator.Allocate(decimal.NewFromInt(amt), []*BillLedger{jan, feb})
			require.NoError(t, err)

			allocated := decimal.Zero
			for _, rec := range outcome.Trail {
				allocated = allocated.Add(rec.Allocated)
			}
			assert.True(t, allocated.Add(outcome.ExcessAmount).Equal(decimal.NewFromInt(amt)),
				"allocated %s + excess %s must equal payment %d",
				allocated.String(), outcome.ExcessAmount.String(), amt)
			assert.True(t, outcome.TotalAllocated.Equal(allocated))
		}
	})
}
