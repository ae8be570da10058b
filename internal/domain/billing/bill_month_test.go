package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBillMonth(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"2024-01", true},
		{"2024-12", true},
		{"1999-06", true},
		{"2024-13", false},
		{"2024-00", false},
		{"2024-1", false},
		{"202401", false},
		{"2024-01-15", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseBillMonth(tt.input)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.input, m.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBillMonth_Before(t *testing.T) {
	jan := BillMonth("2024-01")
	feb := BillMonth("2024-02")
	decPrev := BillMonth("2023-12")

	assert.True(t, jan.Before(feb))
	assert.False(t, feb.Before(jan))
	assert.True(t, decPrev.Before(jan))
	assert.False(t, jan.Before(jan))
}

func TestBillMonthOf(t *testing.T) {
	ts := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, BillMonth("2024-03"), BillMonthOf(ts))
}
