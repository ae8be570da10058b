package billing

import (
	"regexp"
	"time"

	"github.com/parklease/backend/internal/domain/shared"
)

// billMonthPattern matches YYYY-MM with a valid month part
var billMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// BillMonth is a calendar month in YYYY-MM form. String comparison of two
// BillMonth values is equivalent to chronological comparison, which is what
// arrears ordering and FIFO allocation rely on.
type BillMonth string

// ParseBillMonth validates and returns a BillMonth
func ParseBillMonth(s string) (BillMonth, error) {
	if !billMonthPattern.MatchString(s) {
		return "", shared.NewDomainError("INVALID_BILL_MONTH", "Bill month must be in YYYY-MM format")
	}
	return BillMonth(s), nil
}

// BillMonthOf returns the BillMonth containing the given time
func BillMonthOf(t time.Time) BillMonth {
	return BillMonth(t.Format("2006-01"))
}

// String returns the YYYY-MM representation
func (m BillMonth) String() string {
	return string(m)
}

// Before reports whether m is chronologically earlier than other
func (m BillMonth) Before(other BillMonth) bool {
	return m < other
}

// IsZero reports whether the month is unset
func (m BillMonth) IsZero() bool {
	return m == ""
}
