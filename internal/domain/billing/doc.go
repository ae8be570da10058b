// Package billing implements the lease billing ledger bounded context.
//
// It is responsible for:
//   - Materializing one bill per (contract, calendar month) at the contract's
//     current rates
//   - Deriving the ordered arrears view across a contract's unpaid history,
//     oldest month first, with a running cumulative due
//   - Allocating approved tenant payments across arrears FIFO, oldest bill
//     first, while conserving every taka of the payment
//
// Key Aggregates:
//   - BillLedger: the per-contract, per-month billing record (amount owed vs paid)
//   - Payment: a tenant remittance with a pending/approved/rejected review cycle
//
// Value Objects:
//   - BillMonth: a calendar month in YYYY-MM form; its lexicographic order is
//     the chronological order allocation depends on
//   - ArrearsEntry: a bill's outstanding position within the arrears timeline
//
// The FIFO allocation walk itself is pure: it mutates an in-memory snapshot of
// bills and reports a full allocation trail. Persisting the mutated bills
// atomically is the application layer's job.
package billing
