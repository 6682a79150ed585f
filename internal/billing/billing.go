// Package billing holds the fee arithmetic for address ledgers.
package billing

import "wasteworks/internal/models"

const (
	// DefaultMonthlyFee is the flat garbage-service fee charged to every
	// address at the start of each month, in currency units.
	DefaultMonthlyFee = 3190

	// RefundPerKilogram is the credit per kilogram of recycled garbage.
	RefundPerKilogram = 319
)

// ComputeRefund returns the recycling credit for a submitted weight.
func ComputeRefund(recycleKg float64) float64 {
	return recycleKg * RefundPerKilogram
}

// ApplyWeights records a weight submission on the address and reprices it.
// The refund for this submission is subtracted from the current monthly
// payment exactly once; no floor is applied, so the payment can go negative
// when the refund exceeds the amount due.
func ApplyWeights(addr *models.Address, garbageKg, recycleKg float64) {
	refund := ComputeRefund(recycleKg)
	addr.GarbageWeight = garbageKg
	addr.RecycleGarbageWeight = recycleKg
	addr.RefundAmount = refund
	addr.MonthlyPayment -= refund
}
