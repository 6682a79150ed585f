package billing

import (
	"testing"

	"wasteworks/internal/models"
)

func TestComputeRefund(t *testing.T) {
	tests := []struct {
		recycleKg float64
		want      float64
	}{
		{0, 0},
		{1, 319},
		{10, 3190},
		{2.5, 797.5},
	}
	for _, tt := range tests {
		if got := ComputeRefund(tt.recycleKg); got != tt.want {
			t.Errorf("ComputeRefund(%v) = %v, want %v", tt.recycleKg, got, tt.want)
		}
	}
}

func TestApplyWeightsZeroesOutDefaultFee(t *testing.T) {
	addr := models.Address{MonthlyPayment: DefaultMonthlyFee}

	ApplyWeights(&addr, 50, 10)

	if addr.GarbageWeight != 50 {
		t.Errorf("garbageWeight = %v, want 50", addr.GarbageWeight)
	}
	if addr.RecycleGarbageWeight != 10 {
		t.Errorf("recycleGarbageWeight = %v, want 10", addr.RecycleGarbageWeight)
	}
	if addr.RefundAmount != 3190 {
		t.Errorf("refundAmount = %v, want 3190", addr.RefundAmount)
	}
	if addr.MonthlyPayment != 0 {
		t.Errorf("monthlyPayment = %v, want 0", addr.MonthlyPayment)
	}
}

func TestApplyWeightsCanGoNegative(t *testing.T) {
	addr := models.Address{MonthlyPayment: DefaultMonthlyFee}

	ApplyWeights(&addr, 0, 20)

	if addr.MonthlyPayment != DefaultMonthlyFee-20*RefundPerKilogram {
		t.Errorf("monthlyPayment = %v, want %v", addr.MonthlyPayment, DefaultMonthlyFee-20*RefundPerKilogram)
	}
	if addr.MonthlyPayment >= 0 {
		t.Errorf("expected negative payment, got %v", addr.MonthlyPayment)
	}
}

func TestApplyWeightsNotCumulative(t *testing.T) {
	addr := models.Address{MonthlyPayment: DefaultMonthlyFee}

	ApplyWeights(&addr, 30, 5)
	payment := addr.MonthlyPayment

	// A second submission subtracts only its own refund from the
	// current payment, it does not reapply the first one.
	ApplyWeights(&addr, 30, 2)

	if addr.RefundAmount != 2*RefundPerKilogram {
		t.Errorf("refundAmount = %v, want %v", addr.RefundAmount, 2*RefundPerKilogram)
	}
	if addr.MonthlyPayment != payment-2*RefundPerKilogram {
		t.Errorf("monthlyPayment = %v, want %v", addr.MonthlyPayment, payment-2*RefundPerKilogram)
	}
}
