package lease

import (
	"testing"

	"github.com/dealcipher/udc/money"
)

func TestCalculatePayment_BasePaymentIsExactSum(t *testing.T) {
	adjustedCapCost := money.MoneyFromFloat(28000)
	residual := money.MoneyFromFloat(16000)
	mf, err := money.MoneyFactorFromString("0.00125")
	if err != nil {
		t.Fatalf("MoneyFactorFromString: %v", err)
	}

	result := CalculatePayment(adjustedCapCost, residual, mf, 36)

	want := result.MonthlyDepreciation.Add(result.MonthlyRentCharge)
	if !result.BasePayment.Equal(want) {
		t.Errorf("BasePayment = %s, want exact sum %s (invariant 6)", result.BasePayment, want)
	}
}

func TestCalculatePayment_ResidualAboveCapCostCannotGoNegative(t *testing.T) {
	// AdjustedCapCost below residual must clamp depreciation to zero, not
	// go negative.
	adjustedCapCost := money.MoneyFromFloat(10000)
	residual := money.MoneyFromFloat(15000)
	mf, _ := money.MoneyFactorFromString("0.001")

	result := CalculatePayment(adjustedCapCost, residual, mf, 24)
	if result.MonthlyDepreciation.IsNegative() {
		t.Errorf("MonthlyDepreciation = %s, must never go negative", result.MonthlyDepreciation)
	}
}

func TestCalculateCapCost_AdjustedNeverNegative(t *testing.T) {
	breakdown := CalculateCapCost(
		money.MoneyFromFloat(5000), money.ZeroMoney, money.ZeroMoney, money.ZeroMoney,
		money.MoneyFromFloat(10000), money.ZeroMoney, money.ZeroMoney,
	)
	if breakdown.AdjustedCapCost.IsNegative() {
		t.Errorf("AdjustedCapCost = %s, must clamp at zero", breakdown.AdjustedCapCost)
	}
}

func TestCalculateCapCost_GrossIsSumOfComponents(t *testing.T) {
	breakdown := CalculateCapCost(
		money.MoneyFromFloat(30000), money.MoneyFromFloat(500), money.MoneyFromFloat(1200), money.MoneyFromFloat(100),
		money.MoneyFromFloat(2000), money.MoneyFromFloat(3000), money.MoneyFromFloat(500),
	)
	wantGross := money.MoneyFromFloat(30000 + 500 + 1200 + 100)
	if !breakdown.GrossCapCost.Equal(wantGross) {
		t.Errorf("GrossCapCost = %s, want %s", breakdown.GrossCapCost, wantGross)
	}
	wantAdjusted := wantGross.Sub(money.MoneyFromFloat(2000 + 3000 + 500))
	if !breakdown.AdjustedCapCost.Equal(wantAdjusted) {
		t.Errorf("AdjustedCapCost = %s, want %s", breakdown.AdjustedCapCost, wantAdjusted)
	}
}

func TestResidualValue(t *testing.T) {
	msrp := money.MoneyFromFloat(40000)
	pct := money.RateFromPercent(money.MoneyFromFloat(55).Decimal())
	residual := ResidualValue(msrp, pct)
	if !residual.Equal(money.MoneyFromFloat(22000)) {
		t.Errorf("ResidualValue(40000, 55%%) = %s, want $22000.00", residual)
	}
}

func TestDueAtSigning_SumsAllSixComponents(t *testing.T) {
	due := DueAtSigning(
		money.MoneyFromFloat(500), money.MoneyFromFloat(300), money.MoneyFromFloat(650),
		money.MoneyFromFloat(1000), money.MoneyFromFloat(50), money.MoneyFromFloat(75),
	)
	if !due.Equal(money.MoneyFromFloat(500 + 300 + 650 + 1000 + 50 + 75)) {
		t.Errorf("DueAtSigning = %s, want $2575.00", due)
	}
}

func TestMoneyFactorAPRRoundTrip(t *testing.T) {
	mf, _ := money.MoneyFactorFromString("0.00145")
	apr := MoneyFactorToAPR(mf)
	back := APRToMoneyFactor(apr)
	if !back.Round(money.RoundHalfEven).Decimal().Equal(mf.Round(money.RoundHalfEven).Decimal()) {
		t.Errorf("APRToMoneyFactor(MoneyFactorToAPR(mf)) = %s, want %s", back, mf)
	}
}
