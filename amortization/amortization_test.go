package amortization

import (
	"testing"
	"time"

	"github.com/dealcipher/udc/money"
	"github.com/shopspring/decimal"
)

func TestCalculatePayment_ZeroAPRIsStraightLine(t *testing.T) {
	principal := money.MoneyFromFloat(12000)
	result := CalculatePayment(principal, money.ZeroRate, 12, money.RoundHalfEven)
	if !result.MonthlyPayment.Equal(money.MoneyFromFloat(1000)) {
		t.Errorf("MonthlyPayment = %s, want $1000.00", result.MonthlyPayment)
	}
	if !result.FinanceCharge.IsZero() {
		t.Errorf("FinanceCharge = %s, want $0.00 at 0%% APR", result.FinanceCharge)
	}
}

func TestCalculatePayment_ZeroPrincipalOrTerm(t *testing.T) {
	apr := money.RateFromPercent(money.MoneyFromFloat(6).Decimal())
	if r := CalculatePayment(money.ZeroMoney, apr, 36, money.RoundHalfEven); !r.MonthlyPayment.IsZero() {
		t.Errorf("zero principal produced non-zero payment %s", r.MonthlyPayment)
	}
	if r := CalculatePayment(money.MoneyFromFloat(10000), apr, 0, money.RoundHalfEven); !r.MonthlyPayment.IsZero() {
		t.Errorf("zero term produced non-zero payment %s", r.MonthlyPayment)
	}
}

func TestCalculatePayment_KnownAPR(t *testing.T) {
	principal := money.MoneyFromFloat(20000)
	apr := money.RateFromPercent(decimal.NewFromFloat(6.0))
	result := CalculatePayment(principal, apr, 60, money.RoundHalfEven)
	// Standard actuarial PMT for $20,000 at 6% APR over 60 months is ~$386.66.
	if got := result.MonthlyPayment.String(); got != "$386.66" {
		t.Errorf("MonthlyPayment = %s, want $386.66", got)
	}
}

func TestGenerateSchedule_FinalEntryZeroesBalance(t *testing.T) {
	principal := money.MoneyFromFloat(15000)
	apr := money.RateFromPercent(decimal.NewFromFloat(7.5))
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	schedule := GenerateSchedule(principal, apr, 48, start, money.RoundHalfEven)

	if len(schedule) != 48 {
		t.Fatalf("len(schedule) = %d, want 48", len(schedule))
	}
	last := schedule[len(schedule)-1]
	if !last.RemainingBalance.IsZero() {
		t.Errorf("final RemainingBalance = %s, want $0.00", last.RemainingBalance)
	}

	var principalSum money.Money
	for _, e := range schedule {
		principalSum = principalSum.Add(e.Principal)
	}
	if !principalSum.Round(money.RoundHalfEven).Equal(principal.Round(money.RoundHalfEven)) {
		t.Errorf("sum of Principal across schedule = %s, want %s", principalSum, principal)
	}
}

func TestGenerateSchedule_DatesAdvanceMonthly(t *testing.T) {
	principal := money.MoneyFromFloat(10000)
	apr := money.RateFromPercent(decimal.NewFromFloat(5.0))
	start := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)
	schedule := GenerateSchedule(principal, apr, 3, start, money.RoundHalfEven)

	if got := schedule[0].DueDate; !got.Equal(start) {
		t.Errorf("first DueDate = %s, want %s", got, start)
	}
	// Jan 31 + 1 month clamps to Feb 28 (2026 is not a leap year).
	if got := schedule[1].DueDate; got.Month() != time.February || got.Day() != 28 {
		t.Errorf("second DueDate = %s, want Feb 28 2026 (month-end clamp)", got)
	}
}

func TestAPRFromPayment_RoundTripsCalculatePayment(t *testing.T) {
	principal := money.MoneyFromFloat(25000)
	apr := money.RateFromPercent(decimal.NewFromFloat(4.5))
	result := CalculatePayment(principal, apr, 72, money.RoundHalfEven)

	solved := APRFromPayment(principal, result.MonthlyPayment, 72)
	if diff := solved.Percent().Sub(apr.Percent()).Abs(); diff.GreaterThan(decimal.NewFromFloat(0.1)) {
		t.Errorf("APRFromPayment solved %s%%, want close to %s%% (diff %s)", solved.Percent(), apr.Percent(), diff)
	}
}

