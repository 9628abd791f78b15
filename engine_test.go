package udc

import (
	"testing"

	"github.com/dealcipher/udc/corpus"
	"github.com/dealcipher/udc/money"
)

func testEngine() *Engine {
	repo := corpus.NewStaticRepository(corpus.BuiltinProfiles(), nil, corpus.DefaultProfile)
	return NewEngine(repo, DefaultConfig(), nil)
}

func baseCashInput() DealInput {
	return DealInput{
		DealType:         DealCash,
		VehicleCondition: ConditionUsed,
		MSRP:             money.MoneyFromFloat(32000),
		VehiclePrice:     money.MoneyFromFloat(30000),
		CashDown:         money.MoneyFromFloat(30000),
		HomeState:        "TX",
		TransactionState: "TX",
		Fees: DealFees{
			DocFee: money.MoneyFromFloat(150),
		},
	}
}

func TestEngine_Run_CashDeal(t *testing.T) {
	engine := testEngine()
	output, err := engine.Run(baseCashInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.CashStructure == nil {
		t.Fatal("expected CashStructure to be populated")
	}
	if output.FinanceStructure != nil || output.LeaseStructure != nil {
		t.Error("cash deal must populate exactly one structure")
	}
	if output.TaxBreakdown.NetTax.IsNegative() {
		t.Errorf("NetTax = %s, must never be negative", output.TaxBreakdown.NetTax)
	}
}

func TestEngine_Run_FinanceDeal(t *testing.T) {
	input := baseCashInput()
	input.DealType = DealFinance
	input.CashDown = money.MoneyFromFloat(5000)
	tradeValue := money.MoneyFromFloat(8000)
	input.TradeInValue = &tradeValue
	input.FinanceParams = &FinanceParams{
		TermMonths: 60,
		APR:        money.RateFromPercent(money.MoneyFromFloat(6.5).Decimal()),
	}

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.FinanceStructure == nil {
		t.Fatal("expected FinanceStructure to be populated")
	}
	if len(output.AmortizationSchedule) != 60 {
		t.Errorf("len(AmortizationSchedule) = %d, want 60", len(output.AmortizationSchedule))
	}
	last := output.AmortizationSchedule[len(output.AmortizationSchedule)-1]
	if !last.RemainingBalance.IsZero() {
		t.Errorf("final schedule RemainingBalance = %s, want $0.00", last.RemainingBalance)
	}
	foundTILA := false
	for _, d := range output.Disclosures {
		if d.Code == "TILA-BOX" {
			foundTILA = true
		}
	}
	if !foundTILA {
		t.Error("finance deal must emit a TILA-BOX disclosure")
	}
}

func TestEngine_Run_LeaseDeal(t *testing.T) {
	input := baseCashInput()
	input.DealType = DealLease
	input.CashDown = money.MoneyFromFloat(2000)
	input.LeaseParams = &LeaseParams{
		TermMonths:      36,
		MoneyFactor:     money.NewMoneyFactor(money.MoneyFromFloat(0.00125).Decimal()),
		ResidualPercent: money.RateFromPercent(money.MoneyFromFloat(55).Decimal()),
		AnnualMiles:     12000,
	}

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.LeaseStructure == nil {
		t.Fatal("expected LeaseStructure to be populated")
	}
	if output.LeaseStructure.BaseMonthlyPayment.IsNegative() {
		t.Errorf("BaseMonthlyPayment = %s, must never be negative", output.LeaseStructure.BaseMonthlyPayment)
	}
	foundRegM := false
	for _, d := range output.Disclosures {
		if d.Code == "REG-M" {
			foundRegM = true
		}
	}
	if !foundRegM {
		t.Error("lease deal must emit a REG-M disclosure")
	}
}

func TestEngine_Run_GeorgiaTAVTAppliesByCondition(t *testing.T) {
	input := baseCashInput()
	input.HomeState = "GA"
	input.TransactionState = "GA"
	input.VehicleCondition = ConditionNew

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.TaxBreakdown.SpecialTaxType == "" {
		t.Error("Georgia deal should report a special tax type (TAVT)")
	}
}

func TestEngine_Run_NorthCarolinaHUTCapsBase(t *testing.T) {
	input := baseCashInput()
	input.HomeState = "NC"
	input.TransactionState = "NC"
	input.VehiclePrice = money.MoneyFromFloat(120000)
	input.CashDown = money.MoneyFromFloat(120000)

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.TaxBreakdown.TaxBase.GreaterThan(corpus.HUTCap) {
		t.Errorf("TaxBase = %s, must be capped at %s (HUT cap)", output.TaxBreakdown.TaxBase, corpus.HUTCap)
	}
}

func TestEngine_Run_NoTaxStateYieldsZeroTax(t *testing.T) {
	input := baseCashInput()
	input.HomeState = "MT"
	input.TransactionState = "MT"

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !output.TaxBreakdown.NetTax.IsZero() {
		t.Errorf("NetTax = %s, want $0.00 in a no-sales-tax state", output.TaxBreakdown.NetTax)
	}
}

func TestEngine_Run_ReciprocityCreditNeverExceedsPrimaryTax(t *testing.T) {
	input := baseCashInput()
	input.HomeState = "NV"
	input.TransactionState = "TX"
	input.GaragingState = "NV"

	engine := testEngine()
	output, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if output.TaxBreakdown.ReciprocityCredit.GreaterThan(output.TaxBreakdown.GrossTax) {
		t.Errorf("ReciprocityCredit = %s, must never exceed GrossTax %s", output.TaxBreakdown.ReciprocityCredit, output.TaxBreakdown.GrossTax)
	}
}

func TestEngine_Run_StrictModePromotesWarnings(t *testing.T) {
	input := baseCashInput()
	input.HomeState = "ZZ" // unknown state forces the synthetic-default fallback warning
	input.TransactionState = "ZZ"

	repo := corpus.NewStaticRepository(corpus.BuiltinProfiles(), nil, corpus.DefaultProfile)
	cfg := DefaultConfig()
	cfg.StrictMode = true
	engine := NewEngine(repo, cfg, nil)

	if _, err := engine.Run(input); err == nil {
		t.Error("expected strict mode to promote the fallback warning into an error")
	}
}

func TestEngine_Run_InputChecksumIsDeterministic(t *testing.T) {
	engine := testEngine()
	input := baseCashInput()

	out1, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run (1): %v", err)
	}
	out2, err := engine.Run(input)
	if err != nil {
		t.Fatalf("Run (2): %v", err)
	}
	if out1.AuditTrace.InputChecksum != out2.AuditTrace.InputChecksum {
		t.Errorf("InputChecksum not deterministic: %s vs %s", out1.AuditTrace.InputChecksum, out2.AuditTrace.InputChecksum)
	}
}
