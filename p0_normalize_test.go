package udc

import (
	"testing"
	"time"

	"github.com/dealcipher/udc/money"
)

func baseNormalizeInput() DealInput {
	return DealInput{
		DealType:     DealCash,
		VehiclePrice: money.MoneyFromFloat(25000),
		CashDown:     money.MoneyFromFloat(25000),
		HomeState:    "TX",
		TransactionState: "TX",
	}
}

func TestNormalize_DefaultsGaragingStateToHome(t *testing.T) {
	input := baseNormalizeInput()
	input.GaragingState = ""

	norm, err := normalize(input, time.Now())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if norm.Input.GaragingState != "TX" {
		t.Errorf("GaragingState = %s, want TX (defaulted from HomeState)", norm.Input.GaragingState)
	}
}

func TestNormalize_DefaultsDealDateToToday(t *testing.T) {
	input := baseNormalizeInput()
	today := time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)

	norm, err := normalize(input, today)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if norm.Input.DealDate == nil || !norm.Input.DealDate.Equal(today) {
		t.Errorf("DealDate = %v, want %v", norm.Input.DealDate, today)
	}
}

func TestNormalize_IsIdempotent(t *testing.T) {
	input := baseNormalizeInput()
	tradeValue := money.MoneyFromFloat(5000.006)
	input.TradeInValue = &tradeValue
	today := time.Now()

	once, err := normalize(input, today)
	if err != nil {
		t.Fatalf("normalize (1): %v", err)
	}
	twice, err := normalize(once.Input, today)
	if err != nil {
		t.Fatalf("normalize (2): %v", err)
	}
	if !once.NetTrade.Equal(twice.NetTrade) {
		t.Errorf("NetTrade changed across a second normalize: %s vs %s", once.NetTrade, twice.NetTrade)
	}
	if !once.TotalFees.Equal(twice.TotalFees) {
		t.Errorf("TotalFees changed across a second normalize: %s vs %s", once.TotalFees, twice.TotalFees)
	}
}

func TestNormalize_NetTradeWithValueAndPayoff(t *testing.T) {
	input := baseNormalizeInput()
	value := money.MoneyFromFloat(12000)
	payoff := money.MoneyFromFloat(15000)
	input.TradeInValue = &value
	input.TradeInPayoff = &payoff

	norm, err := normalize(input, time.Now())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := money.MoneyFromFloat(-3000); !norm.NetTrade.Equal(want) {
		t.Errorf("NetTrade = %s, want %s", norm.NetTrade, want)
	}
	if !norm.HasNegativeEquity {
		t.Error("HasNegativeEquity should be true when payoff exceeds trade value")
	}
}

func TestNormalize_NetTradePayoffOnly(t *testing.T) {
	input := baseNormalizeInput()
	payoff := money.MoneyFromFloat(4000)
	input.TradeInPayoff = &payoff

	norm, err := normalize(input, time.Now())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := money.MoneyFromFloat(-4000); !norm.NetTrade.Equal(want) {
		t.Errorf("NetTrade = %s, want %s", norm.NetTrade, want)
	}
	if !norm.HasNegativeEquity {
		t.Error("HasNegativeEquity should be true with a payoff and no trade value")
	}
}

func TestNormalize_RebateAndProductTotals(t *testing.T) {
	input := baseNormalizeInput()
	input.Rebates = []Rebate{
		{Name: "manufacturer", Amount: money.MoneyFromFloat(1000)},
		{Name: "loyalty", Amount: money.MoneyFromFloat(500)},
	}
	input.Products = []FiProduct{
		{Name: "vsc", Price: money.MoneyFromFloat(2000), Taxable: true},
		{Name: "gap", Price: money.MoneyFromFloat(800), Taxable: false},
	}

	norm, err := normalize(input, time.Now())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := money.MoneyFromFloat(1500); !norm.TotalRebates.Equal(want) {
		t.Errorf("TotalRebates = %s, want %s", norm.TotalRebates, want)
	}
	if want := money.MoneyFromFloat(2000); !norm.TotalTaxableProducts.Equal(want) {
		t.Errorf("TotalTaxableProducts = %s, want %s", norm.TotalTaxableProducts, want)
	}
	if want := money.MoneyFromFloat(800); !norm.TotalNonTaxableProducts.Equal(want) {
		t.Errorf("TotalNonTaxableProducts = %s, want %s", norm.TotalNonTaxableProducts, want)
	}
}

func TestNormalize_FeesRoundToCents(t *testing.T) {
	input := baseNormalizeInput()
	input.Fees.DocFee = money.MoneyFromFloat(150.004)
	input.Fees.TitleFee = money.MoneyFromFloat(33.006)

	norm, err := normalize(input, time.Now())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if want := money.MoneyFromFloat(183.01); !norm.TotalFees.Equal(want) {
		t.Errorf("TotalFees = %s, want %s", norm.TotalFees, want)
	}
}

func TestValidateDealInput_VehiclePriceOutOfRange(t *testing.T) {
	input := baseNormalizeInput()
	input.VehiclePrice = money.ZeroMoney
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for zero vehicle price")
	}

	input.VehiclePrice = money.MoneyFromFloat(10_000_001)
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for vehicle price above 10,000,000")
	}
}

func TestValidateDealInput_NegativeCashDown(t *testing.T) {
	input := baseNormalizeInput()
	input.CashDown = money.MoneyFromFloat(-1)
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for negative cash down")
	}
}

func TestValidateDealInput_NegativeRebateOrProduct(t *testing.T) {
	input := baseNormalizeInput()
	input.Rebates = []Rebate{{Name: "bad", Amount: money.MoneyFromFloat(-100)}}
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a negative rebate amount")
	}

	input = baseNormalizeInput()
	input.Products = []FiProduct{{Name: "bad", Price: money.MoneyFromFloat(-1)}}
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a negative product price")
	}
}

func TestValidateDealInput_NegativeFee(t *testing.T) {
	input := baseNormalizeInput()
	input.Fees.DocFee = money.MoneyFromFloat(-10)
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a negative fee")
	}
}

func TestValidateDealInput_FinanceParamsRequired(t *testing.T) {
	input := baseNormalizeInput()
	input.DealType = DealFinance
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error when finance_params is nil for a finance deal")
	}
}

func TestValidateDealInput_FinanceTermAndAPRRanges(t *testing.T) {
	input := baseNormalizeInput()
	input.DealType = DealFinance
	input.FinanceParams = &FinanceParams{TermMonths: 6, APR: money.RateFromPercent(money.MoneyFromFloat(6).Decimal())}
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a term below 12 months")
	}

	input.FinanceParams = &FinanceParams{TermMonths: 60, APR: money.RateFromPercent(money.MoneyFromFloat(35).Decimal())}
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for an APR above 30%")
	}
}

func TestValidateDealInput_LeaseParamsRequired(t *testing.T) {
	input := baseNormalizeInput()
	input.DealType = DealLease
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error when lease_params is nil for a lease deal")
	}
}

func TestValidateDealInput_LeaseParamRanges(t *testing.T) {
	valid := LeaseParams{
		TermMonths:      36,
		MoneyFactor:     money.NewMoneyFactor(money.MoneyFromFloat(0.001).Decimal()),
		ResidualPercent: money.RateFromPercent(money.MoneyFromFloat(55).Decimal()),
		AnnualMiles:     12000,
	}

	badTerm := valid
	badTerm.TermMonths = 12
	input := baseNormalizeInput()
	input.DealType = DealLease
	input.LeaseParams = &badTerm
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a lease term below 24 months")
	}

	badMiles := valid
	badMiles.AnnualMiles = 1000
	input.LeaseParams = &badMiles
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for annual miles below 5000")
	}

	badResidual := valid
	badResidual.ResidualPercent = money.RateFromPercent(money.MoneyFromFloat(100).Decimal())
	input.LeaseParams = &badResidual
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for a residual percent not less than 1")
	}

	good := valid
	input.LeaseParams = &good
	if _, err := normalize(input, time.Now()); err != nil {
		t.Errorf("valid lease params rejected: %v", err)
	}
}

func TestValidateDealInput_UnrecognizedDealType(t *testing.T) {
	input := baseNormalizeInput()
	input.DealType = DealType("balloon")
	if _, err := normalize(input, time.Now()); err == nil {
		t.Error("expected an error for an unrecognized deal type")
	}
}
