package udc

import (
	"time"

	"github.com/dealcipher/udc/money"
)

// NormalizedDealInput is P0's output: the validated DealInput plus derived
// totals every later phase needs and would otherwise recompute.
type NormalizedDealInput struct {
	Input DealInput

	NetTrade                money.Money // trade value - trade payoff; may be negative
	HasNegativeEquity       bool
	TotalRebates             money.Money
	TotalTaxableProducts     money.Money
	TotalNonTaxableProducts  money.Money
	TotalFees                money.Money
}

// normalize validates and rounds a raw DealInput, computing the derived
// totals downstream phases depend on. Idempotent: normalize(normalize(x))
// == normalize(x), because every step either rounds an already-rounded
// value (a no-op) or recomputes a derived total from already-normalized
// fields.
func normalize(input DealInput, today time.Time) (NormalizedDealInput, error) {
	if err := validateDealInput(input); err != nil {
		return NormalizedDealInput{}, err
	}

	input.VehiclePrice = input.VehiclePrice.RoundCents()
	input.CashDown = input.CashDown.RoundCents()
	// Copy the slices before rounding their elements so the caller's
	// DealInput is never modified.
	input.Rebates = append(input.Rebates[:0:0], input.Rebates...)
	input.Products = append(input.Products[:0:0], input.Products...)
	input.Fees.OtherFees = append(input.Fees.OtherFees[:0:0], input.Fees.OtherFees...)
	if input.TradeInValue != nil {
		v := input.TradeInValue.RoundCents()
		input.TradeInValue = &v
	}
	if input.TradeInPayoff != nil {
		v := input.TradeInPayoff.RoundCents()
		input.TradeInPayoff = &v
	}
	for i := range input.Rebates {
		input.Rebates[i].Amount = input.Rebates[i].Amount.RoundCents()
	}
	for i := range input.Products {
		input.Products[i].Price = input.Products[i].Price.RoundCents()
		input.Products[i].DealerCost = input.Products[i].DealerCost.RoundCents()
	}
	input.Fees = roundFees(input.Fees)

	if input.GaragingState == "" {
		input.GaragingState = input.HomeState
	}
	if input.DealDate == nil {
		d := today
		input.DealDate = &d
	}

	netTrade := money.ZeroMoney
	if input.TradeInValue != nil {
		netTrade = *input.TradeInValue
		if input.TradeInPayoff != nil {
			netTrade = netTrade.Sub(*input.TradeInPayoff)
		}
	} else if input.TradeInPayoff != nil {
		netTrade = input.TradeInPayoff.Neg()
	}

	totalRebates := money.ZeroMoney
	for _, r := range input.Rebates {
		totalRebates = totalRebates.Add(r.Amount)
	}

	totalTaxable := money.ZeroMoney
	totalNonTaxable := money.ZeroMoney
	for _, p := range input.Products {
		if p.Taxable {
			totalTaxable = totalTaxable.Add(p.Price)
		} else {
			totalNonTaxable = totalNonTaxable.Add(p.Price)
		}
	}

	return NormalizedDealInput{
		Input:                   input,
		NetTrade:                netTrade,
		HasNegativeEquity:       netTrade.IsNegative(),
		TotalRebates:            totalRebates,
		TotalTaxableProducts:    totalTaxable,
		TotalNonTaxableProducts: totalNonTaxable,
		TotalFees:               input.Fees.Total(),
	}, nil
}

func roundFees(f DealFees) DealFees {
	f.DocFee = f.DocFee.RoundCents()
	f.TitleFee = f.TitleFee.RoundCents()
	f.RegistrationFee = f.RegistrationFee.RoundCents()
	f.PlateFee = f.PlateFee.RoundCents()
	f.InspectionFee = f.InspectionFee.RoundCents()
	f.ElectronicFilingFee = f.ElectronicFilingFee.RoundCents()
	f.TireFee = f.TireFee.RoundCents()
	f.SmogFee = f.SmogFee.RoundCents()
	f.DestinationFee = f.DestinationFee.RoundCents()
	f.DealerHandlingFee = f.DealerHandlingFee.RoundCents()
	f.AcquisitionFee = f.AcquisitionFee.RoundCents()
	f.DispositionFee = f.DispositionFee.RoundCents()
	for i := range f.OtherFees {
		f.OtherFees[i].Amount = f.OtherFees[i].Amount.RoundCents()
	}
	return f
}

func validateDealInput(input DealInput) error {
	maxPrice := money.MoneyFromFloat(10_000_000)
	if !input.VehiclePrice.IsPositive() || input.VehiclePrice.GreaterThan(maxPrice) {
		return newValidationError("vehicle_price", "must be in (0, 10,000,000], got %s", input.VehiclePrice)
	}
	if input.CashDown.IsNegative() {
		return newValidationError("cash_down", "must be >= 0, got %s", input.CashDown)
	}
	for i, r := range input.Rebates {
		if r.Amount.IsNegative() {
			return newValidationError("rebates", "rebate %d (%s) amount must be >= 0, got %s", i, r.Name, r.Amount)
		}
	}
	for i, p := range input.Products {
		if p.Price.IsNegative() {
			return newValidationError("products", "product %d (%s) price must be >= 0, got %s", i, p.Name, p.Price)
		}
	}
	if err := validateFees(input.Fees); err != nil {
		return err
	}

	switch input.DealType {
	case DealFinance:
		if input.FinanceParams == nil {
			return newValidationError("finance_params", "required for finance deals")
		}
		fp := input.FinanceParams
		if fp.TermMonths < 12 || fp.TermMonths > 84 {
			return newValidationError("finance_params.term_months", "must be in [12, 84], got %d", fp.TermMonths)
		}
		apr := fp.APR.Decimal()
		if apr.IsNegative() || apr.GreaterThan(money.RateFromPercent(decimalFromInt(30)).Decimal()) {
			return newValidationError("finance_params.apr", "must be in [0, 0.30], got %s", fp.APR)
		}
	case DealLease:
		if input.LeaseParams == nil {
			return newValidationError("lease_params", "required for lease deals")
		}
		lp := input.LeaseParams
		if lp.TermMonths < 24 || lp.TermMonths > 60 {
			return newValidationError("lease_params.term_months", "must be in [24, 60], got %d", lp.TermMonths)
		}
		mf := lp.MoneyFactor.Decimal()
		maxMF := money.MoneyFromFloat(0.01).Decimal()
		if !mf.IsPositive() || mf.GreaterThan(maxMF) {
			return newValidationError("lease_params.money_factor", "must be in (0, 0.01], got %s", lp.MoneyFactor)
		}
		rp := lp.ResidualPercent.Decimal()
		if !rp.IsPositive() || !rp.LessThan(decimalFromInt(1)) {
			return newValidationError("lease_params.residual_percent", "must be in (0, 1), got %s", lp.ResidualPercent)
		}
		if lp.AnnualMiles < 5000 || lp.AnnualMiles > 25000 {
			return newValidationError("lease_params.annual_miles", "must be in [5000, 25000], got %d", lp.AnnualMiles)
		}
	case DealCash:
		// no mode-specific parameters to validate
	default:
		return newValidationError("deal_type", "unrecognized deal type %q", input.DealType)
	}
	return nil
}

func validateFees(f DealFees) error {
	slots := []struct {
		name string
		v    money.Money
	}{
		{"doc_fee", f.DocFee}, {"title_fee", f.TitleFee}, {"registration_fee", f.RegistrationFee},
		{"plate_fee", f.PlateFee}, {"inspection_fee", f.InspectionFee}, {"electronic_filing_fee", f.ElectronicFilingFee},
		{"tire_fee", f.TireFee}, {"smog_fee", f.SmogFee}, {"destination_fee", f.DestinationFee},
		{"dealer_handling_fee", f.DealerHandlingFee}, {"acquisition_fee", f.AcquisitionFee}, {"disposition_fee", f.DispositionFee},
	}
	for _, s := range slots {
		if s.v.IsNegative() {
			return newValidationError("fees."+s.name, "must be >= 0, got %s", s.v)
		}
	}
	for i, of := range f.OtherFees {
		if of.Amount.IsNegative() {
			return newValidationError("fees.other_fees", "fee %d (%s) must be >= 0, got %s", i, of.Name, of.Amount)
		}
	}
	return nil
}
