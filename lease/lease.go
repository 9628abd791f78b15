// Package lease implements the closed-end lease payment, capitalized-cost,
// and residual-value algorithms required by Regulation M consumer-leasing
// disclosure.
package lease

import "github.com/dealcipher/udc/money"

// PaymentResult is the computed monthly lease payment structure for one
// period (payments are constant across the lease term; only the tax
// portion can vary per lease-tax-mode).
type PaymentResult struct {
	MonthlyDepreciation money.Money
	MonthlyRentCharge   money.Money
	BasePayment         money.Money // exact sum: depreciation + rent charge, never independently rounded
	TotalDepreciation   money.Money
	TotalRentCharge     money.Money
}

// CalculatePayment computes the base (pre-tax) monthly lease payment.
// BasePayment is always the exact sum of MonthlyDepreciation and
// MonthlyRentCharge — invariant 6 in spec.md §3.4 forbids rounding drift
// between the two components and their sum.
func CalculatePayment(adjustedCapCost, residualValue money.Money, moneyFactor money.MoneyFactor, termMonths int) PaymentResult {
	totalDepreciation := adjustedCapCost.Sub(residualValue).ClampZero()
	monthlyDepreciation := totalDepreciation.DivInt(termMonths).RoundCents()

	rentBase := adjustedCapCost.Add(residualValue)
	mfAsRate := money.NewRate(moneyFactor.Decimal())
	monthlyRentCharge := rentBase.MulRate(mfAsRate).RoundCents()
	totalRentCharge := monthlyRentCharge.MulInt(termMonths)

	return PaymentResult{
		MonthlyDepreciation: monthlyDepreciation,
		MonthlyRentCharge:   monthlyRentCharge,
		BasePayment:         monthlyDepreciation.Add(monthlyRentCharge),
		TotalDepreciation:   totalDepreciation.RoundCents(),
		TotalRentCharge:     totalRentCharge,
	}
}

// CapCostBreakdown is the output of building the gross and adjusted
// capitalized cost.
type CapCostBreakdown struct {
	GrossCapCost      money.Money
	TotalCapReduction money.Money
	AdjustedCapCost   money.Money
}

// CalculateCapCost builds the gross and adjusted capitalized cost from the
// selling price, capitalized fees/products/tax, and the cap-reduction
// components (down payment, trade credit, rebates).
func CalculateCapCost(sellingPrice, capitalizedFees, capitalizedProducts, capitalizedTax money.Money, downPayment, tradeCredit, rebates money.Money) CapCostBreakdown {
	gross := sellingPrice.Add(capitalizedFees).Add(capitalizedProducts).Add(capitalizedTax)
	reduction := downPayment.Add(tradeCredit).Add(rebates)
	adjusted := gross.Sub(reduction).ClampZero()
	return CapCostBreakdown{
		GrossCapCost:      gross.RoundCents(),
		TotalCapReduction: reduction.RoundCents(),
		AdjustedCapCost:   adjusted.RoundCents(),
	}
}

// ResidualValue computes the contracted end-of-lease value from MSRP and a
// residual percentage.
func ResidualValue(msrp money.Money, residualPercent money.Rate) money.Money {
	return msrp.MulRate(residualPercent).RoundCents()
}

// DueAtSigning totals the amounts collected at lease signing. governmentFees
// is a supplemented parameter (see SPEC_FULL.md) beyond spec.md §4.6's
// named terms, folded in because registration/title/plate fees are
// routinely due at signing in practice.
func DueAtSigning(firstPayment, securityDeposit, acquisitionFeeUpfront, downPayment, upfrontTax, governmentFees money.Money) money.Money {
	return money.SumMoney(firstPayment, securityDeposit, acquisitionFeeUpfront, downPayment, upfrontTax, governmentFees).RoundCents()
}

// MoneyFactorToAPR and APRToMoneyFactor are re-exported from the money
// package for call sites that only import lease; the conversion itself is
// owned by money.MoneyFactor/money.Rate so it stays a single source of truth.
func MoneyFactorToAPR(mf money.MoneyFactor) money.Rate   { return mf.ToAPR() }
func APRToMoneyFactor(apr money.Rate) money.MoneyFactor { return money.APRToMoneyFactor(apr) }
