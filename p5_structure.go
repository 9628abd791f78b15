package udc

import (
	"github.com/dealcipher/udc/amortization"
	"github.com/dealcipher/udc/corpus"
	"github.com/dealcipher/udc/lease"
	"github.com/dealcipher/udc/money"
)

// CashStructure is the deal-type-specific output for a cash purchase.
type CashStructure struct {
	SellingPrice   money.Money
	TotalFees      money.Money
	FiProducts     money.Money
	TradeCredit    money.Money
	Rebates        money.Money
	SalesTax       money.Money
	TotalCashPrice money.Money
}

// FinanceStructure is the deal-type-specific output for a retail
// installment sale.
type FinanceStructure struct {
	SellingPrice       money.Money
	TaxableFees        money.Money
	NonTaxableFees     money.Money
	FiProductsFinanced money.Money
	TradeCredit        money.Money
	CashDown           money.Money
	RebatesApplied     money.Money
	SalesTax           money.Money
	AmountFinanced     money.Money
	APR                money.Rate
	TermMonths         int
	MonthlyPayment     money.Money
	TotalOfPayments    money.Money
	FinanceCharge      money.Money
	TotalSalePrice     money.Money
}

// LeaseStructure is the deal-type-specific output for a closed-end lease.
type LeaseStructure struct {
	MSRP                  money.Money
	SellingPrice          money.Money
	CapitalizedFees       money.Money
	CapitalizedFiProducts money.Money
	GrossCapCost          money.Money
	CapCostReductions     money.Money
	AdjustedCapCost       money.Money
	ResidualPercentage    money.Rate
	ResidualValue         money.Money
	MoneyFactor           money.MoneyFactor
	EquivalentAPR         money.Rate
	TermMonths            int
	Depreciation          money.Money
	RentCharge            money.Money
	BaseMonthlyPayment    money.Money
	MonthlyTax            money.Money
	TotalMonthlyPayment   money.Money
	DueAtSigning          money.Money
	SecurityDeposit       money.Money
	FirstPayment          money.Money
	AcquisitionFeeUpfront money.Money
	LeaseTaxMode          corpus.LeaseTaxMode
	UpfrontTax            *money.Money
	TotalTax              money.Money
	TotalBasePayments     money.Money
	TotalLeaseCost        money.Money
}

// DealStructure holds exactly one of Cash/Finance/Lease, set per the deal's
// CalculationMode.
type DealStructure struct {
	Cash    *CashStructure
	Finance *FinanceStructure
	Lease   *LeaseStructure
}

// StructuredDeal is P5's output.
type StructuredDeal struct {
	Deal      TaxComputedDeal
	Structure DealStructure
}

func structureDeal(deal TaxComputedDeal) (StructuredDeal, error) {
	mode := deal.Deal.Deal.Deal.Mode
	var structure DealStructure
	var err error

	switch mode {
	case ModeCash:
		s := structureCash(deal)
		structure.Cash = &s
	case ModeFinance:
		var s FinanceStructure
		s, err = structureFinance(deal)
		structure.Finance = &s
	case ModeLease:
		var s LeaseStructure
		s, err = structureLease(deal)
		structure.Lease = &s
	default:
		return StructuredDeal{}, newCalculationError(PhaseStructure, "unrecognized calculation mode %q", mode)
	}
	if err != nil {
		return StructuredDeal{}, err
	}
	return StructuredDeal{Deal: deal, Structure: structure}, nil
}

func structureCash(deal TaxComputedDeal) CashStructure {
	input := deal.Deal.Deal.Deal.Input.Input
	fiProducts := sumProductPrices(input.Products)
	tradeCredit := deal.Tax.BaseBreakdown.TradeCreditApplied
	rebates := deal.Tax.BaseBreakdown.RebatesApplied

	total := input.VehiclePrice.
		Add(input.Fees.Total()).
		Add(fiProducts).
		Add(deal.Tax.NetTax).
		Sub(tradeCredit).
		Sub(rebates).
		ClampZero().
		RoundCents()

	return CashStructure{
		SellingPrice:   input.VehiclePrice,
		TotalFees:      input.Fees.Total(),
		FiProducts:     fiProducts,
		TradeCredit:    tradeCredit,
		Rebates:        rebates,
		SalesTax:       deal.Tax.NetTax,
		TotalCashPrice: total,
	}
}

func structureFinance(deal TaxComputedDeal) (FinanceStructure, error) {
	norm := deal.Deal.Deal.Deal.Input
	input := norm.Input
	params := input.FinanceParams
	if params == nil {
		return FinanceStructure{}, newValidationError("finance_params", "required for a finance deal")
	}

	taxableFees := calculateTaxableFees(input, deal.Deal.Profiles.Primary)
	nonTaxableFees := input.Fees.Total().Sub(taxableFees)
	fiProductsFinanced := sumFinancedProductPrices(input.Products)

	// Trade and rebate amounts here are the full cash-flow figures (spec
	// §4.6's max(net_trade, 0) / total_rebates), distinct from
	// deal.Tax.BaseBreakdown's tax-base-capped counterparts: a state that
	// excludes trade-in from the taxable base (e.g. CA) must still let the
	// trade reduce what the customer finances.
	tradeCredit := money.MaxMoney(norm.NetTrade, money.ZeroMoney)
	rebates := norm.TotalRebates
	negativeEquity := money.ZeroMoney
	if norm.HasNegativeEquity {
		negativeEquity = norm.NetTrade.Neg()
	}

	grossTotal := input.VehiclePrice.
		Add(input.Fees.Total()).
		Add(fiProductsFinanced).
		Add(deal.Tax.NetTax).
		Add(negativeEquity)

	amountFinanced := grossTotal.
		Sub(input.CashDown).
		Sub(tradeCredit).
		Sub(rebates).
		ClampZero().
		RoundCents()

	mode := resolveRoundingMode(deal.Deal.Profiles.Program)
	payment := amortization.CalculatePayment(amountFinanced, params.APR, params.TermMonths, mode)

	// Total Sale Price (TILA) = Total of Payments + every amount paid outside
	// the financed balance (cash down, trade credit, rebates).
	totalSalePrice := payment.TotalOfPayments.Add(input.CashDown).Add(tradeCredit).Add(rebates).RoundCents()

	return FinanceStructure{
		SellingPrice:       input.VehiclePrice,
		TaxableFees:        taxableFees,
		NonTaxableFees:     nonTaxableFees,
		FiProductsFinanced: fiProductsFinanced,
		TradeCredit:        tradeCredit,
		CashDown:           input.CashDown,
		RebatesApplied:     rebates,
		SalesTax:           deal.Tax.NetTax,
		AmountFinanced:     amountFinanced,
		APR:                params.APR,
		TermMonths:         params.TermMonths,
		MonthlyPayment:     payment.MonthlyPayment,
		TotalOfPayments:    payment.TotalOfPayments,
		FinanceCharge:      payment.FinanceCharge,
		TotalSalePrice:     totalSalePrice,
	}, nil
}

func structureLease(deal TaxComputedDeal) (LeaseStructure, error) {
	norm := deal.Deal.Deal.Deal.Input
	input := norm.Input
	params := input.LeaseParams
	if params == nil {
		return LeaseStructure{}, newValidationError("lease_params", "required for a lease deal")
	}
	rules := deal.Deal.Profiles.Primary

	capitalizedFees := input.Fees.DocFee.Add(input.Fees.DestinationFee).Add(input.Fees.DealerHandlingFee)
	if params.CapAcquisitionFee {
		capitalizedFees = capitalizedFees.Add(input.Fees.AcquisitionFee)
	}
	capitalizedFiProducts := sumCapitalizedProductPrices(input.Products)

	// Acquisition/upfront lease tax is ordinarily collected at signing rather
	// than folded into the monthly payment stream, so it does not enter the
	// capitalized cost here; see calculateLeaseTax.
	capitalizedTax := money.ZeroMoney

	// reductions = cash_down + cap_cost_reduction + max(net_trade, 0) + rebates
	// (spec.md §4.6). CalculateCapCost sums its downPayment/tradeCredit/rebates
	// arguments, so cap_cost_reduction is folded into the down-payment side
	// here rather than widening that function's signature.
	downPayment := input.CashDown.Add(params.CapCostReduction)
	tradeCredit := money.MaxMoney(norm.NetTrade, money.ZeroMoney)
	rebates := norm.TotalRebates

	capCost := lease.CalculateCapCost(
		input.VehiclePrice, capitalizedFees, capitalizedFiProducts, capitalizedTax,
		downPayment, tradeCredit, rebates,
	)

	residualValue := lease.ResidualValue(input.MSRP, params.ResidualPercent)
	paymentResult := lease.CalculatePayment(capCost.AdjustedCapCost, residualValue, params.MoneyFactor, params.TermMonths)

	leaseTaxMode := corpus.LeaseTaxMonthlyPayment
	if rules.LeaseTaxMode != nil {
		leaseTaxMode = *rules.LeaseTaxMode
	}
	combinedRate := rules.Rates.DefaultCombinedRate
	taxResult := calculateLeaseTax(leaseTaxMode, capCost.GrossCapCost, paymentResult.BasePayment, paymentResult.TotalDepreciation, params.TermMonths, combinedRate)

	totalMonthlyPayment := paymentResult.BasePayment.Add(taxResult.MonthlyTax)
	totalBasePayments := paymentResult.BasePayment.MulInt(params.TermMonths)
	totalLeaseCost := totalBasePayments.Add(taxResult.TotalTax)

	var acquisitionFeeUpfront money.Money
	if !params.CapAcquisitionFee {
		acquisitionFeeUpfront = input.Fees.AcquisitionFee
	}
	governmentFees := input.Fees.TitleFee.Add(input.Fees.RegistrationFee).Add(input.Fees.PlateFee)

	dueAtSigning := lease.DueAtSigning(
		totalMonthlyPayment, params.SecurityDeposit, acquisitionFeeUpfront,
		input.CashDown, taxResult.UpfrontTax, governmentFees,
	)

	var upfrontTaxOut *money.Money
	if taxResult.UpfrontTax.IsPositive() {
		v := taxResult.UpfrontTax
		upfrontTaxOut = &v
	}

	return LeaseStructure{
		MSRP:                  input.MSRP,
		SellingPrice:          input.VehiclePrice,
		CapitalizedFees:       capitalizedFees,
		CapitalizedFiProducts: capitalizedFiProducts,
		GrossCapCost:          capCost.GrossCapCost,
		CapCostReductions:     capCost.TotalCapReduction,
		AdjustedCapCost:       capCost.AdjustedCapCost,
		ResidualPercentage:    params.ResidualPercent,
		ResidualValue:         residualValue,
		MoneyFactor:           params.MoneyFactor,
		EquivalentAPR:         params.MoneyFactor.ToAPR(),
		TermMonths:            params.TermMonths,
		Depreciation:          paymentResult.TotalDepreciation,
		RentCharge:            paymentResult.TotalRentCharge,
		BaseMonthlyPayment:    paymentResult.BasePayment,
		MonthlyTax:            taxResult.MonthlyTax,
		TotalMonthlyPayment:   totalMonthlyPayment,
		DueAtSigning:          dueAtSigning,
		SecurityDeposit:       params.SecurityDeposit,
		FirstPayment:          totalMonthlyPayment,
		AcquisitionFeeUpfront: acquisitionFeeUpfront,
		LeaseTaxMode:          leaseTaxMode,
		UpfrontTax:            upfrontTaxOut,
		TotalTax:              taxResult.TotalTax,
		TotalBasePayments:     totalBasePayments,
		TotalLeaseCost:        totalLeaseCost,
	}, nil
}

func resolveRoundingMode(program *corpus.ProgramProfile) money.RoundingMode {
	if program == nil {
		return money.RoundHalfEven
	}
	switch program.PaymentRounding {
	case corpus.RoundPaymentUp:
		return money.RoundCeiling
	case corpus.RoundPaymentDown:
		return money.RoundFloor
	default:
		return money.RoundHalfEven
	}
}

func sumProductPrices(products []FiProduct) money.Money {
	total := money.ZeroMoney
	for _, p := range products {
		total = total.Add(p.Price)
	}
	return total
}

func sumFinancedProductPrices(products []FiProduct) money.Money {
	total := money.ZeroMoney
	for _, p := range products {
		if p.FinanceWithDeal {
			total = total.Add(p.Price)
		}
	}
	return total
}

func sumCapitalizedProductPrices(products []FiProduct) money.Money {
	total := money.ZeroMoney
	for _, p := range products {
		if p.CapitalizeInLease {
			total = total.Add(p.Price)
		}
	}
	return total
}
