package udc

import (
	"github.com/dealcipher/udc/corpus"
	"github.com/dealcipher/udc/money"
)

// TaxLevel tags which jurisdictional layer a TaxComponent belongs to.
type TaxLevel string

const (
	LevelState    TaxLevel = "state"
	LevelCounty   TaxLevel = "county"
	LevelCity     TaxLevel = "city"
	LevelDistrict TaxLevel = "district"
	LevelSpecial  TaxLevel = "special"
)

// TaxComponent is one line of the per-component tax breakdown.
type TaxComponent struct {
	Name   string
	Level  TaxLevel
	Rate   money.Rate
	Base   money.Money
	Amount money.Money
}

// SpecialTax carries the result of a non-standard tax regime (TAVT, HUT,
// Excise) that replaces standard rate stacking.
type SpecialTax struct {
	TaxType   corpus.SpecialTaxType
	Name      string
	Base      money.Money
	Rate      money.Rate
	Amount    money.Money
	CapApplied *money.Money
}

// TaxBaseBreakdown records how the taxable base was assembled, for audit
// and disclosure.
type TaxBaseBreakdown struct {
	SellingPrice       money.Money
	TaxableFees        money.Money
	TaxableProducts    money.Money
	TradeCreditApplied money.Money
	RebatesApplied     money.Money
	CapApplied         string // reason, empty if no cap/floor triggered
}

// TaxAuditEntry is one non-trivial step of the tax calculation, owned by P4
// and concatenated into the final audit trace by P7.
type TaxAuditEntry struct {
	Step        string
	Description string
	InputValue  string
	OutputValue string
	RuleApplied string
}

// TaxCalculation is P4's output.
type TaxCalculation struct {
	TaxBase           money.Money
	BaseBreakdown     TaxBaseBreakdown
	PrimaryTax        money.Money
	TaxType           corpus.SpecialTaxType
	EffectiveRate     money.Rate
	ReciprocityCredit money.Money
	NetTax            money.Money
	Components        []TaxComponent
	Special           *SpecialTax
	Audit             []TaxAuditEntry
}

// TaxComputedDeal bundles the profile-loaded deal with its tax calculation.
type TaxComputedDeal struct {
	Deal ProfileLoadedDeal
	Tax  TaxCalculation
}

func audit(entries *[]TaxAuditEntry, step, description, in, out, rule string) {
	*entries = append(*entries, TaxAuditEntry{Step: step, Description: description, InputValue: in, OutputValue: out, RuleApplied: rule})
}

func calculateTax(deal ProfileLoadedDeal) (TaxCalculation, error) {
	var auditLog []TaxAuditEntry
	rules := deal.Profiles.Primary
	input := deal.Deal.Deal.Input.Input
	norm := deal.Deal.Deal.Input

	breakdown, base := buildTaxBase(input, norm, rules, &auditLog)

	var special *SpecialTax
	var components []TaxComponent
	var primaryTax money.Money
	taxType := rules.TaxType

	switch rules.TaxType {
	case corpus.TaxTAVT:
		s := calculateTAVT(input, base, rules, &auditLog)
		special = &s
		primaryTax = s.Amount
	case corpus.TaxHUT:
		s := calculateHUT(base, rules, &auditLog)
		special = &s
		primaryTax = s.Amount
	case corpus.TaxExcise:
		s := calculateExcise(base, rules, &auditLog)
		special = &s
		primaryTax = s.Amount
	case corpus.TaxNone:
		audit(&auditLog, "special_tax", "no-tax state; all tax outputs zero", base.String(), "0.00", "TaxType=NoTax")
		primaryTax = money.ZeroMoney
	default:
		components = calculateStandardComponents(base, rules, &auditLog)
		for _, c := range components {
			primaryTax = primaryTax.Add(c.Amount)
		}
	}

	effectiveRate := money.ZeroRate
	if base.IsPositive() {
		effectiveRate = money.NewRate(primaryTax.Decimal().Div(base.Decimal()))
	}

	credit := calculateReciprocityCredit(deal.Deal.Jurisdiction, deal.Profiles, base, primaryTax, &auditLog)
	netTax := primaryTax.Sub(credit).ClampZero()

	calc := TaxCalculation{
		TaxBase:           base,
		BaseBreakdown:     breakdown,
		PrimaryTax:        primaryTax,
		TaxType:           taxType,
		EffectiveRate:     effectiveRate,
		ReciprocityCredit: credit,
		NetTax:            netTax,
		Components:        components,
		Special:           special,
		Audit:             auditLog,
	}
	if err := validateTaxInvariants(calc); err != nil {
		return TaxCalculation{}, err
	}
	return calc, nil
}

// buildTaxBase implements spec.md §4.5's base-construction algebra exactly.
func buildTaxBase(input DealInput, norm NormalizedDealInput, rules corpus.RuleProfile, auditLog *[]TaxAuditEntry) (TaxBaseBreakdown, money.Money) {
	taxableFees := calculateTaxableFees(input, rules)
	taxableProducts := norm.TotalTaxableProducts

	base := input.VehiclePrice.Add(taxableFees).Add(taxableProducts)
	audit(auditLog, "base_start", "price + taxable fees + taxable products", "", base.String(), "base_construction")

	tradeCredit := money.ZeroMoney
	if rules.BaseRules.TradeInReducesBasis && input.TradeInValue != nil {
		tradeValue := *input.TradeInValue
		credit := tradeValue
		if rules.BaseRules.MaxTradeInCredit != nil {
			credit = money.MinMoney(credit, *rules.BaseRules.MaxTradeInCredit)
		}
		credit = money.MinMoney(credit, base).ClampZero()
		base = base.Sub(credit)
		tradeCredit = credit
		audit(auditLog, "trade_credit", "trade credit applied against base", tradeValue.String(), credit.String(), "trade_reduces_basis")
	}

	rebatesApplied := money.ZeroMoney
	if rules.BaseRules.RebatesReduceBasis {
		eligible := eligibleRebateTotal(input.Rebates, rules.BaseRules)
		applied := money.MinMoney(eligible, base)
		base = base.Sub(applied)
		rebatesApplied = applied
		audit(auditLog, "rebate_credit", "rebates applied against base", eligible.String(), applied.String(), "rebates_reduce_basis")
	}

	capReason := ""
	if rules.BaseRules.MaxTaxableAmount != nil && base.GreaterThan(*rules.BaseRules.MaxTaxableAmount) {
		audit(auditLog, "cap", "base capped at max taxable amount", base.String(), rules.BaseRules.MaxTaxableAmount.String(), "max_taxable_amount")
		base = *rules.BaseRules.MaxTaxableAmount
		capReason = "max_taxable_amount"
	}
	if rules.BaseRules.MinTaxableAmount != nil && base.LessThan(*rules.BaseRules.MinTaxableAmount) {
		audit(auditLog, "floor", "base floored at min taxable amount", base.String(), rules.BaseRules.MinTaxableAmount.String(), "min_taxable_amount")
		base = *rules.BaseRules.MinTaxableAmount
	}
	base = base.ClampZero().RoundCents()

	return TaxBaseBreakdown{
		SellingPrice:       input.VehiclePrice,
		TaxableFees:        taxableFees,
		TaxableProducts:    taxableProducts,
		TradeCreditApplied: tradeCredit,
		RebatesApplied:     rebatesApplied,
		CapApplied:         capReason,
	}, base
}

func eligibleRebateTotal(rebates []Rebate, rules corpus.BaseRules) money.Money {
	total := money.ZeroMoney
	for _, r := range rebates {
		reduces := rules.RebatesReduceBasis
		if len(rules.RebateTypesReduceBasis) > 0 {
			reduces = rules.RebateTypesReduceBasis[string(r.Source)]
		}
		if r.ReducesTaxBasis != nil {
			reduces = *r.ReducesTaxBasis
		}
		if reduces {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// calculateTaxableFees selects which named fee slots enter the taxable
// base, consulting the rule profile's per-fee flags (doc, destination,
// dealer-handling, registration, title are all gated; extra fees are
// gated by their own Taxable flag).
func calculateTaxableFees(input DealInput, rules corpus.RuleProfile) money.Money {
	total := money.ZeroMoney
	if rules.BaseRules.DocFeeTaxable {
		total = total.Add(input.Fees.DocFee)
	}
	if rules.BaseRules.DestinationTaxable {
		total = total.Add(input.Fees.DestinationFee)
	}
	if rules.BaseRules.DealerHandlingTaxable {
		total = total.Add(input.Fees.DealerHandlingFee)
	}
	if rules.BaseRules.RegistrationTaxable {
		total = total.Add(input.Fees.RegistrationFee)
	}
	if rules.BaseRules.TitleFeeTaxable {
		total = total.Add(input.Fees.TitleFee)
	}
	for _, of := range input.Fees.OtherFees {
		if of.Taxable {
			total = total.Add(of.Amount)
		}
	}
	return total
}

func calculateTAVT(input DealInput, base money.Money, rules corpus.RuleProfile, auditLog *[]TaxAuditEntry) SpecialTax {
	used := input.VehicleCondition == ConditionUsed
	rate := rules.TAVTRateFor(used)
	amount := rate.Apply(base).RoundCents()
	audit(auditLog, "tavt", "Title Ad Valorem Tax", base.String(), amount.String(), "TAVT")
	return SpecialTax{TaxType: corpus.TaxTAVT, Name: "Title Ad Valorem Tax", Base: base, Rate: rate, Amount: amount}
}

func calculateHUT(base money.Money, rules corpus.RuleProfile, auditLog *[]TaxAuditEntry) SpecialTax {
	rate := rules.HUTRateOrDefault()
	taxableBase := money.MinMoney(base, corpus.HUTCap)
	amount := rate.Apply(taxableBase).RoundCents()
	var capApplied *money.Money
	if base.GreaterThan(corpus.HUTCap) {
		cap := corpus.HUTCap
		capApplied = &cap
		audit(auditLog, "hut_cap", "Highway Use Tax base capped", base.String(), cap.String(), "HUT_cap_80000")
	}
	audit(auditLog, "hut", "Highway Use Tax", taxableBase.String(), amount.String(), "HUT")
	return SpecialTax{TaxType: corpus.TaxHUT, Name: "Highway Use Tax", Base: taxableBase, Rate: rate, Amount: amount, CapApplied: capApplied}
}

func calculateExcise(base money.Money, rules corpus.RuleProfile, auditLog *[]TaxAuditEntry) SpecialTax {
	rate := rules.ExciseRateOrDefault()
	amount := rate.Apply(base).RoundCents()
	audit(auditLog, "excise", "Excise/Privilege Tax", base.String(), amount.String(), "Excise")
	return SpecialTax{TaxType: corpus.TaxExcise, Name: "Excise/Privilege Tax", Base: base, Rate: rate, Amount: amount}
}

// calculateStandardComponents stacks state/county/city/district rate
// components additively. The county+city share of the default combined
// rate is modeled as "local rate" (default_combined_rate - state_rate)
// until a true per-ZIP county/city lookup is wired into the corpus, per
// the rule profile's CountyRateKey/CityRateKey fields.
func calculateStandardComponents(base money.Money, rules corpus.RuleProfile, auditLog *[]TaxAuditEntry) []TaxComponent {
	var components []TaxComponent

	stateRate := rules.Rates.StateRate
	if stateRate.Decimal().IsPositive() {
		amt := stateRate.Apply(base).RoundCents()
		components = append(components, TaxComponent{Name: "State Tax", Level: LevelState, Rate: stateRate, Base: base, Amount: amt})
		audit(auditLog, "state_tax", "state rate component", base.String(), amt.String(), "state_rate")
	}

	localRate := rules.Rates.DefaultCombinedRate.Sub(stateRate)
	if localRate.Decimal().IsPositive() {
		amt := localRate.Apply(base).RoundCents()
		components = append(components, TaxComponent{Name: "Local Tax", Level: LevelCounty, Rate: localRate, Base: base, Amount: amt})
		audit(auditLog, "local_tax", "combined local rate component", base.String(), amt.String(), "default_combined_rate")
	}

	if rules.Rates.DistrictRate.Decimal().IsPositive() {
		amt := rules.Rates.DistrictRate.Apply(base).RoundCents()
		components = append(components, TaxComponent{Name: "District Tax", Level: LevelDistrict, Rate: rules.Rates.DistrictRate, Base: base, Amount: amt})
		audit(auditLog, "district_tax", "district rate component", base.String(), amt.String(), "district_rate")
	}

	return components
}

// calculateReciprocityCredit implements spec.md §4.5's ReciprocityType
// dispatch using the actual computed tax base (not raw vehicle price, which
// the original Rust implementation used incorrectly).
func calculateReciprocityCredit(jurisdiction JurisdictionContext, profiles ProfileContext, base, primaryTax money.Money, auditLog *[]TaxAuditEntry) money.Money {
	if !jurisdiction.IsInterstate || profiles.Secondary == nil {
		return money.ZeroMoney
	}
	rules := profiles.Primary.Reciprocity
	if !rules.OffersReciprocity {
		return money.ZeroMoney
	}

	secondaryTheoretical := base.MulRate(profiles.Secondary.Rates.DefaultCombinedRate).RoundCents()

	var credit money.Money
	switch rules.CreditType {
	case corpus.ReciprocityFull:
		if !rules.FullCreditStates[corpus.StateCode(jurisdiction.Secondary)] {
			return money.ZeroMoney
		}
		credit = money.MinMoney(secondaryTheoretical, primaryTax)
	case corpus.ReciprocityPartial:
		credit = secondaryTheoretical
		if rules.MaxCreditRate != nil {
			credit = money.MinMoney(credit, base.MulRate(*rules.MaxCreditRate).RoundCents())
		}
		credit = money.MinMoney(credit, primaryTax)
	default: // ReciprocityNone
		return money.ZeroMoney
	}
	audit(auditLog, "reciprocity_credit", "interstate reciprocity credit", secondaryTheoretical.String(), credit.String(), string(rules.CreditType))
	return credit
}

func validateTaxInvariants(calc TaxCalculation) error {
	if calc.TaxBase.IsNegative() {
		return newCalculationError(PhaseTaxCipher, "tax base is negative: %s", calc.TaxBase)
	}
	if calc.NetTax.IsNegative() {
		return newCalculationError(PhaseTaxCipher, "net tax is negative: %s", calc.NetTax)
	}
	if calc.ReciprocityCredit.GreaterThan(calc.PrimaryTax) {
		return newCalculationError(PhaseTaxCipher, "reciprocity credit %s exceeds primary tax %s", calc.ReciprocityCredit, calc.PrimaryTax)
	}
	if len(calc.Components) > 0 {
		sum := money.ZeroMoney
		for _, c := range calc.Components {
			sum = sum.Add(c.Amount)
		}
		diff := sum.Sub(calc.PrimaryTax).Abs()
		if diff.GreaterThan(money.MoneyFromFloat(0.01)) {
			return newCalculationError(PhaseTaxCipher, "component sum %s differs from primary tax %s by more than one cent", sum, calc.PrimaryTax)
		}
	}
	return nil
}

// LeaseTaxResult carries the lease-specific tax output computed once the
// payment structure (base_payment, gross_cap_cost, depreciation) is known
// in P5.
type LeaseTaxResult struct {
	UpfrontTax money.Money
	MonthlyTax money.Money
	TotalTax   money.Money
}

// calculateLeaseTax dispatches on the rule profile's LeaseTaxMode. See
// spec.md §4.5; DepreciationOnly uses its own formula
// (depreciation/term * combined_rate), distinct from MonthlyPayment's
// (base_payment * combined_rate) — the original implementation conflated
// the two, which this port does not repeat.
func calculateLeaseTax(mode corpus.LeaseTaxMode, grossCapCost, basePayment, depreciation money.Money, termMonths int, combinedRate money.Rate) LeaseTaxResult {
	switch mode {
	case corpus.LeaseTaxCapCostUpfront:
		upfront := grossCapCost.MulRate(combinedRate).RoundCents()
		return LeaseTaxResult{UpfrontTax: upfront, TotalTax: upfront}
	case corpus.LeaseTaxMonthlyPayment:
		monthly := basePayment.MulRate(combinedRate).RoundCents()
		return LeaseTaxResult{MonthlyTax: monthly, TotalTax: monthly.MulInt(termMonths)}
	case corpus.LeaseTaxTotalPayments:
		upfront := basePayment.MulInt(termMonths).MulRate(combinedRate).RoundCents()
		return LeaseTaxResult{UpfrontTax: upfront, TotalTax: upfront}
	case corpus.LeaseTaxDepreciationOnly:
		monthly := depreciation.DivInt(termMonths).MulRate(combinedRate).RoundCents()
		return LeaseTaxResult{MonthlyTax: monthly, TotalTax: monthly.MulInt(termMonths)}
	case corpus.LeaseTaxAcquisitionTax:
		upfront := grossCapCost.MulRate(combinedRate).RoundCents()
		return LeaseTaxResult{UpfrontTax: upfront, TotalTax: upfront}
	default: // Exempt
		return LeaseTaxResult{}
	}
}
