package corpus

import (
	"time"

	"github.com/dealcipher/udc/money"
)

func pct(f float64) money.Rate { return money.RateFromPercent(decimalFromFloat(f)) }

var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func meta(source string) ProfileMeta {
	return ProfileMeta{Version: "2026.1", EffectiveDate: epoch, Source: source, Active: true}
}

func standardAncillaries() AncillaryRules {
	return AncillaryRules{
		TireWheelTaxable:      true,
		AppearanceTaxable:     true,
		MaintenanceTaxable:    true,
		WindshieldTaxable:     true,
		DentProtectionTaxable: true,
		DefaultProductTaxable: true,
		GovernmentFeesTaxable: false,
	}
}

func moneyPtr(m money.Money) *money.Money { return &m }
func ratePtr(r money.Rate) *money.Rate    { return &r }

// BuiltinProfiles returns a small, hand-curated set of RuleProfiles covering
// every special-tax regime, both reciprocity postures, and every
// lease-governance class named in the specification. This is the schema's
// worked example, not the 50-state population the corpus is designed to
// hold in production (loaded instead from XMLRepository/SQLiteRepository).
func BuiltinProfiles() []RuleProfile {
	var out []RuleProfile
	for _, mode := range []DealMode{ModeCash, ModeFinance, ModeLease} {
		out = append(out,
			texasProfile(mode),
			californiaProfile(mode),
			georgiaProfile(mode),
			northCarolinaProfile(mode),
			westVirginiaProfile(mode),
			nevadaProfile(mode),
			floridaProfile(mode),
			noTaxProfile("MT", mode),
			noTaxProfile("OR", mode),
			noTaxProfile("NH", mode),
			noTaxProfile("DE", mode),
			garagingGovernedProfile("IL", mode),
			garagingGovernedProfile("MA", mode),
			garagingGovernedProfile("NJ", mode),
			garagingGovernedProfile("NY", mode),
			garagingGovernedProfile("PA", mode),
		)
	}
	return out
}

// texasProfile: 6.25% state + 2% average local stacked additive (scenario
// 1/2); trade reduces basis; offers full reciprocity to neighboring states
// including Nevada (scenario 9); is a lease transaction-state-governs
// jurisdiction.
func texasProfile(mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: "TX",
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           pct(6.25),
			DefaultCombinedRate: pct(8.25),
			DistrictRate:        money.ZeroRate,
		},
		BaseRules: BaseRules{
			TradeInReducesBasis:   true,
			RebatesReduceBasis:    false,
			DocFeeTaxable:         true,
			DestinationTaxable:    true,
			DealerHandlingTaxable: false,
			RegistrationTaxable:   false,
			TitleFeeTaxable:       false,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{
			OffersReciprocity: true,
			CreditType:        ReciprocityFull,
			FullCreditStates:  map[StateCode]bool{"NV": true, "FL": true},
		},
		Meta: meta("worked example: scenarios 1, 2, 9"),
	}
}

// californiaProfile: trade-in does NOT reduce basis; rebates DO (scenario
// 3); is a lease garaging-state-governs jurisdiction.
func californiaProfile(mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: "CA",
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           pct(7.25),
			DefaultCombinedRate: pct(8.75),
		},
		BaseRules: BaseRules{
			TradeInReducesBasis:   false,
			RebatesReduceBasis:    true,
			DocFeeTaxable:         true,
			DestinationTaxable:    true,
			DealerHandlingTaxable: false,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("worked example: scenario 3"),
	}
}

// georgiaProfile: TAVT replaces standard rate stacking (scenario 4); trade
// still reduces basis per the base-construction algebra, which runs before
// special-tax dispatch.
func georgiaProfile(mode DealMode) RuleProfile {
	tavtNew := pct(6.75)
	tavtUsed := pct(7.00)
	return RuleProfile{
		StateCode: "GA",
		Mode:      mode,
		TaxType:   TaxTAVT,
		Rates: TaxRates{
			StateRate:    money.ZeroRate,
			TAVTRate:     &tavtNew,
			TAVTRateUsed: &tavtUsed,
		},
		BaseRules: BaseRules{
			TradeInReducesBasis: true,
			RebatesReduceBasis:  false,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("worked example: scenario 4"),
	}
}

// northCarolinaProfile: HUT caps the taxable base at $80,000 (scenario 5).
func northCarolinaProfile(mode DealMode) RuleProfile {
	hut := pct(3.00)
	cap := HUTCap
	return RuleProfile{
		StateCode: "NC",
		Mode:      mode,
		TaxType:   TaxHUT,
		Rates: TaxRates{
			StateRate: money.ZeroRate,
			HUTRate:   &hut,
		},
		BaseRules: BaseRules{
			TradeInReducesBasis: true,
			RebatesReduceBasis:  false,
			MaxTaxableAmount:    &cap,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("worked example: scenario 5"),
	}
}

// westVirginiaProfile: privilege/excise tax with a $25,000 statutory trade
// credit cap.
func westVirginiaProfile(mode DealMode) RuleProfile {
	excise := pct(5.00)
	cap := WVTradeCreditCap
	return RuleProfile{
		StateCode: "WV",
		Mode:      mode,
		TaxType:   TaxExcise,
		Rates: TaxRates{
			StateRate:  money.ZeroRate,
			ExciseRate: &excise,
		},
		BaseRules: BaseRules{
			TradeInReducesBasis: true,
			MaxTradeInCredit:    &cap,
			RebatesReduceBasis:  false,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("West Virginia excise/privilege tax"),
	}
}

// nevadaProfile: the secondary-state profile consulted in scenario 9's
// reciprocity calculation.
func nevadaProfile(mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: "NV",
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           pct(4.60),
			DefaultCombinedRate: pct(6.85),
		},
		BaseRules:   BaseRules{TradeInReducesBasis: true, DocFeeTaxable: true},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: true, CreditType: ReciprocityFull, FullCreditStates: map[StateCode]bool{"TX": true}},
		Meta:        meta("worked example: scenario 9 (secondary)"),
	}
}

// floridaProfile: a lease transaction-state-governs jurisdiction alongside
// Texas.
func floridaProfile(mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: "FL",
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           pct(6.00),
			DefaultCombinedRate: pct(7.00),
		},
		BaseRules:   BaseRules{TradeInReducesBasis: true, DocFeeTaxable: true},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: true, CreditType: ReciprocityFull, FullCreditStates: map[StateCode]bool{"TX": true}},
		Meta:        meta("lease transaction-state-governs jurisdiction"),
	}
}

// noTaxProfile covers Montana, Oregon, New Hampshire, Delaware (scenario 10).
func noTaxProfile(state StateCode, mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode:   state,
		Mode:        mode,
		TaxType:     TaxNone,
		Rates:       TaxRates{StateRate: money.ZeroRate},
		BaseRules:   BaseRules{},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("no-sales-tax state: " + string(state)),
	}
}

// garagingGovernedProfile covers the lease garaging-state-governs class
// (IL, MA, NJ, NY, PA) with a generic standard-rate profile; production
// deployments replace these with the real state rate schedule.
func garagingGovernedProfile(state StateCode, mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: state,
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           pct(6.25),
			DefaultCombinedRate: pct(7.00),
		},
		BaseRules:   BaseRules{TradeInReducesBasis: true, DocFeeTaxable: true},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("lease garaging-state-governs jurisdiction"),
	}
}

// DefaultProfile synthesizes P3's third resolution tier: a generic
// standard-rate profile used when no corpus entry matches even loosely.
// Carries a visible 0% rate so a missing profile cannot silently charge a
// plausible-looking tax.
func DefaultProfile(state StateCode, mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: state,
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           money.ZeroRate,
			DefaultCombinedRate: money.ZeroRate,
		},
		BaseRules: BaseRules{
			TradeInReducesBasis: true,
			DocFeeTaxable:       true,
		},
		Ancillaries: standardAncillaries(),
		Reciprocity: ReciprocityRules{OffersReciprocity: false, CreditType: ReciprocityNone},
		Meta:        meta("synthetic default profile"),
	}
}
