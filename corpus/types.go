package corpus

import (
	"time"

	"github.com/dealcipher/udc/money"
)

// StateCode mirrors udc.StateCode without importing the root package (which
// itself imports corpus to resolve profiles, so the dependency must run
// only one way).
type StateCode string

// DealMode mirrors udc.DealType.
type DealMode string

const (
	ModeCash    DealMode = "cash"
	ModeFinance DealMode = "finance"
	ModeLease   DealMode = "lease"
)

// SpecialTaxType tags which special per-vehicle tax regime, if any, governs
// a state's deals in place of standard rate stacking.
type SpecialTaxType string

const (
	TaxStandard SpecialTaxType = "standard"
	TaxTAVT     SpecialTaxType = "tavt"
	TaxHUT      SpecialTaxType = "hut"
	TaxExcise   SpecialTaxType = "excise"
	TaxNone     SpecialTaxType = "no_tax"
)

// LeaseTaxMode tags how a state taxes lease payments.
type LeaseTaxMode string

const (
	LeaseTaxCapCostUpfront  LeaseTaxMode = "cap_cost_upfront"
	LeaseTaxMonthlyPayment  LeaseTaxMode = "monthly_payment"
	LeaseTaxTotalPayments   LeaseTaxMode = "total_payments"
	LeaseTaxDepreciationOnly LeaseTaxMode = "depreciation_only"
	LeaseTaxAcquisitionTax  LeaseTaxMode = "acquisition_tax"
	LeaseTaxExempt          LeaseTaxMode = "exempt"
)

// ReciprocityType tags how a state credits tax already paid to another
// jurisdiction on the same vehicle.
type ReciprocityType string

const (
	ReciprocityFull    ReciprocityType = "full_credit"
	ReciprocityPartial ReciprocityType = "partial_credit"
	ReciprocityNone    ReciprocityType = "no_credit"
)

// TaxRates holds every rate and flat amount a profile may carry.
type TaxRates struct {
	StateRate         money.Rate
	MaxLocalRate      *money.Rate
	DefaultCombinedRate money.Rate
	CountyRateKey     string
	CityRateKey       string
	DistrictRate      money.Rate
	FlatTaxAmount     *money.Money
	TAVTRate          *money.Rate // new-vehicle rate, default 6.75%
	TAVTRateUsed      *money.Rate // used-vehicle rate, default 7.00% (open question (a))
	HUTRate           *money.Rate // default 3%
	ExciseRate        *money.Rate // default 5%
}

// BaseRules governs how the taxable base is assembled in P4.
type BaseRules struct {
	TradeInReducesBasis      bool
	MaxTradeInCredit         *money.Money
	RebatesReduceBasis       bool
	RebateTypesReduceBasis   map[string]bool // keyed by RebateSource string value; empty means "all, if RebatesReduceBasis"
	DealerDiscountReducesBasis bool
	DocFeeTaxable            bool
	DestinationTaxable       bool
	DealerHandlingTaxable    bool
	RegistrationTaxable      bool
	TitleFeeTaxable          bool
	MaxTaxableAmount         *money.Money
	MinTaxableAmount         *money.Money
	UseBookValue             bool
}

// AncillaryRules governs per-product-kind taxability.
type AncillaryRules struct {
	VSCTaxable              bool
	GAPTaxable              bool
	TireWheelTaxable        bool
	AppearanceTaxable       bool
	MaintenanceTaxable      bool
	KeyReplacementTaxable   bool
	TheftProtectionTaxable  bool
	WindshieldTaxable       bool
	DentProtectionTaxable   bool
	CreditLifeTaxable       bool
	CreditDisabilityTaxable bool
	DefaultProductTaxable   bool
	GovernmentFeesTaxable   bool
	RegistrationTaxable     bool
	TitleFeeTaxable         bool
}

// IsProductTaxable resolves the taxability of a product kind, falling back
// to DefaultProductTaxable for unlisted kinds.
func (a AncillaryRules) IsProductTaxable(productType string) bool {
	switch productType {
	case "vsc":
		return a.VSCTaxable
	case "gap":
		return a.GAPTaxable
	case "tire_wheel":
		return a.TireWheelTaxable
	case "appearance":
		return a.AppearanceTaxable
	case "maintenance":
		return a.MaintenanceTaxable
	case "key_replacement":
		return a.KeyReplacementTaxable
	case "theft_protection":
		return a.TheftProtectionTaxable
	case "windshield":
		return a.WindshieldTaxable
	case "dent_protection":
		return a.DentProtectionTaxable
	case "credit_life":
		return a.CreditLifeTaxable
	case "credit_disability":
		return a.CreditDisabilityTaxable
	default:
		return a.DefaultProductTaxable
	}
}

// PartialCreditState names a state offering a capped reciprocity credit.
type PartialCreditState struct {
	State      StateCode
	CreditRate money.Rate
	Conditions string
}

// ReciprocityRules governs interstate tax-credit behavior.
type ReciprocityRules struct {
	OffersReciprocity  bool
	CreditType         ReciprocityType
	FullCreditStates   map[StateCode]bool
	PartialCreditStates []PartialCreditState
	NoCreditStates     map[StateCode]bool
	MaxCreditRate      *money.Rate
	UseHigherRate      bool
}

// ProfileMeta carries provenance for audit and disclosure text.
type ProfileMeta struct {
	Version        string
	EffectiveDate  time.Time
	ExpirationDate *time.Time
	Source         string
	VerifiedDate   *time.Time
	Notes          string
	Active         bool
}

// RuleProfile is the tax cipher's key: everything P4/P5 need to compute tax
// and lease tax for one (state, mode) pair as of a point in time.
type RuleProfile struct {
	StateCode    StateCode
	Mode         DealMode
	TaxType      SpecialTaxType
	Rates        TaxRates
	BaseRules    BaseRules
	Ancillaries  AncillaryRules
	Reciprocity  ReciprocityRules
	LeaseTaxMode *LeaseTaxMode
	Meta         ProfileMeta
}

// EffectiveStateRate returns the state rate. FlatTaxAmount is not
// consulted.
func (p RuleProfile) EffectiveStateRate() money.Rate {
	return p.Rates.StateRate
}

// TradeReducesBasis reports whether trade-in value reduces the taxable
// base under this profile.
func (p RuleProfile) TradeReducesBasis() bool { return p.BaseRules.TradeInReducesBasis }

// RebatesReduceBasis reports whether rebates reduce the taxable base under
// this profile.
func (p RuleProfile) RebatesReduceBasis() bool { return p.BaseRules.RebatesReduceBasis }

// TAVTRateFor resolves the TAVT rate for a vehicle condition, defaulting to
// 6.75% (new) / 7.00% (used) when the profile leaves a slot unset.
func (p RuleProfile) TAVTRateFor(used bool) money.Rate {
	if used {
		if p.Rates.TAVTRateUsed != nil {
			return *p.Rates.TAVTRateUsed
		}
		return money.RateFromPercent(decimalFromFloat(7.00))
	}
	if p.Rates.TAVTRate != nil {
		return *p.Rates.TAVTRate
	}
	return money.RateFromPercent(decimalFromFloat(6.75))
}

// HUTRateOrDefault resolves the HUT rate, defaulting to 3%.
func (p RuleProfile) HUTRateOrDefault() money.Rate {
	if p.Rates.HUTRate != nil {
		return *p.Rates.HUTRate
	}
	return money.RateFromPercent(decimalFromFloat(3.00))
}

// ExciseRateOrDefault resolves the excise/privilege rate, defaulting to 5%.
func (p RuleProfile) ExciseRateOrDefault() money.Rate {
	if p.Rates.ExciseRate != nil {
		return *p.Rates.ExciseRate
	}
	return money.RateFromPercent(decimalFromFloat(5.00))
}

// HUTCap is the statutory North Carolina Highway Use Tax taxable-base cap.
var HUTCap = money.MoneyFromFloat(80000)

// WVTradeCreditCap is West Virginia's statutory cap on trade-in credit
// against the privilege/excise tax base.
var WVTradeCreditCap = money.MoneyFromFloat(25000)
