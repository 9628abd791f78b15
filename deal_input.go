package udc

import (
	"time"

	"github.com/dealcipher/udc/money"
)

// StateCode is a two-letter uppercase jurisdiction code: the 50 states, DC,
// and the territories PR, VI, GU, AS, MP.
type StateCode string

// DealType tags the three calculation modes the pipeline understands.
type DealType string

const (
	DealCash    DealType = "cash"
	DealFinance DealType = "finance"
	DealLease   DealType = "lease"
)

// VehicleCondition resolves spec.md §9 open question (a): whether a deal is
// for a new or used vehicle, consulted only by Georgia TAVT to choose
// between its 6.75% (new) and 7.00% (used) rates.
type VehicleCondition string

const (
	ConditionNew  VehicleCondition = "new"
	ConditionUsed VehicleCondition = "used"
)

// RebateSource tags where a rebate originates. The rule profile's
// RebateTypesReduceBasis set may consult this to decide whether a given
// rebate reduces the taxable base.
type RebateSource string

const (
	RebateManufacturer   RebateSource = "manufacturer"
	RebateDealer         RebateSource = "dealer"
	RebateGovernment     RebateSource = "government"
	RebateLoyalty        RebateSource = "loyalty"
	RebateMilitary       RebateSource = "military"
	RebateCollegeGrad    RebateSource = "college_grad"
	RebateFirstResponder RebateSource = "first_responder"
	RebateOther          RebateSource = "other"
)

// Rebate is a single cash incentive applied to the deal.
type Rebate struct {
	ID       string
	Name     string
	Amount   money.Money
	Source   RebateSource
	ReducesTaxBasis *bool // nil defers to the rule profile's default
	ProgramCode string
}

// ProductType enumerates F&I ancillary product kinds.
type ProductType string

const (
	ProductVSC               ProductType = "vsc"
	ProductGAP               ProductType = "gap"
	ProductTireWheel         ProductType = "tire_wheel"
	ProductAppearance        ProductType = "appearance"
	ProductMaintenance       ProductType = "maintenance"
	ProductKeyReplacement    ProductType = "key_replacement"
	ProductTheftProtection   ProductType = "theft_protection"
	ProductWindshield        ProductType = "windshield"
	ProductDentProtection    ProductType = "dent_protection"
	ProductCreditLife        ProductType = "credit_life"
	ProductCreditDisability  ProductType = "credit_disability"
	ProductOther             ProductType = "other"
)

// FiProduct is an ancillary finance & insurance product attached to the
// deal (VSC, GAP, tire & wheel, and so on).
type FiProduct struct {
	ID                string
	Name              string
	ProductType       ProductType
	Price             money.Money
	DealerCost        money.Money // profit reporting only, never enters tax/payment math
	TermMonths        int
	Taxable           bool
	CapitalizeInLease bool // whether this product's price enters the lease cap cost
	FinanceWithDeal   bool
}

// OtherFee is a miscellaneous named fee not covered by DealFees' named
// slots.
type OtherFee struct {
	Name       string
	Amount     money.Money
	DealerFee  bool // false => government fee
	Taxable    bool
}

// DealFees holds the deal's named fee slots plus an open-ended extra list.
// Each named slot carries a known government-vs-dealer classification used
// by disclosure and reporting code; taxability of each slot is governed by
// the rule profile's BaseRules/AncillaryRules, not by a flag here.
type DealFees struct {
	DocFee               money.Money
	TitleFee             money.Money
	RegistrationFee      money.Money
	PlateFee             money.Money
	InspectionFee        money.Money
	ElectronicFilingFee  money.Money
	TireFee              money.Money
	SmogFee              money.Money
	DestinationFee       money.Money
	DealerHandlingFee    money.Money
	AcquisitionFee       money.Money
	DispositionFee       money.Money
	OtherFees            []OtherFee
}

// TotalGovernmentFees sums the slots that are always government fees
// (title, registration, plate, inspection, electronic filing, tire, smog)
// plus any OtherFee flagged as a government fee.
func (f DealFees) TotalGovernmentFees() money.Money {
	total := money.SumMoney(f.TitleFee, f.RegistrationFee, f.PlateFee, f.InspectionFee,
		f.ElectronicFilingFee, f.TireFee, f.SmogFee)
	for _, of := range f.OtherFees {
		if !of.DealerFee {
			total = total.Add(of.Amount)
		}
	}
	return total
}

// TotalDealerFees sums the dealer-originated slots (doc, destination,
// dealer-handling, acquisition, disposition) plus dealer-flagged extras.
func (f DealFees) TotalDealerFees() money.Money {
	total := money.SumMoney(f.DocFee, f.DestinationFee, f.DealerHandlingFee, f.AcquisitionFee, f.DispositionFee)
	for _, of := range f.OtherFees {
		if of.DealerFee {
			total = total.Add(of.Amount)
		}
	}
	return total
}

// Total sums every fee slot and extra fee.
func (f DealFees) Total() money.Money {
	return f.TotalGovernmentFees().Add(f.TotalDealerFees())
}

// CreditTier buckets a customer's creditworthiness.
type CreditTier string

const (
	CreditTier1 CreditTier = "tier1"
	CreditTier2 CreditTier = "tier2"
	CreditTier3 CreditTier = "tier3"
	CreditTier4 CreditTier = "tier4"
	CreditTier5 CreditTier = "tier5"
	CreditTier6 CreditTier = "tier6"
)

// CustomerType distinguishes retail customers from commercial/government
// buyers, which affects registration and tax-exemption handling.
type CustomerType string

const (
	CustomerIndividual      CustomerType = "individual"
	CustomerBusiness        CustomerType = "business"
	CustomerFleetCommercial CustomerType = "fleet_commercial"
	CustomerGovernment      CustomerType = "government"
	CustomerNonProfit       CustomerType = "non_profit"
)

// CustomerInfo carries the buyer attributes the tax cipher and disclosure
// phases consult.
type CustomerInfo struct {
	CustomerType   CustomerType
	CreditTier     *CreditTier
	CreditScore    *int
	TaxExempt      bool
	TaxExemptCert  string
	IsMilitary     bool
	ZIPCode        string
	County         string
	City           string
}

// FinanceParams carries the retail-installment-specific parameters. Term is
// constrained to [12, 84] months, APR to [0, 0.30] at P0.
type FinanceParams struct {
	TermMonths           int
	APR                  money.Rate
	LenderID             string
	BuyRate              *money.Rate
	MaxReservePoints     *money.Rate
	DeferredFirstPayment bool
	DaysToFirstPayment   *int
}

// LeaseParams carries the closed-end-lease-specific parameters. Term is
// constrained to [24, 60] months, MoneyFactor to (0, 0.01], ResidualPercent
// to (0, 1), AnnualMiles to [5000, 25000] at P0.
type LeaseParams struct {
	TermMonths        int
	MoneyFactor       money.MoneyFactor
	ResidualPercent   money.Rate
	AnnualMiles       int
	ExcessMileageRate money.Money
	LessorID          string
	MaxReserveMF      *money.MoneyFactor
	CapAcquisitionFee bool
	CapCostReduction  money.Money
	SecurityDeposit   money.Money
	MSDCount          int
}

// DealInput is the root value consumed by the pipeline.
type DealInput struct {
	DealType         DealType
	VehicleCondition VehicleCondition
	MSRP             money.Money
	VehiclePrice     money.Money
	TradeInValue     *money.Money
	TradeInPayoff    *money.Money
	CashDown         money.Money
	Rebates          []Rebate
	Products         []FiProduct
	Fees             DealFees
	HomeState        StateCode
	TransactionState StateCode
	GaragingState    StateCode // defaults to HomeState at P0 when empty
	Customer         CustomerInfo
	FinanceParams    *FinanceParams
	LeaseParams      *LeaseParams
	DealDate         *time.Time
	FirstPaymentDate *time.Time
}
