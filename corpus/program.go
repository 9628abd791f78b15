package corpus

import "github.com/shopspring/decimal"

// PaymentRounding selects how P6 rounds the computed monthly payment under
// a given lender/lessor program. Distinct from RuleProfile's tax rounding
// config: this governs payment rounding specifically.
type PaymentRounding int

const (
	RoundNearestCent PaymentRounding = iota
	RoundPaymentUp
	RoundPaymentDown
)

// ProgramProfile carries lender/lessor program parameters consulted by P3
// when FinanceParams.LenderID or LeaseParams.LessorID is set. Supplements
// spec.md's terse mention of "optional lender id" with the richer program
// model the original implementation carried (types/program_profile.rs).
type ProgramProfile struct {
	LenderID         string
	MaxTermMonths    int
	MaxLTV           *decimal.Decimal
	PaymentRounding  PaymentRounding
}

// ProductTaxRule is a resolved per-FiProduct taxability/capitalizability
// decision, built once in P3 from the state's AncillaryRules crossed with
// any explicit per-product override and exposed on the profile context.
// P4's taxable base does not consult it: taxable products are summed from
// each product's own Taxable flag.
type ProductTaxRule struct {
	ProductType   string
	Taxable       bool
	Capitalizable bool
}
