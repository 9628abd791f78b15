package udc

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dealcipher/udc/corpus"
	"github.com/dealcipher/udc/money"
	"github.com/google/uuid"
)

// TaxLineItem is one rendered row of the final tax breakdown.
type TaxLineItem struct {
	Level       TaxLevel
	Name        string
	Rate        money.Rate
	TaxableBase money.Money
	TaxAmount   money.Money
	IsCredit    bool
}

// TaxBreakdown is the output-facing rendering of P4's TaxCalculation.
type TaxBreakdown struct {
	LineItems         []TaxLineItem
	GrossTax          money.Money
	ReciprocityCredit money.Money
	NetTax            money.Money
	TaxBase           money.Money
	EffectiveRate     money.Rate
	SpecialTaxType    string
	TradeInApplied    bool
	TradeInCreditUsed money.Money
	RebatesApplied    bool
	RebateAmountUsed  money.Money
}

// Disclosure is one required regulatory disclosure attached to the output.
type Disclosure struct {
	Code               string
	Category           string // "federal" or "state"
	Title              string
	Text               string
	SignatureRequired  bool
	Regulations        []string
}

// AuditEntry is one step of the pipeline's execution trace.
type AuditEntry struct {
	Phase       Phase
	Operation   string
	Description string
	RuleApplied string
	Timestamp   time.Time
}

// AuditTrace is the full, checksum-backed execution record for one run.
type AuditTrace struct {
	Entries              []AuditEntry
	EngineVersion        string
	RuleProfileVersion   string
	ProgramProfileVersion string
	CalculatedAt         time.Time
	InputChecksum        string
	OutputChecksum       string
}

// UdcOutput is the pipeline's terminal artifact.
type UdcOutput struct {
	OutputID             uuid.UUID
	DealID                uuid.UUID
	DealType              DealType
	CalculatedAt          time.Time
	Validation            ValidationResult
	TaxBreakdown          TaxBreakdown
	CashStructure         *CashStructure
	FinanceStructure      *FinanceStructure
	LeaseStructure        *LeaseStructure
	AmortizationSchedule  []amortizationEntryView
	Disclosures           []Disclosure
	AuditTrace            AuditTrace
	Summary               string
}

// amortizationEntryView mirrors amortization.Entry for output purposes,
// avoiding a dependency from the output surface back onto the internal
// amortization package's exact shape.
type amortizationEntryView struct {
	PaymentNumber    int
	DueDate          time.Time
	Payment          money.Money
	Principal        money.Money
	Interest         money.Money
	RemainingBalance money.Money
}

// FinalizedDeal bundles the cashflow-computed deal with its terminal
// output.
type FinalizedDeal struct {
	Deal   CashflowDeal
	Output UdcOutput
}

// EngineVersion is the pipeline implementation version stamped into every
// AuditTrace.
const EngineVersion = "1.0.0"

const engineVersion = EngineVersion

func finalizeOutput(deal CashflowDeal, validation ValidationResult, dealID uuid.UUID, calculatedAt time.Time) (FinalizedDeal, error) {
	input := deal.Deal.Deal.Deal.Deal.Deal.Input.Input

	taxBreakdown := buildTaxBreakdown(deal.Deal.Deal)
	cash, finance, leaseOut := splitStructures(deal.Deal.Structure)

	var schedule []amortizationEntryView
	if deal.Finance != nil {
		schedule = make([]amortizationEntryView, 0, len(deal.Finance.Schedule))
		for _, e := range deal.Finance.Schedule {
			schedule = append(schedule, amortizationEntryView{
				PaymentNumber:    e.PaymentNumber,
				DueDate:          e.DueDate,
				Payment:          e.Payment,
				Principal:        e.Principal,
				Interest:         e.Interest,
				RemainingBalance: e.RemainingBalance,
			})
		}
	}

	disclosures := generateDisclosures(deal, input)
	summary := buildSummary(deal.Deal.Structure)

	outputID := uuid.New()
	calculatedAt = calculatedAt.UTC()

	output := UdcOutput{
		OutputID:             outputID,
		DealID:               dealID,
		DealType:             input.DealType,
		CalculatedAt:         calculatedAt,
		Validation:           validation,
		TaxBreakdown:         taxBreakdown,
		CashStructure:        cash,
		FinanceStructure:     finance,
		LeaseStructure:       leaseOut,
		AmortizationSchedule: schedule,
		Disclosures:          disclosures,
		Summary:              summary,
	}

	trace, err := buildAuditTrace(input, deal.Deal.Deal.Deal.Profiles.Primary, deal.Deal.Deal.Tax.Audit, output, calculatedAt)
	if err != nil {
		return FinalizedDeal{}, err
	}
	output.AuditTrace = trace

	return FinalizedDeal{Deal: deal, Output: output}, nil
}

func buildTaxBreakdown(computed TaxComputedDeal) TaxBreakdown {
	tax := computed.Tax
	items := make([]TaxLineItem, 0, len(tax.Components)+1)
	for _, c := range tax.Components {
		items = append(items, TaxLineItem{
			Level:       c.Level,
			Name:        c.Name,
			Rate:        c.Rate,
			TaxableBase: c.Base,
			TaxAmount:   c.Amount,
		})
	}
	if tax.Special != nil {
		items = append(items, TaxLineItem{
			Level:       LevelSpecial,
			Name:        tax.Special.Name,
			Rate:        tax.Special.Rate,
			TaxableBase: tax.Special.Base,
			TaxAmount:   tax.Special.Amount,
		})
	}
	if tax.ReciprocityCredit.IsPositive() {
		items = append(items, TaxLineItem{
			Level:     LevelSpecial,
			Name:      "Interstate Reciprocity Credit",
			TaxAmount: tax.ReciprocityCredit.Neg(),
			IsCredit:  true,
		})
	}

	specialType := ""
	if tax.Special != nil {
		specialType = string(tax.Special.TaxType)
	}

	return TaxBreakdown{
		LineItems:         items,
		GrossTax:          tax.PrimaryTax,
		ReciprocityCredit: tax.ReciprocityCredit,
		NetTax:            tax.NetTax,
		TaxBase:           tax.TaxBase,
		EffectiveRate:     tax.EffectiveRate,
		SpecialTaxType:    specialType,
		TradeInApplied:    tax.BaseBreakdown.TradeCreditApplied.IsPositive(),
		TradeInCreditUsed: tax.BaseBreakdown.TradeCreditApplied,
		RebatesApplied:    tax.BaseBreakdown.RebatesApplied.IsPositive(),
		RebateAmountUsed:  tax.BaseBreakdown.RebatesApplied,
	}
}

func splitStructures(s DealStructure) (*CashStructure, *FinanceStructure, *LeaseStructure) {
	return s.Cash, s.Finance, s.Lease
}

func generateDisclosures(deal CashflowDeal, input DealInput) []Disclosure {
	var out []Disclosure
	switch input.DealType {
	case DealFinance:
		out = append(out, tilaDisclosures(deal.Deal.Structure.Finance)...)
	case DealLease:
		out = append(out, regMDisclosures(deal.Deal.Structure.Lease)...)
	}
	out = append(out, stateDisclosures(input.HomeState)...)
	return out
}

func tilaDisclosures(f *FinanceStructure) []Disclosure {
	if f == nil {
		return nil
	}
	aprPercent := f.APR.Percent()
	return []Disclosure{
		{
			Code:     "TILA-BOX",
			Category: "federal",
			Title:    "Truth in Lending Disclosures",
			Text: fmt.Sprintf(
				"ANNUAL PERCENTAGE RATE: %s%%\nFINANCE CHARGE: %s\nAmount Financed: %s\nTotal of Payments: %s\nTotal Sale Price: %s",
				aprPercent.StringFixed(2), f.FinanceCharge, f.AmountFinanced, f.TotalOfPayments, f.TotalSalePrice,
			),
			Regulations: []string{"TILA", "Reg Z"},
		},
		{
			Code:     "TILA-SCHEDULE",
			Category: "federal",
			Title:    "Payment Schedule",
			Text:     fmt.Sprintf("Your payment schedule will be %d monthly payments of %s", f.TermMonths, f.MonthlyPayment),
			Regulations: []string{"TILA"},
		},
	}
}

func regMDisclosures(l *LeaseStructure) []Disclosure {
	if l == nil {
		return nil
	}
	return []Disclosure{
		{
			Code:     "REG-M",
			Category: "federal",
			Title:    "Consumer Lease Disclosures",
			Text: fmt.Sprintf(
				"Gross Capitalized Cost: %s\nCap Cost Reduction: %s\nAdjusted Capitalized Cost: %s\nResidual Value: %s\nDepreciation: %s\nRent Charge: %s\nTotal of Monthly Payments: %s\nTotal of Payments: %s",
				l.GrossCapCost, l.CapCostReductions, l.AdjustedCapCost, l.ResidualValue, l.Depreciation, l.RentCharge, l.TotalBasePayments, l.TotalLeaseCost,
			),
			Regulations: []string{"Reg M"},
		},
	}
}

func stateDisclosures(state StateCode) []Disclosure {
	switch state {
	case "CA":
		return []Disclosure{{
			Code:              "CA-CAR-BUYERS",
			Category:          "state",
			Title:             "California Car Buyer's Bill of Rights",
			Text:              "Notice of cancellation rights and contract-cooling-off provisions required under California law.",
			SignatureRequired: true,
			Regulations:       []string{"CA Civil Code 1632"},
		}}
	case "NY":
		return []Disclosure{{
			Code:        "NY-RETAIL-CERT",
			Category:    "state",
			Title:       "New York Retail Certificate of Sale Disclosure",
			Text:        "Itemized tax and fee disclosure required under New York vehicle retail sale law.",
			Regulations: []string{"NY VTL 417"},
		}}
	default:
		return nil
	}
}

func buildSummary(s DealStructure) string {
	switch {
	case s.Cash != nil:
		return fmt.Sprintf("Cash purchase: %s total due", s.Cash.TotalCashPrice)
	case s.Finance != nil:
		f := s.Finance
		return fmt.Sprintf("%s/mo for %d months @ %s%% APR", f.MonthlyPayment, f.TermMonths, f.APR.Percent().StringFixed(2))
	case s.Lease != nil:
		l := s.Lease
		return fmt.Sprintf("%s/mo for %d months, %s due at signing", l.TotalMonthlyPayment, l.TermMonths, l.DueAtSigning)
	default:
		return "no structure computed"
	}
}

// canonicalChecksum renders v as indent-free, key-sorted-by-construction
// JSON (Go's encoding/json already sorts struct fields by declaration
// order, which is fixed, giving a deterministic byte stream) and returns
// its SHA-256 hex digest.
func canonicalChecksum(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("checksum: %w", err)
	}
	sum := sha256.Sum256(b)
	return fmt.Sprintf("sha256:%x", sum), nil
}

// buildAuditTrace concatenates P4's detailed per-step tax audit log with one
// summary entry per phase, per spec.md §4.8's "collects P4 audit entries
// plus one entry per phase."
func buildAuditTrace(input DealInput, primary corpus.RuleProfile, taxAudit []TaxAuditEntry, output UdcOutput, calculatedAt time.Time) (AuditTrace, error) {
	inputChecksum, err := canonicalChecksum(input)
	if err != nil {
		return AuditTrace{}, err
	}

	entries := make([]AuditEntry, 0, len(taxAudit)+8)
	for _, a := range taxAudit {
		entries = append(entries, AuditEntry{
			Phase:       PhaseTaxCipher,
			Operation:   a.Step,
			Description: a.Description,
			RuleApplied: a.RuleApplied,
			Timestamp:   calculatedAt,
		})
	}
	entries = append(entries,
		AuditEntry{Phase: PhaseNormalize, Operation: "normalize", Description: "validated and rounded raw input", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseRoute, Operation: "route", Description: "resolved calculation mode from deal type", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseJurisdiction, Operation: "resolve_jurisdiction", Description: "determined governing and secondary state", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseProfiles, Operation: "load_profiles", Description: "loaded rule and program profiles", RuleApplied: string(primary.StateCode), Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseTaxCipher, Operation: "calculate_tax", Description: "assembled tax base and computed tax", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseStructure, Operation: "structure_deal", Description: "built deal-type-specific structure", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseCashflow, Operation: "generate_cashflow", Description: "generated payment schedule", Timestamp: calculatedAt},
		AuditEntry{Phase: PhaseFinalize, Operation: "finalize_output", Description: "assembled terminal output", Timestamp: calculatedAt},
	)

	// The output checksum covers the actual finalized payload (tax
	// breakdown, structure, schedule, disclosures, summary) rather than the
	// near-constant phase-label entries above, so two deals that differ
	// only in amount or structure never collide. output.AuditTrace is still
	// its zero value at this point, so the checksum cannot be
	// self-referential.
	outputChecksum, err := canonicalChecksum(output)
	if err != nil {
		return AuditTrace{}, err
	}

	return AuditTrace{
		Entries:               entries,
		EngineVersion:         engineVersion,
		RuleProfileVersion:    primary.Meta.Version,
		ProgramProfileVersion: "",
		CalculatedAt:          calculatedAt,
		InputChecksum:         inputChecksum,
		OutputChecksum:        outputChecksum,
	}, nil
}
