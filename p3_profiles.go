package udc

import (
	"time"

	"github.com/dealcipher/udc/corpus"
)

// ProfileContext bundles every profile P4/P5 need: the governing state's
// rule profile, the secondary state's rule profile (required whenever the
// deal is interstate), the lender/lessor program profile if one applies,
// and the resolved per-product taxability list.
type ProfileContext struct {
	Primary      corpus.RuleProfile
	Secondary    *corpus.RuleProfile
	Program      *corpus.ProgramProfile
	ProductRules []corpus.ProductTaxRule
}

// ProfileLoadedDeal bundles the jurisdiction-resolved deal with its loaded
// profiles.
type ProfileLoadedDeal struct {
	Deal     JurisdictionResolvedDeal
	Profiles ProfileContext
	Warnings []string
}

func toMode(mode CalculationMode) corpus.DealMode {
	switch mode {
	case ModeCash:
		return corpus.ModeCash
	case ModeFinance:
		return corpus.ModeFinance
	default:
		return corpus.ModeLease
	}
}

// loadProfiles resolves the primary and (if interstate) secondary rule
// profiles, the program profile for any specified lender/lessor, and the
// per-product taxability list. A missing primary profile is not fatal — it
// falls back per repo.RuleProfile's three-tier chain and records a
// warning. A secondary profile that repo fails to resolve is fatal
// (ProfileNotFoundError); a repository with a synthetic-default fallback
// resolves an unknown secondary state to that default with a warning
// instead of failing.
func loadProfiles(deal JurisdictionResolvedDeal, repo corpus.Repository, at time.Time) (ProfileLoadedDeal, error) {
	jurisdiction := deal.Jurisdiction
	input := deal.Deal.Input.Input
	mode := toMode(deal.Deal.Mode)

	primary, warnings, err := repo.RuleProfile(corpus.StateCode(jurisdiction.Governing), mode, at)
	if err != nil {
		return ProfileLoadedDeal{}, &ValidationError{Field: "governing_state", Message: err.Error()}
	}

	var secondary *corpus.RuleProfile
	if jurisdiction.IsInterstate {
		sp, secWarnings, err := repo.RuleProfile(corpus.StateCode(jurisdiction.Secondary), mode, at)
		if err != nil {
			return ProfileLoadedDeal{}, &ProfileNotFoundError{ProfileType: "secondary_rule_profile", Identifier: string(jurisdiction.Secondary)}
		}
		secondary = &sp
		warnings = append(warnings, secWarnings...)
	}

	var program *corpus.ProgramProfile
	var lenderID string
	if input.FinanceParams != nil {
		lenderID = input.FinanceParams.LenderID
	} else if input.LeaseParams != nil {
		lenderID = input.LeaseParams.LessorID
	}
	if lenderID != "" {
		program, err = repo.ProgramProfile(lenderID)
		if err != nil {
			return ProfileLoadedDeal{}, err
		}
	}

	productRules := buildProductTaxRules(primary, input.Products)

	return ProfileLoadedDeal{
		Deal: deal,
		Profiles: ProfileContext{
			Primary:      primary,
			Secondary:    secondary,
			Program:      program,
			ProductRules: productRules,
		},
		Warnings: warnings,
	}, nil
}

// buildProductTaxRules resolves each FiProduct's taxability once, crossing
// the state's AncillaryRules with the product's own Taxable flag: an
// explicit false on the product always wins (it reflects a negotiated or
// statutory exemption specific to that sale), otherwise the state rule
// decides.
func buildProductTaxRules(rules corpus.RuleProfile, products []FiProduct) []corpus.ProductTaxRule {
	out := make([]corpus.ProductTaxRule, 0, len(products))
	for _, p := range products {
		taxable := rules.Ancillaries.IsProductTaxable(string(p.ProductType))
		if !p.Taxable {
			taxable = false
		}
		out = append(out, corpus.ProductTaxRule{
			ProductType:   string(p.ProductType),
			Taxable:       taxable,
			Capitalizable: p.CapitalizeInLease,
		})
	}
	return out
}
