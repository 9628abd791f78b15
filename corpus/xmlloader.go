package corpus

import (
	"fmt"
	"io"
	"time"

	"github.com/dealcipher/udc/money"
	"github.com/shopspring/decimal"
	"github.com/speedata/cxpath"
)

// XMLRepository loads rule profiles from an XML rule file — the format a
// compliance team hands-edits and checks into version control — via
// XPath queries, and serves them through the same StaticRepository
// resolution chain every other Repository implementation shares.
type XMLRepository struct {
	*StaticRepository
}

// rule-file element/attribute schema:
//
//	<rule_profiles>
//	  <profile state="TX" mode="finance" tax_type="standard" version="2026.1" effective_date="2026-01-01" active="true">
//	    <rates state_rate="0.0625" default_combined_rate="0.0825" district_rate="0"/>
//	    <base_rules trade_in_reduces_basis="true" rebates_reduce_basis="false"
//	                doc_fee_taxable="true" destination_taxable="true"/>
//	    <reciprocity offers="true" credit_type="full_credit">
//	      <full_credit_state code="NV"/>
//	    </reciprocity>
//	  </profile>
//	</rule_profiles>
func LoadXMLRepository(r io.Reader, fallback func(StateCode, DealMode) RuleProfile) (*XMLRepository, error) {
	ctx, err := cxpath.NewFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("corpus: read rule file: %w", err)
	}
	root := ctx.Root()

	var profiles []RuleProfile
	for node := range root.Each("profile") {
		p, err := parseXMLProfile(node)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return &XMLRepository{StaticRepository: NewStaticRepository(profiles, nil, fallback)}, nil
}

func parseXMLProfile(node *cxpath.Context) (RuleProfile, error) {
	effectiveDate := time.Unix(0, 0).UTC()
	if s := node.Eval("@effective_date").String(); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return RuleProfile{}, fmt.Errorf("corpus: invalid effective_date %q: %w", s, err)
		}
		effectiveDate = d
	}

	p := RuleProfile{
		StateCode: StateCode(node.Eval("@state").String()),
		Mode:      DealMode(node.Eval("@mode").String()),
		TaxType:   SpecialTaxType(nodeAttrOr(node, "@tax_type", string(TaxStandard))),
		Meta: ProfileMeta{
			Version:       node.Eval("@version").String(),
			EffectiveDate: effectiveDate,
			Source:        "xml_rule_file",
			Active:        node.Eval("@active").String() != "false",
		},
	}

	rates := node.Eval("rates")
	p.Rates = TaxRates{
		StateRate:           xmlRate(rates, "@state_rate"),
		DefaultCombinedRate: xmlRate(rates, "@default_combined_rate"),
		DistrictRate:        xmlRate(rates, "@district_rate"),
	}
	if v := rates.Eval("@tavt_rate_new").String(); v != "" {
		r := mustRate(v)
		p.Rates.TAVTRate = &r
	}
	if v := rates.Eval("@tavt_rate_used").String(); v != "" {
		r := mustRate(v)
		p.Rates.TAVTRateUsed = &r
	}
	if v := rates.Eval("@hut_rate").String(); v != "" {
		r := mustRate(v)
		p.Rates.HUTRate = &r
	}
	if v := rates.Eval("@excise_rate").String(); v != "" {
		r := mustRate(v)
		p.Rates.ExciseRate = &r
	}

	base := node.Eval("base_rules")
	p.BaseRules = BaseRules{
		TradeInReducesBasis:   base.Eval("@trade_in_reduces_basis").String() == "true",
		RebatesReduceBasis:    base.Eval("@rebates_reduce_basis").String() == "true",
		DocFeeTaxable:         base.Eval("@doc_fee_taxable").String() == "true",
		DestinationTaxable:    base.Eval("@destination_taxable").String() == "true",
		DealerHandlingTaxable: base.Eval("@dealer_handling_taxable").String() == "true",
		RegistrationTaxable:   base.Eval("@registration_taxable").String() == "true",
		TitleFeeTaxable:       base.Eval("@title_fee_taxable").String() == "true",
	}
	if v := base.Eval("@max_taxable_amount").String(); v != "" {
		m := mustMoney(v)
		p.BaseRules.MaxTaxableAmount = &m
	}
	if v := base.Eval("@max_trade_in_credit").String(); v != "" {
		m := mustMoney(v)
		p.BaseRules.MaxTradeInCredit = &m
	}

	p.Ancillaries = AncillaryRules{DefaultProductTaxable: true}

	recip := node.Eval("reciprocity")
	p.Reciprocity = ReciprocityRules{
		OffersReciprocity: recip.Eval("@offers").String() == "true",
		CreditType:        ReciprocityType(nodeAttrOr(recip, "@credit_type", string(ReciprocityNone))),
		FullCreditStates:  map[StateCode]bool{},
	}
	for stateNode := range recip.Each("full_credit_state") {
		p.Reciprocity.FullCreditStates[StateCode(stateNode.Eval("@code").String())] = true
	}

	return p, nil
}

func nodeAttrOr(node *cxpath.Context, path, fallback string) string {
	if v := node.Eval(path).String(); v != "" {
		return v
	}
	return fallback
}

func xmlRate(node *cxpath.Context, path string) money.Rate {
	v := node.Eval(path).String()
	if v == "" {
		return money.ZeroRate
	}
	return mustRate(v)
}

func mustRate(s string) money.Rate {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return money.ZeroRate
	}
	return money.NewRate(d)
}

func mustMoney(s string) money.Money {
	m, err := money.MoneyFromString(s)
	if err != nil {
		return money.ZeroMoney
	}
	return m
}
