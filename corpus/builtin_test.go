package corpus

import "testing"

func TestBuiltinProfiles_CoverAllModesAndStates(t *testing.T) {
	profiles := BuiltinProfiles()
	seen := map[string]bool{}
	for _, p := range profiles {
		seen[string(p.StateCode)+"/"+string(p.Mode)] = true
	}
	for _, state := range []StateCode{"TX", "CA", "GA", "NC", "WV", "NV", "FL", "MT", "OR", "NH", "DE", "IL", "MA", "NJ", "NY", "PA"} {
		for _, mode := range []DealMode{ModeCash, ModeFinance, ModeLease} {
			key := string(state) + "/" + string(mode)
			if !seen[key] {
				t.Errorf("missing builtin profile for %s", key)
			}
		}
	}
}

func TestGeorgiaProfile_TAVTRates(t *testing.T) {
	p := georgiaProfile(ModeFinance)
	if p.TaxType != TaxTAVT {
		t.Fatalf("TaxType = %s, want tavt", p.TaxType)
	}
	if got := p.TAVTRateFor(false).Percent().StringFixed(2); got != "6.75" {
		t.Errorf("new-vehicle TAVT rate = %s%%, want 6.75%%", got)
	}
	if got := p.TAVTRateFor(true).Percent().StringFixed(2); got != "7.00" {
		t.Errorf("used-vehicle TAVT rate = %s%%, want 7.00%%", got)
	}
}

func TestTAVTRateFor_DefaultsWhenUnset(t *testing.T) {
	p := RuleProfile{}
	if got := p.TAVTRateFor(false).Percent().StringFixed(2); got != "6.75" {
		t.Errorf("default new-vehicle TAVT rate = %s%%, want 6.75%%", got)
	}
	if got := p.TAVTRateFor(true).Percent().StringFixed(2); got != "7.00" {
		t.Errorf("default used-vehicle TAVT rate = %s%%, want 7.00%%", got)
	}
}

func TestNorthCarolinaProfile_HUTCapWired(t *testing.T) {
	p := northCarolinaProfile(ModeCash)
	if p.TaxType != TaxHUT {
		t.Fatalf("TaxType = %s, want hut", p.TaxType)
	}
	if p.BaseRules.MaxTaxableAmount == nil || !p.BaseRules.MaxTaxableAmount.Equal(HUTCap) {
		t.Errorf("MaxTaxableAmount = %v, want %s", p.BaseRules.MaxTaxableAmount, HUTCap)
	}
}

func TestWestVirginiaProfile_TradeCreditCapWired(t *testing.T) {
	p := westVirginiaProfile(ModeFinance)
	if p.TaxType != TaxExcise {
		t.Fatalf("TaxType = %s, want excise", p.TaxType)
	}
	if p.BaseRules.MaxTradeInCredit == nil || !p.BaseRules.MaxTradeInCredit.Equal(WVTradeCreditCap) {
		t.Errorf("MaxTradeInCredit = %v, want %s", p.BaseRules.MaxTradeInCredit, WVTradeCreditCap)
	}
}

func TestNoTaxProfile_ZeroRate(t *testing.T) {
	for _, state := range []StateCode{"MT", "OR", "NH", "DE"} {
		p := noTaxProfile(state, ModeCash)
		if p.TaxType != TaxNone {
			t.Errorf("%s TaxType = %s, want no_tax", state, p.TaxType)
		}
		if !p.Rates.StateRate.IsZero() {
			t.Errorf("%s StateRate = %s, want 0", state, p.Rates.StateRate)
		}
	}
}

func TestDefaultProfile_ZeroRateVisible(t *testing.T) {
	p := DefaultProfile("ZZ", ModeLease)
	if !p.Rates.StateRate.IsZero() || !p.Rates.DefaultCombinedRate.IsZero() {
		t.Error("synthetic default profile must carry a visible 0% rate, never a plausible-looking one")
	}
}

func TestAncillaryRules_IsProductTaxable_FallsBackToDefault(t *testing.T) {
	rules := AncillaryRules{VSCTaxable: true, DefaultProductTaxable: false}
	if !rules.IsProductTaxable("vsc") {
		t.Error("vsc should be taxable per explicit flag")
	}
	if rules.IsProductTaxable("some_future_product") {
		t.Error("unlisted product type should fall back to DefaultProductTaxable")
	}
}
