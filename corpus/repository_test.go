package corpus

import (
	"testing"
	"time"

	"github.com/dealcipher/udc/money"
)

func testProfile(state StateCode, mode DealMode) RuleProfile {
	return RuleProfile{
		StateCode: state,
		Mode:      mode,
		TaxType:   TaxStandard,
		Rates: TaxRates{
			StateRate:           money.RateFromPercent(decimalFromFloat(6.25)),
			DefaultCombinedRate: money.RateFromPercent(decimalFromFloat(8.25)),
		},
		Meta: ProfileMeta{Version: "test", EffectiveDate: time.Unix(0, 0).UTC(), Active: true},
	}
}

func TestStaticRepository_ExactMatch(t *testing.T) {
	repo := NewStaticRepository([]RuleProfile{testProfile("TX", ModeFinance)}, nil, nil)
	p, warnings, err := repo.RuleProfile("TX", ModeFinance, time.Now())
	if err != nil {
		t.Fatalf("RuleProfile: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("exact match produced warnings: %v", warnings)
	}
	if p.StateCode != "TX" || p.Mode != ModeFinance {
		t.Errorf("resolved %s/%s, want TX/finance", p.StateCode, p.Mode)
	}
}

func TestStaticRepository_StateFallbackWarns(t *testing.T) {
	repo := NewStaticRepository([]RuleProfile{testProfile("TX", ModeFinance)}, nil, nil)
	p, warnings, err := repo.RuleProfile("TX", ModeLease, time.Now())
	if err != nil {
		t.Fatalf("RuleProfile: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one fallback warning, got %d: %v", len(warnings), warnings)
	}
	if p.Mode != ModeLease {
		t.Errorf("fallback profile Mode = %s, want lease (rewritten to requested mode)", p.Mode)
	}
}

func TestStaticRepository_SyntheticDefaultWarns(t *testing.T) {
	called := false
	fallback := func(state StateCode, mode DealMode) RuleProfile {
		called = true
		return testProfile(state, mode)
	}
	repo := NewStaticRepository(nil, nil, fallback)
	p, warnings, err := repo.RuleProfile("ZZ", ModeCash, time.Now())
	if err != nil {
		t.Fatalf("RuleProfile: %v", err)
	}
	if !called {
		t.Error("fallback func was not invoked")
	}
	if len(warnings) != 1 {
		t.Fatalf("expected one synthetic-default warning, got %d", len(warnings))
	}
	if p.StateCode != "ZZ" {
		t.Errorf("synthetic profile state = %s, want ZZ", p.StateCode)
	}
}

func TestStaticRepository_NotFoundWithoutFallback(t *testing.T) {
	repo := NewStaticRepository(nil, nil, nil)
	_, _, err := repo.RuleProfile("ZZ", ModeCash, time.Now())
	if err == nil {
		t.Fatal("expected NotFoundError, got nil")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("got %T, want *NotFoundError", err)
	}
}

func TestStaticRepository_ExpiredProfileSkipped(t *testing.T) {
	expired := testProfile("TX", ModeFinance)
	past := time.Now().AddDate(-1, 0, 0)
	expired.Meta.ExpirationDate = &past

	repo := NewStaticRepository([]RuleProfile{expired}, nil, nil)
	_, _, err := repo.RuleProfile("TX", ModeFinance, time.Now())
	if err == nil {
		t.Fatal("expected NotFoundError for expired profile, got nil")
	}
}

func TestStaticRepository_ProgramProfileMissingLenderIsNotError(t *testing.T) {
	repo := NewStaticRepository(nil, nil, nil)
	p, err := repo.ProgramProfile("")
	if err != nil {
		t.Fatalf("empty lender ID: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil program profile for empty lender ID, got %+v", p)
	}
}
