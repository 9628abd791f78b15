package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoney_RoundHalfEven(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.125", "10.12"},
		{"10.135", "10.14"},
		{"10.005", "10.00"},
		{"10.015", "10.02"},
	}
	for _, c := range cases {
		m, err := MoneyFromString(c.in)
		if err != nil {
			t.Fatalf("MoneyFromString(%q): %v", c.in, err)
		}
		got := m.Round(RoundHalfEven).String()
		want := "$" + c.want
		if got != want {
			t.Errorf("Round(%s, half_even) = %s, want %s", c.in, got, want)
		}
	}
}

func TestMoney_ClampZero(t *testing.T) {
	neg := MoneyFromFloat(-42.50)
	if !neg.ClampZero().IsZero() {
		t.Errorf("ClampZero(-42.50) = %s, want $0.00", neg.ClampZero())
	}
	pos := MoneyFromFloat(42.50)
	if !pos.ClampZero().Equal(pos) {
		t.Errorf("ClampZero(42.50) = %s, want unchanged", pos.ClampZero())
	}
}

func TestMoney_SumMinMax(t *testing.T) {
	a, b, c := MoneyFromFloat(10), MoneyFromFloat(25), MoneyFromFloat(5)
	if sum := SumMoney(a, b, c); !sum.Equal(MoneyFromFloat(40)) {
		t.Errorf("SumMoney = %s, want $40.00", sum)
	}
	if min := MinMoney(a, c); !min.Equal(c) {
		t.Errorf("MinMoney(10,5) = %s, want $5.00", min)
	}
	if max := MaxMoney(a, b); !max.Equal(b) {
		t.Errorf("MaxMoney(10,25) = %s, want $25.00", max)
	}
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	orig := MoneyFromFloat(1234.5)
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Money
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.Round(RoundHalfEven).Equal(orig.Round(RoundHalfEven)) {
		t.Errorf("round-trip = %s, want %s", got, orig)
	}
}

func TestMoneyFactor_ToAPRRoundTrip(t *testing.T) {
	mf := NewMoneyFactor(decimal.NewFromFloat(0.00125))
	apr := mf.ToAPR()
	back := APRToMoneyFactor(apr)
	if !back.Round(RoundHalfEven).Decimal().Equal(mf.Round(RoundHalfEven).Decimal()) {
		t.Errorf("APRToMoneyFactor(ToAPR(mf)) = %s, want %s", back, mf)
	}
}

func TestRate_ApplyAndPercent(t *testing.T) {
	r := RateFromPercent(decimal.NewFromFloat(6.25))
	price := MoneyFromFloat(1000)
	tax := r.Apply(price).Round(RoundHalfEven)
	if !tax.Equal(MoneyFromFloat(62.50)) {
		t.Errorf("6.25%% of $1000 = %s, want $62.50", tax)
	}
	if got := r.Percent().StringFixed(2); got != "6.25" {
		t.Errorf("Percent() = %s, want 6.25", got)
	}
}
