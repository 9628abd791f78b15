package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundingMode selects how Money and Rate quantities are rounded to their
// display precision. HalfEven (banker's rounding) is the default everywhere
// in the core; Ceiling/Floor are available per lender/program configuration.
type RoundingMode int

const (
	RoundHalfEven RoundingMode = iota
	RoundHalfUp
	RoundHalfDown
	RoundCeiling
	RoundFloor
)

func (m RoundingMode) String() string {
	switch m {
	case RoundHalfEven:
		return "half_even"
	case RoundHalfUp:
		return "half_up"
	case RoundHalfDown:
		return "half_down"
	case RoundCeiling:
		return "ceiling"
	case RoundFloor:
		return "floor"
	default:
		return "unknown"
	}
}

func roundDecimal(d decimal.Decimal, places int32, mode RoundingMode) decimal.Decimal {
	switch mode {
	case RoundCeiling:
		return d.RoundCeil(places)
	case RoundFloor:
		return d.RoundFloor(places)
	case RoundHalfUp:
		return d.Round(places)
	case RoundHalfDown:
		shifted := d.Shift(places)
		truncated := shifted.Truncate(0)
		if shifted.Sub(truncated).Abs().LessThanOrEqual(decimal.New(5, -1)) {
			return truncated.Shift(-places)
		}
		return shifted.Round(0).Shift(-places)
	default:
		return d.RoundBank(places)
	}
}

// Money is a fixed-precision signed decimal amount in US dollars. It is
// never backed by a binary float; every arithmetic operation is exact
// decimal arithmetic delegated to shopspring/decimal. Values are rounded to
// two fractional digits only at the point of display/output; intermediate
// sums retain full precision.
type Money struct {
	v decimal.Decimal
}

// ZeroMoney is the additive identity.
var ZeroMoney = Money{v: decimal.Zero}

// NewMoney builds a Money from a decimal value without rounding.
func NewMoney(d decimal.Decimal) Money { return Money{v: d} }

// MoneyFromFloat builds a Money from a float64 literal. Reserved for
// constructing test fixtures and parsing already-validated string/JSON
// input; never used inside a calculation path.
func MoneyFromFloat(f float64) Money { return Money{v: decimal.NewFromFloat(f)} }

// MoneyFromString parses a decimal string into a Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroMoney, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Money{v: d}, nil
}

// MoneyFromCents builds a Money from an integer cent count.
func MoneyFromCents(cents int64) Money {
	return Money{v: decimal.New(cents, -2)}
}

// Decimal returns the underlying decimal value at full precision.
func (m Money) Decimal() decimal.Decimal { return m.v }

// Round rounds to 2 decimal places using mode.
func (m Money) Round(mode RoundingMode) Money {
	return Money{v: roundDecimal(m.v, 2, mode)}
}

// RoundCents is shorthand for Round(RoundHalfEven).
func (m Money) RoundCents() Money { return m.Round(RoundHalfEven) }

func (m Money) Add(other Money) Money { return Money{v: m.v.Add(other.v)} }
func (m Money) Sub(other Money) Money { return Money{v: m.v.Sub(other.v)} }
func (m Money) Neg() Money            { return Money{v: m.v.Neg()} }

// MulRate scales Money by a Rate and returns the (unrounded) product. The
// caller rounds where the spec requires rounding at that step.
func (m Money) MulRate(r Rate) Money { return Money{v: m.v.Mul(r.v)} }

// MulInt scales Money by a whole-number count (e.g. a term length).
func (m Money) MulInt(n int) Money { return Money{v: m.v.Mul(decimal.NewFromInt(int64(n)))} }

// DivInt divides Money by a whole-number count, at full precision.
func (m Money) DivInt(n int) Money { return Money{v: m.v.Div(decimal.NewFromInt(int64(n)))} }

func (m Money) Cmp(other Money) int       { return m.v.Cmp(other.v) }
func (m Money) LessThan(other Money) bool { return m.v.LessThan(other.v) }
func (m Money) GreaterThan(other Money) bool {
	return m.v.GreaterThan(other.v)
}
func (m Money) Equal(other Money) bool { return m.v.Equal(other.v) }
func (m Money) IsZero() bool           { return m.v.IsZero() }
func (m Money) IsNegative() bool       { return m.v.IsNegative() }
func (m Money) IsPositive() bool       { return m.v.IsPositive() }
func (m Money) Abs() Money             { return Money{v: m.v.Abs()} }

// ClampZero returns max(m, 0).
func (m Money) ClampZero() Money {
	if m.v.IsNegative() {
		return ZeroMoney
	}
	return m
}

// MinMoney returns the smaller of two Money values.
func MinMoney(a, b Money) Money {
	if a.v.LessThan(b.v) {
		return a
	}
	return b
}

// MaxMoney returns the larger of two Money values.
func MaxMoney(a, b Money) Money {
	if a.v.GreaterThan(b.v) {
		return a
	}
	return b
}

// SumMoney adds a slice of Money values.
func SumMoney(vs ...Money) Money {
	total := ZeroMoney
	for _, v := range vs {
		total = total.Add(v)
	}
	return total
}

// String renders the amount at 2 decimal places with a dollar sign, for
// logging and disclosure text only; never used to feed back into a
// calculation.
func (m Money) String() string {
	return fmt.Sprintf("$%s", m.v.RoundBank(2).StringFixed(2))
}

// MarshalJSON renders Money as a fixed-point decimal string so round-tripping
// through JSON never introduces a binary-float intermediate.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", m.v.StringFixed(2))), nil
}

// UnmarshalJSON parses a JSON string into Money.
func (m *Money) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	} else {
		s = string(data)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: invalid JSON amount %q: %w", s, err)
	}
	m.v = d
	return nil
}

// Rate is a fixed-precision decimal fraction (0.0625 means 6.25%).
type Rate struct {
	v decimal.Decimal
}

// ZeroRate is the 0% rate; applying it to any amount yields zero.
var ZeroRate = Rate{v: decimal.Zero}

// NewRate wraps a decimal fraction as a Rate.
func NewRate(d decimal.Decimal) Rate { return Rate{v: d} }

// RateFromPercent builds a Rate from a percentage value (6.25 -> 0.0625).
func RateFromPercent(pct decimal.Decimal) Rate {
	return Rate{v: pct.Div(decimal.NewFromInt(100))}
}

// RateFromString parses a decimal-fraction string into a Rate.
func RateFromString(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroRate, fmt.Errorf("rate: invalid value %q: %w", s, err)
	}
	return Rate{v: d}, nil
}

// Decimal returns the underlying fraction.
func (r Rate) Decimal() decimal.Decimal { return r.v }

// Percent renders the rate as a percentage value (0.0625 -> 6.25).
func (r Rate) Percent() decimal.Decimal { return r.v.Mul(decimal.NewFromInt(100)) }

func (r Rate) Add(other Rate) Rate { return Rate{v: r.v.Add(other.v)} }
func (r Rate) Sub(other Rate) Rate { return Rate{v: r.v.Sub(other.v)} }

// DivInt divides a rate by a whole number (used for the monthly periodic
// rate r = APR / 12).
func (r Rate) DivInt(n int) Rate { return Rate{v: r.v.Div(decimal.NewFromInt(int64(n)))} }

// MulInt scales a rate by a whole number.
func (r Rate) MulInt(n int) Rate { return Rate{v: r.v.Mul(decimal.NewFromInt(int64(n)))} }

// Apply scales a Money amount by this rate, unrounded.
func (r Rate) Apply(m Money) Money { return Money{v: m.v.Mul(r.v)} }

func (r Rate) IsZero() bool     { return r.v.IsZero() }
func (r Rate) IsNegative() bool { return r.v.IsNegative() }

func (r Rate) Cmp(other Rate) int { return r.v.Cmp(other.v) }

func (r Rate) String() string {
	return fmt.Sprintf("%s%%", r.Percent().StringFixed(4))
}

// MarshalJSON renders Rate as a fixed-point decimal string.
func (r Rate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", r.v.StringFixed(6))), nil
}

// UnmarshalJSON parses a JSON string into Rate.
func (r *Rate) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	} else {
		s = string(data)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("rate: invalid JSON value %q: %w", s, err)
	}
	r.v = d
	return nil
}

// moneyFactorToAPRConstant is the hard-coded industry constant relating a
// lease money factor to its equivalent APR: APR = MF * 2400, expressed here
// as a decimal fraction conversion (MF * 24 when APR is itself stored as a
// fraction rather than a percentage).
var moneyFactorToAPRConstant = decimal.NewFromInt(24)

// MoneyFactor is the lease-finance analogue of an interest rate, expressed
// so that APR = MoneyFactor * 2400 (percentage form) / MoneyFactor * 24
// (fraction form).
type MoneyFactor struct {
	v decimal.Decimal
}

// NewMoneyFactor wraps a decimal value as a MoneyFactor.
func NewMoneyFactor(d decimal.Decimal) MoneyFactor { return MoneyFactor{v: d} }

// MoneyFactorFromString parses a decimal string into a MoneyFactor.
func MoneyFactorFromString(s string) (MoneyFactor, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return MoneyFactor{}, fmt.Errorf("money factor: invalid value %q: %w", s, err)
	}
	return MoneyFactor{v: d}, nil
}

// Decimal returns the underlying value.
func (mf MoneyFactor) Decimal() decimal.Decimal { return mf.v }

// ToAPR converts a money factor to its equivalent APR (fraction form), exact
// at 4 decimal places after rounding at output.
func (mf MoneyFactor) ToAPR() Rate {
	return Rate{v: mf.v.Mul(moneyFactorToAPRConstant)}
}

// APRToMoneyFactor converts an APR (fraction form) to its equivalent money
// factor, exact at 6 decimal places after rounding at output.
func APRToMoneyFactor(apr Rate) MoneyFactor {
	return MoneyFactor{v: apr.v.Div(moneyFactorToAPRConstant)}
}

// Round rounds the money factor to 6 decimal places (the conventional
// lease-industry display precision).
func (mf MoneyFactor) Round(mode RoundingMode) MoneyFactor {
	return MoneyFactor{v: roundDecimal(mf.v, 6, mode)}
}

func (mf MoneyFactor) String() string {
	return mf.v.StringFixed(6)
}

// MarshalJSON renders MoneyFactor as a fixed-point decimal string.
func (mf MoneyFactor) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", mf.v.StringFixed(6))), nil
}

// UnmarshalJSON parses a JSON string into MoneyFactor.
func (mf *MoneyFactor) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		s = string(data[1 : len(data)-1])
	} else {
		s = string(data)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money factor: invalid JSON value %q: %w", s, err)
	}
	mf.v = d
	return nil
}
