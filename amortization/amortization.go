// Package amortization implements the actuarial-method loan amortization
// required by federal Truth in Lending / Regulation Z disclosure: the
// standard PMT payment formula, a full per-period schedule that zeroes the
// balance exactly at the final payment, and a Newton-Raphson reverse
// solver for disclosure reconciliation.
package amortization

import (
	"time"

	"github.com/dealcipher/udc/money"
	"github.com/shopspring/decimal"
)

// PaymentResult is the output of the PMT calculation alone, without a full
// schedule.
type PaymentResult struct {
	MonthlyPayment   money.Money
	TotalOfPayments  money.Money
	FinanceCharge    money.Money
	EffectiveAPR     money.Rate
}

// Entry is a single amortization schedule row.
type Entry struct {
	PaymentNumber     int
	DueDate           time.Time
	Payment           money.Money
	Principal         money.Money
	Interest          money.Money
	RemainingBalance  money.Money
	CumulativePrincipal money.Money
	CumulativeInterest  money.Money
}

// powerDecimal computes base^exp for a non-negative integer exponent by
// binary exponentiation, retaining full decimal precision. At term <= 84
// naive iteration would be just as fast, but the binary method generalizes.
func powerDecimal(base decimal.Decimal, exp int) decimal.Decimal {
	result := decimal.NewFromInt(1)
	currentBase := base
	remaining := exp
	for remaining > 0 {
		if remaining%2 == 1 {
			result = result.Mul(currentBase)
		}
		currentBase = currentBase.Mul(currentBase)
		remaining /= 2
	}
	return result
}

// CalculatePayment computes the standard actuarial PMT payment for a loan
// of the given principal, nominal annual APR, and term in months, rounding
// the payment per mode. A zero principal or zero term yields an all-zero
// result; a zero APR yields an exact straight-line payment.
func CalculatePayment(principal money.Money, apr money.Rate, termMonths int, mode money.RoundingMode) PaymentResult {
	if !principal.IsPositive() || termMonths <= 0 {
		return PaymentResult{}
	}
	if apr.IsZero() {
		payment := principal.DivInt(termMonths).Round(mode)
		total := payment.MulInt(termMonths)
		return PaymentResult{
			MonthlyPayment:  payment,
			TotalOfPayments: total,
			FinanceCharge:   total.Sub(principal),
			EffectiveAPR:    apr,
		}
	}

	monthlyRate := apr.DivInt(12)
	onePlusRToN := powerDecimal(decimal.NewFromInt(1).Add(monthlyRate.Decimal()), termMonths)

	numerator := principal.Decimal().Mul(monthlyRate.Decimal()).Mul(onePlusRToN)
	denominator := onePlusRToN.Sub(decimal.NewFromInt(1))

	var payment money.Money
	if denominator.IsZero() {
		payment = principal.DivInt(termMonths).Round(mode)
	} else {
		payment = money.NewMoney(numerator.Div(denominator)).Round(mode)
	}
	total := payment.MulInt(termMonths)
	return PaymentResult{
		MonthlyPayment:  payment,
		TotalOfPayments: total,
		FinanceCharge:   total.Sub(principal),
		EffectiveAPR:    apr,
	}
}

// addMonths advances date by n months, clamping the day-of-month to the
// last valid day of the target month when the source day does not exist
// there (e.g. Jan 31 + 1 month -> Feb 28/29).
func addMonths(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	totalMonths := int(m) - 1 + n
	year := y + totalMonths/12
	month := totalMonths % 12
	if month < 0 {
		month += 12
		year--
	}
	firstOfMonth := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, date.Location())
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(year, time.Month(month+1), d, 0, 0, 0, 0, date.Location())
}

// GenerateSchedule produces the full per-period amortization schedule. The
// final entry's principal is always set to exactly clear the remaining
// balance, so RemainingBalance on the last entry is exactly zero; the final
// payment may differ from prior payments by a few cents to absorb
// cumulative rounding, which is expected and documented behavior.
func GenerateSchedule(principal money.Money, apr money.Rate, termMonths int, firstPaymentDate time.Time, mode money.RoundingMode) []Entry {
	if termMonths <= 0 {
		return nil
	}
	result := CalculatePayment(principal, apr, termMonths, mode)
	monthlyRate := apr.DivInt(12)

	entries := make([]Entry, 0, termMonths)
	balance := principal
	cumPrincipal := money.ZeroMoney
	cumInterest := money.ZeroMoney

	for i := 1; i <= termMonths; i++ {
		dueDate := addMonths(firstPaymentDate, i-1)
		interest := balance.MulRate(monthlyRate).Round(mode)

		var principalPortion, payment money.Money
		if i == termMonths {
			principalPortion = balance
			payment = principalPortion.Add(interest)
		} else {
			principalPortion = result.MonthlyPayment.Sub(interest).ClampZero()
			payment = result.MonthlyPayment
		}
		balance = balance.Sub(principalPortion).ClampZero()
		cumPrincipal = cumPrincipal.Add(principalPortion)
		cumInterest = cumInterest.Add(interest)

		entries = append(entries, Entry{
			PaymentNumber:       i,
			DueDate:             dueDate,
			Payment:             payment,
			Principal:           principalPortion,
			Interest:            interest,
			RemainingBalance:    balance,
			CumulativePrincipal: cumPrincipal,
			CumulativeInterest:  cumInterest,
		})
	}
	return entries
}

// APRFromPayment solves for the APR implied by a known (principal, payment,
// term) triplet via Newton-Raphson on the PMT equation, staying in
// decimal.Decimal throughout (no floating point in the core). Used for
// disclosure reconciliation, not inside the forward calculation path.
// Converges to within 1e-7 or gives up after 100 iterations, returning its
// best estimate either way. The initial guess is the simple-interest
// approximation total_interest / principal / n.
func APRFromPayment(principal, payment money.Money, termMonths int) money.Rate {
	n := decimal.NewFromInt(int64(termMonths))
	p := principal.Decimal()
	m := payment.Decimal()

	if termMonths <= 0 || !principal.IsPositive() || !payment.IsPositive() {
		return money.ZeroRate
	}
	if m.Mul(n).Cmp(p) <= 0 {
		return money.ZeroRate
	}

	tolerance := decimal.NewFromFloat(0.0000001)
	delta := decimal.NewFromFloat(0.0000001)
	const maxIterations = 100

	totalInterest := m.Mul(n).Sub(p)
	monthlyRate := totalInterest.Div(p).Div(n)

	// f(r) = P * [r(1+r)^n] / [(1+r)^n - 1] - M
	pmtResidual := func(rate decimal.Decimal) (decimal.Decimal, bool) {
		onePlusR := decimal.NewFromInt(1).Add(rate)
		onePlusRToN := powerDecimal(onePlusR, termMonths)
		denominator := onePlusRToN.Sub(decimal.NewFromInt(1))
		if denominator.IsZero() {
			return decimal.Zero, false
		}
		numerator := p.Mul(rate).Mul(onePlusRToN)
		return numerator.Div(denominator).Sub(m), true
	}

	for i := 0; i < maxIterations; i++ {
		f, ok := pmtResidual(monthlyRate)
		if !ok {
			break
		}

		// The derivative has no closed form here, so it is approximated
		// numerically from a small perturbation of the current rate.
		fPlus, ok := pmtResidual(monthlyRate.Add(delta))
		if !ok {
			break
		}
		derivative := fPlus.Sub(f).Div(delta)
		if derivative.IsZero() {
			break
		}

		adjustment := f.Div(derivative)
		monthlyRate = monthlyRate.Sub(adjustment)

		if adjustment.Abs().LessThan(tolerance) {
			break
		}
	}

	apr := monthlyRate.Mul(decimal.NewFromInt(12)).Round(6)
	return money.NewRate(apr)
}
