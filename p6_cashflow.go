package udc

import (
	"time"

	"github.com/dealcipher/udc/amortization"
	"github.com/dealcipher/udc/money"
)

// FinanceCashflow is the full amortization schedule for a finance deal.
type FinanceCashflow struct {
	FirstPaymentDate time.Time
	PaymentDay       int
	Schedule         []amortization.Entry
	TotalInterest    money.Money
}

// LeasePaymentEntry is one scheduled lease payment.
type LeasePaymentEntry struct {
	PaymentNumber int
	DueDate       time.Time
	BasePayment   money.Money
	Tax           money.Money
	TotalPayment  money.Money
}

// LeaseCashflow is the full payment schedule for a lease deal.
type LeaseCashflow struct {
	FirstPaymentDate time.Time
	PaymentDay       int
	Schedule         []LeasePaymentEntry
	TotalPayments    money.Money
}

// CashflowDeal is P6's output: the structured deal plus its generated
// schedule. Cash deals carry neither Finance nor Lease — a single payment,
// no schedule to generate.
type CashflowDeal struct {
	Deal    StructuredDeal
	Finance *FinanceCashflow
	Lease   *LeaseCashflow
}

func generateCashflow(deal StructuredDeal) (CashflowDeal, error) {
	switch {
	case deal.Structure.Finance != nil:
		cf, err := generateFinanceCashflow(deal)
		if err != nil {
			return CashflowDeal{}, err
		}
		return CashflowDeal{Deal: deal, Finance: &cf}, nil
	case deal.Structure.Lease != nil:
		cf, err := generateLeaseCashflow(deal)
		if err != nil {
			return CashflowDeal{}, err
		}
		return CashflowDeal{Deal: deal, Lease: &cf}, nil
	default:
		return CashflowDeal{Deal: deal}, nil
	}
}

func dealDateOrNow(input DealInput) time.Time {
	if input.DealDate != nil {
		return *input.DealDate
	}
	return time.Now()
}

func generateFinanceCashflow(deal StructuredDeal) (FinanceCashflow, error) {
	input := deal.Deal.Deal.Deal.Deal.Input.Input
	structure := deal.Structure.Finance

	dealDate := dealDateOrNow(input)
	firstPaymentDate := dealDate.AddDate(0, 0, 30)
	if input.FirstPaymentDate != nil {
		firstPaymentDate = *input.FirstPaymentDate
	}

	mode := resolveRoundingMode(deal.Deal.Deal.Profiles.Program)
	schedule := amortization.GenerateSchedule(structure.AmountFinanced, structure.APR, structure.TermMonths, firstPaymentDate, mode)
	if len(schedule) == 0 {
		return FinanceCashflow{}, newCalculationError(PhaseCashflow, "empty amortization schedule for term %d", structure.TermMonths)
	}

	totalInterest := schedule[len(schedule)-1].CumulativeInterest

	return FinanceCashflow{
		FirstPaymentDate: firstPaymentDate,
		PaymentDay:       firstPaymentDate.Day(),
		Schedule:         schedule,
		TotalInterest:    totalInterest,
	}, nil
}

func generateLeaseCashflow(deal StructuredDeal) (LeaseCashflow, error) {
	input := deal.Deal.Deal.Deal.Deal.Input.Input
	structure := deal.Structure.Lease

	dealDate := dealDateOrNow(input)
	firstPaymentDate := dealDate
	if input.FirstPaymentDate != nil {
		firstPaymentDate = *input.FirstPaymentDate
	}

	schedule := make([]LeasePaymentEntry, 0, structure.TermMonths)
	total := money.ZeroMoney
	for i := 0; i < structure.TermMonths; i++ {
		dueDate := firstPaymentDate
		if i > 0 {
			dueDate = addMonthsClamped(firstPaymentDate, i)
		}
		entry := LeasePaymentEntry{
			PaymentNumber: i + 1,
			DueDate:       dueDate,
			BasePayment:   structure.BaseMonthlyPayment,
			Tax:           structure.MonthlyTax,
			TotalPayment:  structure.TotalMonthlyPayment,
		}
		total = total.Add(entry.TotalPayment)
		schedule = append(schedule, entry)
	}

	return LeaseCashflow{
		FirstPaymentDate: firstPaymentDate,
		PaymentDay:       firstPaymentDate.Day(),
		Schedule:         schedule,
		TotalPayments:    total,
	}, nil
}

// addMonthsClamped advances date by n months, clamping the day-of-month to
// the target month's last valid day.
func addMonthsClamped(date time.Time, n int) time.Time {
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
	return time.Date(year, time.Month(month+1), d, date.Hour(), date.Minute(), date.Second(), 0, date.Location())
}
