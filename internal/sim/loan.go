package sim

import (
	"math"

	"github.com/google/uuid"
)

// LoanTermsMonths is the canonical menu of offered terms.
var LoanTermsMonths = []int{3, 6, 9, 12, 18, 24, 30, 36, 48, 60, 84, 120, 180, 240, 300, 360}

// baseMarkups prices each product over the central-bank key rate.
var baseMarkups = map[DebtType]float64{
	DebtMortgage:       2,
	DebtConsumerCredit: 5,
	DebtStudentLoan:    1,
}

// termMultipliers is the per-type proxy for how many monthly payments a
// borrowing capacity stretches over.
var termMultipliers = map[DebtType]int64{
	DebtMortgage:       120,
	DebtConsumerCredit: 24,
	DebtStudentLoan:    60,
}

// QuarterlyPayment computes the amortizing-annuity payment for a principal at
// an annual rate over the given number of quarters. Total function: a
// non-positive principal or term yields 0, a zero rate yields straight-line
// principal.
func QuarterlyPayment(principal int64, annualRatePercent float64, quarters int) int64 {
	if principal <= 0 || quarters <= 0 {
		return 0
	}
	if math.IsNaN(annualRatePercent) || annualRatePercent < 0 {
		annualRatePercent = 0
	}
	r := annualRatePercent / 100 / QuartersPerYear
	if r == 0 {
		return roundMoney(float64(principal) / float64(quarters))
	}
	growth := math.Pow(1+r, float64(quarters))
	return roundMoney(float64(principal) * r * growth / (growth - 1))
}

// Overpayment is the interest cost over the life of a loan: total paid minus
// principal, floored at zero.
func Overpayment(totalPaid, principal int64) int64 {
	if totalPaid <= principal {
		return 0
	}
	return totalPaid - principal
}

// ValidateLoanTerm converts a term in months to quarters. Only positive
// multiples of 3 are valid.
func ValidateLoanTerm(months int) (int, bool) {
	if months <= 0 || months%3 != 0 {
		return 0, false
	}
	return months / 3, true
}

// NewDebt originates a debt record with its first quarter's schedule split
// precomputed.
func NewDebt(principal int64, annualRatePercent float64, quarters int, typ DebtType, name string, turn int) Debt {
	payment := QuarterlyPayment(principal, annualRatePercent, quarters)
	r := annualRatePercent / 100 / QuartersPerYear
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	interest := roundMoney(float64(principal) * r)
	principalPart := payment - interest
	if principalPart < 0 {
		principalPart = 0
	}
	return Debt{
		ID:                 uuid.NewString(),
		Name:               name,
		Type:               typ,
		PrincipalAmount:    principal,
		RemainingAmount:    principal,
		InterestRate:       annualRatePercent,
		QuarterlyPayment:   payment,
		QuarterlyPrincipal: principalPart,
		QuarterlyInterest:  interest,
		TermQuarters:       quarters,
		RemainingQuarters:  quarters,
		StartTurn:          turn,
	}
}

// Amortized reports whether a debt is fully serviced and inert.
func (d Debt) Amortized() bool {
	return d.RemainingQuarters <= 0 || d.RemainingAmount <= 0
}

// ProcessPayment applies one quarterly payment. Interest is recomputed from
// the live balance each quarter so the schedule stays correct after partial
// early repayments. A no-op on amortized debts.
func ProcessPayment(d Debt) Debt {
	if d.Amortized() {
		d.RemainingAmount = 0
		d.RemainingQuarters = 0
		return d
	}
	r := d.InterestRate / 100 / QuartersPerYear
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	interest := roundMoney(float64(d.RemainingAmount) * r)
	principal := d.QuarterlyPayment - interest
	if principal < 0 {
		principal = 0
	}
	if d.RemainingQuarters == 1 || principal > d.RemainingAmount {
		// Final scheduled payment clears the rounding residue.
		principal = d.RemainingAmount
	}
	d.QuarterlyInterest = interest
	d.QuarterlyPrincipal = principal
	d.RemainingAmount -= principal
	d.RemainingQuarters--
	if d.RemainingAmount <= 0 {
		d.RemainingAmount = 0
		d.RemainingQuarters = 0
	}
	return d
}

// EarlyRepayment reduces the balance by a lump sum. A full payoff makes the
// debt terminal; a partial one keeps the remaining term and recomputes the
// quarterly payment from the lower balance, which is where the interest
// savings come from.
func EarlyRepayment(d Debt, amount int64) Debt {
	if amount <= 0 || d.Amortized() {
		return d
	}
	d.RemainingAmount -= amount
	if d.RemainingAmount <= 0 {
		d.RemainingAmount = 0
		d.RemainingQuarters = 0
		d.QuarterlyPayment = 0
		d.QuarterlyPrincipal = 0
		d.QuarterlyInterest = 0
		return d
	}
	d.QuarterlyPayment = QuarterlyPayment(d.RemainingAmount, d.InterestRate, d.RemainingQuarters)
	r := d.InterestRate / 100 / QuartersPerYear
	if math.IsNaN(r) || r < 0 {
		r = 0
	}
	d.QuarterlyInterest = roundMoney(float64(d.RemainingAmount) * r)
	d.QuarterlyPrincipal = d.QuarterlyPayment - d.QuarterlyInterest
	if d.QuarterlyPrincipal < 0 {
		d.QuarterlyPrincipal = 0
	}
	return d
}

// LoanRate prices a product off the key rate, the product markup, and the
// borrower's credit rating. Rounded to two decimals.
func LoanRate(keyRate float64, typ DebtType, creditRating int) float64 {
	if math.IsNaN(keyRate) || keyRate < 0 {
		keyRate = 0
	}
	markup, ok := baseMarkups[typ]
	if !ok {
		markup = baseMarkups[DebtConsumerCredit]
	}
	return round2(keyRate + markup + float64(100-creditRating)/20)
}

// monthlyDebtService sums the active debts' payments on a monthly basis.
func monthlyDebtService(debts []Debt) int64 {
	var quarterly int64
	for _, d := range debts {
		if d.Amortized() {
			continue
		}
		quarterly += d.QuarterlyPayment
	}
	return quarterly / 3
}

// CreditRating scores a borrower 0-100 from debt load, payment burden, and
// cash cushion. 70 is the unencumbered baseline.
func CreditRating(activeDebts []Debt, monthlyIncome, cash int64) int {
	rating := 70
	active := 0
	for _, d := range activeDebts {
		if !d.Amortized() {
			active++
		}
	}
	rating -= 5 * active

	service := monthlyDebtService(activeDebts)
	if service > 0 {
		if monthlyIncome <= 0 {
			rating -= 20
		} else {
			ratio := float64(service) / float64(monthlyIncome)
			if ratio > 0.5 {
				rating -= 20
			} else if ratio > 0.3 {
				rating -= 10
			}
		}
	}

	if cash > 100_000 {
		rating += 10
	} else if cash < 10_000 {
		rating -= 5
	}

	if rating < 0 {
		return 0
	}
	if rating > 100 {
		return 100
	}
	return rating
}

// MaxLoanAmount caps borrowing so total monthly service stays within half of
// income, scaled by a per-product term proxy.
func MaxLoanAmount(monthlyIncome int64, activeDebts []Debt, typ DebtType) int64 {
	affordable := monthlyIncome/2 - monthlyDebtService(activeDebts)
	if affordable <= 0 {
		return 0
	}
	mult, ok := termMultipliers[typ]
	if !ok {
		mult = termMultipliers[DebtConsumerCredit]
	}
	return affordable * mult
}

// CanTakeLoan gates origination on borrowing capacity and a minimum rating.
func CanTakeLoan(amount, monthlyIncome, cash int64, activeDebts []Debt, typ DebtType) bool {
	if amount <= 0 {
		return false
	}
	if amount > MaxLoanAmount(monthlyIncome, activeDebts, typ) {
		return false
	}
	return CreditRating(activeDebts, monthlyIncome, cash) >= MinCreditRating
}
