package sim

import "math"

// QuarterResult is one business's quarterly outcome. Inventory carries the
// post-restock state the caller should commit.
type QuarterResult struct {
	Income         int64     `json:"income"`
	BaseExpenses   int64     `json:"base_expenses"`
	PurchaseCost   int64     `json:"purchase_cost"`
	Expenses       int64     `json:"expenses"`
	EBITDA         int64     `json:"ebitda"`
	Tax            int64     `json:"tax"`
	NetProfit      int64     `json:"net_profit"`
	Sales          int64     `json:"sales"`
	PurchaseAmount int64     `json:"purchase_amount"`
	Efficiency     float64   `json:"efficiency"`
	Inventory      Inventory `json:"inventory"`
}

// skillLevel is the mean of an employee's ability vector.
func skillLevel(e Employee) float64 {
	s := e.Skills
	return (s.Efficiency + s.SalesAbility + s.Technical + s.Management + s.Creativity) / 5
}

// StarRating maps skill level to the 1-5 stars shown for a hire.
func StarRating(e Employee) int {
	stars := 1 + int(skillLevel(e)/20)
	if stars > 5 {
		stars = 5
	}
	return stars
}

// Efficiency derives a business's 0-100 operating efficiency from aggregate
// employee skill and staffing relative to the min/max headcount band. No
// employees means zero efficiency and therefore zero demand.
func Efficiency(b Business) float64 {
	n := len(b.Employees)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range b.Employees {
		sum += skillLevel(e)
	}
	avg := sum / float64(n)

	minN := b.MinEmployees
	if minN <= 0 {
		minN = 1
	}
	staffing := float64(n) / float64(minN)
	if staffing > 1 {
		staffing = 1
	}
	if b.MaxEmployees > 0 && n > b.MaxEmployees {
		// Overstaffing dilutes output per head.
		staffing *= float64(b.MaxEmployees) / float64(n)
	}
	return clampStat(avg * staffing)
}

func hasRole(b Business, role Role) bool {
	for _, e := range b.Employees {
		if e.Role == role {
			return true
		}
	}
	return false
}

// overheadExpenses is rent plus utilities, sized to the price tier, with the
// accountant discount applied when one is on staff.
func overheadExpenses(b Business) int64 {
	overhead := b.Price*RentPerPriceUnit + b.Price*UtilitiesPerPriceUnit
	if hasRole(b, RoleAccountant) {
		overhead = roundMoney(float64(overhead) * (1 - AccountantOverheadDiscount))
	}
	return overhead
}

func salaryExpenses(b Business) int64 {
	var total int64
	for _, e := range b.Employees {
		total += e.Salary
	}
	return total
}

// CalculateTaxes levies corporate tax on positive EBITDA only. A missing or
// NaN rate falls back to the supplied default; a NaN default falls back to
// the hard-coded 15%.
func CalculateTaxes(ebitda int64, ratePercent, defaultRatePercent float64) (tax, netProfit int64) {
	rate := ratePercent
	if math.IsNaN(rate) || rate < 0 {
		rate = defaultRatePercent
	}
	if math.IsNaN(rate) || rate < 0 {
		rate = DefaultCorporateTaxRate
	}
	if ebitda > 0 {
		tax = roundMoney(float64(ebitda) * rate / 100)
	}
	return tax, ebitda - tax
}

// taxRateFor picks the business override, then the country corporate rate.
// NaN propagates into CalculateTaxes which hardens the fallback chain.
func taxRateFor(b Business, econ CountryEconomy) float64 {
	if b.TaxRate != nil {
		return *b.TaxRate
	}
	if econ.CorporateTaxRate > 0 {
		return econ.CorporateTaxRate
	}
	return math.NaN()
}

// ComputeQuarter runs one business through a quarter: efficiency, demand,
// sales bounded by stock, restocking, and taxes. Preview mode pins the demand
// fluctuation to 1.0 so the result is deterministic; live mode draws it from
// src in [0.8, 1.2]. Pure over its inputs: the caller commits the result.
func ComputeQuarter(b Business, econ CountryEconomy, src Source, preview bool) QuarterResult {
	res := QuarterResult{Inventory: b.Inventory}
	switch b.State {
	case BusinessClosed:
		return res
	case BusinessFrozen:
		// A frozen business sells nothing and pays no salaries, but keeps
		// paying half its overhead to hold the premises.
		res.BaseExpenses = roundMoney(float64(b.Price*RentPerPriceUnit+b.Price*UtilitiesPerPriceUnit) / 2)
		res.Expenses = res.BaseExpenses
		res.EBITDA = -res.Expenses
		_, res.NetProfit = CalculateTaxes(res.EBITDA, taxRateFor(b, econ), econ.CorporateTaxRate)
		return res
	case BusinessActive:
	}

	res.Efficiency = Efficiency(b)
	res.BaseExpenses = salaryExpenses(b) + overheadExpenses(b)

	fluctuation := 1.0
	if !preview {
		fluctuation = 0.8 + 0.4*src.Float64()
	}
	demand := float64(b.Price) * BaseDemandPerPriceUnit *
		(res.Efficiency / 100) * (b.CustomerSatisfaction / 100) * fluctuation
	wanted := int64(math.Floor(demand))
	if wanted < 0 {
		wanted = 0
	}

	if b.IsService {
		// Services are not stock-bound.
		res.Sales = wanted
	} else {
		res.Sales = wanted
		if res.Sales > b.Inventory.CurrentStock {
			res.Sales = b.Inventory.CurrentStock
		}
		res.PurchaseAmount = b.Inventory.MaxStock - (b.Inventory.CurrentStock - res.Sales)
		if res.PurchaseAmount < 0 {
			res.PurchaseAmount = 0
		}
		if b.Inventory.AutoPurchaseAmount > 0 && res.PurchaseAmount > b.Inventory.AutoPurchaseAmount {
			res.PurchaseAmount = b.Inventory.AutoPurchaseAmount
		}
		res.PurchaseCost = res.PurchaseAmount * b.Inventory.PurchaseCost
		res.Inventory.CurrentStock = clampInt64(
			b.Inventory.CurrentStock-res.Sales+res.PurchaseAmount, 0, b.Inventory.MaxStock)
	}

	res.Income = res.Sales * b.Price
	res.Expenses = res.BaseExpenses + res.PurchaseCost
	res.EBITDA = res.Income - res.Expenses
	res.Tax, res.NetProfit = CalculateTaxes(res.EBITDA, taxRateFor(b, econ), econ.CorporateTaxRate)
	return res
}
