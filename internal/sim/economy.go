package sim

import (
	"github.com/google/uuid"
)

// eventCatalog is the fixed set of world shocks the admission draw picks
// from. Impacts are applied uniformly to every country each turn the event
// stays active.
var eventCatalog = []GlobalEvent{
	{
		Kind:        EventFinancialCrisis,
		Title:       "Financial Crisis",
		Description: "Credit markets seize up worldwide",
		Impact:      EventImpact{GDP: -1.0, Inflation: 1.0, Market: -2.0},
	},
	{
		Kind:        EventTechBoom,
		Title:       "Tech Boom",
		Description: "A technology cycle lifts productivity",
		Impact:      EventImpact{GDP: 1.5, Market: 1.5},
	},
	{
		Kind:        EventTradeAgreement,
		Title:       "Trade Agreement",
		Description: "Major economies cut tariffs",
		Impact:      EventImpact{GDP: 0.5, Inflation: -0.3},
	},
	{
		Kind:        EventEnergyShock,
		Title:       "Energy Shock",
		Description: "Energy prices spike on supply fears",
		Impact:      EventImpact{GDP: -0.5, Inflation: 0.8, Market: -1.0},
	},
	{
		Kind:        EventPandemic,
		Title:       "Pandemic",
		Description: "A health emergency disrupts commerce",
		Impact:      EventImpact{GDP: -1.2, Inflation: 0.4, Market: -1.5},
	},
}

// perturbation draws a uniform delta in [-MacroPerturbationPct, +MacroPerturbationPct].
func perturbation(src Source) float64 {
	return (src.Float64()*2 - 1) * MacroPerturbationPct
}

// EvolveCountries advances every country's macro indicators by one turn.
// Pure over its inputs: callers persist the returned slice.
func EvolveCountries(countries []CountryEconomy, events []GlobalEvent, src Source) []CountryEconomy {
	out := make([]CountryEconomy, len(countries))
	for i, c := range countries {
		out[i] = evolveCountry(c, events, src)
	}
	return out
}

func evolveCountry(c CountryEconomy, events []GlobalEvent, src Source) CountryEconomy {
	inflDelta := perturbation(src)
	gdpDelta := perturbation(src)
	marketDelta := 0.0
	for _, ev := range events {
		gdpDelta += ev.Impact.GDP
		inflDelta += ev.Impact.Inflation
		marketDelta += ev.Impact.Market
	}

	c.Inflation += inflDelta
	if c.Inflation < 0 {
		c.Inflation = 0
	}
	c.GDPGrowth += gdpDelta
	c.StockMarketInflation += marketDelta

	// Central-bank rule: hot inflation ratchets rates up. They never
	// auto-decrease here.
	if c.Inflation > HotInflationPct {
		c.KeyRate += KeyRateStep
		c.InterestRate += KeyRateStep
	}
	if c.KeyRate < 0 {
		c.KeyRate = 0
	}

	c.InflationHistory = append(append([]float64(nil), c.InflationHistory...), c.Inflation)
	if len(c.InflationHistory) > 2*QuartersPerYear {
		c.InflationHistory = c.InflationHistory[len(c.InflationHistory)-2*QuartersPerYear:]
	}
	return c
}

// AdmitGlobalEvent rolls the per-turn admission draw. Returns the updated
// event list and the admitted event, if any. The list is capped at
// MaxActiveEvents by evicting the oldest entry.
func AdmitGlobalEvent(events []GlobalEvent, turn int, src Source) ([]GlobalEvent, *GlobalEvent) {
	if src.Float64() >= GlobalEventProb {
		return events, nil
	}
	pick := eventCatalog[int(src.Float64()*float64(len(eventCatalog)))%len(eventCatalog)]
	for _, ev := range events {
		if ev.Kind == pick.Kind {
			return events, nil
		}
	}
	pick.ID = uuid.NewString()
	pick.StartTurn = turn
	out := append(append([]GlobalEvent(nil), events...), pick)
	if len(out) > MaxActiveEvents {
		out = out[len(out)-MaxActiveEvents:]
	}
	return out, &pick
}

// InflatedEducationPrice adjusts a catalog price for the country's current
// inflation. Zero inflation returns the base price unchanged.
func InflatedEducationPrice(base int64, econ CountryEconomy) int64 {
	if base <= 0 {
		return 0
	}
	return roundMoney(float64(base) * (1 + econ.Inflation/100))
}

// averageAnnualInflation is the mean of the last year of recorded inflation,
// falling back to the current reading when there is no history yet.
func averageAnnualInflation(econ CountryEconomy) float64 {
	h := econ.InflationHistory
	if len(h) == 0 {
		return econ.Inflation
	}
	if len(h) > QuartersPerYear {
		h = h[len(h)-QuartersPerYear:]
	}
	sum := 0.0
	for _, v := range h {
		sum += v
	}
	avg := sum / float64(len(h))
	if avg < 0 {
		return 0
	}
	return avg
}

// QuarterlyInflatedSalary indexes a salary for inflation once per completed
// year of tenure. The first indexation lands only after a full four quarters,
// so fresh hires are paid exactly their base.
func QuarterlyInflatedSalary(base int64, econ CountryEconomy, tenureQuarters int) int64 {
	if base <= 0 {
		return 0
	}
	years := tenureQuarters / QuartersPerYear
	if years <= 0 {
		return base
	}
	rate := averageAnnualInflation(econ) / 100
	v := float64(base)
	for i := 0; i < years; i++ {
		v *= 1 + rate
	}
	return roundMoney(v)
}
