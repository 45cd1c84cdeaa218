package sim

import "testing"

func testEconomy() CountryEconomy {
	return CountryEconomy{
		ID:               "us",
		Name:             "United States",
		Inflation:        2.5,
		GDPGrowth:        2.0,
		KeyRate:          4.0,
		InterestRate:     6.0,
		CorporateTaxRate: 21,
	}
}

func TestEvolveCountriesMidpointDraw(t *testing.T) {
	// FixedSource(0.5) pins the uniform perturbation to zero.
	out := EvolveCountries([]CountryEconomy{testEconomy()}, nil, FixedSource(0.5))
	c := out[0]
	if c.Inflation != 2.5 {
		t.Fatalf("inflation drifted without cause: got %v want 2.5", c.Inflation)
	}
	if c.GDPGrowth != 2.0 {
		t.Fatalf("gdp drifted without cause: got %v want 2.0", c.GDPGrowth)
	}
	if c.KeyRate != 4.0 {
		t.Fatalf("key rate moved below the ratchet threshold: got %v", c.KeyRate)
	}
	if len(c.InflationHistory) != 1 || c.InflationHistory[0] != 2.5 {
		t.Fatalf("history not recorded: %v", c.InflationHistory)
	}
}

func TestEvolveCountriesRateRatchet(t *testing.T) {
	c := testEconomy()
	c.Inflation = 6.0
	out := EvolveCountries([]CountryEconomy{c}, nil, FixedSource(0.5))
	if out[0].KeyRate != 4.25 {
		t.Fatalf("hot inflation should ratchet the key rate: got %v want 4.25", out[0].KeyRate)
	}
	if out[0].InterestRate != 6.25 {
		t.Fatalf("interest rate should move with the key rate: got %v want 6.25", out[0].InterestRate)
	}
}

func TestEvolveCountriesInflationFloor(t *testing.T) {
	c := testEconomy()
	c.Inflation = 0.1
	events := []GlobalEvent{{Kind: EventTradeAgreement, Impact: EventImpact{Inflation: -0.3}}}
	out := EvolveCountries([]CountryEconomy{c}, events, FixedSource(0.5))
	if out[0].Inflation != 0 {
		t.Fatalf("inflation went negative: got %v", out[0].Inflation)
	}
}

func TestEvolveCountriesAppliesEventImpacts(t *testing.T) {
	events := []GlobalEvent{{Kind: EventFinancialCrisis, Impact: EventImpact{GDP: -1.0, Inflation: 1.0, Market: -2.0}}}
	out := EvolveCountries([]CountryEconomy{testEconomy()}, events, FixedSource(0.5))
	c := out[0]
	if c.Inflation != 3.5 {
		t.Fatalf("event inflation impact not applied: got %v want 3.5", c.Inflation)
	}
	if c.GDPGrowth != 1.0 {
		t.Fatalf("event gdp impact not applied: got %v want 1.0", c.GDPGrowth)
	}
	if c.StockMarketInflation != -2.0 {
		t.Fatalf("event market impact not applied: got %v want -2.0", c.StockMarketInflation)
	}
}

func TestAdmitGlobalEvent(t *testing.T) {
	// 0.5 fails the 5% admission draw.
	events, admitted := AdmitGlobalEvent(nil, 1, FixedSource(0.5))
	if admitted != nil || len(events) != 0 {
		t.Fatalf("expected no admission at 0.5 draw")
	}

	// 0.01 passes the draw and selects the first catalog entry.
	events, admitted = AdmitGlobalEvent(nil, 1, FixedSource(0.01))
	if admitted == nil || admitted.Kind != EventFinancialCrisis {
		t.Fatalf("expected financial crisis admission, got %+v", admitted)
	}
	if admitted.ID == "" || admitted.StartTurn != 1 {
		t.Fatalf("admitted event not initialized: %+v", admitted)
	}

	// The same kind cannot be active twice.
	events2, admitted2 := AdmitGlobalEvent(events, 2, FixedSource(0.01))
	if admitted2 != nil || len(events2) != 1 {
		t.Fatalf("duplicate kind should be suppressed")
	}
}

func TestAdmitGlobalEventCap(t *testing.T) {
	full := []GlobalEvent{
		{ID: "1", Kind: EventTechBoom},
		{ID: "2", Kind: EventTradeAgreement},
		{ID: "3", Kind: EventEnergyShock},
	}
	events, admitted := AdmitGlobalEvent(full, 9, FixedSource(0.01))
	if admitted == nil {
		t.Fatalf("expected admission into a full list")
	}
	if len(events) != MaxActiveEvents {
		t.Fatalf("event list not capped: got %d want %d", len(events), MaxActiveEvents)
	}
	if events[0].Kind == EventTechBoom {
		t.Fatalf("oldest event should have been evicted")
	}
}

func TestInflatedEducationPrice(t *testing.T) {
	c := testEconomy()
	c.Inflation = 0
	if got := InflatedEducationPrice(1_000, c); got != 1_000 {
		t.Fatalf("zero inflation should be identity: got %d", got)
	}
	c.Inflation = 10
	if got := InflatedEducationPrice(1_000, c); got != 1_100 {
		t.Fatalf("got %d want 1100", got)
	}
	if got := InflatedEducationPrice(0, c); got != 0 {
		t.Fatalf("free stays free: got %d", got)
	}
}

func TestQuarterlyInflatedSalary(t *testing.T) {
	c := testEconomy()
	c.InflationHistory = []float64{2.5, 2.3}

	for tenure := 0; tenure < QuartersPerYear; tenure++ {
		if got := QuarterlyInflatedSalary(3_000, c, tenure); got != 3_000 {
			t.Fatalf("tenure %d quarters should pay base: got %d", tenure, got)
		}
	}

	// Average of the recorded history is 2.4%, so one full year indexes
	// 3000 to 3072.
	if got := QuarterlyInflatedSalary(3_000, c, QuartersPerYear); got != 3_072 {
		t.Fatalf("one-year indexation got %d want 3072", got)
	}
	if got := QuarterlyInflatedSalary(3_000, c, QuartersPerYear+2); got != 3_072 {
		t.Fatalf("partial second year should not compound again: got %d", got)
	}
}
