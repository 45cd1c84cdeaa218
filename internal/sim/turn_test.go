package sim

import (
	"testing"
)

func turnTestState() State {
	s := State{
		Status:    StatusRunning,
		Player:    Player{ID: "player-1", Name: "Alex", CountryID: "us", Cash: 10_000, MonthlyIncome: 2_000},
		Countries: []CountryEconomy{testEconomy()},
	}
	s.Player.Life = testLife()
	return NormalizeState(s)
}

// FixedSource(0.5) makes a turn fully deterministic: no events, no sickness,
// zero macro drift, and a neutral demand fluctuation.

func TestAdvanceBasics(t *testing.T) {
	o := NewOrchestrator(nil, FixedSource(0.5))
	s, notes, err := o.Advance(turnTestState())
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Turn != 1 {
		t.Fatalf("turn got %d want 1", s.Turn)
	}
	if s.Year != StartYear {
		t.Fatalf("year got %d want %d", s.Year, StartYear)
	}
	if s.Player.Cash != 10_000+3*2_000 {
		t.Fatalf("salary not credited: cash=%d", s.Player.Cash)
	}
	if len(s.History) != 1 {
		t.Fatalf("history not recorded: %d entries", len(s.History))
	}
	if s.History[0].NetWorth != NetWorth(s) {
		t.Fatalf("history net worth mismatch")
	}
	if len(notes) != 0 {
		t.Fatalf("quiet turn produced notifications: %+v", notes)
	}
}

func TestAdvanceYearRollsOver(t *testing.T) {
	o := NewOrchestrator(nil, FixedSource(0.5))
	s := turnTestState()
	var err error
	for i := 0; i < QuartersPerYear; i++ {
		s, _, err = o.Advance(s)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}
	if s.Year != StartYear+1 {
		t.Fatalf("year got %d want %d", s.Year, StartYear+1)
	}
}

func TestAdvanceServicesDebt(t *testing.T) {
	s := turnTestState()
	s.Player.Debts = []Debt{NewDebt(12_000, 0, 4, DebtConsumerCredit, "loan", 0)}

	o := NewOrchestrator(nil, FixedSource(0.5))
	s, _, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	// Salary in, one 3000 zero-rate payment out.
	if s.Player.Cash != 10_000+6_000-3_000 {
		t.Fatalf("cash got %d want 13000", s.Player.Cash)
	}
	if s.Player.Debts[0].RemainingAmount != 9_000 {
		t.Fatalf("debt balance got %d want 9000", s.Player.Debts[0].RemainingAmount)
	}
	if s.Player.Debts[0].RemainingQuarters != 3 {
		t.Fatalf("remaining quarters got %d want 3", s.Player.Debts[0].RemainingQuarters)
	}
}

func TestAdvanceRunsBusinesses(t *testing.T) {
	s := turnTestState()
	s.Businesses = []Business{testBusiness()}
	s.Businesses[0].CurrentValue = 50_000
	s = NormalizeState(s)

	o := NewOrchestrator(nil, FixedSource(0.5))
	next, _, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	b := next.Businesses[0]
	if b.Inventory.CurrentStock == s.Businesses[0].Inventory.CurrentStock && b.Inventory.MaxStock > 0 {
		// Full restock back to max is fine; the quarter must have moved stock
		// through sales and purchases either way.
		if b.Inventory.CurrentStock != b.Inventory.MaxStock {
			t.Fatalf("inventory untouched by the quarter")
		}
	}
	if b.Employees[0].ExperienceMonths != 3 {
		t.Fatalf("tenure not aged: %d months", b.Employees[0].ExperienceMonths)
	}
	if next.Player.Cash == s.Player.Cash+6_000 {
		t.Fatalf("business result did not touch cash")
	}
}

func TestAdvanceBankruptcy(t *testing.T) {
	s := turnTestState()
	s.Player.Cash = BankruptcyFloor - 10_000
	s.Player.MonthlyIncome = 0

	o := NewOrchestrator(nil, FixedSource(0.5))
	s, notes, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Status != StatusEnded || s.DefeatReason != DefeatBankruptcy {
		t.Fatalf("expected bankruptcy: status=%s reason=%s", s.Status, s.DefeatReason)
	}
	if len(notes) != 1 || notes[0].Kind != NotifyGameOver {
		t.Fatalf("expected a game-over notification: %+v", notes)
	}
}

func TestAdvanceStatDefeat(t *testing.T) {
	s := turnTestState()
	s.Player.Life.Health = 1
	s.Player.Cash = -50_000 // indebted wear takes health below zero
	s.Player.MonthlyIncome = 0

	o := NewOrchestrator(nil, FixedSource(0.5))
	s, notes, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Status != StatusEnded || s.DefeatReason != DefeatDeath {
		t.Fatalf("expected death: status=%s reason=%s", s.Status, s.DefeatReason)
	}
	if len(notes) != 1 || notes[0].Kind != NotifyGameOver {
		t.Fatalf("expected a game-over notification: %+v", notes)
	}
}

func TestAdvanceEndedGameIsInert(t *testing.T) {
	s := turnTestState()
	s.Status = StatusEnded
	s.DefeatReason = DefeatBankruptcy
	s.Turn = 7

	o := NewOrchestrator(nil, FixedSource(0.5))
	next, notes, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if next.Turn != 7 || len(notes) != 0 {
		t.Fatalf("ended game advanced: turn=%d notes=%+v", next.Turn, notes)
	}
}

func TestAdvanceRunsNPCVotes(t *testing.T) {
	s := partneredState()
	s.Player.MonthlyIncome = 2_000
	s.Player.Life = testLife()
	var prop *BusinessProposal
	var err error
	s, prop, err = RequestChange(s, "biz-1", ChangePrice, ProposalPayload{Price: 6})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}

	o := NewOrchestrator(nil, FixedSource(0.5))
	s, _, err = o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	pi := findProposalIndex(s, prop.ID)
	if pi < 0 {
		t.Fatalf("proposal vanished")
	}
	// Friendly partners approve an in-band price, settling the proposal
	// during the turn.
	if s.Proposals[pi].Status != ProposalApproved {
		t.Fatalf("proposal not settled by npc votes: %s", s.Proposals[pi].Status)
	}
	if s.Businesses[0].Price != 6 {
		t.Fatalf("approved change not applied: price=%d", s.Businesses[0].Price)
	}
}

func TestAdvanceSweepsOffers(t *testing.T) {
	s := turnTestState()
	s.Offers = []Offer{{ID: "stale", ExpiresTurn: 1}}

	o := NewOrchestrator(nil, FixedSource(0.5))
	s, _, err := o.Advance(s)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(s.Offers) != 0 {
		t.Fatalf("expired offer survived the sweep: %+v", s.Offers)
	}
}
