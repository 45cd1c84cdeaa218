package sim

import "testing"

func TestNewGameDefaults(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	if s.Version != SnapshotVersion {
		t.Fatalf("version got %d want %d", s.Version, SnapshotVersion)
	}
	if s.Status != StatusRunning || s.Year != StartYear {
		t.Fatalf("fresh game wrong: status=%s year=%d", s.Status, s.Year)
	}
	if s.Player.Cash != StarterCash {
		t.Fatalf("starting cash got %d want %d", s.Player.Cash, StarterCash)
	}
	if s.Player.ID == "" {
		t.Fatalf("player id missing")
	}
	if reason, defeated := CheckDefeat(s.Player.Life); defeated {
		t.Fatalf("fresh player already defeated: %s", reason)
	}
}

func TestOriginateDebt(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	s.Player.MonthlyIncome = 6_000

	s, d, err := OriginateDebt(s, DebtConsumerCredit, 20_000, 12, "car loan")
	if err != nil {
		t.Fatalf("originate: %v", err)
	}
	if s.Player.Cash != StarterCash+20_000 {
		t.Fatalf("principal not disbursed: cash=%d", s.Player.Cash)
	}
	if len(s.Player.Debts) != 1 || s.Player.Debts[0].ID != d.ID {
		t.Fatalf("debt not booked: %+v", s.Player.Debts)
	}
	if d.TermQuarters != 4 {
		t.Fatalf("term got %d quarters want 4", d.TermQuarters)
	}
	// Key rate 4 plus consumer markup plus rating spread.
	if d.InterestRate <= 4 {
		t.Fatalf("rate should price above the key rate: %v", d.InterestRate)
	}
}

func TestOriginateDebtRejections(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	s.Player.MonthlyIncome = 6_000

	if _, _, err := OriginateDebt(s, DebtConsumerCredit, 20_000, 10, "bad term"); err != ErrInvalidLoanTerm {
		t.Fatalf("got %v want ErrInvalidLoanTerm", err)
	}
	if _, _, err := OriginateDebt(s, DebtConsumerCredit, 10_000_000, 12, "too big"); err != ErrLoanRejected {
		t.Fatalf("got %v want ErrLoanRejected", err)
	}

	s.Status = StatusEnded
	if _, _, err := OriginateDebt(s, DebtConsumerCredit, 1_000, 12, "late"); err != ErrGameEnded {
		t.Fatalf("got %v want ErrGameEnded", err)
	}
}

func TestPayDebtQuarter(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	s.Player.Debts = []Debt{NewDebt(12_000, 0, 4, DebtConsumerCredit, "loan", 0)}

	s, err := PayDebtQuarter(s, s.Player.Debts[0].ID)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if s.Player.Cash != StarterCash-3_000 {
		t.Fatalf("cash got %d want %d", s.Player.Cash, StarterCash-3_000)
	}
	if s.Player.Debts[0].RemainingQuarters != 3 {
		t.Fatalf("quarters got %d want 3", s.Player.Debts[0].RemainingQuarters)
	}

	if _, err := PayDebtQuarter(s, "missing"); err != ErrDebtNotFound {
		t.Fatalf("got %v want ErrDebtNotFound", err)
	}
}

func TestRepayEarlyCapsAtBalance(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	s.Player.Cash = 100_000
	s.Player.Debts = []Debt{NewDebt(12_000, 0, 4, DebtConsumerCredit, "loan", 0)}

	s, err := RepayEarly(s, s.Player.Debts[0].ID, 50_000)
	if err != nil {
		t.Fatalf("repay: %v", err)
	}
	if s.Player.Cash != 100_000-12_000 {
		t.Fatalf("overpaid: cash=%d", s.Player.Cash)
	}
	if !s.Player.Debts[0].Amortized() {
		t.Fatalf("capped full repayment should amortize the debt")
	}
}

func TestPreviewBusinessQuarter(t *testing.T) {
	s := NewGame("Alex", "us", []CountryEconomy{testEconomy()})
	s.Businesses = []Business{testBusiness()}

	a, err := PreviewBusinessQuarter(s, "biz-1")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	b, _ := PreviewBusinessQuarter(s, "biz-1")
	if a != b {
		t.Fatalf("preview not deterministic")
	}
	if _, err := PreviewBusinessQuarter(s, "missing"); err != ErrBusinessNotFound {
		t.Fatalf("got %v want ErrBusinessNotFound", err)
	}
}

func TestNormalizeState(t *testing.T) {
	s := NormalizeState(State{
		Businesses: []Business{{ID: "b", Inventory: Inventory{CurrentStock: 50, MaxStock: 10}}},
		Proposals:  []BusinessProposal{{ID: "p"}},
		Countries:  []CountryEconomy{{ID: "c", Inflation: -1, KeyRate: -2}},
	})
	if s.Version != SnapshotVersion || s.Status != StatusRunning || s.Year != StartYear {
		t.Fatalf("defaults not filled: %+v", s)
	}
	b := s.Businesses[0]
	if b.State != BusinessActive || b.MinEmployees != 1 || b.MaxEmployees != 1 {
		t.Fatalf("business defaults wrong: %+v", b)
	}
	if b.Inventory.CurrentStock != 10 {
		t.Fatalf("stock not clamped to capacity: %d", b.Inventory.CurrentStock)
	}
	if s.Proposals[0].Votes == nil || s.Proposals[0].Status != ProposalPending {
		t.Fatalf("proposal defaults wrong: %+v", s.Proposals[0])
	}
	if s.Countries[0].Inflation != 0 || s.Countries[0].KeyRate != 0 {
		t.Fatalf("macro floors not applied: %+v", s.Countries[0])
	}
}

func TestNetWorth(t *testing.T) {
	s := State{
		Player: Player{
			Cash:  10_000,
			Debts: []Debt{{RemainingAmount: 4_000}},
		},
		Businesses: []Business{
			{ID: "a", State: BusinessActive, CurrentValue: 20_000, Partners: []Partner{{Share: 50}}},
			{ID: "b", State: BusinessClosed, CurrentValue: 99_000},
		},
	}
	// 10000 + 50% of 20000 - 4000.
	if got := NetWorth(s); got != 16_000 {
		t.Fatalf("net worth got %d want 16000", got)
	}
}
