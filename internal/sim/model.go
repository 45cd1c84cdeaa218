package sim

import (
	"errors"
	"math"
)

const (
	// SnapshotVersion is the current persisted aggregate schema version.
	SnapshotVersion = 2

	// QuartersPerYear is the turn-to-calendar ratio: one turn is one quarter.
	QuartersPerYear = 4

	StartYear = 2024

	// StarterCash is the opening balance for a fresh playthrough.
	StarterCash = int64(10_000)

	// HighWealthCash is the threshold above which wealth lifts happiness.
	HighWealthCash = int64(100_000)

	// BankruptcyFloor ends the game when cash falls below it.
	BankruptcyFloor = int64(-100_000)

	// DefaultCorporateTaxRate backs the tax calculator when both the business
	// override and the country rate are unusable.
	DefaultCorporateTaxRate = 15.0

	// BaseDemandPerPriceUnit scales quarterly demand per unit of price.
	BaseDemandPerPriceUnit = 10.0

	// RentPerPriceUnit and UtilitiesPerPriceUnit size overhead to price tier.
	RentPerPriceUnit      = int64(150)
	UtilitiesPerPriceUnit = int64(40)

	// AccountantOverheadDiscount is the share of rent+utilities an accountant
	// on staff saves.
	AccountantOverheadDiscount = 0.15

	// MaxActiveEvents bounds concurrent global events; oldest evicted first.
	MaxActiveEvents = 3

	// GlobalEventProb is the per-turn chance a new global event is admitted.
	GlobalEventProb = 0.05

	// SickEventProb is the per-turn chance of the random sickness hit.
	SickEventProb = 0.05

	// SpiteVoteProb is how often a disgruntled partner votes no regardless
	// of content.
	SpiteVoteProb = 0.30

	// DisgruntledRelation is the relation threshold below which spite applies.
	DisgruntledRelation = 30.0

	// KeyRateStep is the central-bank ratchet applied when inflation runs hot.
	KeyRateStep          = 0.25
	HotInflationPct      = 5.0
	MacroPerturbationPct = 0.25

	MinCreditRating = 30
)

var (
	ErrTurnInProgress    = errors.New("turn advancement already in progress")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrGameEnded         = errors.New("game has ended")
	ErrBusinessNotFound  = errors.New("business not found")
	ErrProposalNotFound  = errors.New("proposal not found")
	ErrDebtNotFound      = errors.New("debt not found")
	ErrNotAVoter         = errors.New("voter is not a partner of this business")
	ErrAlreadyVoted      = errors.New("partner has already voted")
	ErrProposalSettled   = errors.New("proposal is no longer pending")
	ErrApprovalRequired  = errors.New("change requires partner approval")
	ErrLoanRejected      = errors.New("loan request rejected")
	ErrInvalidLoanTerm   = errors.New("loan term must be a positive multiple of 3 months")
)

// clampStat bounds a wellbeing or quality stat to [0,100].
func clampStat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampInt64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// roundMoney rounds to the nearest whole currency unit.
func roundMoney(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// NormalizeState fills defaults so downstream calculators can assume fully
// populated records: non-zero staffing bounds, clamped stats, initialized
// collections, and the current snapshot version.
func NormalizeState(s State) State {
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	if s.Status == "" {
		s.Status = StatusRunning
	}
	if s.Year == 0 {
		s.Year = StartYear
	}
	for i := range s.Businesses {
		b := &s.Businesses[i]
		if b.State == "" {
			b.State = BusinessActive
		}
		if b.MinEmployees <= 0 {
			b.MinEmployees = 1
		}
		if b.MaxEmployees < b.MinEmployees {
			b.MaxEmployees = b.MinEmployees
		}
		b.Reputation = clampStat(b.Reputation)
		b.CustomerSatisfaction = clampStat(b.CustomerSatisfaction)
		if b.Inventory.MaxStock < 0 {
			b.Inventory.MaxStock = 0
		}
		b.Inventory.CurrentStock = clampInt64(b.Inventory.CurrentStock, 0, b.Inventory.MaxStock)
	}
	for i := range s.Proposals {
		if s.Proposals[i].Votes == nil {
			s.Proposals[i].Votes = map[string]bool{}
		}
		if s.Proposals[i].Status == "" {
			s.Proposals[i].Status = ProposalPending
		}
	}
	life := &s.Player.Life
	life.Happiness = clampStat(life.Happiness)
	life.Health = clampStat(life.Health)
	life.Energy = clampStat(life.Energy)
	life.Sanity = clampStat(life.Sanity)
	life.Intelligence = clampStat(life.Intelligence)
	for i := range s.Countries {
		c := &s.Countries[i]
		if c.Inflation < 0 {
			c.Inflation = 0
		}
		if c.KeyRate < 0 {
			c.KeyRate = 0
		}
	}
	return s
}

// CountryByID returns the player's country context; ok is false when the id
// is unknown and callers should fall back to a zero economy.
func CountryByID(s State, id string) (CountryEconomy, bool) {
	for _, c := range s.Countries {
		if c.ID == id {
			return c, true
		}
	}
	return CountryEconomy{}, false
}

// NetWorth is cash plus owned business value minus outstanding debt.
func NetWorth(s State) int64 {
	total := s.Player.Cash
	for _, b := range s.Businesses {
		if b.State == BusinessClosed {
			continue
		}
		total += roundMoney(float64(b.CurrentValue) * PlayerShare(b) / 100)
	}
	for _, d := range s.Player.Debts {
		total -= d.RemainingAmount
	}
	return total
}
