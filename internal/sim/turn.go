package sim

import (
	"fmt"
	"log/slog"
	"sync"
)

// Orchestrator advances whole game states turn by turn. It is safe for
// concurrent use but rejects overlapping advancement of any state it runs,
// matching the one-turn-at-a-time rule of the game.
type Orchestrator struct {
	log *slog.Logger
	src Source

	mu         sync.Mutex
	processing bool
}

func NewOrchestrator(log *slog.Logger, src Source) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if src == nil {
		src = NewTimeSource()
	}
	return &Orchestrator{log: log, src: src}
}

// Advance runs one full turn: macro evolution, business quarters, debt
// service, personal life, governance, and bookkeeping. The input state is not
// mutated; the returned state and notification list are the turn's outcome.
// A second call while one is in flight fails with ErrTurnInProgress.
func (o *Orchestrator) Advance(s State) (State, []Notification, error) {
	o.mu.Lock()
	if o.processing {
		o.mu.Unlock()
		return s, nil, ErrTurnInProgress
	}
	o.processing = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.processing = false
		o.mu.Unlock()
	}()

	s = NormalizeState(s)
	if s.Status == StatusEnded {
		// Ended games are inert; advancing them is a harmless no-op.
		return s, nil, nil
	}

	s.Turn++
	s.Year = StartYear + (s.Turn / QuartersPerYear)
	yearBoundary := s.Turn%QuartersPerYear == 0

	econBefore, _ := CountryByID(s, s.Player.CountryID)

	var admitted *GlobalEvent
	s.ActiveEvents, admitted = AdmitGlobalEvent(s.ActiveEvents, s.Turn, o.src)
	s.Countries = EvolveCountries(s.Countries, s.ActiveEvents, o.src)
	econ, _ := CountryByID(s, s.Player.CountryID)

	var cashDelta int64
	for i := range s.Businesses {
		b := s.Businesses[i]
		res := ComputeQuarter(b, econ, o.src, false)
		cashDelta += roundMoney(float64(res.NetProfit) * PlayerShare(b) / 100)
		s.Businesses[i] = settleBusinessQuarter(b, res, econ, yearBoundary)
	}

	for i := range s.Player.Debts {
		d := s.Player.Debts[i]
		if d.Amortized() {
			continue
		}
		d = ProcessPayment(d)
		cashDelta -= d.QuarterlyPayment
		s.Player.Debts[i] = d
	}

	cashDelta += s.Player.MonthlyIncome * 3
	s.Player.Cash += cashDelta

	s.Player.Life = AdvanceLife(s.Player.Life, s.Player.Cash, econ, o.src)

	if reason, defeated := CheckDefeat(s.Player.Life); defeated {
		s.Status = StatusEnded
		s.DefeatReason = reason
	} else if s.Player.Cash < BankruptcyFloor {
		s.Status = StatusEnded
		s.DefeatReason = DefeatBankruptcy
	}

	s = o.runNPCVotes(s)
	s = CleanupExpiredOffers(s)

	s.History = append(s.History, HistoryEntry{
		Year:      s.Year,
		Turn:      s.Turn,
		NetWorth:  NetWorth(s),
		Happiness: s.Player.Life.Happiness,
	})

	notes := o.turnNotifications(s, admitted, econBefore, econ, yearBoundary)
	o.log.Info("turn advanced",
		"turn", s.Turn,
		"year", s.Year,
		"cash", s.Player.Cash,
		"net_worth", NetWorth(s),
		"status", s.Status)
	return s, notes, nil
}

// settleBusinessQuarter commits a quarter result onto a business: inventory,
// value drift, reputation drift, and payroll aging.
func settleBusinessQuarter(b Business, res QuarterResult, econ CountryEconomy, yearBoundary bool) Business {
	if b.State == BusinessClosed {
		return b
	}
	b.Inventory = res.Inventory

	b.CurrentValue += roundMoney(float64(res.NetProfit) * 0.1)
	if b.CurrentValue < 0 {
		b.CurrentValue = 0
	}
	if res.NetProfit > 0 {
		b.Reputation = clampStat(b.Reputation + 1)
		b.CustomerSatisfaction = clampStat(b.CustomerSatisfaction + 1)
	} else {
		b.Reputation = clampStat(b.Reputation - 1)
		b.CustomerSatisfaction = clampStat(b.CustomerSatisfaction - 1)
	}

	for i := range b.Employees {
		e := b.Employees[i]
		e.ExperienceMonths += 3
		tenureQuarters := e.ExperienceMonths / 3
		if yearBoundary && tenureQuarters >= QuartersPerYear {
			e.Salary = QuarterlyInflatedSalary(e.Salary, econ, QuartersPerYear)
		}
		if res.NetProfit > 0 {
			e.Satisfaction = clampStat(e.Satisfaction + 1)
		} else {
			e.Satisfaction = clampStat(e.Satisfaction - 2)
		}
		b.Employees[i] = e
	}
	return b
}

// runNPCVotes lets every partner who has not voted yet weigh in on pending
// proposals. Votes are cast through CastVote so settlement rules apply.
func (o *Orchestrator) runNPCVotes(s State) State {
	for _, prop := range append([]BusinessProposal(nil), s.Proposals...) {
		if prop.Status != ProposalPending {
			continue
		}
		bi := findBusinessIndex(s, prop.BusinessID)
		if bi < 0 {
			continue
		}
		for _, p := range s.Businesses[bi].Partners {
			if _, voted := prop.Votes[p.ID]; voted {
				continue
			}
			approve := NPCVote(p, s.Businesses[bi], prop, o.src)
			next, err := CastVote(s, prop.ID, p.ID, approve)
			if err != nil {
				// Settled mid-loop by a rejection.
				break
			}
			s = next
			pi := findProposalIndex(s, prop.ID)
			if pi < 0 || s.Proposals[pi].Status != ProposalPending {
				break
			}
			prop = s.Proposals[pi]
		}
	}
	return s
}

// turnNotifications picks the single most important thing to tell the player
// about this turn. Game over beats a fresh global event, which beats the
// year-end rate notice.
func (o *Orchestrator) turnNotifications(s State, admitted *GlobalEvent, before, after CountryEconomy, yearBoundary bool) []Notification {
	if s.Status == StatusEnded {
		return []Notification{{
			Kind:    NotifyGameOver,
			Message: fmt.Sprintf("Game over: %s", s.DefeatReason),
			Turn:    s.Turn,
		}}
	}
	if admitted != nil {
		return []Notification{{
			Kind:    NotifyGlobalEvent,
			Message: fmt.Sprintf("%s: %s", admitted.Title, admitted.Description),
			Turn:    s.Turn,
		}}
	}
	if yearBoundary && after.KeyRate != before.KeyRate {
		return []Notification{{
			Kind:    NotifyRateChange,
			Message: fmt.Sprintf("Key rate moved from %.2f%% to %.2f%%", before.KeyRate, after.KeyRate),
			Turn:    s.Turn,
		}}
	}
	return nil
}
