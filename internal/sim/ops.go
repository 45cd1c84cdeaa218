package sim

import "github.com/google/uuid"

// NewGame builds a fresh playthrough for a player in the given country.
func NewGame(playerName, countryID string, countries []CountryEconomy) State {
	return NormalizeState(State{
		Version: SnapshotVersion,
		Year:    StartYear,
		Status:  StatusRunning,
		Player: Player{
			ID:        uuid.NewString(),
			Name:      playerName,
			CountryID: countryID,
			Cash:      StarterCash,
			Life: PersonalLife{
				Happiness:    70,
				Health:       100,
				Energy:       100,
				Sanity:       80,
				Intelligence: 50,
			},
		},
		Countries: append([]CountryEconomy(nil), countries...),
	})
}

// RequestChange routes a business change: applied immediately when the player
// can act alone, or opened as a proposal when partner approval is needed. The
// returned proposal is non-nil only in the latter case.
func RequestChange(s State, businessID string, t ChangeType, payload ProposalPayload) (State, *BusinessProposal, error) {
	if s.Status == StatusEnded {
		return s, nil, ErrGameEnded
	}
	bi := findBusinessIndex(s, businessID)
	if bi < 0 {
		return s, nil, ErrBusinessNotFound
	}
	b := s.Businesses[bi]
	if !RequiresApproval(b, t) {
		prop := NewProposal(b, s.Player.ID, s.Player.Name, t, payload, s.Turn)
		prop.Status = ProposalApproved
		return applyProposal(s, prop), nil, nil
	}
	prop := NewProposal(b, s.Player.ID, s.Player.Name, t, payload, s.Turn)
	s.Proposals = append(s.Proposals, prop)
	return s, &prop, nil
}

// Vote records the player's vote on a pending proposal.
func Vote(s State, proposalID string, approve bool) (State, error) {
	if s.Status == StatusEnded {
		return s, ErrGameEnded
	}
	return CastVote(s, proposalID, s.Player.ID, approve)
}

// OriginateDebt underwrites and books a new loan. The rate is priced off the
// player's country key rate and current credit rating; the principal lands in
// cash immediately.
func OriginateDebt(s State, typ DebtType, amount int64, termMonths int, name string) (State, Debt, error) {
	if s.Status == StatusEnded {
		return s, Debt{}, ErrGameEnded
	}
	quarters, ok := ValidateLoanTerm(termMonths)
	if !ok {
		return s, Debt{}, ErrInvalidLoanTerm
	}
	if !CanTakeLoan(amount, s.Player.MonthlyIncome, s.Player.Cash, s.Player.Debts, typ) {
		return s, Debt{}, ErrLoanRejected
	}
	econ, _ := CountryByID(s, s.Player.CountryID)
	rating := CreditRating(s.Player.Debts, s.Player.MonthlyIncome, s.Player.Cash)
	rate := LoanRate(econ.KeyRate, typ, rating)

	d := NewDebt(amount, rate, quarters, typ, name, s.Turn)
	s.Player.Debts = append(s.Player.Debts, d)
	s.Player.Cash += amount
	return s, d, nil
}

// PayDebtQuarter makes one scheduled payment ahead of the turn cycle.
func PayDebtQuarter(s State, debtID string) (State, error) {
	if s.Status == StatusEnded {
		return s, ErrGameEnded
	}
	for i, d := range s.Player.Debts {
		if d.ID != debtID {
			continue
		}
		if d.Amortized() {
			return s, nil
		}
		s.Player.Cash -= d.QuarterlyPayment
		s.Player.Debts[i] = ProcessPayment(d)
		return s, nil
	}
	return s, ErrDebtNotFound
}

// RepayEarly puts a lump sum against a debt's balance. Amounts above the
// remaining balance are capped so the player never overpays.
func RepayEarly(s State, debtID string, amount int64) (State, error) {
	if s.Status == StatusEnded {
		return s, ErrGameEnded
	}
	for i, d := range s.Player.Debts {
		if d.ID != debtID {
			continue
		}
		if amount > d.RemainingAmount {
			amount = d.RemainingAmount
		}
		if amount <= 0 || d.Amortized() {
			return s, nil
		}
		s.Player.Cash -= amount
		s.Player.Debts[i] = EarlyRepayment(d, amount)
		return s, nil
	}
	return s, ErrDebtNotFound
}

// PreviewBusinessQuarter runs the deterministic projection of a business's
// next quarter without touching state.
func PreviewBusinessQuarter(s State, businessID string) (QuarterResult, error) {
	bi := findBusinessIndex(s, businessID)
	if bi < 0 {
		return QuarterResult{}, ErrBusinessNotFound
	}
	econ, _ := CountryByID(s, s.Player.CountryID)
	return ComputeQuarter(s.Businesses[bi], econ, FixedSource(0.5), true), nil
}
