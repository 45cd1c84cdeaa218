package sim

import (
	"math"

	"github.com/google/uuid"
)

// PlayerShare is the player's ownership percentage, implied by whatever the
// partners do not hold.
func PlayerShare(b Business) float64 {
	share := 100.0
	for _, p := range b.Partners {
		share -= p.Share
	}
	if share < 0 {
		return 0
	}
	return share
}

// IsCriticalChange reports whether a change type always needs partner
// approval regardless of ownership split.
func IsCriticalChange(t ChangeType) bool {
	return t == ChangeFreeze || t == ChangeUnfreeze
}

// CanMakeDirectChanges reports whether the player holds a controlling stake.
func CanMakeDirectChanges(b Business) bool {
	return PlayerShare(b) > 50
}

// RequiresApproval reports whether a change must go through a proposal. Solo
// businesses never need approval; with partners, critical changes always do
// and routine ones only when the player lacks control.
func RequiresApproval(b Business, t ChangeType) bool {
	if len(b.Partners) == 0 {
		return false
	}
	return IsCriticalChange(t) || !CanMakeDirectChanges(b)
}

// NewProposal opens a pending proposal with the initiator's approval already
// recorded.
func NewProposal(b Business, initiatorID, initiatorName string, t ChangeType, payload ProposalPayload, turn int) BusinessProposal {
	return BusinessProposal{
		ID:            uuid.NewString(),
		BusinessID:    b.ID,
		InitiatorID:   initiatorID,
		InitiatorName: initiatorName,
		ChangeType:    t,
		Payload:       payload,
		Status:        ProposalPending,
		Votes:         map[string]bool{initiatorID: true},
		CreatedTurn:   turn,
	}
}

func findBusinessIndex(s State, id string) int {
	for i := range s.Businesses {
		if s.Businesses[i].ID == id {
			return i
		}
	}
	return -1
}

func findProposalIndex(s State, id string) int {
	for i := range s.Proposals {
		if s.Proposals[i].ID == id {
			return i
		}
	}
	return -1
}

// voterIDs is everyone with a say on a business: the player plus every
// partner.
func voterIDs(s State, b Business) []string {
	ids := []string{s.Player.ID}
	for _, p := range b.Partners {
		ids = append(ids, p.ID)
	}
	return ids
}

func isVoter(s State, b Business, id string) bool {
	for _, v := range voterIDs(s, b) {
		if v == id {
			return true
		}
	}
	return false
}

// NPCVote decides how a partner votes on a proposal. A disgruntled partner
// sometimes votes no out of spite before even reading it; otherwise the vote
// follows a simple business-sense heuristic per change type.
func NPCVote(p Partner, b Business, prop BusinessProposal, src Source) bool {
	if p.Relation < DisgruntledRelation && src.Float64() < SpiteVoteProb {
		return false
	}
	switch prop.ChangeType {
	case ChangePrice:
		newPrice := prop.Payload.Price
		if newPrice >= 4 && newPrice <= 8 {
			return true
		}
		eff := Efficiency(b)
		if eff < 40 {
			// A struggling shop should try something.
			return true
		}
		if eff > 80 && newPrice > b.Price {
			return true
		}
		return false
	case ChangeQuantity:
		newQty := prop.Payload.Quantity
		if b.Inventory.MaxStock > 0 {
			util := float64(b.Inventory.CurrentStock) / float64(b.Inventory.MaxStock)
			if util > 0.8 && newQty < b.Quantity {
				return true
			}
			if util < 0.2 && newQty > b.Quantity {
				return true
			}
		}
		if b.Quantity > 0 {
			delta := math.Abs(float64(newQty-b.Quantity)) / float64(b.Quantity)
			if delta > 0.5 {
				return false
			}
		}
		return true
	case ChangeBranch, ChangeDividend:
		return true
	default:
		return false
	}
}

// CastVote records one vote and settles the proposal when it can. A single
// rejection kills it; unanimous approval from every voter applies the change
// immediately.
func CastVote(s State, proposalID, voterID string, approve bool) (State, error) {
	pi := findProposalIndex(s, proposalID)
	if pi < 0 {
		return s, ErrProposalNotFound
	}
	prop := s.Proposals[pi]
	if prop.Status != ProposalPending {
		return s, ErrProposalSettled
	}
	bi := findBusinessIndex(s, prop.BusinessID)
	if bi < 0 {
		return s, ErrBusinessNotFound
	}
	if !isVoter(s, s.Businesses[bi], voterID) {
		return s, ErrNotAVoter
	}
	if _, ok := prop.Votes[voterID]; ok {
		return s, ErrAlreadyVoted
	}

	votes := make(map[string]bool, len(prop.Votes)+1)
	for k, v := range prop.Votes {
		votes[k] = v
	}
	votes[voterID] = approve
	prop.Votes = votes

	if !approve {
		prop.Status = ProposalRejected
		s.Proposals[pi] = prop
		return s, nil
	}
	for _, id := range voterIDs(s, s.Businesses[bi]) {
		if ok, voted := prop.Votes[id]; !voted || !ok {
			// Still waiting on someone.
			s.Proposals[pi] = prop
			return s, nil
		}
	}
	prop.Status = ProposalApproved
	s.Proposals[pi] = prop
	return applyProposal(s, prop), nil
}

// applyProposal commits an approved change to the business. Callers settle
// proposal status first.
func applyProposal(s State, prop BusinessProposal) State {
	bi := findBusinessIndex(s, prop.BusinessID)
	if bi < 0 {
		return s
	}
	b := s.Businesses[bi]
	switch prop.ChangeType {
	case ChangePrice:
		if prop.Payload.Price > 0 {
			b.Price = prop.Payload.Price
		}
	case ChangeQuantity:
		if prop.Payload.Quantity >= 0 {
			b.Quantity = prop.Payload.Quantity
		}
	case ChangeBranch:
		s = openBranch(s, bi, prop.Payload.BranchName)
		b = s.Businesses[bi]
	case ChangeDividend:
		amount := prop.Payload.DividendAmount
		if amount > 0 {
			s.Player.Cash += roundMoney(float64(amount) * PlayerShare(b) / 100)
			b.CurrentValue -= amount
			if b.CurrentValue < 0 {
				b.CurrentValue = 0
			}
		}
	case ChangeHireEmployee:
		if e := prop.Payload.Employee; e != nil {
			hire := *e
			if hire.ID == "" {
				hire.ID = uuid.NewString()
			}
			hire.HiredTurn = s.Turn
			b.Employees = append(append([]Employee(nil), b.Employees...), hire)
		}
	case ChangeFireEmployee:
		kept := b.Employees[:0:0]
		for _, e := range b.Employees {
			if e.ID != prop.Payload.EmployeeID {
				kept = append(kept, e)
			}
		}
		b.Employees = kept
	case ChangeFreeze:
		if b.State == BusinessActive {
			b.State = BusinessFrozen
		}
	case ChangeUnfreeze:
		if b.State == BusinessFrozen {
			b.State = BusinessActive
		}
	}
	s.Businesses[bi] = b
	return s
}

// openBranch spins up a new location in the parent's network, inheriting its
// pricing and staffing band but starting with an empty floor.
func openBranch(s State, parentIdx int, name string) State {
	parent := s.Businesses[parentIdx]
	networkID := parent.NetworkID
	if networkID == "" {
		networkID = parent.ID
		parent.NetworkID = networkID
		parent.IsMainBranch = true
		s.Businesses[parentIdx] = parent
	}
	if name == "" {
		name = parent.Name + " Branch"
	}
	branch := Business{
		ID:                   uuid.NewString(),
		Name:                 name,
		Type:                 parent.Type,
		State:                BusinessActive,
		Price:                parent.Price,
		Quantity:             parent.Quantity,
		IsService:            parent.IsService,
		CurrentValue:         roundMoney(float64(parent.CurrentValue) * 0.25),
		MinEmployees:         parent.MinEmployees,
		MaxEmployees:         parent.MaxEmployees,
		Reputation:           parent.Reputation,
		CustomerSatisfaction: 50,
		Inventory: Inventory{
			MaxStock:           parent.Inventory.MaxStock,
			PricePerUnit:       parent.Inventory.PricePerUnit,
			PurchaseCost:       parent.Inventory.PurchaseCost,
			AutoPurchaseAmount: parent.Inventory.AutoPurchaseAmount,
		},
		Partners:    append([]Partner(nil), parent.Partners...),
		NetworkID:   networkID,
		FoundedTurn: s.Turn,
	}
	s.Businesses = append(s.Businesses, branch)
	return s
}

// CleanupExpiredOffers drops buyout offers whose expiry turn has passed.
func CleanupExpiredOffers(s State) State {
	if len(s.Offers) == 0 {
		return s
	}
	kept := s.Offers[:0:0]
	for _, o := range s.Offers {
		if o.ExpiresTurn > s.Turn {
			kept = append(kept, o)
		}
	}
	s.Offers = kept
	return s
}
