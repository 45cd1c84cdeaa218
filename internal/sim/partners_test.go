package sim

import "testing"

func partneredState() State {
	s := State{
		Status: StatusRunning,
		Player: Player{ID: "player-1", Name: "Alex", CountryID: "us", Cash: 10_000},
		Countries: []CountryEconomy{
			testEconomy(),
		},
		Businesses: []Business{testBusiness()},
	}
	s.Businesses[0].Partners = []Partner{
		{ID: "npc-1", Name: "Jordan", Share: 30, Relation: 80},
		{ID: "npc-2", Name: "Sam", Share: 30, Relation: 80},
	}
	return NormalizeState(s)
}

func TestPlayerShare(t *testing.T) {
	b := testBusiness()
	if got := PlayerShare(b); got != 100 {
		t.Fatalf("solo business share got %v want 100", got)
	}
	b.Partners = []Partner{{ID: "p1", Share: 30}, {ID: "p2", Share: 30}}
	if got := PlayerShare(b); got != 40 {
		t.Fatalf("got %v want 40", got)
	}
	b.Partners = append(b.Partners, Partner{ID: "p3", Share: 60})
	if got := PlayerShare(b); got != 0 {
		t.Fatalf("oversubscribed share should floor at 0: got %v", got)
	}
}

func TestRequiresApproval(t *testing.T) {
	solo := testBusiness()
	if RequiresApproval(solo, ChangeFreeze) {
		t.Fatalf("solo business should never need approval")
	}

	majority := testBusiness()
	majority.Partners = []Partner{{ID: "p1", Share: 40}}
	if RequiresApproval(majority, ChangePrice) {
		t.Fatalf("controlling player should change price directly")
	}
	if !RequiresApproval(majority, ChangeFreeze) {
		t.Fatalf("freeze is critical and always needs approval with partners")
	}
	if !RequiresApproval(majority, ChangeUnfreeze) {
		t.Fatalf("unfreeze is critical and always needs approval with partners")
	}

	minority := testBusiness()
	minority.Partners = []Partner{{ID: "p1", Share: 60}}
	if !RequiresApproval(minority, ChangePrice) {
		t.Fatalf("minority player needs approval for routine changes")
	}
}

func TestCastVoteUnanimousApproval(t *testing.T) {
	s := partneredState()
	s, prop, err := RequestChange(s, "biz-1", ChangePrice, ProposalPayload{Price: 6})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}
	if prop == nil {
		t.Fatalf("minority player price change should open a proposal")
	}

	s, err = CastVote(s, prop.ID, "npc-1", true)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if s.Proposals[0].Status != ProposalPending {
		t.Fatalf("proposal settled early: %s", s.Proposals[0].Status)
	}

	s, err = CastVote(s, prop.ID, "npc-2", true)
	if err != nil {
		t.Fatalf("second vote: %v", err)
	}
	if s.Proposals[0].Status != ProposalApproved {
		t.Fatalf("unanimous approval not settled: %s", s.Proposals[0].Status)
	}
	if s.Businesses[0].Price != 6 {
		t.Fatalf("approved change not applied: price=%d", s.Businesses[0].Price)
	}
}

func TestCastVoteSingleRejection(t *testing.T) {
	s := partneredState()
	s, prop, err := RequestChange(s, "biz-1", ChangePrice, ProposalPayload{Price: 6})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}

	s, err = CastVote(s, prop.ID, "npc-1", false)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if s.Proposals[0].Status != ProposalRejected {
		t.Fatalf("one rejection should kill the proposal: %s", s.Proposals[0].Status)
	}
	if s.Businesses[0].Price != 5 {
		t.Fatalf("rejected change leaked through: price=%d", s.Businesses[0].Price)
	}

	if _, err := CastVote(s, prop.ID, "npc-2", true); err != ErrProposalSettled {
		t.Fatalf("voting on settled proposal: got %v want ErrProposalSettled", err)
	}
}

func TestCastVoteGuards(t *testing.T) {
	s := partneredState()
	s, prop, err := RequestChange(s, "biz-1", ChangePrice, ProposalPayload{Price: 6})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}

	if _, err := CastVote(s, prop.ID, "stranger", true); err != ErrNotAVoter {
		t.Fatalf("got %v want ErrNotAVoter", err)
	}
	if _, err := CastVote(s, prop.ID, s.Player.ID, true); err != ErrAlreadyVoted {
		t.Fatalf("initiator auto-votes, second vote should fail: got %v", err)
	}
	if _, err := CastVote(s, "missing", "npc-1", true); err != ErrProposalNotFound {
		t.Fatalf("got %v want ErrProposalNotFound", err)
	}
}

func TestRequestChangeDirectWhenControlling(t *testing.T) {
	s := partneredState()
	s.Businesses[0].Partners = []Partner{{ID: "npc-1", Share: 20, Relation: 80}}

	s, prop, err := RequestChange(s, "biz-1", ChangePrice, ProposalPayload{Price: 7})
	if err != nil {
		t.Fatalf("request change: %v", err)
	}
	if prop != nil {
		t.Fatalf("controlling player should not need a proposal")
	}
	if s.Businesses[0].Price != 7 {
		t.Fatalf("direct change not applied: price=%d", s.Businesses[0].Price)
	}
}

func TestNPCVoteSpite(t *testing.T) {
	p := Partner{ID: "npc-1", Relation: 10}
	b := testBusiness()
	prop := BusinessProposal{ChangeType: ChangeDividend, Payload: ProposalPayload{DividendAmount: 100}}

	if NPCVote(p, b, prop, FixedSource(0.1)) {
		t.Fatalf("disgruntled partner should spite-vote on a low draw")
	}
	if !NPCVote(p, b, prop, FixedSource(0.9)) {
		t.Fatalf("dividend should be approved without spite")
	}
}

func TestNPCVotePriceHeuristic(t *testing.T) {
	p := Partner{ID: "npc-1", Relation: 80}
	b := testBusiness() // efficiency 80, price 5

	inBand := BusinessProposal{ChangeType: ChangePrice, Payload: ProposalPayload{Price: 6}}
	if !NPCVote(p, b, inBand, FixedSource(0.9)) {
		t.Fatalf("price inside the 4-8 band should pass")
	}

	wild := BusinessProposal{ChangeType: ChangePrice, Payload: ProposalPayload{Price: 50}}
	if NPCVote(p, b, wild, FixedSource(0.9)) {
		t.Fatalf("wild price on a healthy business should fail")
	}

	struggling := testBusiness()
	struggling.Employees = nil
	if !NPCVote(p, struggling, wild, FixedSource(0.9)) {
		t.Fatalf("struggling business should accept experimentation")
	}
}

func TestApplyProposalDividend(t *testing.T) {
	s := partneredState()
	s.Businesses[0].CurrentValue = 10_000
	prop := BusinessProposal{
		BusinessID: "biz-1",
		ChangeType: ChangeDividend,
		Payload:    ProposalPayload{DividendAmount: 1_000},
	}
	cashBefore := s.Player.Cash
	s = applyProposal(s, prop)

	// Player holds 40% alongside two 30% partners.
	if got := s.Player.Cash - cashBefore; got != 400 {
		t.Fatalf("dividend payout got %d want 400", got)
	}
	if s.Businesses[0].CurrentValue != 9_000 {
		t.Fatalf("dividend should come out of business value: got %d", s.Businesses[0].CurrentValue)
	}
}

func TestApplyProposalBranch(t *testing.T) {
	s := partneredState()
	prop := BusinessProposal{
		BusinessID: "biz-1",
		ChangeType: ChangeBranch,
		Payload:    ProposalPayload{BranchName: "Corner Shop East"},
	}
	s = applyProposal(s, prop)
	if len(s.Businesses) != 2 {
		t.Fatalf("branch not created: %d businesses", len(s.Businesses))
	}
	parent, branch := s.Businesses[0], s.Businesses[1]
	if !parent.IsMainBranch || parent.NetworkID == "" {
		t.Fatalf("parent not promoted to main branch: %+v", parent)
	}
	if branch.NetworkID != parent.NetworkID {
		t.Fatalf("branch not linked to network: %q vs %q", branch.NetworkID, parent.NetworkID)
	}
	if branch.Inventory.CurrentStock != 0 {
		t.Fatalf("branch should start with empty stock: %+v", branch.Inventory)
	}
	if len(branch.Partners) != len(parent.Partners) {
		t.Fatalf("ownership structure should carry over")
	}
}

func TestApplyProposalHireAndFire(t *testing.T) {
	s := partneredState()
	hire := testEmployee(RoleMarketer, 60)
	hire.ID = ""
	s = applyProposal(s, BusinessProposal{
		BusinessID: "biz-1",
		ChangeType: ChangeHireEmployee,
		Payload:    ProposalPayload{Employee: &hire},
	})
	if len(s.Businesses[0].Employees) != 3 {
		t.Fatalf("hire not applied: %d employees", len(s.Businesses[0].Employees))
	}
	hired := s.Businesses[0].Employees[2]
	if hired.ID == "" {
		t.Fatalf("hire should receive an id")
	}

	s = applyProposal(s, BusinessProposal{
		BusinessID: "biz-1",
		ChangeType: ChangeFireEmployee,
		Payload:    ProposalPayload{EmployeeID: hired.ID},
	})
	if len(s.Businesses[0].Employees) != 2 {
		t.Fatalf("fire not applied: %d employees", len(s.Businesses[0].Employees))
	}
}

func TestCleanupExpiredOffers(t *testing.T) {
	s := State{
		Turn: 5,
		Offers: []Offer{
			{ID: "stale", ExpiresTurn: 5},
			{ID: "live", ExpiresTurn: 6},
		},
	}
	s = CleanupExpiredOffers(s)
	if len(s.Offers) != 1 || s.Offers[0].ID != "live" {
		t.Fatalf("offer sweep wrong: %+v", s.Offers)
	}
}
