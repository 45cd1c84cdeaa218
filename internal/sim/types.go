package sim

// GameStatus tracks whether a playthrough is still live. Ended is terminal.
type GameStatus string

const (
	StatusRunning GameStatus = "running"
	StatusEnded   GameStatus = "ended"
)

// Role is the closed set of employee roles.
type Role string

const (
	RoleManager     Role = "manager"
	RoleSalesperson Role = "salesperson"
	RoleAccountant  Role = "accountant"
	RoleMarketer    Role = "marketer"
	RoleTechnician  Role = "technician"
	RoleWorker      Role = "worker"
	RoleLawyer      Role = "lawyer"
	RoleHR          Role = "hr"
)

// DebtType is the closed set of loan products.
type DebtType string

const (
	DebtConsumerCredit DebtType = "consumer_credit"
	DebtMortgage       DebtType = "mortgage"
	DebtStudentLoan    DebtType = "student_loan"
)

// ChangeType is the closed set of business changes a partner can request.
type ChangeType string

const (
	ChangePrice        ChangeType = "price"
	ChangeQuantity     ChangeType = "quantity"
	ChangeBranch       ChangeType = "branch"
	ChangeDividend     ChangeType = "dividend"
	ChangeHireEmployee ChangeType = "hire_employee"
	ChangeFireEmployee ChangeType = "fire_employee"
	ChangeFreeze       ChangeType = "freeze"
	ChangeUnfreeze     ChangeType = "unfreeze"
)

type ProposalStatus string

const (
	ProposalPending  ProposalStatus = "pending"
	ProposalApproved ProposalStatus = "approved"
	ProposalRejected ProposalStatus = "rejected"
)

type BusinessState string

const (
	BusinessActive BusinessState = "active"
	BusinessFrozen BusinessState = "frozen"
	BusinessClosed BusinessState = "closed"
)

// DefeatReason records why a playthrough ended.
type DefeatReason string

const (
	DefeatNone       DefeatReason = ""
	DefeatDeath      DefeatReason = "death"
	DefeatBreakdown  DefeatReason = "mental_breakdown"
	DefeatDegraded   DefeatReason = "degradation"
	DefeatDepression DefeatReason = "depression"
	DefeatBankruptcy DefeatReason = "bankruptcy"
)

// EventKind identifies a global event from the fixed catalog.
type EventKind string

const (
	EventFinancialCrisis EventKind = "financial_crisis"
	EventTechBoom        EventKind = "tech_boom"
	EventTradeAgreement  EventKind = "trade_agreement"
	EventEnergyShock     EventKind = "energy_shock"
	EventPandemic        EventKind = "pandemic"
)

// EventImpact is the per-turn shift a global event applies to every country.
// Values are percentage-point deltas.
type EventImpact struct {
	GDP       float64 `json:"gdp"`
	Inflation float64 `json:"inflation"`
	Market    float64 `json:"market"`
}

type GlobalEvent struct {
	ID          string      `json:"id"`
	Kind        EventKind   `json:"kind"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Impact      EventImpact `json:"impact"`
	StartTurn   int         `json:"start_turn"`
}

// CountryEconomy holds one country's macro indicators. Mutated once per turn
// by the economy evolution step; read-only for everything else within a turn.
type CountryEconomy struct {
	ID                   string         `json:"id"`
	Name                 string         `json:"name"`
	Archetype            string         `json:"archetype"`
	GDPGrowth            float64        `json:"gdp_growth"`
	Inflation            float64        `json:"inflation"`
	StockMarketInflation float64        `json:"stock_market_inflation"`
	KeyRate              float64        `json:"key_rate"`
	InterestRate         float64        `json:"interest_rate"`
	Unemployment         float64        `json:"unemployment"`
	TaxRate              float64        `json:"tax_rate"`
	CorporateTaxRate     float64        `json:"corporate_tax_rate"`
	SalaryModifier       float64        `json:"salary_modifier"`
	CostOfLivingModifier float64        `json:"cost_of_living_modifier"`
	BaseSalaries         map[Role]int64 `json:"base_salaries"`
	InflationHistory     []float64      `json:"inflation_history"`
}

// SkillSet is an employee's ability vector, each value in [0,100].
type SkillSet struct {
	Efficiency   float64 `json:"efficiency"`
	SalesAbility float64 `json:"sales_ability"`
	Technical    float64 `json:"technical"`
	Management   float64 `json:"management"`
	Creativity   float64 `json:"creativity"`
}

type Employee struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Role             Role     `json:"role"`
	Skills           SkillSet `json:"skills"`
	Salary           int64    `json:"salary"`
	Satisfaction     float64  `json:"satisfaction"`
	Productivity     float64  `json:"productivity"`
	ExperienceMonths int      `json:"experience_months"`
	Traits           []string `json:"traits,omitempty"`
	HiredTurn        int      `json:"hired_turn"`
}

type Inventory struct {
	CurrentStock       int64 `json:"current_stock"`
	MaxStock           int64 `json:"max_stock"`
	PricePerUnit       int64 `json:"price_per_unit"`
	PurchaseCost       int64 `json:"purchase_cost"`
	AutoPurchaseAmount int64 `json:"auto_purchase_amount"`
}

// Partner is a co-owner of a business. Share is a percentage of ownership;
// Relation is a 0-100 attitude toward the player used by the vote heuristic.
type Partner struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Share    float64 `json:"share"`
	Type     string  `json:"type"`
	Relation float64 `json:"relation"`
}

type Business struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Type                 string        `json:"type"`
	State                BusinessState `json:"state"`
	Price                int64         `json:"price"`
	Quantity             int64         `json:"quantity"`
	IsService            bool          `json:"is_service"`
	InitialCost          int64         `json:"initial_cost"`
	CurrentValue         int64         `json:"current_value"`
	Employees            []Employee    `json:"employees"`
	MinEmployees         int           `json:"min_employees"`
	MaxEmployees         int           `json:"max_employees"`
	Reputation           float64       `json:"reputation"`
	CustomerSatisfaction float64       `json:"customer_satisfaction"`
	TaxRate              *float64      `json:"tax_rate,omitempty"`
	Inventory            Inventory     `json:"inventory"`
	Partners             []Partner     `json:"partners"`
	NetworkID            string        `json:"network_id,omitempty"`
	IsMainBranch         bool          `json:"is_main_branch"`
	FoundedTurn          int           `json:"founded_turn"`
	EventLog             []string      `json:"event_log,omitempty"`
}

type Debt struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Type               DebtType `json:"type"`
	PrincipalAmount    int64    `json:"principal_amount"`
	RemainingAmount    int64    `json:"remaining_amount"`
	InterestRate       float64  `json:"interest_rate"`
	QuarterlyPayment   int64    `json:"quarterly_payment"`
	QuarterlyPrincipal int64    `json:"quarterly_principal"`
	QuarterlyInterest  int64    `json:"quarterly_interest"`
	TermQuarters       int      `json:"term_quarters"`
	RemainingQuarters  int      `json:"remaining_quarters"`
	StartTurn          int      `json:"start_turn"`
}

// ProposalPayload carries the requested change. Only the fields relevant to
// the change type are set; NormalizeState guarantees zero values elsewhere.
type ProposalPayload struct {
	Price          int64     `json:"price,omitempty"`
	Quantity       int64     `json:"quantity,omitempty"`
	BranchName     string    `json:"branch_name,omitempty"`
	DividendAmount int64     `json:"dividend_amount,omitempty"`
	Employee       *Employee `json:"employee,omitempty"`
	EmployeeID     string    `json:"employee_id,omitempty"`
}

type BusinessProposal struct {
	ID            string          `json:"id"`
	BusinessID    string          `json:"business_id"`
	InitiatorID   string          `json:"initiator_id"`
	InitiatorName string          `json:"initiator_name"`
	ChangeType    ChangeType      `json:"change_type"`
	Payload       ProposalPayload `json:"payload"`
	Status        ProposalStatus  `json:"status"`
	Votes         map[string]bool `json:"votes"`
	CreatedTurn   int             `json:"created_turn"`
}

// Offer is a partner buyout offer; swept once its expiry turn passes.
type Offer struct {
	ID          string  `json:"id"`
	FromID      string  `json:"from_id"`
	BusinessID  string  `json:"business_id"`
	Share       float64 `json:"share"`
	Price       int64   `json:"price"`
	ExpiresTurn int     `json:"expires_turn"`
}

// Buff is a time-limited modifier on personal stats.
type Buff struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Happiness float64 `json:"happiness"`
	Health    float64 `json:"health"`
	Energy    float64 `json:"energy"`
	Sanity    float64 `json:"sanity"`
	TurnsLeft int     `json:"turns_left"`
}

type PersonalLife struct {
	Happiness    float64  `json:"happiness"`
	Health       float64  `json:"health"`
	Energy       float64  `json:"energy"`
	Sanity       float64  `json:"sanity"`
	Intelligence float64  `json:"intelligence"`
	Buffs        []Buff   `json:"buffs,omitempty"`
	Family       []string `json:"family,omitempty"`
}

type Player struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	CountryID     string       `json:"country_id"`
	Cash          int64        `json:"cash"`
	MonthlyIncome int64        `json:"monthly_income"`
	Debts         []Debt       `json:"debts"`
	Life          PersonalLife `json:"life"`
}

type HistoryEntry struct {
	Year      int     `json:"year"`
	Turn      int     `json:"turn"`
	NetWorth  int64   `json:"net_worth"`
	Happiness float64 `json:"happiness"`
}

// NotificationKind selects the single notable outcome of a turn.
type NotificationKind string

const (
	NotifyGlobalEvent NotificationKind = "global_event"
	NotifyRateChange  NotificationKind = "rate_change"
	NotifyGameOver    NotificationKind = "game_over"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Turn    int              `json:"turn"`
}

// State is the whole persisted aggregate. It is threaded by value through the
// orchestrator; mutator functions return a new State rather than sharing one.
type State struct {
	Version      int                `json:"version"`
	Turn         int                `json:"turn"`
	Year         int                `json:"year"`
	Status       GameStatus         `json:"status"`
	DefeatReason DefeatReason       `json:"defeat_reason,omitempty"`
	Countries    []CountryEconomy   `json:"countries"`
	Player       Player             `json:"player"`
	Businesses   []Business         `json:"businesses"`
	Proposals    []BusinessProposal `json:"proposals"`
	Offers       []Offer            `json:"offers"`
	ActiveEvents []GlobalEvent      `json:"active_events"`
	History      []HistoryEntry     `json:"history"`
}
