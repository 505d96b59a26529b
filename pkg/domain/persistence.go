package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope. Either every operation applied through
// a transaction commits, or none does.
type Transaction interface {
	Snapshot() TransactionView

	CreateGuild(Guild) (Guild, error)
	UpdateGuild(id string, mutator func(*Guild) error) (Guild, error)
	DeleteGuild(id string) error

	CreateMember(Member) (Member, error)
	UpdateMember(id string, mutator func(*Member) error) (Member, error)
	DeleteMember(id string) error

	CreateCycle(Cycle) (Cycle, error)
	UpdateCycle(id string, mutator func(*Cycle) error) (Cycle, error)
	DeleteCycle(id string) error

	CreatePitch(Pitch) (Pitch, error)
	UpdatePitch(id string, mutator func(*Pitch) error) (Pitch, error)
	DeletePitch(id string) error
	// TransferPitch is the only sanctioned way to change a pitch's cycle.
	TransferPitch(id, cycleID string) (Pitch, error)

	CreateScope(Scope) (Scope, error)
	UpdateScope(id string, mutator func(*Scope) error) (Scope, error)
	DeleteScope(id string) error

	// InsertScopePosition appends the scope at the tail of its pitch's list.
	InsertScopePosition(pitchID, scopeID string) (ScopePosition, error)
	// MoveScopePosition relocates one scope and renumbers every affected rank.
	MoveScopePosition(pitchID, scopeID string, rank int) ([]ScopePosition, error)
	RemoveScopePosition(pitchID, scopeID string) error

	CreateBreadboard(Breadboard) (Breadboard, error)
	UpdateBreadboard(id string, mutator func(*Breadboard) error) (Breadboard, error)
	DeleteBreadboard(id string) error

	CreateEvent(Event) (Event, error)
	UpdateEvent(id string, mutator func(*Event) error) (Event, error)
	DeleteEvent(id string) error

	CreateWallet(Wallet) (Wallet, error)
	// PostSemosTransaction appends an immutable ledger entry and updates the
	// wallet's derived balance in the same atomic scope.
	PostSemosTransaction(SemosTransaction) (SemosTransaction, error)
	// MintEmission credits every target wallet and records the emission.
	MintEmission(SemosEmission) (SemosEmission, error)
	SetSemosRate(SemosRate) (SemosRate, error)

	CreateTimesheet(Timesheet) (Timesheet, error)
	UpdateTimesheet(id string, mutator func(*Timesheet) error) (Timesheet, error)
	DeleteTimesheet(id string) error

	CreateBet(Bet) (Bet, error)
	UpdateBet(id string, mutator func(*Bet) error) (Bet, error)
	DeleteBet(id string) error

	RecordHillChartSnapshot(HillChartSnapshot) (HillChartSnapshot, error)

	CreateChowderItem(ChowderItem) (ChowderItem, error)
	UpdateChowderItem(id string, mutator func(*ChowderItem) error) (ChowderItem, error)
	DeleteChowderItem(id string) error

	CreateIdeaList(IdeaList) (IdeaList, error)
	UpdateIdeaList(id string, mutator func(*IdeaList) error) (IdeaList, error)
	DeleteIdeaList(id string) error

	CreateIdeaItem(IdeaItem) (IdeaItem, error)
	UpdateIdeaItem(id string, mutator func(*IdeaItem) error) (IdeaItem, error)
	DeleteIdeaItem(id string) error
}

// TransactionView provides read-only access to snapshot data for rules and
// in-transaction reference checks.
type TransactionView = RuleView

// PersistentStore is a minimal abstraction over durable backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error

	GetGuild(id string) (Guild, bool)
	ListGuilds() []Guild
	GetMember(id string) (Member, bool)
	ListMembers() []Member
	GetCycle(id string) (Cycle, bool)
	ListCycles() []Cycle
	GetPitch(id string) (Pitch, bool)
	ListPitches() []Pitch
	ListPitchesForCycle(cycleID string) []Pitch
	GetScope(id string) (Scope, bool)
	ListScopesForPitch(pitchID string) []Scope
	ListScopePositions(pitchID string) []ScopePosition
	GetBreadboard(id string) (Breadboard, bool)
	GetWallet(id string) (Wallet, bool)
	ListWallets() []Wallet
	ListSemosTransactions(walletID string) []SemosTransaction
	ListSemosEmissions() []SemosEmission
	ListSemosRates() []SemosRate
	ListTimesheetsForMember(memberID string) []Timesheet
	ListBetsForCycle(cycleID string) []Bet
	ListHillChartSnapshots(scopeID string) []HillChartSnapshot
	ListChowderItems(guildID string) []ChowderItem
	ListIdeaLists(guildID string) []IdeaList
	ListIdeaItems(listID string) []IdeaItem
}
