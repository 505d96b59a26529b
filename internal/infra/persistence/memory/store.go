// Package memory provides an in-memory implementation of the core persistence
// store used for tests and ephemeral environments. Durable backends wrap it
// and snapshot its state after every successful transaction.
package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"guildcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type memoryState struct {
	guilds       map[string]domain.Guild
	members      map[string]domain.Member
	cycles       map[string]domain.Cycle
	pitches      map[string]domain.Pitch
	scopes       map[string]domain.Scope
	positions    map[string]domain.ScopePosition
	breadboards  map[string]domain.Breadboard
	events       map[string]domain.Event
	wallets      map[string]domain.Wallet
	transactions map[string]domain.SemosTransaction
	emissions    map[string]domain.SemosEmission
	rates        map[string]domain.SemosRate
	timesheets   map[string]domain.Timesheet
	bets         map[string]domain.Bet
	snapshots    map[string]domain.HillChartSnapshot
	chowder      map[string]domain.ChowderItem
	ideaLists    map[string]domain.IdeaList
	ideaItems    map[string]domain.IdeaItem
}

// Snapshot captures a point-in-time clone of the store state for durable backends.
type Snapshot struct {
	Guilds       map[string]domain.Guild             `json:"guilds"`
	Members      map[string]domain.Member            `json:"members"`
	Cycles       map[string]domain.Cycle             `json:"cycles"`
	Pitches      map[string]domain.Pitch             `json:"pitches"`
	Scopes       map[string]domain.Scope             `json:"scopes"`
	Positions    map[string]domain.ScopePosition     `json:"positions"`
	Breadboards  map[string]domain.Breadboard        `json:"breadboards"`
	Events       map[string]domain.Event             `json:"events"`
	Wallets      map[string]domain.Wallet            `json:"wallets"`
	Transactions map[string]domain.SemosTransaction  `json:"transactions"`
	Emissions    map[string]domain.SemosEmission     `json:"emissions"`
	Rates        map[string]domain.SemosRate         `json:"rates"`
	Timesheets   map[string]domain.Timesheet         `json:"timesheets"`
	Bets         map[string]domain.Bet               `json:"bets"`
	HillCharts   map[string]domain.HillChartSnapshot `json:"hill_charts"`
	Chowder      map[string]domain.ChowderItem       `json:"chowder"`
	IdeaLists    map[string]domain.IdeaList          `json:"idea_lists"`
	IdeaItems    map[string]domain.IdeaItem          `json:"idea_items"`
}

func newMemoryState() memoryState {
	return memoryState{
		guilds:       make(map[string]domain.Guild),
		members:      make(map[string]domain.Member),
		cycles:       make(map[string]domain.Cycle),
		pitches:      make(map[string]domain.Pitch),
		scopes:       make(map[string]domain.Scope),
		positions:    make(map[string]domain.ScopePosition),
		breadboards:  make(map[string]domain.Breadboard),
		events:       make(map[string]domain.Event),
		wallets:      make(map[string]domain.Wallet),
		transactions: make(map[string]domain.SemosTransaction),
		emissions:    make(map[string]domain.SemosEmission),
		rates:        make(map[string]domain.SemosRate),
		timesheets:   make(map[string]domain.Timesheet),
		bets:         make(map[string]domain.Bet),
		snapshots:    make(map[string]domain.HillChartSnapshot),
		chowder:      make(map[string]domain.ChowderItem),
		ideaLists:    make(map[string]domain.IdeaList),
		ideaItems:    make(map[string]domain.IdeaItem),
	}
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.guilds {
		cloned.guilds[k] = cloneGuild(v)
	}
	for k, v := range s.members {
		cloned.members[k] = cloneMember(v)
	}
	for k, v := range s.cycles {
		cloned.cycles[k] = v
	}
	for k, v := range s.pitches {
		cloned.pitches[k] = clonePitch(v)
	}
	for k, v := range s.scopes {
		cloned.scopes[k] = v
	}
	for k, v := range s.positions {
		cloned.positions[k] = v
	}
	for k, v := range s.breadboards {
		cloned.breadboards[k] = cloneBreadboard(v)
	}
	for k, v := range s.events {
		cloned.events[k] = cloneEvent(v)
	}
	for k, v := range s.wallets {
		cloned.wallets[k] = v
	}
	for k, v := range s.transactions {
		cloned.transactions[k] = v
	}
	for k, v := range s.emissions {
		cloned.emissions[k] = cloneEmission(v)
	}
	for k, v := range s.rates {
		cloned.rates[k] = v
	}
	for k, v := range s.timesheets {
		cloned.timesheets[k] = v
	}
	for k, v := range s.bets {
		cloned.bets[k] = v
	}
	for k, v := range s.snapshots {
		cloned.snapshots[k] = v
	}
	for k, v := range s.chowder {
		cloned.chowder[k] = v
	}
	for k, v := range s.ideaLists {
		cloned.ideaLists[k] = v
	}
	for k, v := range s.ideaItems {
		cloned.ideaItems[k] = v
	}
	return cloned
}

func cloneGuild(g domain.Guild) domain.Guild    { return g }
func cloneMember(m domain.Member) domain.Member { return m }
func clonePitch(p domain.Pitch) domain.Pitch    { return p }
func cloneBreadboard(b domain.Breadboard) domain.Breadboard {
	cp := b
	cp.Places = append([]string(nil), b.Places...)
	cp.Affordances = append([]string(nil), b.Affordances...)
	return cp
}
func cloneEvent(e domain.Event) domain.Event {
	cp := e
	cp.MemberIDs = append([]string(nil), e.MemberIDs...)
	return cp
}
func cloneEmission(e domain.SemosEmission) domain.SemosEmission {
	cp := e
	cp.WalletIDs = append([]string(nil), e.WalletIDs...)
	return cp
}

// Store provides an in-memory transactional store for the guildcore domain.
// A single mutex serializes transactions, which is what gives per-wallet
// ledger postings and per-pitch reorders their no-lost-update guarantee.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *domain.RulesEngine
	policy domain.LedgerPolicy
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine
// and the default ledger policy (no overdraft).
func NewStore(engine *domain.RulesEngine) *Store {
	return NewStoreWithPolicy(engine, domain.DefaultLedgerPolicy())
}

// NewStoreWithPolicy constructs a store with an explicit ledger policy.
func NewStoreWithPolicy(engine *domain.RulesEngine, policy domain.LedgerPolicy) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		policy: policy,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// Policy returns the active ledger policy.
func (s *Store) Policy() domain.LedgerPolicy { return s.policy }

func (s *Store) newID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b[:])
}

// ExportState returns a deep copy of the committed state for durable backends.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state.clone()
	return Snapshot{
		Guilds:       st.guilds,
		Members:      st.members,
		Cycles:       st.cycles,
		Pitches:      st.pitches,
		Scopes:       st.scopes,
		Positions:    st.positions,
		Breadboards:  st.breadboards,
		Events:       st.events,
		Wallets:      st.wallets,
		Transactions: st.transactions,
		Emissions:    st.emissions,
		Rates:        st.rates,
		Timesheets:   st.timesheets,
		Bets:         st.bets,
		HillCharts:   st.snapshots,
		Chowder:      st.chowder,
		IdeaLists:    st.ideaLists,
		IdeaItems:    st.ideaItems,
	}
}

// ImportState replaces the committed state with the supplied snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := newMemoryState()
	for k, v := range snapshot.Guilds {
		state.guilds[k] = v
	}
	for k, v := range snapshot.Members {
		state.members[k] = v
	}
	for k, v := range snapshot.Cycles {
		state.cycles[k] = v
	}
	for k, v := range snapshot.Pitches {
		state.pitches[k] = v
	}
	for k, v := range snapshot.Scopes {
		state.scopes[k] = v
	}
	for k, v := range snapshot.Positions {
		state.positions[k] = v
	}
	for k, v := range snapshot.Breadboards {
		state.breadboards[k] = v
	}
	for k, v := range snapshot.Events {
		state.events[k] = v
	}
	for k, v := range snapshot.Wallets {
		state.wallets[k] = v
	}
	for k, v := range snapshot.Transactions {
		state.transactions[k] = v
	}
	for k, v := range snapshot.Emissions {
		state.emissions[k] = v
	}
	for k, v := range snapshot.Rates {
		state.rates[k] = v
	}
	for k, v := range snapshot.Timesheets {
		state.timesheets[k] = v
	}
	for k, v := range snapshot.Bets {
		state.bets[k] = v
	}
	for k, v := range snapshot.HillCharts {
		state.snapshots[k] = v
	}
	for k, v := range snapshot.Chowder {
		state.chowder[k] = v
	}
	for k, v := range snapshot.IdeaLists {
		state.ideaLists[k] = v
	}
	for k, v := range snapshot.IdeaItems {
		state.ideaItems[k] = v
	}
	s.state = state
}

// RunInTransaction executes fn within a transactional copy of the store state.
// Rules are evaluated against the candidate state before commit; blocking
// violations abort the transaction.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{
		store: s,
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return domain.Result{}, err
	}

	var result domain.Result
	if s.engine != nil {
		view := newView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return domain.Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	return fn(newView(&snapshot))
}

// Transaction represents a mutation set applied to the store state.
type Transaction struct {
	store   *Store
	state   memoryState
	changes []domain.Change
	now     time.Time
}

// Snapshot exposes a read-only view of the transactional state.
func (tx *Transaction) Snapshot() domain.TransactionView {
	return newView(&tx.state)
}

func (tx *Transaction) recordChange(change domain.Change) {
	tx.changes = append(tx.changes, change)
}

func (tx *Transaction) stamp(base *domain.Base, id string) {
	if base.ID == "" {
		base.ID = id
	}
	// Externally sourced records keep their original creation time.
	if base.CreatedAt.IsZero() {
		base.CreatedAt = tx.now
	}
	base.UpdatedAt = tx.now
}
