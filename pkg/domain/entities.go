// Package domain defines the core persistent entities, value types, error
// taxonomy, and rule evaluation primitives used by guildcore.
package domain

import "time"

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityGuild identifies a guild record.
	EntityGuild EntityType = "guild"
	// EntityMember identifies a member record.
	EntityMember EntityType = "member"
	// EntityCycle identifies a cycle record.
	EntityCycle EntityType = "cycle"
	// EntityPitch identifies a pitch record.
	EntityPitch EntityType = "pitch"
	// EntityScope identifies a scope record.
	EntityScope EntityType = "scope"
	// EntityScopePosition identifies a ranked scope placement record.
	EntityScopePosition EntityType = "scope_position"
	// EntityBreadboard identifies a breadboard record.
	EntityBreadboard EntityType = "breadboard"
	// EntityEvent identifies a scheduled event record.
	EntityEvent EntityType = "event"
	// EntityWallet identifies a wallet record.
	EntityWallet EntityType = "wallet"
	// EntitySemosTransaction identifies an immutable ledger entry.
	EntitySemosTransaction EntityType = "semos_transaction"
	// EntitySemosEmission identifies a currency emission record.
	EntitySemosEmission EntityType = "semos_emission"
	// EntitySemosRate identifies a conversion rate record.
	EntitySemosRate EntityType = "semos_rate"
	// EntityTimesheet identifies a timesheet record.
	EntityTimesheet EntityType = "timesheet"
	// EntityBet identifies a bet record.
	EntityBet EntityType = "bet"
	// EntityHillChartSnapshot identifies a progress snapshot record.
	EntityHillChartSnapshot EntityType = "hill_chart_snapshot"
	// EntityChowderItem identifies a parking-lot entry.
	EntityChowderItem EntityType = "chowder_item"
	// EntityIdeaList identifies an idea list record.
	EntityIdeaList EntityType = "idea_list"
	// EntityIdeaItem identifies an idea item record.
	EntityIdeaItem EntityType = "idea_item"
)

// MemberRole enumerates the roles a member can hold within a guild.
type MemberRole string

// Canonical member roles used for gateway authorization.
const (
	RoleOwner   MemberRole = "owner"
	RoleShaper  MemberRole = "shaper"
	RoleBuilder MemberRole = "builder"
	RoleGuest   MemberRole = "guest"
)

// CyclePhase enumerates the phases of a planning cycle.
type CyclePhase string

// Canonical cycle phases. Bets are expected during the betting phase.
const (
	PhasePlanning CyclePhase = "planning"
	PhaseBetting  CyclePhase = "betting"
	PhaseBuilding CyclePhase = "building"
	PhaseCooldown CyclePhase = "cooldown"
	PhaseClosed   CyclePhase = "closed"
)

// PitchStatus enumerates the workflow states of a pitch.
type PitchStatus string

// Canonical pitch statuses.
const (
	PitchDraft     PitchStatus = "draft"
	PitchPitched   PitchStatus = "pitched"
	PitchBet       PitchStatus = "bet"
	PitchScheduled PitchStatus = "scheduled"
	PitchShipped   PitchStatus = "shipped"
	PitchShelved   PitchStatus = "shelved"
)

// Appetite captures how much time a pitch is worth.
type Appetite string

// Canonical appetites.
const (
	AppetiteSmallBatch Appetite = "small_batch"
	AppetiteBigBatch   Appetite = "big_batch"
)

// EventKind enumerates scheduled occurrence categories.
type EventKind string

// Canonical event kinds.
const (
	EventKickoff      EventKind = "kickoff"
	EventBettingTable EventKind = "betting_table"
	EventDemo         EventKind = "demo"
	EventRetro        EventKind = "retro"
	EventOther        EventKind = "other"
)

// TransactionKind enumerates ledger entry categories.
type TransactionKind string

// Canonical transaction kinds. Credits and emissions carry positive amounts,
// debits negative; adjustments may carry either sign.
const (
	TransactionCredit     TransactionKind = "credit"
	TransactionDebit      TransactionKind = "debit"
	TransactionEmission   TransactionKind = "emission"
	TransactionAdjustment TransactionKind = "adjustment"
)

// ChowderKind enumerates loose parking-lot categories.
type ChowderKind string

// Canonical chowder kinds.
const (
	ChowderRawIdea ChowderKind = "raw_idea"
	ChowderRequest ChowderKind = "request"
	ChowderDefect  ChowderKind = "defect"
	ChowderPolish  ChowderKind = "polish"
	ChowderOther   ChowderKind = "other"
)

// IdeaCategory enumerates the closed category set for idea items.
type IdeaCategory string

// Canonical idea categories.
const (
	IdeaSubject  IdeaCategory = "subject"
	IdeaTrainer  IdeaCategory = "trainer"
	IdeaLocation IdeaCategory = "location"
	IdeaOther    IdeaCategory = "other"
)

// ScopeRankOrigin is the rank assigned to the first position in a pitch's
// prioritization list. Ranks are unique and contiguous from this origin.
const ScopeRankOrigin = 1

// Base contains common fields for all domain records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Guild groups members under a single tenant boundary.
type Guild struct {
	Base
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`
}

// Member represents an actor belonging to exactly one guild.
type Member struct {
	Base
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	GuildID  string     `json:"guild_id"`
	Role     MemberRole `json:"role"`
	WalletID *string    `json:"wallet_id"`
}

// Cycle is a fixed time-boxed planning period owning pitches and bets.
type Cycle struct {
	Base
	Name     string     `json:"name"`
	GuildID  string     `json:"guild_id"`
	Phase    CyclePhase `json:"phase"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   time.Time  `json:"ends_at"`
}

// Pitch is a proposed unit of work. Its cycle assignment is immutable once
// set; reassignment goes through an explicit transfer operation.
type Pitch struct {
	Base
	Title    string      `json:"title"`
	Problem  *string     `json:"problem,omitempty"`
	Appetite Appetite    `json:"appetite"`
	Status   PitchStatus `json:"status"`
	GuildID  string      `json:"guild_id"`
	CycleID  *string     `json:"cycle_id"`
	AuthorID string      `json:"author_id"`
}

// Scope is a slice of work within a pitch.
type Scope struct {
	Base
	PitchID   string `json:"pitch_id"`
	Name      string `json:"name"`
	Essential bool   `json:"essential"`
}

// ScopePosition records a scope's ranked placement within its pitch's
// prioritization list. Ranks are unique and contiguous per pitch.
type ScopePosition struct {
	Base
	PitchID string `json:"pitch_id"`
	ScopeID string `json:"scope_id"`
	Rank    int    `json:"rank"`
}

// Breadboard is a structural design artifact attached to a scope.
type Breadboard struct {
	Base
	ScopeID     string   `json:"scope_id"`
	Name        string   `json:"name"`
	Places      []string `json:"places"`
	Affordances []string `json:"affordances"`
	Notes       *string  `json:"notes,omitempty"`
	ArtifactKey *string  `json:"artifact_key,omitempty"`
}

// Event is a scheduled occurrence tied to members and optionally a cycle.
type Event struct {
	Base
	GuildID   string    `json:"guild_id"`
	CycleID   *string   `json:"cycle_id"`
	Title     string    `json:"title"`
	Kind      EventKind `json:"kind"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	MemberIDs []string  `json:"member_ids"`
}

// Wallet is a per-member ledger head. Balance is derived from the wallet's
// transaction history and is never written directly by callers.
type Wallet struct {
	Base
	MemberID string `json:"member_id"`
	Currency string `json:"currency"`
	Balance  int64  `json:"balance"`
}

// SemosTransaction is an immutable, append-only ledger entry. Amounts are
// signed and expressed in semos cents. Corrections are compensating entries.
type SemosTransaction struct {
	Base
	WalletID string          `json:"wallet_id"`
	Amount   int64           `json:"amount"`
	Kind     TransactionKind `json:"kind"`
	Memo     *string         `json:"memo,omitempty"`
	PostedAt time.Time       `json:"posted_at"`
}

// SemosEmission records a minting event crediting one or more wallets.
type SemosEmission struct {
	Base
	RateID    *string   `json:"rate_id"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	WalletIDs []string  `json:"wallet_ids"`
	MintedAt  time.Time `json:"minted_at"`
}

// SemosRate captures the conversion rate in effect from a point in time.
type SemosRate struct {
	Base
	MicrosPerSemos int64     `json:"micros_per_semos"`
	ValidFrom      time.Time `json:"valid_from"`
	Note           *string   `json:"note,omitempty"`
}

// Timesheet logs work time by a member against a cycle and optionally a pitch.
type Timesheet struct {
	Base
	MemberID string    `json:"member_id"`
	CycleID  string    `json:"cycle_id"`
	PitchID  *string   `json:"pitch_id"`
	Minutes  int       `json:"minutes"`
	WorkedOn time.Time `json:"worked_on"`
	Notes    *string   `json:"notes,omitempty"`
}

// Bet is a commitment of resources to a pitch within a cycle. Its cycle and
// pitch references are immutable once set.
type Bet struct {
	Base
	GuildID  string  `json:"guild_id"`
	CycleID  string  `json:"cycle_id"`
	PitchID  string  `json:"pitch_id"`
	MemberID *string `json:"member_id"`
	Amount   int64   `json:"amount"`
}

// HillChartSnapshot is an append-only point-in-time progress marker for a
// scope. Position runs from 0 (figuring out) to 1 (done).
type HillChartSnapshot struct {
	Base
	ScopeID    string    `json:"scope_id"`
	Position   float64   `json:"position"`
	Note       *string   `json:"note,omitempty"`
	RecordedBy *string   `json:"recorded_by,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ChowderItem is a loosely categorized parking-lot entry.
type ChowderItem struct {
	Base
	GuildID string      `json:"guild_id"`
	Title   string      `json:"title"`
	Kind    ChowderKind `json:"kind"`
	Notes   *string     `json:"notes,omitempty"`
}

// IdeaList is a named collection of idea items.
type IdeaList struct {
	Base
	GuildID     string  `json:"guild_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// IdeaItem is a member entry of an idea list with a closed category set.
type IdeaItem struct {
	Base
	ListID   string       `json:"list_id"`
	Title    string       `json:"title"`
	Category IdeaCategory `json:"category"`
	Notes    *string      `json:"notes,omitempty"`
	Done     bool         `json:"done"`
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported operations captured in the audit trail.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// LedgerPolicy configures how postings against wallet balances are accepted.
// A posting that would leave a wallet below Floor is rejected; landing
// exactly on the floor is allowed.
type LedgerPolicy struct {
	Floor int64 `json:"floor"`
}

// DefaultLedgerPolicy disallows negative balances.
func DefaultLedgerPolicy() LedgerPolicy {
	return LedgerPolicy{Floor: 0}
}
