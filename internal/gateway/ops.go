package gateway

import (
	"context"
	"fmt"

	"guildcore/internal/core"
	"guildcore/pkg/domain"
)

// Operation is one typed mutation the gateway can execute. targetGuilds
// resolves the tenants the mutation touches from current store state, never
// from caller-asserted fields; references that do not resolve are omitted and
// left to fail during execution. WalletID is non-empty only for ledger
// operations scoped to a single wallet.
type Operation interface {
	Name() string
	targetGuilds(store domain.PersistentStore) []string
	WalletID() string
	execute(ctx context.Context, svc *core.Service) (invalidatedKeys []string, err error)
}

// walletGuild resolves the guild a wallet belongs to through its member.
func walletGuild(store domain.PersistentStore, walletID string) (string, bool) {
	wallet, ok := store.GetWallet(walletID)
	if !ok {
		return "", false
	}
	member, ok := store.GetMember(wallet.MemberID)
	if !ok {
		return "", false
	}
	return member.GuildID, true
}

// scopeGuild resolves a scope's guild through its pitch.
func scopeGuild(store domain.PersistentStore, scopeID string) (string, bool) {
	scope, ok := store.GetScope(scopeID)
	if !ok {
		return "", false
	}
	pitch, ok := store.GetPitch(scope.PitchID)
	if !ok {
		return "", false
	}
	return pitch.GuildID, true
}

func pitchKeys(cycleID *string, pitchID string) []string {
	keys := []string{fmt.Sprintf("pitches/%s", pitchID)}
	if cycleID != nil {
		keys = append(keys, fmt.Sprintf("cycles/%s/pitches", *cycleID))
	}
	return keys
}

// CreatePitch proposes a new pitch.
type CreatePitch struct {
	Pitch domain.Pitch
}

func (op CreatePitch) Name() string     { return "create_pitch" }
func (op CreatePitch) WalletID() string { return "" }

func (op CreatePitch) targetGuilds(store domain.PersistentStore) []string {
	guilds := []string{op.Pitch.GuildID}
	if op.Pitch.CycleID != nil {
		if cycle, ok := store.GetCycle(*op.Pitch.CycleID); ok {
			guilds = append(guilds, cycle.GuildID)
		}
	}
	return guilds
}

func (op CreatePitch) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	created, _, err := svc.CreatePitch(ctx, op.Pitch)
	if err != nil {
		return nil, err
	}
	return pitchKeys(created.CycleID, created.ID), nil
}

// TransferPitch moves a pitch to another cycle in the same guild.
type TransferPitch struct {
	PitchID string
	CycleID string
}

func (op TransferPitch) Name() string     { return "transfer_pitch" }
func (op TransferPitch) WalletID() string { return "" }

func (op TransferPitch) targetGuilds(store domain.PersistentStore) []string {
	var guilds []string
	if pitch, ok := store.GetPitch(op.PitchID); ok {
		guilds = append(guilds, pitch.GuildID)
	}
	if cycle, ok := store.GetCycle(op.CycleID); ok {
		guilds = append(guilds, cycle.GuildID)
	}
	return guilds
}

func (op TransferPitch) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	before, ok := svc.Store().GetPitch(op.PitchID)
	moved, _, err := svc.TransferPitch(ctx, op.PitchID, op.CycleID)
	if err != nil {
		return nil, err
	}
	keys := pitchKeys(moved.CycleID, moved.ID)
	if ok && before.CycleID != nil {
		keys = append(keys, fmt.Sprintf("cycles/%s/pitches", *before.CycleID))
	}
	return keys, nil
}

// PrioritizeScope moves a scope to a target rank in its pitch's list.
type PrioritizeScope struct {
	PitchID string
	ScopeID string
	Rank    int
}

func (op PrioritizeScope) Name() string     { return "prioritize_scope" }
func (op PrioritizeScope) WalletID() string { return "" }

func (op PrioritizeScope) targetGuilds(store domain.PersistentStore) []string {
	if pitch, ok := store.GetPitch(op.PitchID); ok {
		return []string{pitch.GuildID}
	}
	return nil
}

func (op PrioritizeScope) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	if _, _, err := svc.PrioritizeScope(ctx, op.PitchID, op.ScopeID, op.Rank); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("pitches/%s/scopes", op.PitchID)}, nil
}

// PostSemosTransaction appends a ledger entry to a wallet.
type PostSemosTransaction struct {
	Entry domain.SemosTransaction
}

func (op PostSemosTransaction) Name() string     { return "post_semos_transaction" }
func (op PostSemosTransaction) WalletID() string { return op.Entry.WalletID }

func (op PostSemosTransaction) targetGuilds(store domain.PersistentStore) []string {
	if guildID, ok := walletGuild(store, op.Entry.WalletID); ok {
		return []string{guildID}
	}
	return nil
}

func (op PostSemosTransaction) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	posted, _, err := svc.PostSemosTransaction(ctx, op.Entry)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("wallets/%s", posted.WalletID)}, nil
}

// MintEmission credits a set of wallets from a single emission.
type MintEmission struct {
	Emission domain.SemosEmission
}

func (op MintEmission) Name() string     { return "mint_emission" }
func (op MintEmission) WalletID() string { return "" }

func (op MintEmission) targetGuilds(store domain.PersistentStore) []string {
	guilds := make([]string, 0, len(op.Emission.WalletIDs))
	for _, walletID := range op.Emission.WalletIDs {
		if guildID, ok := walletGuild(store, walletID); ok {
			guilds = append(guilds, guildID)
		}
	}
	return guilds
}

func (op MintEmission) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	minted, _, err := svc.MintEmission(ctx, op.Emission)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(minted.WalletIDs))
	for _, walletID := range minted.WalletIDs {
		keys = append(keys, fmt.Sprintf("wallets/%s", walletID))
	}
	return keys, nil
}

// RecordTimesheet logs worked minutes for a member.
type RecordTimesheet struct {
	Sheet domain.Timesheet
}

func (op RecordTimesheet) Name() string     { return "record_timesheet" }
func (op RecordTimesheet) WalletID() string { return "" }

func (op RecordTimesheet) targetGuilds(store domain.PersistentStore) []string {
	var guilds []string
	if member, ok := store.GetMember(op.Sheet.MemberID); ok {
		guilds = append(guilds, member.GuildID)
	}
	if cycle, ok := store.GetCycle(op.Sheet.CycleID); ok {
		guilds = append(guilds, cycle.GuildID)
	}
	if op.Sheet.PitchID != nil {
		if pitch, ok := store.GetPitch(*op.Sheet.PitchID); ok {
			guilds = append(guilds, pitch.GuildID)
		}
	}
	return guilds
}

func (op RecordTimesheet) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	recorded, _, err := svc.RecordTimesheet(ctx, op.Sheet)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("members/%s/timesheets", recorded.MemberID)}, nil
}

// PlaceBet commits a table or member-staked bet on a pitch.
type PlaceBet struct {
	Bet domain.Bet
}

func (op PlaceBet) Name() string { return "place_bet" }

// WalletID resolves to nothing: the stake debit is authorized through the
// bet's MemberID, which must match the caller.
func (op PlaceBet) WalletID() string { return "" }

func (op PlaceBet) targetGuilds(store domain.PersistentStore) []string {
	guilds := []string{op.Bet.GuildID}
	if pitch, ok := store.GetPitch(op.Bet.PitchID); ok {
		guilds = append(guilds, pitch.GuildID)
	}
	if cycle, ok := store.GetCycle(op.Bet.CycleID); ok {
		guilds = append(guilds, cycle.GuildID)
	}
	return guilds
}

func (op PlaceBet) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	placed, _, err := svc.PlaceBet(ctx, op.Bet)
	if err != nil {
		return nil, err
	}
	keys := []string{fmt.Sprintf("cycles/%s/bets", placed.CycleID)}
	if placed.MemberID != nil {
		if member, ok := svc.Store().GetMember(*placed.MemberID); ok && member.WalletID != nil {
			keys = append(keys, fmt.Sprintf("wallets/%s", *member.WalletID))
		}
	}
	return keys, nil
}

// RecordHillChartSnapshot appends a progress marker for a scope.
type RecordHillChartSnapshot struct {
	Snapshot domain.HillChartSnapshot
}

func (op RecordHillChartSnapshot) Name() string     { return "record_hill_chart_snapshot" }
func (op RecordHillChartSnapshot) WalletID() string { return "" }

func (op RecordHillChartSnapshot) targetGuilds(store domain.PersistentStore) []string {
	if guildID, ok := scopeGuild(store, op.Snapshot.ScopeID); ok {
		return []string{guildID}
	}
	return nil
}

func (op RecordHillChartSnapshot) execute(ctx context.Context, svc *core.Service) ([]string, error) {
	recorded, _, err := svc.RecordHillChartSnapshot(ctx, op.Snapshot)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("scopes/%s/hill_chart", recorded.ScopeID)}, nil
}
