package gateway

import (
	"context"

	"guildcore/pkg/domain"
)

// GuildAuthorizer enforces tenant boundaries: callers act only inside their
// own guild, ledger postings only against their own wallet, and emissions are
// reserved to guild owners. Owners may act on any wallet in their guild.
type GuildAuthorizer struct{}

// Authorize implements Authorizer. Tenancy is decided against the guilds the
// operation's target entities actually belong to, resolved from store state.
func (GuildAuthorizer) Authorize(_ context.Context, store domain.PersistentStore, id Identity, op Operation) error {
	member, ok := store.GetMember(id.MemberID)
	if !ok {
		return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "member not found"}
	}
	for _, guildID := range op.targetGuilds(store) {
		if guildID != member.GuildID {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "operation targets another guild"}
		}
	}

	if walletID := op.WalletID(); walletID != "" {
		wallet, ok := store.GetWallet(walletID)
		if !ok {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "wallet not found"}
		}
		if wallet.MemberID != id.MemberID && member.Role != domain.RoleOwner {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "wallet belongs to another member"}
		}
	}

	switch typed := op.(type) {
	case MintEmission:
		if member.Role != domain.RoleOwner {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "emissions require the owner role"}
		}
	case PlaceBet:
		if typed.Bet.MemberID != nil && *typed.Bet.MemberID != id.MemberID && member.Role != domain.RoleOwner {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "stake must come from the caller's wallet"}
		}
	case RecordTimesheet:
		if typed.Sheet.MemberID != id.MemberID && member.Role != domain.RoleOwner {
			return domain.AuthorizationError{MemberID: id.MemberID, Operation: op.Name(), Reason: "timesheets are recorded by their own member"}
		}
	}
	return nil
}
