package memory

import (
	"sort"

	"guildcore/pkg/domain"
)

// view adapts a memoryState to the read-only contract consumed by rules and
// in-transaction reference checks. Listings are cloned and deterministically
// ordered by creation time, then ID.
type view struct {
	state *memoryState
}

func newView(state *memoryState) view {
	return view{state: state}
}

func sortEntities[T any](items []T, base func(T) domain.Base) {
	sort.SliceStable(items, func(i, j int) bool {
		bi, bj := base(items[i]), base(items[j])
		if !bi.CreatedAt.Equal(bj.CreatedAt) {
			return bi.CreatedAt.Before(bj.CreatedAt)
		}
		return bi.ID < bj.ID
	})
}

func (v view) ListGuilds() []domain.Guild {
	out := make([]domain.Guild, 0, len(v.state.guilds))
	for _, g := range v.state.guilds {
		out = append(out, cloneGuild(g))
	}
	sortEntities(out, func(g domain.Guild) domain.Base { return g.Base })
	return out
}

func (v view) ListMembers() []domain.Member {
	out := make([]domain.Member, 0, len(v.state.members))
	for _, m := range v.state.members {
		out = append(out, cloneMember(m))
	}
	sortEntities(out, func(m domain.Member) domain.Base { return m.Base })
	return out
}

func (v view) ListCycles() []domain.Cycle {
	out := make([]domain.Cycle, 0, len(v.state.cycles))
	for _, c := range v.state.cycles {
		out = append(out, c)
	}
	sortEntities(out, func(c domain.Cycle) domain.Base { return c.Base })
	return out
}

func (v view) ListPitches() []domain.Pitch {
	out := make([]domain.Pitch, 0, len(v.state.pitches))
	for _, p := range v.state.pitches {
		out = append(out, clonePitch(p))
	}
	sortEntities(out, func(p domain.Pitch) domain.Base { return p.Base })
	return out
}

func (v view) ListScopes() []domain.Scope {
	out := make([]domain.Scope, 0, len(v.state.scopes))
	for _, s := range v.state.scopes {
		out = append(out, s)
	}
	sortEntities(out, func(s domain.Scope) domain.Base { return s.Base })
	return out
}

func (v view) ListScopePositions() []domain.ScopePosition {
	out := make([]domain.ScopePosition, 0, len(v.state.positions))
	for _, p := range v.state.positions {
		out = append(out, p)
	}
	sortEntities(out, func(p domain.ScopePosition) domain.Base { return p.Base })
	return out
}

func (v view) ListWallets() []domain.Wallet {
	out := make([]domain.Wallet, 0, len(v.state.wallets))
	for _, w := range v.state.wallets {
		out = append(out, w)
	}
	sortEntities(out, func(w domain.Wallet) domain.Base { return w.Base })
	return out
}

func (v view) ListSemosTransactions() []domain.SemosTransaction {
	out := make([]domain.SemosTransaction, 0, len(v.state.transactions))
	for _, t := range v.state.transactions {
		out = append(out, t)
	}
	sortEntities(out, func(t domain.SemosTransaction) domain.Base { return t.Base })
	return out
}

func (v view) ListBets() []domain.Bet {
	out := make([]domain.Bet, 0, len(v.state.bets))
	for _, b := range v.state.bets {
		out = append(out, b)
	}
	sortEntities(out, func(b domain.Bet) domain.Base { return b.Base })
	return out
}

func (v view) FindGuild(id string) (domain.Guild, bool) {
	g, ok := v.state.guilds[id]
	return cloneGuild(g), ok
}

func (v view) FindMember(id string) (domain.Member, bool) {
	m, ok := v.state.members[id]
	return cloneMember(m), ok
}

func (v view) FindCycle(id string) (domain.Cycle, bool) {
	c, ok := v.state.cycles[id]
	return c, ok
}

func (v view) FindPitch(id string) (domain.Pitch, bool) {
	p, ok := v.state.pitches[id]
	return clonePitch(p), ok
}

func (v view) FindScope(id string) (domain.Scope, bool) {
	s, ok := v.state.scopes[id]
	return s, ok
}

func (v view) FindWallet(id string) (domain.Wallet, bool) {
	w, ok := v.state.wallets[id]
	return w, ok
}
