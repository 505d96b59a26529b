package memory

import (
	"sort"

	"guildcore/pkg/domain"
)

// Read helpers operate on the committed state under a read lock and return
// clones, so callers can never mutate the store through a result.

func (s *Store) GetGuild(id string) (domain.Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.state.guilds[id]
	return cloneGuild(g), ok
}

func (s *Store) ListGuilds() []domain.Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newView(&s.state).ListGuilds()
}

func (s *Store) GetMember(id string) (domain.Member, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.state.members[id]
	return cloneMember(m), ok
}

func (s *Store) ListMembers() []domain.Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newView(&s.state).ListMembers()
}

func (s *Store) GetCycle(id string) (domain.Cycle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.state.cycles[id]
	return c, ok
}

func (s *Store) ListCycles() []domain.Cycle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newView(&s.state).ListCycles()
}

func (s *Store) GetPitch(id string) (domain.Pitch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.pitches[id]
	return clonePitch(p), ok
}

func (s *Store) ListPitches() []domain.Pitch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newView(&s.state).ListPitches()
}

func (s *Store) ListPitchesForCycle(cycleID string) []domain.Pitch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Pitch, 0)
	for _, p := range s.state.pitches {
		if p.CycleID != nil && *p.CycleID == cycleID {
			out = append(out, clonePitch(p))
		}
	}
	sortEntities(out, func(p domain.Pitch) domain.Base { return p.Base })
	return out
}

func (s *Store) GetScope(id string) (domain.Scope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sc, ok := s.state.scopes[id]
	return sc, ok
}

func (s *Store) ListScopesForPitch(pitchID string) []domain.Scope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Scope, 0)
	for _, sc := range s.state.scopes {
		if sc.PitchID == pitchID {
			out = append(out, sc)
		}
	}
	sortEntities(out, func(sc domain.Scope) domain.Base { return sc.Base })
	return out
}

// ListScopePositions returns a pitch's prioritization list in rank order.
func (s *Store) ListScopePositions(pitchID string) []domain.ScopePosition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ScopePosition, 0)
	for _, pos := range s.state.positions {
		if pos.PitchID == pitchID {
			out = append(out, pos)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

func (s *Store) GetBreadboard(id string) (domain.Breadboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.breadboards[id]
	return cloneBreadboard(b), ok
}

func (s *Store) GetWallet(id string) (domain.Wallet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.state.wallets[id]
	return w, ok
}

func (s *Store) ListWallets() []domain.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newView(&s.state).ListWallets()
}

// ListSemosTransactions returns a wallet's ledger history in posting order.
func (s *Store) ListSemosTransactions(walletID string) []domain.SemosTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SemosTransaction, 0)
	for _, t := range s.state.transactions {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PostedAt.Equal(out[j].PostedAt) {
			return out[i].PostedAt.Before(out[j].PostedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ListSemosEmissions() []domain.SemosEmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SemosEmission, 0, len(s.state.emissions))
	for _, e := range s.state.emissions {
		out = append(out, cloneEmission(e))
	}
	sortEntities(out, func(e domain.SemosEmission) domain.Base { return e.Base })
	return out
}

func (s *Store) ListSemosRates() []domain.SemosRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SemosRate, 0, len(s.state.rates))
	for _, r := range s.state.rates {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ValidFrom.Equal(out[j].ValidFrom) {
			return out[i].ValidFrom.Before(out[j].ValidFrom)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ListTimesheetsForMember(memberID string) []domain.Timesheet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Timesheet, 0)
	for _, t := range s.state.timesheets {
		if t.MemberID == memberID {
			out = append(out, t)
		}
	}
	sortEntities(out, func(t domain.Timesheet) domain.Base { return t.Base })
	return out
}

func (s *Store) ListBetsForCycle(cycleID string) []domain.Bet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Bet, 0)
	for _, b := range s.state.bets {
		if b.CycleID == cycleID {
			out = append(out, b)
		}
	}
	sortEntities(out, func(b domain.Bet) domain.Base { return b.Base })
	return out
}

// ListHillChartSnapshots returns a scope's progress history oldest first.
func (s *Store) ListHillChartSnapshots(scopeID string) []domain.HillChartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HillChartSnapshot, 0)
	for _, snap := range s.state.snapshots {
		if snap.ScopeID == scopeID {
			out = append(out, snap)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].RecordedAt.Equal(out[j].RecordedAt) {
			return out[i].RecordedAt.Before(out[j].RecordedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) ListChowderItems(guildID string) []domain.ChowderItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ChowderItem, 0)
	for _, c := range s.state.chowder {
		if c.GuildID == guildID {
			out = append(out, c)
		}
	}
	sortEntities(out, func(c domain.ChowderItem) domain.Base { return c.Base })
	return out
}

func (s *Store) ListIdeaLists(guildID string) []domain.IdeaList {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IdeaList, 0)
	for _, l := range s.state.ideaLists {
		if l.GuildID == guildID {
			out = append(out, l)
		}
	}
	sortEntities(out, func(l domain.IdeaList) domain.Base { return l.Base })
	return out
}

func (s *Store) ListIdeaItems(listID string) []domain.IdeaItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.IdeaItem, 0)
	for _, i := range s.state.ideaItems {
		if i.ListID == listID {
			out = append(out, i)
		}
	}
	sortEntities(out, func(i domain.IdeaItem) domain.Base { return i.Base })
	return out
}
