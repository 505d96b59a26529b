package core

import (
	"context"
	"testing"
	"time"

	"guildcore/internal/infra/persistence/memory"
	"guildcore/pkg/domain"
)

// fakeRuleView lets rule tests assemble arbitrary states, including ones the
// transactional API would never produce.
type fakeRuleView struct {
	guilds    []domain.Guild
	members   []domain.Member
	cycles    []domain.Cycle
	pitches   []domain.Pitch
	scopes    []domain.Scope
	positions []domain.ScopePosition
	wallets   []domain.Wallet
	txns      []domain.SemosTransaction
	bets      []domain.Bet
}

func (v fakeRuleView) ListGuilds() []domain.Guild                       { return v.guilds }
func (v fakeRuleView) ListMembers() []domain.Member                     { return v.members }
func (v fakeRuleView) ListCycles() []domain.Cycle                       { return v.cycles }
func (v fakeRuleView) ListPitches() []domain.Pitch                      { return v.pitches }
func (v fakeRuleView) ListScopes() []domain.Scope                       { return v.scopes }
func (v fakeRuleView) ListScopePositions() []domain.ScopePosition       { return v.positions }
func (v fakeRuleView) ListWallets() []domain.Wallet                     { return v.wallets }
func (v fakeRuleView) ListSemosTransactions() []domain.SemosTransaction { return v.txns }
func (v fakeRuleView) ListBets() []domain.Bet                           { return v.bets }

func (v fakeRuleView) FindGuild(id string) (domain.Guild, bool) {
	for _, g := range v.guilds {
		if g.ID == id {
			return g, true
		}
	}
	return domain.Guild{}, false
}

func (v fakeRuleView) FindMember(id string) (domain.Member, bool) {
	for _, m := range v.members {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Member{}, false
}

func (v fakeRuleView) FindCycle(id string) (domain.Cycle, bool) {
	for _, c := range v.cycles {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Cycle{}, false
}

func (v fakeRuleView) FindPitch(id string) (domain.Pitch, bool) {
	for _, p := range v.pitches {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Pitch{}, false
}

func (v fakeRuleView) FindScope(id string) (domain.Scope, bool) {
	for _, s := range v.scopes {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Scope{}, false
}

func (v fakeRuleView) FindWallet(id string) (domain.Wallet, bool) {
	for _, w := range v.wallets {
		if w.ID == id {
			return w, true
		}
	}
	return domain.Wallet{}, false
}

func violationsFor(t *testing.T, rule domain.Rule, view domain.RuleView, changes []domain.Change) []domain.Violation {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), view, changes)
	if err != nil {
		t.Fatalf("evaluate %s: %v", rule.Name(), err)
	}
	return res.Violations
}

func TestWalletReconciliationFlagsDrift(t *testing.T) {
	view := fakeRuleView{
		wallets: []domain.Wallet{{Base: domain.Base{ID: "w1"}, MemberID: "m1", Currency: "semos", Balance: 100}},
		txns: []domain.SemosTransaction{
			{Base: domain.Base{ID: "t1"}, WalletID: "w1", Amount: 40, Kind: domain.TransactionCredit},
		},
	}

	violations := violationsFor(t, NewWalletReconciliationRule(), view, nil)
	if len(violations) != 1 {
		t.Fatalf("expected one violation, got %d", len(violations))
	}
	if violations[0].Severity != domain.SeverityBlock || violations[0].EntityID != "w1" {
		t.Fatalf("unexpected violation: %+v", violations[0])
	}

	view.wallets[0].Balance = 40
	if violations := violationsFor(t, NewWalletReconciliationRule(), view, nil); len(violations) != 0 {
		t.Fatalf("balanced wallet flagged: %+v", violations)
	}
}

func TestScopeRankRuleFlagsGaps(t *testing.T) {
	view := fakeRuleView{positions: []domain.ScopePosition{
		{Base: domain.Base{ID: "p1"}, PitchID: "pitch", ScopeID: "s1", Rank: domain.ScopeRankOrigin},
		{Base: domain.Base{ID: "p2"}, PitchID: "pitch", ScopeID: "s2", Rank: domain.ScopeRankOrigin + 2},
	}}

	violations := violationsFor(t, NewScopeRankRule(), view, nil)
	if len(violations) != 1 {
		t.Fatalf("expected gap violation, got %d", len(violations))
	}

	view.positions[1].Rank = domain.ScopeRankOrigin + 1
	if violations := violationsFor(t, NewScopeRankRule(), view, nil); len(violations) != 0 {
		t.Fatalf("contiguous ranks flagged: %+v", violations)
	}
}

func TestScopeRankRuleFlagsDuplicates(t *testing.T) {
	view := fakeRuleView{positions: []domain.ScopePosition{
		{Base: domain.Base{ID: "p1"}, PitchID: "pitch", ScopeID: "s1", Rank: domain.ScopeRankOrigin},
		{Base: domain.Base{ID: "p2"}, PitchID: "pitch", ScopeID: "s2", Rank: domain.ScopeRankOrigin},
	}}
	if violations := violationsFor(t, NewScopeRankRule(), view, nil); len(violations) != 1 {
		t.Fatalf("expected duplicate-rank violation, got %d", len(violations))
	}
}

func TestCycleAssignmentRuleFlagsCrossGuildPitch(t *testing.T) {
	cycleID := "c1"
	view := fakeRuleView{
		cycles:  []domain.Cycle{{Base: domain.Base{ID: cycleID}, GuildID: "other-guild", Phase: domain.PhaseBetting}},
		pitches: []domain.Pitch{{Base: domain.Base{ID: "p1"}, GuildID: "home-guild", CycleID: &cycleID}},
	}

	violations := violationsFor(t, NewCycleAssignmentRule(), view, nil)
	if len(violations) != 1 || violations[0].Entity != domain.EntityPitch {
		t.Fatalf("expected cross-guild pitch violation, got %+v", violations)
	}
}

func TestCycleAssignmentRuleFlagsBetCycleMismatch(t *testing.T) {
	assigned := "c1"
	view := fakeRuleView{
		cycles: []domain.Cycle{
			{Base: domain.Base{ID: "c1"}, GuildID: "g1", Phase: domain.PhaseBetting},
			{Base: domain.Base{ID: "c2"}, GuildID: "g1", Phase: domain.PhaseBetting},
		},
		pitches: []domain.Pitch{{Base: domain.Base{ID: "p1"}, GuildID: "g1", CycleID: &assigned}},
		bets:    []domain.Bet{{Base: domain.Base{ID: "b1"}, GuildID: "g1", CycleID: "c2", PitchID: "p1", Amount: 10}},
	}

	violations := violationsFor(t, NewCycleAssignmentRule(), view, nil)
	if len(violations) != 1 || violations[0].Entity != domain.EntityBet {
		t.Fatalf("expected bet cycle mismatch violation, got %+v", violations)
	}
}

func TestBettingPhaseRuleWarnsOutsideBetting(t *testing.T) {
	bet := domain.Bet{Base: domain.Base{ID: "b1"}, GuildID: "g1", CycleID: "c1", PitchID: "p1", Amount: 10}
	view := fakeRuleView{cycles: []domain.Cycle{{Base: domain.Base{ID: "c1"}, GuildID: "g1", Phase: domain.PhaseBuilding}}}
	changes := []domain.Change{{Entity: domain.EntityBet, Action: domain.ActionCreate, After: bet}}

	violations := violationsFor(t, NewBettingPhaseRule(), view, changes)
	if len(violations) != 1 {
		t.Fatalf("expected one warning, got %d", len(violations))
	}
	if violations[0].Severity != domain.SeverityWarn {
		t.Fatalf("warning should not block: %+v", violations[0])
	}

	view.cycles[0].Phase = domain.PhaseBetting
	if violations := violationsFor(t, NewBettingPhaseRule(), view, changes); len(violations) != 0 {
		t.Fatalf("in-phase bet flagged: %+v", violations)
	}
}

func TestDefaultRulesAllowConsistentCommits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(NewDefaultRulesEngine())

	now := time.Now().UTC()
	res, err := store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		guild, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"})
		if err != nil {
			return err
		}
		member, err := tx.CreateMember(domain.Member{Name: "Ada", Email: "ada@evergreen.dev", GuildID: guild.ID, Role: domain.RoleShaper})
		if err != nil {
			return err
		}
		cycle, err := tx.CreateCycle(domain.Cycle{Name: "Cycle 1", GuildID: guild.ID, Phase: domain.PhaseCooldown, StartsAt: now, EndsAt: now.Add(6 * 7 * 24 * time.Hour)})
		if err != nil {
			return err
		}
		pitch, err := tx.CreatePitch(domain.Pitch{Title: "Ledger floor", GuildID: guild.ID, CycleID: &cycle.ID, AuthorID: member.ID, Appetite: domain.AppetiteSmallBatch, Status: domain.PitchBet})
		if err != nil {
			return err
		}
		_, err = tx.CreateBet(domain.Bet{GuildID: guild.ID, CycleID: cycle.ID, PitchID: pitch.ID, Amount: 25})
		return err
	})
	if err != nil {
		t.Fatalf("transaction should commit: %v", err)
	}

	// The bet landed during cooldown: the commit succeeds but the result
	// carries the advisory violation.
	found := false
	for _, v := range res.Violations {
		if v.Rule == "betting_phase" && v.Severity == domain.SeverityWarn {
			found = true
		}
		if v.Severity == domain.SeverityBlock {
			t.Fatalf("unexpected blocking violation: %+v", v)
		}
	}
	if !found {
		t.Fatalf("expected betting_phase warning, got %+v", res.Violations)
	}
}
