package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"guildcore/internal/core"
	"guildcore/pkg/domain"
)

type gatewayFixture struct {
	svc    *core.Service
	guild  domain.Guild
	member domain.Member
	owner  domain.Member
	cycle  domain.Cycle
	pitch  domain.Pitch
}

func seedGateway(t *testing.T) gatewayFixture {
	t.Helper()
	ctx := context.Background()
	svc := core.NewInMemoryService(core.NewDefaultRulesEngine())
	now := time.Now().UTC()

	guild, _, err := svc.CreateGuild(ctx, domain.Guild{Name: "Evergreen", Slug: "evergreen"})
	if err != nil {
		t.Fatalf("create guild: %v", err)
	}
	member, _, err := svc.CreateMember(ctx, domain.Member{Name: "Ada", Email: "ada@evergreen.dev", GuildID: guild.ID, Role: domain.RoleBuilder})
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	owner, _, err := svc.CreateMember(ctx, domain.Member{Name: "Grace", Email: "grace@evergreen.dev", GuildID: guild.ID, Role: domain.RoleOwner})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	cycle, _, err := svc.CreateCycle(ctx, domain.Cycle{Name: "Cycle 1", GuildID: guild.ID, Phase: domain.PhaseBetting, StartsAt: now, EndsAt: now.Add(6 * 7 * 24 * time.Hour)})
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	pitch, _, err := svc.CreatePitch(ctx, domain.Pitch{Title: "Ledger floor", GuildID: guild.ID, CycleID: &cycle.ID, AuthorID: member.ID, Appetite: domain.AppetiteSmallBatch, Status: domain.PitchBet})
	if err != nil {
		t.Fatalf("create pitch: %v", err)
	}
	return gatewayFixture{svc: svc, guild: guild, member: member, owner: owner, cycle: cycle, pitch: pitch}
}

func (fx gatewayFixture) resolver() *StaticIdentityResolver {
	return NewStaticIdentityResolver(map[string]Identity{
		"ada-token":   {MemberID: fx.member.ID, GuildID: fx.guild.ID, DisplayName: "Ada"},
		"owner-token": {MemberID: fx.owner.ID, GuildID: fx.guild.ID, DisplayName: "Grace"},
		"stale-token": {MemberID: fx.member.ID, GuildID: fx.guild.ID, ExpiresAt: time.Now().UTC().Add(-time.Minute)},
	})
}

func TestExecuteRejectsMissingToken(t *testing.T) {
	fx := seedGateway(t)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	receipt, err := gw.Execute(context.Background(), "", CreatePitch{Pitch: domain.Pitch{
		Title: "Uninvited", GuildID: fx.guild.ID, AuthorID: fx.member.ID,
		Appetite: domain.AppetiteSmallBatch, Status: domain.PitchDraft,
	}})
	var authErr domain.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected authentication error, got %v", err)
	}
	if receipt.State != StateRejected {
		t.Fatalf("expected rejected receipt, got %s", receipt.State)
	}
	if got := len(fx.svc.Store().ListPitches()); got != 1 {
		t.Fatalf("rejected request must not touch storage, found %d pitches", got)
	}
}

func TestExecuteRejectsExpiredIdentity(t *testing.T) {
	fx := seedGateway(t)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	_, err := gw.Execute(context.Background(), "stale-token", RecordTimesheet{
		Sheet: domain.Timesheet{MemberID: fx.member.ID, CycleID: fx.cycle.ID, Minutes: 90, WorkedOn: time.Now().UTC()},
	})
	var authErr domain.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected authentication error for expired identity, got %v", err)
	}
	if sheets := fx.svc.Store().ListTimesheetsForMember(fx.member.ID); len(sheets) != 0 {
		t.Fatalf("expired identity must not record timesheets")
	}
}

func TestExecuteRejectsForeignGuild(t *testing.T) {
	fx := seedGateway(t)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	receipt, err := gw.Execute(context.Background(), "ada-token", CreatePitch{Pitch: domain.Pitch{
		Title: "Trespass", GuildID: "some-other-guild", AuthorID: fx.member.ID,
		Appetite: domain.AppetiteSmallBatch, Status: domain.PitchDraft,
	}})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if receipt.State != StateRejected {
		t.Fatalf("expected rejected receipt, got %s", receipt.State)
	}
}

func TestExecuteCommitsAndInvalidates(t *testing.T) {
	fx := seedGateway(t)
	recorder := &RecordingInvalidator{}
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{}, WithInvalidator(recorder))

	receipt, err := gw.Execute(context.Background(), "ada-token", CreatePitch{Pitch: domain.Pitch{
		Title: "Search revamp", GuildID: fx.guild.ID, CycleID: &fx.cycle.ID, AuthorID: fx.member.ID,
		Appetite: domain.AppetiteBigBatch, Status: domain.PitchPitched,
	}})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if receipt.State != StateDone {
		t.Fatalf("expected done receipt, got %s", receipt.State)
	}
	if receipt.RequestID == "" || receipt.CompletedAt.IsZero() {
		t.Fatalf("receipt missing identity or completion time: %+v", receipt)
	}
	if len(receipt.InvalidatedKeys) == 0 {
		t.Fatalf("expected invalidated keys on receipt")
	}
	if len(recorder.Keys) != len(receipt.InvalidatedKeys) {
		t.Fatalf("invalidator saw %d keys, receipt has %d", len(recorder.Keys), len(receipt.InvalidatedKeys))
	}

	wantKey := "cycles/" + fx.cycle.ID + "/pitches"
	found := false
	for _, key := range recorder.Keys {
		if key == wantKey {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected key %q among %v", wantKey, recorder.Keys)
	}
}

func TestExecuteFailedMutationSkipsInvalidation(t *testing.T) {
	fx := seedGateway(t)
	recorder := &RecordingInvalidator{}
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{}, WithInvalidator(recorder))

	receipt, err := gw.Execute(context.Background(), "ada-token", TransferPitch{
		PitchID: fx.pitch.ID, CycleID: "missing-cycle",
	})
	if err == nil {
		t.Fatalf("expected transfer to a missing cycle to fail")
	}
	if receipt.State != StateFailed {
		t.Fatalf("expected failed receipt, got %s", receipt.State)
	}
	if len(recorder.Keys) != 0 {
		t.Fatalf("failed mutation must not invalidate, got %v", recorder.Keys)
	}
}

func TestWalletPostingRequiresOwnWallet(t *testing.T) {
	fx := seedGateway(t)
	ctx := context.Background()

	ownerWallet, _, err := fx.svc.OpenWallet(ctx, domain.Wallet{MemberID: fx.owner.ID, Currency: "semos"})
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	_, err = gw.Execute(ctx, "ada-token", PostSemosTransaction{
		Entry: domain.SemosTransaction{WalletID: ownerWallet.ID, Amount: 10, Kind: domain.TransactionCredit},
	})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for foreign wallet, got %v", err)
	}

	// The guild owner may post against any wallet in the guild.
	if _, err := gw.Execute(ctx, "owner-token", PostSemosTransaction{
		Entry: domain.SemosTransaction{WalletID: ownerWallet.ID, Amount: 10, Kind: domain.TransactionCredit},
	}); err != nil {
		t.Fatalf("owner posting should pass: %v", err)
	}
}

func TestMintEmissionRequiresOwnerRole(t *testing.T) {
	fx := seedGateway(t)
	ctx := context.Background()

	wallet, _, err := fx.svc.OpenWallet(ctx, domain.Wallet{MemberID: fx.member.ID, Currency: "semos"})
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	emission := domain.SemosEmission{Amount: 100, Reason: "cycle close", WalletIDs: []string{wallet.ID}, MintedAt: time.Now().UTC()}

	_, err = gw.Execute(ctx, "ada-token", MintEmission{Emission: emission})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for builder minting, got %v", err)
	}

	receipt, err := gw.Execute(ctx, "owner-token", MintEmission{Emission: emission})
	if err != nil {
		t.Fatalf("owner minting should pass: %v", err)
	}
	wantKey := "wallets/" + wallet.ID
	if len(receipt.InvalidatedKeys) != 1 || receipt.InvalidatedKeys[0] != wantKey {
		t.Fatalf("expected %q invalidated, got %v", wantKey, receipt.InvalidatedKeys)
	}
}

func TestPlaceBetStakeMustMatchCaller(t *testing.T) {
	fx := seedGateway(t)
	ctx := context.Background()

	if _, _, err := fx.svc.OpenWallet(ctx, domain.Wallet{MemberID: fx.owner.ID, Currency: "semos"}); err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})

	_, err := gw.Execute(ctx, "ada-token", PlaceBet{Bet: domain.Bet{
		GuildID: fx.guild.ID, CycleID: fx.cycle.ID, PitchID: fx.pitch.ID, MemberID: &fx.owner.ID, Amount: 10,
	}})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for staking another member, got %v", err)
	}
}

type foreignGuildFixture struct {
	guild  domain.Guild
	member domain.Member
	cycle  domain.Cycle
	pitch  domain.Pitch
	wallet domain.Wallet
}

func seedForeignGuild(t *testing.T, svc *core.Service) foreignGuildFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	guild, _, err := svc.CreateGuild(ctx, domain.Guild{Name: "Ironwood", Slug: "ironwood"})
	if err != nil {
		t.Fatalf("create foreign guild: %v", err)
	}
	member, _, err := svc.CreateMember(ctx, domain.Member{Name: "Bram", Email: "bram@ironwood.dev", GuildID: guild.ID, Role: domain.RoleBuilder})
	if err != nil {
		t.Fatalf("create foreign member: %v", err)
	}
	cycle, _, err := svc.CreateCycle(ctx, domain.Cycle{Name: "Cycle 1", GuildID: guild.ID, Phase: domain.PhaseBuilding, StartsAt: now, EndsAt: now.Add(6 * 7 * 24 * time.Hour)})
	if err != nil {
		t.Fatalf("create foreign cycle: %v", err)
	}
	pitch, _, err := svc.CreatePitch(ctx, domain.Pitch{Title: "Forge upkeep", GuildID: guild.ID, CycleID: &cycle.ID, AuthorID: member.ID, Appetite: domain.AppetiteSmallBatch, Status: domain.PitchScheduled})
	if err != nil {
		t.Fatalf("create foreign pitch: %v", err)
	}
	wallet, _, err := svc.OpenWallet(ctx, domain.Wallet{MemberID: member.ID, Currency: "semos"})
	if err != nil {
		t.Fatalf("open foreign wallet: %v", err)
	}
	return foreignGuildFixture{guild: guild, member: member, cycle: cycle, pitch: pitch, wallet: wallet}
}

func TestExecuteResolvesTargetGuildFromStore(t *testing.T) {
	fx := seedGateway(t)
	foreign := seedForeignGuild(t, fx.svc)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})
	ctx := context.Background()

	// Logging time against another guild's cycle must fail no matter what the
	// caller claims about their own membership.
	receipt, err := gw.Execute(ctx, "ada-token", RecordTimesheet{
		Sheet: domain.Timesheet{MemberID: fx.member.ID, CycleID: foreign.cycle.ID, Minutes: 60, WorkedOn: time.Now().UTC()},
	})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for foreign cycle, got %v", err)
	}
	if receipt.State != StateRejected {
		t.Fatalf("expected rejected receipt, got %s", receipt.State)
	}
	if sheets := fx.svc.Store().ListTimesheetsForMember(fx.member.ID); len(sheets) != 0 {
		t.Fatalf("cross-guild timesheet must not be stored, found %d", len(sheets))
	}

	// Moving another guild's pitch is rejected before execution.
	if _, err := gw.Execute(ctx, "ada-token", TransferPitch{PitchID: foreign.pitch.ID, CycleID: fx.cycle.ID}); !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for foreign pitch, got %v", err)
	}
	if got, _ := fx.svc.Store().GetPitch(foreign.pitch.ID); *got.CycleID != foreign.cycle.ID {
		t.Fatalf("foreign pitch moved to cycle %s", *got.CycleID)
	}

	// Posting against a wallet in another guild is rejected even though the
	// entry itself is well formed.
	if _, err := gw.Execute(ctx, "ada-token", PostSemosTransaction{
		Entry: domain.SemosTransaction{WalletID: foreign.wallet.ID, Amount: 10, Kind: domain.TransactionCredit},
	}); !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for foreign wallet, got %v", err)
	}
}

func TestOwnerStaysInsideOwnGuild(t *testing.T) {
	fx := seedGateway(t)
	foreign := seedForeignGuild(t, fx.svc)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})
	ctx := context.Background()

	var authz domain.AuthorizationError
	if _, err := gw.Execute(ctx, "owner-token", PostSemosTransaction{
		Entry: domain.SemosTransaction{WalletID: foreign.wallet.ID, Amount: 10, Kind: domain.TransactionCredit},
	}); !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for owner posting outside the guild, got %v", err)
	}
	if wallet, _ := fx.svc.Store().GetWallet(foreign.wallet.ID); wallet.Balance != 0 {
		t.Fatalf("foreign wallet balance moved to %d", wallet.Balance)
	}

	if _, err := gw.Execute(ctx, "owner-token", MintEmission{
		Emission: domain.SemosEmission{Amount: 50, Reason: "raid", WalletIDs: []string{foreign.wallet.ID}, MintedAt: time.Now().UTC()},
	}); !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for cross-guild emission, got %v", err)
	}
}

func TestTimesheetBelongsToCaller(t *testing.T) {
	fx := seedGateway(t)
	gw := New(fx.svc, fx.resolver(), GuildAuthorizer{})
	ctx := context.Background()

	sheet := domain.Timesheet{MemberID: fx.owner.ID, CycleID: fx.cycle.ID, Minutes: 45, WorkedOn: time.Now().UTC()}
	_, err := gw.Execute(ctx, "ada-token", RecordTimesheet{Sheet: sheet})
	var authz domain.AuthorizationError
	if !errors.As(err, &authz) {
		t.Fatalf("expected authorization error for logging another member's time, got %v", err)
	}

	// Owners may record on behalf of guild members.
	adaSheet := domain.Timesheet{MemberID: fx.member.ID, CycleID: fx.cycle.ID, Minutes: 45, WorkedOn: time.Now().UTC()}
	if _, err := gw.Execute(ctx, "owner-token", RecordTimesheet{Sheet: adaSheet}); err != nil {
		t.Fatalf("owner recording for a member should pass: %v", err)
	}
	if sheets := fx.svc.Store().ListTimesheetsForMember(fx.member.ID); len(sheets) != 1 {
		t.Fatalf("expected one recorded timesheet, got %d", len(sheets))
	}
}
