package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"guildcore/pkg/domain"
)

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guildcore.db")

	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	var guild domain.Guild
	var wallet domain.Wallet
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		g, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"})
		if err != nil {
			return err
		}
		guild = g
		member, err := tx.CreateMember(domain.Member{
			Name:    "Ada",
			Email:   "ada@example.com",
			GuildID: g.ID,
			Role:    domain.RoleOwner,
		})
		if err != nil {
			return err
		}
		wallet, err = tx.CreateWallet(domain.Wallet{MemberID: member.ID, Currency: "semos"})
		if err != nil {
			return err
		}
		_, err = tx.PostSemosTransaction(domain.SemosTransaction{
			WalletID: wallet.ID,
			Amount:   120,
			Kind:     domain.TransactionCredit,
		})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if _, ok := reopened.GetGuild(guild.ID); !ok {
		t.Fatalf("guild %s missing after reopen", guild.ID)
	}
	w, ok := reopened.GetWallet(wallet.ID)
	if !ok {
		t.Fatalf("wallet %s missing after reopen", wallet.ID)
	}
	if w.Balance != 120 {
		t.Fatalf("expected balance 120 after reopen, got %d", w.Balance)
	}
	if history := reopened.ListSemosTransactions(wallet.ID); len(history) != 1 {
		t.Fatalf("expected 1 ledger entry after reopen, got %d", len(history))
	}
}

func TestStoreDoesNotPersistFailedTransactions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guildcore.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"}); err != nil {
			return err
		}
		return errors.New("abort")
	}); err == nil {
		t.Fatal("expected transaction error")
	}

	if guilds := store.ListGuilds(); len(guilds) != 0 {
		t.Fatalf("expected empty store, found %d guilds", len(guilds))
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count state rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed transaction must not snapshot, found %d buckets", count)
	}
}

func TestNewStoreDefaultsPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "guildcore.db")
	store, err := NewStore(path, nil)
	if err != nil {
		t.Fatalf("open store with nested path: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Path() != path {
		t.Fatalf("unexpected path %s", store.Path())
	}
}
