package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"guildcore/internal/infra/persistence/postgres/testutil"
	"guildcore/pkg/domain"
)

func openStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore("postgres://stub/guildcore", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store, conn
}

func TestRunInTransactionSnapshotsBuckets(t *testing.T) {
	store, conn := openStubStore(t)

	var guild domain.Guild
	if _, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		created, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"})
		if err != nil {
			return err
		}
		guild = created
		return nil
	}); err != nil {
		t.Fatalf("transaction: %v", err)
	}

	payload, ok := conn.Buckets["guilds"]
	if !ok {
		t.Fatal("expected guilds bucket to be persisted")
	}
	var decoded map[string]domain.Guild
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("decode guilds bucket: %v", err)
	}
	if _, ok := decoded[guild.ID]; !ok {
		t.Fatalf("guild %s missing from snapshot", guild.ID)
	}
	// Every bucket is written on each snapshot, populated or not.
	if len(conn.Buckets) != 18 {
		t.Fatalf("expected 18 buckets, got %d", len(conn.Buckets))
	}
}

func TestNewStoreHydratesFromSnapshot(t *testing.T) {
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)

	wallet := domain.Wallet{MemberID: "m1", Currency: "semos", Balance: 40}
	wallet.ID = "w1"
	payload, err := json.Marshal(map[string]domain.Wallet{wallet.ID: wallet})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	conn.Buckets["wallets"] = payload

	store, err := NewStore("", nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	got, ok := store.GetWallet("w1")
	if !ok {
		t.Fatal("expected wallet hydrated from snapshot")
	}
	if got.Balance != 40 {
		t.Fatalf("expected balance 40, got %d", got.Balance)
	}
}

func TestPersistFailureSurfacesAsRetryable(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailExec = true

	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"})
		return err
	})
	if err == nil {
		t.Fatal("expected persist failure")
	}
	if !domain.Retryable(err) {
		t.Fatalf("persist failure must be retryable, got %v", err)
	}
}

func TestNewStoreFailsWhenUnreachable(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)

	_, err := NewStore("", nil)
	if err == nil {
		t.Fatal("expected ping failure")
	}
	if !domain.Retryable(err) {
		t.Fatalf("unreachable database must be retryable, got %v", err)
	}
}
