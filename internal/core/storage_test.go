package core

import (
	"context"
	"path/filepath"
	"testing"

	"guildcore/internal/infra/persistence/memory"
	"guildcore/internal/infra/persistence/sqlite"
	"guildcore/pkg/domain"
)

func TestOpenPersistentStoreDefaultsToSQLite(t *testing.T) {
	t.Setenv("GUILDCORE_STORAGE_DRIVER", "")
	t.Setenv("GUILDCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "guildcore.db"))

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	sqliteStore, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected *sqlite.Store, got %T", store)
	}
	defer sqliteStore.Close()

	if _, err := store.RunInTransaction(context.Background(), func(tx Transaction) error {
		_, err := tx.CreateGuild(domain.Guild{Name: "Evergreen", Slug: "evergreen"})
		return err
	}); err != nil {
		t.Fatalf("transaction through sqlite store: %v", err)
	}
}

func TestOpenPersistentStoreMemory(t *testing.T) {
	t.Setenv("GUILDCORE_STORAGE_DRIVER", "memory")

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", store)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	t.Setenv("GUILDCORE_STORAGE_DRIVER", "etcd")
	if _, err := OpenPersistentStore(NewDefaultRulesEngine()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenPersistentStoreLedgerFloor(t *testing.T) {
	t.Setenv("GUILDCORE_STORAGE_DRIVER", "memory")
	t.Setenv("GUILDCORE_LEDGER_FLOOR", "-100")

	store, err := OpenPersistentStore(NewDefaultRulesEngine())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	mem := store.(*memory.Store)
	if mem.Policy().Floor != -100 {
		t.Fatalf("expected floor -100, got %d", mem.Policy().Floor)
	}

	t.Setenv("GUILDCORE_LEDGER_FLOOR", "not-a-number")
	if _, err := OpenPersistentStore(NewDefaultRulesEngine()); err == nil {
		t.Fatalf("expected parse error for bad floor")
	}
}
