package core

import (
	"fmt"
	"os"
	"strconv"

	"guildcore/internal/infra/persistence/memory"
	"guildcore/internal/infra/persistence/postgres"
	"guildcore/internal/infra/persistence/sqlite"
	"guildcore/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to sqlite when unset.
//
//	GUILDCORE_STORAGE_DRIVER: memory|sqlite|postgres (default sqlite)
//	GUILDCORE_SQLITE_PATH: path to sqlite file (default ./guildcore.db)
//	GUILDCORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	GUILDCORE_LEDGER_FLOOR: minimum wallet balance in semos cents (default 0)
func OpenPersistentStore(engine *domain.RulesEngine) (PersistentStore, error) {
	policy, err := ledgerPolicyFromEnv()
	if err != nil {
		return nil, err
	}

	driver := os.Getenv("GUILDCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStoreWithPolicy(engine, policy), nil
	case StorageSQLite:
		path := os.Getenv("GUILDCORE_SQLITE_PATH")
		return sqlite.NewStoreWithPolicy(path, engine, policy)
	case StoragePostgres:
		dsn := os.Getenv("GUILDCORE_POSTGRES_DSN")
		return postgres.NewStoreWithPolicy(dsn, engine, policy)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

func ledgerPolicyFromEnv() (domain.LedgerPolicy, error) {
	policy := domain.DefaultLedgerPolicy()
	raw := os.Getenv("GUILDCORE_LEDGER_FLOOR")
	if raw == "" {
		return policy, nil
	}
	floor, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return domain.LedgerPolicy{}, fmt.Errorf("parse GUILDCORE_LEDGER_FLOOR: %w", err)
	}
	policy.Floor = floor
	return policy, nil
}
