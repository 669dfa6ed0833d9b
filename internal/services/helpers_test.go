package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loneus/cv-builder/internal/config"
	"loneus/cv-builder/internal/repositories"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// One connection keeps a single in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return db
}

type harness struct {
	bus      *ErrorBus
	gateway  PersistenceGateway
	profiles repositories.ProfileRepository
	docs     repositories.DocumentRepository
	accounts repositories.AccountRepository
}

func newHarness(t *testing.T, indexer ProfileIndexer) *harness {
	t.Helper()

	db := newTestDB(t)
	bus := NewErrorBus()
	dispatcher := NewDispatcher(bus, 1, 32, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	dispatcher.Start(ctx)
	t.Cleanup(func() {
		dispatcher.Stop()
		cancel()
	})

	profiles := repositories.NewProfileRepository(db)
	docs := repositories.NewDocumentRepository(db)

	return &harness{
		bus:      bus,
		gateway:  NewPersistenceGateway(profiles, docs, dispatcher, indexer),
		profiles: profiles,
		docs:     docs,
		accounts: repositories.NewAccountRepository(db),
	}
}

func waitFor(t *testing.T, pending *PendingWrite) error {
	t.Helper()

	if pending == nil {
		t.Fatal("expected a pending write")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return pending.Wait(ctx)
}
