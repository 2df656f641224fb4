package testutil

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/abrezinsky/hockeyscorer/internal/kvstore"
	"github.com/abrezinsky/hockeyscorer/internal/logger"
	"github.com/abrezinsky/hockeyscorer/internal/repository"
)

// Epoch is the time every fake clock starts at
var Epoch = time.Date(2025, time.May, 12, 10, 0, 0, 0, time.UTC)

// NewClock returns a fake clock set to Epoch
func NewClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(Epoch)
}

// NewTestRepository creates a repository over a fresh in-memory key-value
// store. Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()
	repo, _ := NewTestRepositoryWithStore(t, kvstore.NewMemoryStore(), NewClock())
	return repo
}

// NewTestRepositoryWithStore opens a repository over kv, so tests can reopen
// the same stored image or inspect what was persisted.
func NewTestRepositoryWithStore(t *testing.T, kv kvstore.Store, clock clockwork.Clock) (*repository.Repository, kvstore.Store) {
	t.Helper()

	repo, err := repository.New(kv, logger.Discard(), clock)
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo, kv
}
