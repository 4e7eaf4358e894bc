package testsupport

import (
	"testing"

	"audiosort/internal/config"
	"audiosort/internal/history"
)

// MustOpenJournal opens a history.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
