package testsupport

import (
	"testing"

	"moviebuddy/internal/config"
	"moviebuddy/internal/store"
)

// MustOpenStore opens the artifact store named by cfg and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg.Artifacts.DatabaseFile)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
