package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/TheBiochemic/tickets/internal/testutil"
)

// createTestStore creates a new empty store in a temporary directory with a
// deterministic clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db3")
	s, err := Open(path, WithClock(testutil.NewDeterministicClock()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a test store seeded for the "local" adapter.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	if err := s.Seed(context.Background(), "local"); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	return s
}

// writeTestTicket writes a ticket and fails the test on error.
func writeTestTicket(t *testing.T, s *Store, ticket Ticket) Ticket {
	t.Helper()
	if err := s.WriteTicket(context.Background(), &ticket); err != nil {
		t.Fatalf("WriteTicket(%q) failed: %v", ticket.Title, err)
	}
	return ticket
}
