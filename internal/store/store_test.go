package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketTables = []string{"buckets", "tickets", "ticket_tags", "states", "tags", "filters"}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db3")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db3")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range ticketTables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_DoesNotSeed(t *testing.T) {
	s := createTestStore(t)

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM buckets").Scan(&count))
	assert.Zero(t, count)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/local.db3")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	require.NotNil(t, db)
	assert.NoError(t, db.Ping())
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, s.verifyPragma(tt.name, tt.expected))
		})
	}
}

func TestMigrations_Indexes(t *testing.T) {
	s := createTestStore(t)

	for _, index := range []string{"idx_ticket_tags_ticket", "idx_ticket_tags_tag", "idx_tickets_bucket"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='index' AND name=?",
			index,
		).Scan(&name)
		assert.NoError(t, err, "index %s", index)
	}
}

func TestMigrations_UpgradeFromV0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db3")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.db.Exec("DROP INDEX idx_ticket_tags_tag")
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 0")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.verifyPragma("user_version", "1"))
	var name string
	assert.NoError(t, s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_ticket_tags_tag'",
	).Scan(&name))
}

func TestTicketsColumnOrder(t *testing.T) {
	s := createTestStore(t)

	rows, err := s.db.Query("SELECT name FROM pragma_table_info('tickets') ORDER BY cid")
	require.NoError(t, err)
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		columns = append(columns, name)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, ticketColumns, columns)
}

func TestQuery_RunsStatement(t *testing.T) {
	s := createSeededStore(t)

	rows, err := s.Query(context.Background(), "SELECT name FROM buckets WHERE id = ?", 2)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "empty.bucket", name)
	assert.False(t, rows.Next())
	assert.NoError(t, rows.Err())
}
