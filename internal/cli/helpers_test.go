package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TheBiochemic/tickets/internal/store"
)

// testEnv is an isolated config file and database path.
type testEnv struct {
	dir    string
	config string
	db     string
}

// newTestEnv writes a tickets.yaml into a temporary directory. The
// database it names does not exist yet.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:    dir,
		config: filepath.Join(dir, "tickets.yaml"),
		db:     filepath.Join(dir, "tickets.db3"),
	}

	content := strings.Join([]string{
		"username: biochemist",
		"database:",
		"  path: " + env.db,
		"  include_default_data: true",
		"adapter:",
		"  name: local",
		"  display: Local Tickets",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0o644))
	return env
}

// run executes the root command with the env's config and returns what
// was written to stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e testEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// seed initializes the database and writes tickets into it.
func (e testEnv) seed(t *testing.T, tickets ...store.Ticket) {
	t.Helper()
	_, err := e.run(t, "init")
	require.NoError(t, err)

	st, err := store.Open(e.db)
	require.NoError(t, err)
	defer st.Close()

	for i := range tickets {
		require.NoError(t, st.WriteTicket(context.Background(), &tickets[i]))
	}
}

// sampleTickets live in the seeded default.bucket (id 1) and empty.bucket (id 2).
func sampleTickets() []store.Ticket {
	return []store.Ticket{
		{BucketID: 1, Title: "Crash in login", State: "open", AssignedTo: "biochemist", Tags: []string{"bug"}},
		{BucketID: 1, Title: "Write the manual", State: "new", Tags: []string{"documentation"}},
		{BucketID: 2, Title: "Release notes", State: "done", AssignedTo: "alice", Tags: []string{"documentation"}},
	}
}
