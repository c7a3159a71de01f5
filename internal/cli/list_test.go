package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBiochemic/tickets/internal/store"
)

func ticketTitles(tickets []store.Ticket) []string {
	titles := make([]string, len(tickets))
	for i, t := range tickets {
		titles[i] = t.Title
	}
	return titles
}

func decodeListResult(t *testing.T, output string) ListResult {
	t.Helper()
	var resp struct {
		Status string     `json:"status"`
		Data   ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestListExpression(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, sampleTickets()...)

	output, err := env.run(t, "list", "with_state(open)")
	require.NoError(t, err)
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "Crash in login")
	assert.NotContains(t, output, "Write the manual")
}

func TestListExpressionJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, sampleTickets()...)

	tests := []struct {
		expr string
		want []string
	}{
		{"assigned_to(::me)", []string{"Crash in login"}},
		{"with_tag(documentation)", []string{"Write the manual", "Release notes"}},
		{"in_bucket(empty.bucket)", []string{"Release notes"}},
		{"with_state(new);;with_state(done)", []string{"Write the manual", "Release notes"}},
		{"with_state(live)", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			output, err := env.run(t, "--format", "json", "list", tc.expr)
			require.NoError(t, err)

			result := decodeListResult(t, output)
			assert.Equal(t, tc.expr, result.Expression)
			assert.Equal(t, len(tc.want), result.Count)
			assert.ElementsMatch(t, tc.want, ticketTitles(result.Tickets))
		})
	}
}

func TestListNoMatches(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, sampleTickets()...)

	output, err := env.run(t, "list", "with_state(live)")
	require.NoError(t, err)
	assert.Equal(t, "No tickets match.\n", output)
}

func TestListSavedFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, sampleTickets()...)

	output, err := env.run(t, "--format", "json", "list", "--filter", "local_state_new")
	require.NoError(t, err)

	result := decodeListResult(t, output)
	assert.Equal(t, "local_state_new", result.Filter)
	assert.Equal(t, []string{"Write the manual"}, ticketTitles(result.Tickets))
}

func TestListUnknownFilter(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	output, err := env.run(t, "list", "--filter", "missing")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "Error ["+ErrCodeNotFound+"]")
}

func TestListInvalidExpression(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	output, err := env.run(t, "list", "with_state(open")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "Error ["+ErrCodeExpression+"]")
}

func TestListNeedsExactlyOneSource(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = env.run(t, "list", "--filter", "local_state_new", "with_state(open)")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestListCreatesDatabase(t *testing.T) {
	env := newTestEnv(t)

	// The database does not exist yet; list creates and seeds it.
	output, err := env.run(t, "--format", "json", "list", "--filter", "local_tag_doc")
	require.NoError(t, err)
	assert.Empty(t, decodeListResult(t, output).Tickets)
	assert.FileExists(t, env.db)
}

func TestWriteTicketTable(t *testing.T) {
	buf := &bytes.Buffer{}
	due := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	err := writeTicketTable(buf, []store.Ticket{
		{ID: 1, BucketID: 1, Title: "Crash in login", State: "open", AssignedTo: "biochemist", Tags: []string{"bug", "blocker"}, DueAt: due},
		{ID: 2, BucketID: 2, Title: "Release notes", State: "done"},
	})
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[1]), "biochemist")
	assert.Contains(t, string(lines[1]), "2024-03-01")
	assert.Contains(t, string(lines[1]), "bug,blocker")
	assert.Contains(t, string(lines[2]), "Release notes")
	assert.Contains(t, string(lines[2]), "-")
}
