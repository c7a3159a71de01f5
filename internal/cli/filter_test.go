package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBiochemic/tickets/internal/adapter"
)

func TestFilterList(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	output, err := env.run(t, "filter", "ls")
	require.NoError(t, err)
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "local_state_new")
	assert.Contains(t, output, "assigned_to(::me)")
}

func TestFilterListJSON(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.run(t, "filter", "save", "mine", "with_tag(bug)")
	require.NoError(t, err)

	output, err := env.run(t, "--format", "json", "filter", "ls")
	require.NoError(t, err)

	var resp struct {
		Status string               `json:"status"`
		Data   []adapter.FilterInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.Len(t, resp.Data, 5)

	builtin := map[string]bool{}
	for _, f := range resp.Data {
		builtin[f.Name] = f.Builtin
	}
	assert.True(t, builtin["local_state_new"])
	assert.False(t, builtin["mine"])
}

func TestFilterSaveAndList(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, sampleTickets()...)

	output, err := env.run(t, "filter", "save", "mine", "assigned_to(::me) with_tag(bug)")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Saved filter mine")

	output, err = env.run(t, "--format", "json", "list", "--filter", "mine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Crash in login"}, ticketTitles(decodeListResult(t, output).Tickets))

	// Saving again replaces the expression.
	_, err = env.run(t, "filter", "save", "mine", "with_state(done)")
	require.NoError(t, err)
	output, err = env.run(t, "--format", "json", "list", "--filter", "mine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Release notes"}, ticketTitles(decodeListResult(t, output).Tickets))
}

func TestFilterSaveFromStdin(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.runWithInput(t, "with_state(open)\n", "filter", "save", "piped", "-")
	require.NoError(t, err)

	output, err := env.run(t, "filter", "ls")
	require.NoError(t, err)
	assert.Contains(t, output, "piped")
}

func TestFilterSaveInvalidExpression(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	output, err := env.run(t, "filter", "save", "broken", "with_state()")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "Error ["+ErrCodeExpression+"]")
	assert.Contains(t, output, "(...) cannot be empty!")
}

func TestFilterBuiltinIsReadOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	output, err := env.run(t, "filter", "save", "local_state_new", "with_state(open)")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "Error ["+ErrCodeReadOnly+"]")

	output, err = env.run(t, "filter", "drop", "local_state_new")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "Error ["+ErrCodeReadOnly+"]")
}

func TestFilterDrop(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t)

	_, err := env.run(t, "filter", "save", "mine", "with_tag(bug)")
	require.NoError(t, err)

	output, err := env.run(t, "filter", "drop", "mine")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Dropped filter mine")

	output, err = env.run(t, "--format", "json", "filter", "drop", "mine")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, map[string]any{"filter": "mine"}, resp.Error.Details)
}
