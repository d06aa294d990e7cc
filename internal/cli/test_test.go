package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testScenario = `
name: people
description: "Enumerate people and probe accounts"
mappings: mappings
data: data.nq
flow:
  - op: list
    entity: person
    expect:
      count: 2
  - op: exists
    entity: account
    id: http://example.org/acct/1
    expect:
      exists: true
assertions:
  - type: query_contains
    op: exists
    text: "from <urn:graph:accounts>"
  - type: store_size
    count: 5
`

// newScenarioDir writes a scenario with its mappings and data into a temp dir.
func newScenarioDir(t *testing.T, scenario string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "mappings"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mappings", "people.cue"), []byte(testMappings), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data.nq"), []byte(testData), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.yaml"), []byte(scenario), 0o644))
	return dir
}

func TestTestCommand_Passes(t *testing.T) {
	dir := newScenarioDir(t, testScenario)

	out, err := runCLI(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ people")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_FailingExpectation(t *testing.T) {
	dir := newScenarioDir(t, testScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(`
name: broken
description: "Expects a person that is not there"
mappings: mappings
data: data.nq
flow:
  - op: exists
    entity: person
    id: http://example.org/people/carol
    expect:
      exists: true
`), 0o644))

	out, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken")
	assert.Contains(t, out, "expected exists=true, got false")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := newScenarioDir(t, testScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("not: [valid"), 0o644))

	out, err := runCLI(t, "test", dir, "--filter", "peo*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
}

func TestTestCommand_LoadErrorFailsScenario(t *testing.T) {
	dir := newScenarioDir(t, testScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\n"), 0o644))

	out, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommand_Golden(t *testing.T) {
	dir := newScenarioDir(t, testScenario)
	golden := filepath.Join(dir, "golden", "people.golden")

	_, err := runCLI(t, "test", dir, "--update")
	require.NoError(t, err)
	require.FileExists(t, golden)

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "people"`)
	assert.Contains(t, string(data), `from <urn:graph:accounts>`)

	_, err = runCLI(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0o644))
	out, err := runCLI(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := newScenarioDir(t, testScenario)

	out, err := runCLI(t, "--format", "json", "test", dir)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Passed)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "people", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_JSONFailure(t *testing.T) {
	dir := newScenarioDir(t, testScenario)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\n"), 0o644))

	out, err := runCLI(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_NoScenarios(t *testing.T) {
	out, err := runCLI(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, err := runCLI(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
