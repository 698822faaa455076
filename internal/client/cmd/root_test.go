package cmd

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"personnel/internal/server/httpapi"
	"personnel/internal/server/repository/sqlite"
	"personnel/internal/server/service"
	"personnel/internal/shared/models"
)

// backend starts the real HTTP API over an in-memory database and points
// the client configuration at it.
func backend(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	repo, err := sqlite.New("file:cli_" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	srv := httptest.NewServer(httpapi.NewRouter(service.NewServices(repo), nil, httpapi.Options{MaxRequestBytes: 1 << 20}))
	t.Cleanup(srv.Close)

	t.Chdir(t.TempDir())
	t.Setenv("PERSONNEL_API_URL", srv.URL+"/personnel")
	t.Setenv("PERSONNEL_TIMEZONE", "UTC")
	t.Setenv("PERSONNEL_LOG_FILE", "")
	return srv.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd("1.0.0", "2025-08-13")
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	require.NoError(t, err)
	return out
}

func TestVersion(t *testing.T) {
	backend(t)
	assert.Equal(t, "personnel 1.0.0 (2025-08-13)\n", mustRun(t, "version"))
}

func TestAddListGet(t *testing.T) {
	backend(t)

	assert.Equal(t, "no records found.\n", mustRun(t, "list"))

	out := mustRun(t, "add", "--id", "1000000000001", "--name", "Alice",
		"--tel", "13800000001", "--email", "alice@example.com", "--hobby", "go")
	assert.Equal(t, "personnel [Alice] created successfully\n", out)
	mustRun(t, "add", "--id", "1000000000002", "--name", "Bob",
		"--tel", "13800000002", "--email", "bob@example.com")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "count: 2")
	assert.NotContains(t, out, "Actions")

	var list models.PersonList
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "list", "-o", "json", "--mode", "descend")), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Bob", list.Items[0].Name)
	assert.Nil(t, list.Items[0].Hobby)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(mustRun(t, "get", "1000000000001", "-o", "yaml")), &doc))
	items := doc["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "go", items[0].(map[string]any)["hobby"])
}

func TestListRejectsBadFlags(t *testing.T) {
	backend(t)
	_, err := run(t, "", "list", "--mode", "sideways")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --mode")

	_, err = run(t, "", "list", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestAddShowsValidationMessage(t *testing.T) {
	backend(t)
	_, err := run(t, "", "add", "--id", "1000000000001", "--name", "Alice",
		"--tel", "23800000001", "--email", "alice@example.com")
	require.Error(t, err)
	assert.Equal(t, "tel: tel must be 11 digits starting with 1", err.Error())
}

func TestGetMissing(t *testing.T) {
	backend(t)
	_, err := run(t, "", "get", "1999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUpdate(t *testing.T) {
	backend(t)
	mustRun(t, "add", "--id", "1000000000001", "--name", "Alice",
		"--tel", "13800000001", "--email", "alice@example.com", "--hobby", "go")

	_, err := run(t, "", "update", "1000000000001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")

	_, err = run(t, "", "update", "1000000000001", "--hobby", "x", "--clear-hobby")
	require.Error(t, err)

	out := mustRun(t, "update", "1000000000001", "--name", "Alicia", "--clear-hobby")
	assert.Equal(t, "personnel [Alicia] updated successfully\n", out)

	var list models.PersonList
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, "get", "1000000000001", "-o", "json")), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Alicia", list.Items[0].Name)
	assert.Equal(t, "alice@example.com", list.Items[0].Email)
	assert.Nil(t, list.Items[0].Hobby)

	mustRun(t, "update", "1000000000001", "--id", "1000000000009")
	_, err = run(t, "", "get", "1000000000001")
	require.Error(t, err)
	mustRun(t, "get", "1000000000009")
}

func TestDeleteAsksFirst(t *testing.T) {
	backend(t)
	mustRun(t, "add", "--id", "1000000000001", "--name", "Alice",
		"--tel", "13800000001", "--email", "alice@example.com")

	out, err := run(t, "n\n", "delete", "1000000000001")
	require.NoError(t, err)
	assert.Contains(t, out, "Delete personnel [1000000000001]? [y/N]")
	assert.Contains(t, out, "cancelled")
	mustRun(t, "get", "1000000000001")

	out, err = run(t, "y\n", "delete", "1000000000001")
	require.NoError(t, err)
	assert.Contains(t, out, "personnel [1000000000001] deleted successfully")

	_, err = run(t, "", "delete", "1000000000001", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestServerFlagOverridesConfig(t *testing.T) {
	url := backend(t)
	t.Setenv("PERSONNEL_API_URL", "http://127.0.0.1:1/personnel")

	_, err := run(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network error")

	out, err := run(t, "", "--server", url+"/personnel", "list")
	require.NoError(t, err)
	assert.Equal(t, "no records found.\n", out)
}
