package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/sap-board/internal/model"
)

// cliEnv points every path the CLI touches into a temp dir.
func cliEnv(t *testing.T, backend string) []string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SAPBOARD_LOG_PATH", filepath.Join(dir, "sapboard.log"))

	db := filepath.Join(dir, "board.db")
	if backend == model.BackendSettings {
		db = filepath.Join(dir, "board.yaml")
	}
	return []string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--env-file", filepath.Join(dir, "missing.env"),
		"--db", db,
		"--backend", backend,
	}
}

func runCLI(t *testing.T, base []string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, run(append(append([]string{}, base...), args...), &out))
	return out.String()
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &out))
	assert.Equal(t, "sapboard dev\n", out.String())
}

func TestAddListDelete(t *testing.T) {
	for _, backend := range []string{model.BackendSQLite, model.BackendSettings} {
		t.Run(backend, func(t *testing.T) {
			base := cliEnv(t, backend)

			runCLI(t, base, "add", "Office", "closed")
			runCLI(t, base, "add", "Meeting at 5pm")

			var entries []listEntry
			require.NoError(t, json.Unmarshal([]byte(runCLI(t, base, "list", "--json")), &entries))
			require.Len(t, entries, 2)
			assert.Equal(t, "Meeting at 5pm", entries[0].Text)
			assert.Equal(t, 0, entries[0].Position)
			assert.Equal(t, "Office closed", entries[1].Text)
			assert.Equal(t, model.DateOf(time.Now()), entries[1].Date)

			runCLI(t, base, "rm", "1")
			out := runCLI(t, base, "list")
			assert.Contains(t, out, "Meeting at 5pm")
			assert.NotContains(t, out, "Office closed")
		})
	}
}

func TestListWindowFlag(t *testing.T) {
	base := cliEnv(t, model.BackendSQLite)
	runCLI(t, base, "add", "fresh")

	out := runCLI(t, base, "-w", "today", "list")
	assert.Contains(t, out, "fresh")
}

func TestCommandErrors(t *testing.T) {
	base := cliEnv(t, model.BackendSQLite)
	var out bytes.Buffer

	assert.Error(t, run(append(base, "add", "  "), &out))
	assert.Error(t, run(append(base, "delete", "0"), &out))
	assert.Error(t, run(append(base, "delete", "zero"), &out))
	assert.Error(t, run(append(base, "delete"), &out))
	assert.Error(t, run(append(base, "--window", "fortnight", "list"), &out))
	assert.Error(t, run(append(base, "frobnicate"), &out))
}

func TestScopes(t *testing.T) {
	base := cliEnv(t, model.BackendSQLite)
	runCLI(t, base, "--scope", "team/a", "add", "hello")
	runCLI(t, base, "--scope", "team/b", "add", "hi")

	assert.Equal(t, "team/a\nteam/b\n", runCLI(t, base, "scopes"))

	var out bytes.Buffer
	assert.Error(t, run(append(cliEnv(t, model.BackendSettings), "scopes"), &out))
}

func TestInitConfig(t *testing.T) {
	base := cliEnv(t, model.BackendSettings)
	out := runCLI(t, base, "--scope", "lab", "init-config")
	assert.Contains(t, out, "wrote")

	raw, err := os.ReadFile(base[1])
	require.NoError(t, err)
	assert.Contains(t, string(raw), "backend: settings")
	assert.Contains(t, string(raw), "scope: lab")
}

func TestEnvFileOverrides(t *testing.T) {
	base := cliEnv(t, model.BackendSQLite)
	envFile := filepath.Join(t.TempDir(), "board.env")
	require.NoError(t, os.WriteFile(envFile, []byte("SAPBOARD_STORAGE_SCOPE=from-env\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("SAPBOARD_STORAGE_SCOPE") })

	runCLI(t, base, "--env-file", envFile, "add", "hello")
	assert.Equal(t, "from-env\n", runCLI(t, base, "scopes"))
}

func TestSettingsBackendDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SAPBOARD_LOG_PATH", filepath.Join(home, "sapboard.log"))
	base := []string{
		"--config", filepath.Join(home, "config.yaml"),
		"--env-file", filepath.Join(home, "missing.env"),
	}

	runCLI(t, base, "add", "from sqlite")
	runCLI(t, base, "--backend", "settings", "add", "from settings")

	assert.FileExists(t, filepath.Join(home, ".local", "share", "sapboard", "board.db"))
	assert.FileExists(t, filepath.Join(home, ".local", "share", "sapboard", "settings.yaml"))

	out := runCLI(t, base, "--backend", "settings", "list")
	assert.Contains(t, out, "from settings")
	assert.NotContains(t, out, "from sqlite")
}
