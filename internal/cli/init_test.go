package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesMaster(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/unused.csv", false)

	stdout, _, err := env.execute("init")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Master file ready: "+env.masterPath)
	info, err := os.Stat(env.masterPath)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestInitKeepsExistingMaster(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/unused.csv", false)
	require.NoError(t, os.MkdirAll(filepath.Join(env.dir, "input"), 0755))
	existing := "Station/Location;Date;gre000z0\nABO;202410160900;12\n"
	require.NoError(t, writeFile(env.masterPath, existing))

	_, _, err := env.execute("init")
	require.NoError(t, err)
	assert.Equal(t, existing, env.readMaster(t))
}

func TestInitJSON(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:1/unused.csv", false)

	stdout, _, err := env.execute("init", "--format", "json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, env.masterPath, data["master_path"])
}
