package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv is a throwaway deployment: a config file whose paths all live
// under one temp dir.
type testEnv struct {
	dir        string
	configPath string
	masterPath string
	logPath    string
	ledgerPath string
}

func newTestEnv(t *testing.T, url string, withLedger bool) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "meteofetch.yaml"),
		masterPath: filepath.Join(dir, "input", "master.csv"),
		logPath:    filepath.Join(dir, "fetch.log"),
	}
	if withLedger {
		env.ledgerPath = filepath.Join(dir, "ledger.db")
	}

	cfg := fmt.Sprintf(`url: %q
master_path: %q
input_dir: %q
log_path: %q
ledger_path: %q
interval: 1s
timeout: 5s
`, url, env.masterPath, filepath.Join(dir, "input"), env.logPath, env.ledgerPath)
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0644))
	return env
}

// execute runs the root command with args and returns stdout and stderr.
func (e testEnv) execute(args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, "--config", e.configPath))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e testEnv) readMaster(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.masterPath)
	require.NoError(t, err)
	return string(data)
}

func (e testEnv) readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.logPath)
	require.NoError(t, err)
	return string(data)
}

// radiationCSV builds a feed body: header, rows, and a four-line trailer.
func radiationCSV(rows ...string) []byte {
	var b strings.Builder
	b.WriteString("Station/Location;Date;gre000z0\n")
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	b.WriteString("\n")
	b.WriteString("Stations: see metadata\n")
	b.WriteString("Source: MeteoSwiss\n")
	b.WriteString("Licence: open data\n")
	return []byte(b.String())
}
