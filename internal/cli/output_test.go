package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/meteofetch/internal/store"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"master_path": "master.csv"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeTransportError, "HTTP request error: 503 Service Unavailable", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TRANSPORT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "503")
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:    "text",
		Writer:    out,
		ErrWriter: errOut,
		Verbose:   true,
	}

	err := formatter.Error(ErrCodeDataError, "An error occurred: bad row", map[string]int{"line": 3})
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E_DATA]: An error occurred: bad row")
	assert.Contains(t, errOut.String(), "Details:")
}

func TestOutputFormatter_TextErrorWithoutVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeDataError, "boom", map[string]int{"line": 3}))
	assert.Contains(t, buf.String(), "Error [E_DATA]: boom")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("Master file ready: master.csv"))
	assert.Equal(t, "Master file ready: master.csv\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "cycle failed", errors.New("x"))), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	inner := errors.New("connection refused")
	err := WrapExitError(ExitFailure, "cycle failed", inner)

	assert.Equal(t, "cycle failed: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
}

func TestWriteCycleTable(t *testing.T) {
	started := time.Date(2024, 10, 16, 9, 0, 0, 0, time.UTC)
	cycles := []store.Cycle{
		{Seq: 1, StartedAt: started, Outcome: store.OutcomeSuccess, RowsFetched: 3, RowsAdded: 3, MasterRows: 3},
		{Seq: 2, StartedAt: started.Add(10 * time.Minute), Outcome: store.OutcomeTransportError, Error: "503 Service Unavailable for url: http://x"},
	}
	counts := map[string]int{store.OutcomeSuccess: 1, store.OutcomeTransportError: 1}

	buf := &bytes.Buffer{}
	writeCycleTable(buf, cycles, counts)
	out := buf.String()

	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "transport_error")
	assert.Contains(t, out, "503 Service Unavailable")
	assert.Contains(t, out, "success: 1\n")
	assert.Contains(t, out, "transport_error: 1\n")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("success: 1")), bytes.Index(buf.Bytes(), []byte("transport_error: 1")))
}

func TestWriteCycleTableEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	writeCycleTable(buf, nil, map[string]int{})
	assert.Equal(t, "No cycles recorded.\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
