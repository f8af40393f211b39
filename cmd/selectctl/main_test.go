package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

const fairnessInput = `{
  "players": [
    {"id": "a", "level": 3, "selectedCount": 0, "invitedCount": 10, "acceptedCount": 10},
    {"id": "b", "level": 3, "selectedCount": 0, "invitedCount": 10, "acceptedCount": 8},
    {"id": "c", "level": 3, "selectedCount": 0, "invitedCount": 10, "acceptedCount": 7},
    {"id": "d", "level": 3, "selectedCount": 1, "invitedCount": 10, "acceptedCount": 10},
    {"id": "e", "level": 3, "selectedCount": 2, "invitedCount": 10, "acceptedCount": 10},
    {"id": "f", "level": 3, "selectedCount": 1, "invitedCount": 10, "acceptedCount": 2}
  ],
  "teams": [{"id": "t1", "strength": 1, "maxPlayers": 4}]
}`

func TestRun_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(path, []byte(fairnessInput), 0o600))

	var stdout bytes.Buffer
	cmd := &cli{Input: path, Seed: 3, stdout: &stdout}
	require.NoError(t, cmd.Run(context.Background()))

	var out selectionOutput
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &out))
	require.Equal(t, []string{"a", "b", "c", "d"}, out.Teams["t1"])
	require.Equal(t, []string{"e", "f"}, out.Unselected)
	require.Len(t, out.Assignment, 4)
}

func TestRun_FromStdinWithEmptyTeam(t *testing.T) {
	input := `{"players":[{"id":"a","level":2,"invitedCount":1,"acceptedCount":1}],"teams":[{"id":"t1","strength":1,"maxPlayers":0}]}`

	var stdout bytes.Buffer
	cmd := &cli{Input: "-", Pretty: true, stdin: strings.NewReader(input), stdout: &stdout}
	require.NoError(t, cmd.Run(context.Background()))

	var out selectionOutput
	require.NoError(t, sonic.Unmarshal(stdout.Bytes(), &out))
	require.Empty(t, out.Assignment)
	require.Contains(t, out.Teams, "t1")
	require.Empty(t, out.Teams["t1"])
	require.Equal(t, []string{"a"}, out.Unselected)
}

func TestRun_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		bands string
	}{
		{name: "level out of range", input: `{"players":[{"id":"a","level":0}],"teams":[]}`},
		{name: "missing team id", input: `{"players":[],"teams":[{"strength":1,"maxPlayers":2}]}`},
		{name: "accepted above invited", input: `{"players":[{"id":"a","level":1,"invitedCount":1,"acceptedCount":2}],"teams":[]}`},
		{name: "unknown field", input: `{"players":[],"teams":[],"extra":true}`},
		{name: "bad bands", input: `{"players":[],"teams":[]}`, bands: "1:9"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var stdout bytes.Buffer
			cmd := &cli{Bands: tc.bands, stdin: strings.NewReader(tc.input), stdout: &stdout}
			require.Error(t, cmd.Run(context.Background()))
			require.Zero(t, stdout.Len())
		})
	}
}
