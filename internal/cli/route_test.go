package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailer-chat/pushgate/internal/tracelog"
)

const backgroundedCapableYAML = `
input:
  has_focus: false
  push_supported: true
  permission: granted
  service_worker_registered: true
  push_subscription_active: true
  sound_enabled: true
`

func TestRouteBackgroundedCapable(t *testing.T) {
	path := writeTempFile(t, "route.yaml", backgroundedCapableYAML)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRouteCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "route mode:        background_os_push")
	assert.Contains(t, output, "push capable:      true")
	assert.Contains(t, output, "- app_backgrounded")
}

func TestRouteOverridesApplied(t *testing.T) {
	doc := backgroundedCapableYAML + `overrides:
  push_subscription_active: false
`
	path := writeTempFile(t, "route.yaml", doc)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRouteCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "fallback_in_app", data["route_mode"])
	assert.Equal(t, false, data["push_capable"])
}

func TestRouteRecordsDecision(t *testing.T) {
	path := writeTempFile(t, "route.yaml", backgroundedCapableYAML)
	dbPath := filepath.Join(t.TempDir(), "traces.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRouteCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path, "--record", "--db", dbPath})

	require.NoError(t, cmd.Execute())

	store, err := tracelog.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	records, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, tracelog.TransportRoutePolicy, records[0].Transport)
	assert.Equal(t, tracelog.StageClientRoute, records[0].Stage)
	assert.Equal(t, tracelog.DecisionSend, records[0].Decision)
	assert.Equal(t, "background_os_push", records[0].Details["route_mode"])
}

func TestRouteMissingInputFile(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRouteCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "error (E_INPUT)")
}
