package dbtcloud

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunStatus_Terminal(t *testing.T) {
	assert.False(t, RunStatusQueued.Terminal())
	assert.False(t, RunStatusStarting.Terminal())
	assert.False(t, RunStatusRunning.Terminal())
	assert.True(t, RunStatusSuccess.Terminal())
	assert.True(t, RunStatusError.Terminal())
	assert.True(t, RunStatusCancelled.Terminal())
}

func TestParseRunStatus(t *testing.T) {
	status, err := ParseRunStatus("cancelled")
	require.NoError(t, err)
	assert.Equal(t, RunStatusCancelled, status)

	_, err = ParseRunStatus("exploded")
	assert.Error(t, err)
}

func TestRunStatus_UnmarshalWireCode(t *testing.T) {
	// The API reports statuses as numeric codes
	var run Run
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "status": 20, "status_message": "model failed"}`), &run))

	assert.Equal(t, RunStatusError, run.Status)
	assert.Equal(t, "error", run.Status.String())
	assert.Equal(t, "model failed", run.StatusMessage)
}
