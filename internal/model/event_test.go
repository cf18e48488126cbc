package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON_StageCompleteKeepsZeroDuration(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Event{Type: EventStageComplete, StageID: "agent1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"stage_complete","stageId":"agent1","durationMs":0}`, string(data))

	data, err = json.Marshal(Event{Type: EventStageComplete, StageID: "agent2", DurationMs: 1200})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"stage_complete","stageId":"agent2","durationMs":1200}`, string(data))
}

func TestEventJSON_OtherTypesOmitDuration(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Event{Type: EventStageThought, StageID: "agent1", Text: "prompt built"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "durationMs")

	var back Event
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "prompt built", back.Text)
}
