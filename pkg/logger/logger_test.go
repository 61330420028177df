package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf, Fields: map[string]string{"service": "planner"}})
	require.NoError(t, err)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithRequestID(ctx, log).Debug("task created")
	require.NoError(t, log.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task created", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "planner", entry["service"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestWithRequestID_NoID(t *testing.T) {
	assert.Empty(t, RequestID(context.Background()))
	assert.NotNil(t, WithRequestID(context.Background(), nil))
}
