package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/planner/internal/infrastructure/boltdb"
)

func TestMonitor_Refresh(t *testing.T) {
	healthy := true
	m, err := New("@every 1h", nil,
		Probe{Name: "db", Check: func(context.Context) error { return nil }},
		Probe{Name: "cache", Check: func(context.Context) error {
			if healthy {
				return nil
			}
			return errors.New("connection refused")
		}},
	)
	require.NoError(t, err)

	assert.False(t, m.Healthy(), "unhealthy before the first reading")

	m.Refresh(context.Background())
	assert.True(t, m.Healthy())

	healthy = false
	m.Refresh(context.Background())
	status := m.GetStatus()
	assert.False(t, status.Healthy())
	assert.True(t, status.Services["db"].Online)
	assert.False(t, status.Services["cache"].Online)
	assert.Equal(t, "connection refused", status.Services["cache"].Error)
}

func TestMonitor_ProbeTimeoutAndPanic(t *testing.T) {
	m, err := New("", nil,
		Probe{Name: "slow", Timeout: 10 * time.Millisecond, Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
		Probe{Name: "broken", Check: func(context.Context) error { panic("boom") }},
	)
	require.NoError(t, err)

	m.Refresh(context.Background())
	status := m.GetStatus()
	assert.Contains(t, status.Services["slow"].Error, "deadline exceeded")
	assert.Contains(t, status.Services["broken"].Error, "boom")
}

func TestMonitor_InvalidSchedule(t *testing.T) {
	_, err := New("every now and then", nil)
	assert.Error(t, err)
}

func TestMonitor_StartStop(t *testing.T) {
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "m.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	m, err := New("@every 1h", nil, BoltProbe(store))
	require.NoError(t, err)

	m.Start(context.Background())
	assert.True(t, m.Healthy())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Stop(ctx)
}
