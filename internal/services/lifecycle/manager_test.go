package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ShutdownOrder(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	for _, name := range []string{"storage", "monitor", "http_server"} {
		name := name
		m.Register(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}
	m.Register("nil hook", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "monitor", "storage"}, order)

	require.NoError(t, m.Shutdown(context.Background()), "second call is a no-op")
	assert.Len(t, order, 3)
}

func TestManager_CollectsErrors(t *testing.T) {
	m := New(time.Second, nil)
	boom := errors.New("boom")

	ran := false
	m.Register("storage", func(context.Context) error { ran = true; return nil })
	m.Register("redis", func(context.Context) error { return boom })
	m.Register("monitor", func(context.Context) error { panic("bad hook") })

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "monitor: panic: bad hook")
	assert.True(t, ran, "later hooks still run")
}

func TestManager_DeadlineSkipsRemaining(t *testing.T) {
	m := New(20*time.Millisecond, nil)

	ran := false
	m.Register("storage", func(context.Context) error { ran = true; return nil })
	m.Register("http_server", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestManager_ListenStop(t *testing.T) {
	m := New(time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := m.Listen(cancel)
	stop()
	stop()
	assert.NoError(t, ctx.Err())
}
