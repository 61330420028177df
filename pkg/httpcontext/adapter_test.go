package httpcontext

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/planner/pkg/logger"
)

func TestAdapter_Attach(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "abc-123")
	rc.Request.Header.SetUserAgent("tests")
	SetIdentity(&rc, "u1", "s1")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)
	assert.Equal(t, "abc-123", appLogger.RequestID(ctx))
	assert.Equal(t, "abc-123", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "tests", ctx.Value(KeyUserAgent))
	assert.Equal(t, "u1", ctx.Value(KeyUserID))
}

func TestRequestID_GeneratesWhenMissingOrOversized(t *testing.T) {
	var rc fasthttp.RequestCtx
	first := RequestID(&rc)
	assert.Len(t, first, 36)
	assert.Equal(t, first, RequestID(&rc), "stable within a request")

	var big fasthttp.RequestCtx
	big.Request.Header.Set("X-Request-ID", strings.Repeat("x", 500))
	assert.Len(t, RequestID(&big), 36)
}

func TestIdentity(t *testing.T) {
	var rc fasthttp.RequestCtx
	assert.Empty(t, UserID(&rc))
	assert.Empty(t, SessionID(&rc))

	SetIdentity(&rc, "u1", "s1")
	assert.Equal(t, "u1", UserID(&rc))
	assert.Equal(t, "s1", SessionID(&rc))
}
