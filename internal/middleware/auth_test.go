package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/auth"
	"github.com/fastygo/planner/pkg/httpcontext"
)

type stubAuthenticator struct {
	claims *auth.Claims
	err    error
	got    string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	s.got = token
	return s.claims, s.err
}

func serve(t *testing.T, authn Authenticator, header string) (*fasthttp.RequestCtx, bool) {
	t.Helper()
	var rc fasthttp.RequestCtx
	if header != "" {
		rc.Request.Header.Set("Authorization", header)
	}
	called := false
	JWTAuth(authn, nil, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		assert.Equal(t, "u1", httpcontext.UserID(ctx))
		assert.Equal(t, "s1", httpcontext.SessionID(ctx))
	})(&rc)
	return &rc, called
}

func message(t *testing.T, rc *fasthttp.RequestCtx) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &body))
	assert.False(t, body.Success)
	return body.Message
}

func TestJWTAuth_Accepts(t *testing.T) {
	claims := &auth.Claims{}
	claims.Subject = "u1"
	claims.ID = "s1"
	stub := &stubAuthenticator{claims: claims}

	_, called := serve(t, stub, "Bearer tok-123")
	assert.True(t, called)
	assert.Equal(t, "tok-123", stub.got)

	_, called = serve(t, stub, "bearer tok-456")
	assert.True(t, called)
	assert.Equal(t, "tok-456", stub.got)
}

func TestJWTAuth_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing header", "", nil, http.StatusUnauthorized, "missing authorization token"},
		{"wrong scheme", "Basic abc", nil, http.StatusUnauthorized, "missing authorization token"},
		{"invalid", "Bearer x", domain.WrapError(domain.ErrCodeUnauthorized, "invalid or expired token", auth.ErrInvalidToken), http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer x", domain.WrapError(domain.ErrCodeUnauthorized, "invalid or expired token", auth.ErrTokenExpired), http.StatusUnauthorized, "token has expired"},
		{"revoked", "Bearer x", domain.ErrSessionNotFound, http.StatusUnauthorized, "session has ended"},
		{"registry down", "Bearer x", domain.WrapError(domain.ErrCodeInternal, "session lookup failed", errors.New("dial tcp")), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, called := serve(t, &stubAuthenticator{err: tt.err}, tt.header)
			assert.False(t, called)
			assert.Equal(t, tt.wantStatus, rc.Response.StatusCode())
			assert.Equal(t, tt.wantMsg, message(t, rc))
		})
	}
}
