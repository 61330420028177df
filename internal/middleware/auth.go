package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/planner/api/transport"
	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/internal/auth"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/pkg/logger"
)

// Authenticator resolves a bearer token into verified claims.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and records the
// caller's identity on the request for the handlers.
func JWTAuth(authn Authenticator, adapter *httpcontext.Adapter, log *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				reject(ctx, http.StatusUnauthorized, "missing authorization token")
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			claims, err := authn.Authenticate(stdCtx, tokenString)
			cancel()
			if err != nil {
				switch {
				case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
					logger.WithRequestID(stdCtx, log).Debug("token rejected", zap.Error(err))
					message := "invalid token"
					if errors.Is(err, auth.ErrTokenExpired) {
						message = "token has expired"
					} else if errors.Is(err, domain.ErrSessionNotFound) {
						message = "session has ended"
					}
					reject(ctx, http.StatusUnauthorized, message)
				default:
					logger.WithRequestID(stdCtx, log).Error("token verification failed", zap.Error(err))
					reject(ctx, http.StatusInternalServerError, "internal server error")
				}
				return
			}

			httpcontext.SetIdentity(ctx, claims.UserID(), claims.SessionID())
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

func reject(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.NewError(message, nil))
	ctx.SetBody(body)
}
