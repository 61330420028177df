package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/planner/api/transport"
	"github.com/fastygo/planner/domain"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	return h.adapter.Attach(ctx)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	h.writeJSON(ctx, status, payload)
}

func (h baseHandler) writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	status, payload := mapError(err)
	if status >= http.StatusInternalServerError {
		logger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.String("path", string(ctx.Path())),
			zap.String("method", string(ctx.Method())),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, payload)
}

// decode unmarshals the request body into dst and answers 400 on failure.
func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(domain.ErrInvalidPayload.Message, nil))
		return false
	}
	return true
}

// mapError is the single translation from domain errors to HTTP responses.
// Causes of internal errors are never sent to the client.
func mapError(err error) (int, transport.Envelope) {
	dErr, ok := domain.AsError(err)
	if !ok {
		return http.StatusInternalServerError, transport.NewError("internal server error", nil)
	}

	switch dErr.Code {
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest, transport.NewError(dErr.Message, dErr.Details)
	case domain.ErrCodeConflict:
		return http.StatusBadRequest, transport.NewConflict(dErr.Message, dErr.Conflict)
	case domain.ErrCodeDuplicate:
		return http.StatusBadRequest, transport.NewError(dErr.Message, nil)
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized, transport.NewError(dErr.Message, nil)
	case domain.ErrCodeNotFound:
		return http.StatusNotFound, transport.NewError(dErr.Message, nil)
	default:
		return http.StatusInternalServerError, transport.NewError("internal server error", nil)
	}
}
