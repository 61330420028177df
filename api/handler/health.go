package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/planner/api/transport"
	"github.com/fastygo/planner/internal/infrastructure/monitor"
	"github.com/fastygo/planner/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	name    string
	version string
}

func NewHealthHandler(mon *monitor.Monitor, name, version string, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
		name:        name,
		version:     version,
	}
}

type healthResponse struct {
	Success   bool           `json:"success"`
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Services  monitor.Status `json:"services"`
}

type bannerResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Version   string    `json:"version"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := healthResponse{
		Success:   true,
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Services:  status,
	}
	code := http.StatusOK
	if !status.Healthy() {
		payload.Success = false
		payload.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	h.writeJSON(ctx, code, payload)
}

// @Summary Service banner
// @Tags health
// @Router / [get]
func (h *HealthHandler) Root(ctx *fasthttp.RequestCtx) {
	h.writeJSON(ctx, http.StatusOK, bannerResponse{
		Success:   true,
		Message:   h.name + " API",
		Version:   h.version,
		Status:    "running",
		Timestamp: time.Now().UTC(),
	})
}

// NotFound answers unknown routes with the standard envelope.
func (h *HealthHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusNotFound, transport.NewError("route not found", nil))
}

// Panic converts a recovered handler panic into a 500 envelope.
func (h *HealthHandler) Panic(ctx *fasthttp.RequestCtx, recovered interface{}) {
	h.logger.Error("handler panic",
		zap.String("path", string(ctx.Path())),
		zap.String("request_id", httpcontext.RequestID(ctx)),
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	)
	h.respondJSON(ctx, http.StatusInternalServerError, transport.NewError("internal server error", nil))
}
