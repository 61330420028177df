package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/planner/api/handler"
	"github.com/fastygo/planner/internal/auth"
	"github.com/fastygo/planner/internal/bootstrap"
	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/internal/infrastructure/monitor"
	"github.com/fastygo/planner/internal/middleware"
	"github.com/fastygo/planner/internal/router"
	"github.com/fastygo/planner/internal/services/lifecycle"
	"github.com/fastygo/planner/pkg/httpcontext"
	"github.com/fastygo/planner/pkg/logger"
	authUC "github.com/fastygo/planner/usecase/auth"
	taskUC "github.com/fastygo/planner/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Fields: map[string]string{
			"service": cfg.AppName,
			"version": cfg.Version,
		},
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	storage, err := bootstrap.OpenStorage(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	manager.Register(storage.Driver, storage.Close)

	coord, err := bootstrap.OpenCoordination(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return coord.Close()
	})

	probes := []monitor.Probe{storage.Probe}
	if coord.Client != nil {
		probes = append(probes, monitor.RedisProbe(coord.Client))
	}
	mon, err := monitor.New(cfg.Monitor.Schedule, zapLogger, probes...)
	if err != nil {
		zapLogger.Fatal("monitor setup failed", zap.Error(err))
	}
	mon.Start(appCtx)
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	authUseCase := authUC.New(storage.Users, coord.Sessions, tokens, hasher, zapLogger)
	conflicts := taskUC.NewConflictChecker(storage.Tasks, cfg.Schedule.ConflictFailClosed, zapLogger)
	taskUseCase := taskUC.New(storage.Tasks, coord.Locker, conflicts, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, cfg.AppName, cfg.Version, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(authUseCase, ctxAdapter, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:            r.Handler,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxBodySize,
		Name:               cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", storage.Driver),
			zap.Bool("redis", cfg.Redis.Enabled),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
