// Command resetdb wipes the configured store and optionally seeds a test user.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/planner/internal/auth"
	"github.com/fastygo/planner/internal/bootstrap"
	"github.com/fastygo/planner/internal/config"
	"github.com/fastygo/planner/pkg/logger"
	authUC "github.com/fastygo/planner/usecase/auth"
)

func main() {
	var (
		force    = flag.Bool("yes", false, "skip the safety check outside development")
		seed     = flag.Bool("seed", false, "create a test user after the reset")
		username = flag.String("username", "testuser", "seed username")
		email    = flag.String("email", "test@example.com", "seed email")
		password = flag.String("password", "password123", "seed password")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: "console"})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	if !cfg.IsDevelopment() && !*force {
		zapLogger.Fatal("refusing to reset a non-development store without -yes", zap.String("env", cfg.Environment))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	storage, err := bootstrap.OpenStorage(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.Error(err))
	}
	defer storage.Close(context.Background())

	if err := storage.Reset(ctx); err != nil {
		zapLogger.Fatal("reset failed", zap.String("driver", storage.Driver), zap.Error(err))
	}
	zapLogger.Info("store reset", zap.String("driver", storage.Driver))

	if !*seed {
		return
	}

	uc := authUC.New(
		storage.Users,
		nil,
		auth.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL),
		auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		zapLogger,
	)
	res, err := uc.Register(ctx, authUC.RegisterInput{Username: *username, Email: *email, Password: *password})
	if err != nil {
		zapLogger.Fatal("seed failed", zap.Error(err))
	}
	zapLogger.Info("seeded test user",
		zap.String("user_id", res.User.ID),
		zap.String("email", res.User.Email),
	)
}
