package auth

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fastygo/planner/domain"
	authpkg "github.com/fastygo/planner/internal/auth"
	"github.com/fastygo/planner/pkg/logger"
	"github.com/fastygo/planner/repository"
)

const minPasswordLength = 6

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Result is returned by register and login.
type Result struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	tokens   *authpkg.TokenIssuer
	hasher   *authpkg.PasswordHasher
	validate *validator.Validate
	logger   *zap.Logger
}

// New wires the credential use cases. sessions may be nil, in which case
// tokens stay valid until they expire and logout is a no-op.
func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *authpkg.TokenIssuer,
	hasher *authpkg.PasswordHasher,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &UseCase{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		hasher:   hasher,
		validate: v,
		logger:   logger,
	}
}

func (uc *UseCase) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if errs := uc.check(in); len(errs) > 0 {
		return nil, domain.NewValidationError("please fill in all fields correctly", errs)
	}

	if _, err := uc.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.WrapError(domain.ErrCodeInternal, "registration failed", err)
	}
	if _, err := uc.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.WrapError(domain.ErrCodeInternal, "registration failed", err)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		if authpkg.IsTooLong(err) {
			return nil, domain.NewValidationError("please fill in all fields correctly", []string{"password must be at most 72 bytes"})
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "registration failed", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeDuplicate) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "registration failed", err)
	}

	logger.WithRequestID(ctx, uc.logger).Info("user registered", zap.String("user_id", user.ID))
	return uc.issue(ctx, user)
}

// Login verifies credentials. Unknown email and wrong password yield the
// same error.
func (uc *UseCase) Login(ctx context.Context, in LoginInput) (*Result, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)

	if errs := uc.check(in); len(errs) > 0 {
		return nil, domain.NewValidationError("please fill in all fields", errs)
	}

	user, err := uc.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.WrapError(domain.ErrCodeInternal, "login failed", err)
		}
		uc.hasher.Burn(in.Password)
		return nil, domain.ErrInvalidCredentials
	}

	if !uc.hasher.Verify(user.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.issue(ctx, user)
}

// Me returns the authenticated user's record.
func (uc *UseCase) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to load user", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token into its claims and, when a session
// registry is configured, checks that the session has not been revoked.
func (uc *UseCase) Authenticate(ctx context.Context, token string) (*authpkg.Claims, error) {
	claims, err := uc.tokens.Resolve(token)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid or expired token", err)
	}
	if uc.sessions == nil {
		return claims, nil
	}

	session, err := uc.sessions.Get(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeInternal, "session lookup failed", err)
	}
	if session.UserID != claims.UserID() || session.IsExpired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}
	return claims, nil
}

// Logout revokes a session. Without a registry it is a no-op.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessions == nil || sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "logout failed", err)
	}
	return nil
}

func (uc *UseCase) issue(ctx context.Context, user *domain.User) (*Result, error) {
	token, claims, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "failed to issue token", err)
	}

	if uc.sessions != nil {
		session := &domain.Session{
			ID:        claims.SessionID(),
			UserID:    user.ID,
			CreatedAt: claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		}
		if err := uc.sessions.Save(ctx, session); err != nil {
			return nil, domain.WrapError(domain.ErrCodeInternal, "failed to store session", err)
		}
	}

	return &Result{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

func (uc *UseCase) check(in interface{}) []string {
	err := uc.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "min":
			msgs = append(msgs, fe.Field()+" must be at least "+fe.Param()+" characters")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return msgs
}
