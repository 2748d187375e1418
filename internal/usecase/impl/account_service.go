// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"freightdesk/config"
	deliverycontext "freightdesk/internal/delivery/context"
	"freightdesk/internal/domain/entity"
	domainerrors "freightdesk/internal/domain/errors"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/domain/service"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager repository.TransactionManager
	userRepo  repository.UserRepository
	tokenRepo repository.AccessTokenRepository
	hasher    service.PasswordHasher
	policy    usecase.PasswordUsecase
	tokenTTL  time.Duration
	logger    *slog.Logger
}

// AccountServiceParams holds dependencies for accountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
	TokenRepo repository.AccessTokenRepository
	Hasher    service.PasswordHasher
	Policy    usecase.PasswordUsecase
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	tokenTTL := config.DefaultTokenTTL
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.TokenTTL > 0 {
		tokenTTL = params.Config.Auth.TokenTTL
	}

	return &accountService{
		txManager: params.TxManager,
		userRepo:  params.UserRepo,
		tokenRepo: params.TokenRepo,
		hasher:    params.Hasher,
		policy:    params.Policy,
		tokenTTL:  tokenTTL,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Login verifies the username/password pair, issues an opaque access token
// and reports whether the password is already expired so the delivery layer
// can steer the client into a password change.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting login", slog.String("username", input.Username))

	user, err := srv.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	// bcrypt comparison is CPU-bound; no store access involved.
	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("username", input.Username))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	now := time.Now()
	expiresAt := now.Add(srv.tokenTTL)

	token := &entity.AccessToken{
		Token:     newOpaqueToken(),
		UserID:    user.ID,
		ExpiresAt: &expiresAt,
	}
	if err := srv.tokenRepo.Create(ctx, token); err != nil {
		srv.log(ctx).Error("Failed to issue access token", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to issue access token")
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", user.ID))

	return &usecase.LoginOutput{
		UserID:          user.ID,
		Username:        user.Username,
		Token:           token.Token,
		TokenExpiresAt:  expiresAt,
		PasswordExpired: srv.policy.IsExpired(user, now),
	}, nil
}

// Logout revokes the presented access token. An empty or unknown token is
// ignored: logout is idempotent from the client's point of view.
func (srv *accountService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := srv.tokenRepo.Revoke(ctx, token, time.Now()); err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil
		}

		srv.log(ctx).Error("Failed to revoke access token", slog.Any("error", err))

		return errors.Wrap(err, "failed to revoke access token")
	}

	srv.log(ctx).Info("Access token revoked")

	return nil
}

// ChangePassword verifies the current password, validates the new one
// against the complexity rules and the user's personal-information denylist,
// and applies the atomic update. The read and the update share one
// transaction so a concurrent change cannot interleave.
func (srv *accountService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	srv.log(ctx).Debug("Starting password change", slog.Any("userID", input.UserID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "password change failed")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if !srv.hasher.Check(input.CurrentPassword, user.PasswordHash) {
			return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password mismatch")
		}

		result := srv.policy.ValidateComplexity(input.NewPassword, user.FirstName, user.LastName, user.Email)
		if !result.Valid {
			return domainerrors.ErrPasswordPolicyViolation.WithDetails(strings.Join(result.Errors, "; "))
		}

		newHash, err := srv.hasher.Hash(input.NewPassword)
		if err != nil {
			return errors.Wrap(domainerrors.ErrPasswordHashFailed, "failed to hash new password")
		}

		if err := userRepo.UpdatePassword(ctx, user.ID, newHash, time.Now()); err != nil {
			return errors.Wrap(err, "failed to update password")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Warn("Password change failed", slog.Any("userID", input.UserID), slog.Any("error", err))

		return err
	}

	srv.log(ctx).Info("Password changed", slog.Any("userID", input.UserID))

	return nil
}

// PasswordStatus reports the expiry state of the user's password.
func (srv *accountService) PasswordStatus(ctx context.Context, userID uuid.UUID) (*usecase.PasswordStatusOutput, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "password status failed")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return &usecase.PasswordStatusOutput{
		Expired:       srv.policy.IsExpired(user, time.Now()),
		ResetRequired: user.PasswordResetRequired,
		ChangedAt:     user.PasswordChangedAt,
	}, nil
}

// newOpaqueToken produces the opaque credential string for a freshly issued
// access token. Two UUIDs back to back give 256 bits of random material.
func newOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
