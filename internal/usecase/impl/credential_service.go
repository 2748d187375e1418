// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "freightdesk/internal/delivery/context"
	"freightdesk/internal/domain/entity"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// tokenVerdict is the outcome of bearer-token verification. The "no token"
// and "bad token" cases are merged: both fall through to the session without
// surfacing an error to the caller.
type tokenVerdict int

const (
	tokenValid tokenVerdict = iota
	tokenInvalidOrAbsent
)

// credentialService implements the AuthUsecase interface.
type credentialService struct {
	tokenRepo repository.AccessTokenRepository
	logger    *slog.Logger
}

// CredentialServiceParams holds dependencies for credentialService, injected by Fx.
type CredentialServiceParams struct {
	fx.In

	TokenRepo repository.AccessTokenRepository
	Logger    *slog.Logger
}

// NewCredentialService is the constructor for credentialService.
func NewCredentialService(params CredentialServiceParams) usecase.AuthUsecase {
	return &credentialService{
		tokenRepo: params.TokenRepo,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *credentialService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Authenticate decides whether one inbound request is authenticated and
// resolves the acting user. A valid bearer token always wins; any token
// failure (absent, unknown, expired, revoked, or a store error during
// lookup) silently falls back to the session state, so "no token" and
// "bad token" stay indistinguishable to callers.
func (srv *credentialService) Authenticate(ctx context.Context, input usecase.AuthenticateInput) usecase.AuthResult {
	verdict, token := srv.verifyBearerToken(ctx, input.AuthorizationHeader, input)
	if verdict == tokenValid {
		// Best-effort usage stamp. A lost update here is a benign race and
		// must never block or fail the authentication decision.
		if err := srv.tokenRepo.TouchLastUsed(ctx, token.Token, input.Now); err != nil {
			srv.log(ctx).Debug("Failed to stamp token last-used time", slog.Any("error", err))
		}

		return usecase.AuthResult{
			Authenticated: true,
			UserID:        token.UserID,
			Source:        usecase.AuthSourceToken,
		}
	}

	if input.Session.LoggedIn {
		return usecase.AuthResult{
			Authenticated: true,
			UserID:        input.Session.UserID,
			Source:        usecase.AuthSourceSession,
		}
	}

	return usecase.AuthResult{}
}

// verifyBearerToken resolves the Authorization header to a token verdict.
// The "Bearer " prefix is optional; the remainder is matched by exact string
// equality against the token store.
func (srv *credentialService) verifyBearerToken(ctx context.Context, header string, input usecase.AuthenticateInput) (tokenVerdict, *entity.AccessToken) {
	if header == "" {
		return tokenInvalidOrAbsent, nil
	}

	candidate := strings.TrimPrefix(header, "Bearer ")

	token, err := srv.tokenRepo.FindValidToken(ctx, candidate, input.Now)
	if err != nil {
		if !errors.Is(err, repository.ErrTokenNotFound) {
			// Store failures are logged on a separate channel and then
			// degrade to the invalid-token path; the caller only ever sees
			// the authentication outcome.
			srv.log(ctx).Error("Token lookup failed, falling back to session", slog.Any("error", err))
		}

		return tokenInvalidOrAbsent, nil
	}

	return tokenValid, token
}
