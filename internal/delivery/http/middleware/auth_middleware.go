package middleware

import (
	"slices"
	"time"

	"freightdesk/config"
	"freightdesk/internal/domain/entity"
	domainerrors "freightdesk/internal/domain/errors"
	"freightdesk/internal/domain/repository"
	"freightdesk/internal/domain/service"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionCookieName is the cookie carrying the signed session state.
const SessionCookieName = "freightdesk_session"

// Context keys set by Authenticate for downstream handlers.
const (
	ContextKeyUserID     = "userID"
	ContextKeyAuthSource = "authSource"
)

// AuthMiddleware guards routes behind the credential verifier: a bearer token
// when one is valid, the session cookie otherwise.
type AuthMiddleware struct {
	authUC          usecase.AuthUsecase
	sessionCodec    service.SessionCodec
	userRepo        repository.UserRepository
	exemptUsernames []string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(authUC usecase.AuthUsecase, sessionCodec service.SessionCodec, userRepo repository.UserRepository, cfg *config.Config) *AuthMiddleware {
	exempt := []string{config.DefaultExemptUsername}
	if cfg != nil && cfg.PasswordPolicy != nil && len(cfg.PasswordPolicy.ExemptUsernames) > 0 {
		exempt = cfg.PasswordPolicy.ExemptUsernames
	}

	return &AuthMiddleware{
		authUC:          authUC,
		sessionCodec:    sessionCodec,
		userRepo:        userRepo,
		exemptUsernames: exempt,
	}
}

// Authenticate resolves the acting user for the request. The rejection is a
// single generic unauthorized error regardless of what was wrong with the
// presented credentials.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		result := m.authUC.Authenticate(c.Request().Context(), usecase.AuthenticateInput{
			AuthorizationHeader: c.Request().Header.Get(echo.HeaderAuthorization),
			Session:             m.sessionFromCookie(c),
			Now:                 time.Now(),
		})
		if !result.Authenticated {
			return errors.WithStack(domainerrors.ErrUnauthorized)
		}

		c.Set(ContextKeyUserID, result.UserID)
		c.Set(ContextKeyAuthSource, result.Source)

		return next(c)
	}
}

// RequireAdmin allows only the designated administrative accounts through.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)
		if !ok {
			return errors.WithStack(domainerrors.ErrUnauthorized)
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.WithStack(domainerrors.ErrUnauthorized)
			}

			return errors.Wrap(err, "failed to resolve acting user")
		}

		if !slices.Contains(m.exemptUsernames, user.Username) {
			return errors.WithStack(domainerrors.ErrForbidden)
		}

		return next(c)
	}
}

// sessionFromCookie decodes the session cookie into fallback session state.
// A missing or unverifiable cookie is simply a logged-out session.
func (m *AuthMiddleware) sessionFromCookie(c echo.Context) entity.Session {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return entity.Session{}
	}

	return m.sessionCodec.Decode(cookie.Value)
}
