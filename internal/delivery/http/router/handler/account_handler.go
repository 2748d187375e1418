// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"freightdesk/config"
	"freightdesk/internal/delivery/http/middleware"
	"freightdesk/internal/delivery/http/response"
	"freightdesk/internal/domain/entity"
	domainerrors "freightdesk/internal/domain/errors"
	"freightdesk/internal/domain/service"
	"freightdesk/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc           usecase.AccountUsecase
	sessionCodec service.SessionCodec
	sessionTTL   time.Duration
	logger       *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, sessionCodec service.SessionCodec, cfg *config.Config, logger *slog.Logger) *AccountHandler {
	sessionTTL := config.DefaultSessionTTL
	if cfg != nil && cfg.Auth != nil && cfg.Auth.SessionTTL > 0 {
		sessionTTL = cfg.Auth.SessionTTL
	}

	return &AccountHandler{
		uc:           uc,
		sessionCodec: sessionCodec,
		sessionTTL:   sessionTTL,
		logger:       logger,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	UserID          string    `json:"userId"`
	Username        string    `json:"username"`
	Token           string    `json:"token"`
	TokenExpiresAt  time.Time `json:"tokenExpiresAt"`
	PasswordExpired bool      `json:"passwordExpired"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

type passwordStatusResponse struct {
	Expired       bool       `json:"expired"`
	ResetRequired bool       `json:"resetRequired"`
	ChangedAt     *time.Time `json:"changedAt"`
}

// Login handles the user login request. On success it issues a bearer token
// in the body and a signed session cookie for browser clients.
func (h *AccountHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.setSessionCookie(c, output.UserID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		UserID:          output.UserID.String(),
		Username:        output.Username,
		Token:           output.Token,
		TokenExpiresAt:  output.TokenExpiresAt,
		PasswordExpired: output.PasswordExpired,
	}, "Login successful")
}

// Logout revokes the presented bearer token and clears the session cookie.
func (h *AccountHandler) Logout(c echo.Context) error {
	token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")

	if err := h.uc.Logout(c.Request().Context(), token); err != nil {
		return errors.WithStack(err)
	}

	h.clearSessionCookie(c)

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"}, "Logout successful")
}

// ChangePassword handles the password change request for the acting user.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	var input changePasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	if err := h.uc.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		UserID:          userID,
		CurrentPassword: input.CurrentPassword,
		NewPassword:     input.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password changed successfully")
}

// PasswordStatus reports the expiry state of the acting user's password.
func (h *AccountHandler) PasswordStatus(c echo.Context) error {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthorized)
	}

	output, err := h.uc.PasswordStatus(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, passwordStatusResponse{
		Expired:       output.Expired,
		ResetRequired: output.ResetRequired,
		ChangedAt:     output.ChangedAt,
	}, "Password status retrieved successfully")
}

func (h *AccountHandler) setSessionCookie(c echo.Context, userID uuid.UUID) error {
	value, err := h.sessionCodec.Encode(entity.Session{LoggedIn: true, UserID: userID})
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *AccountHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
