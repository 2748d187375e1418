package handler

import (
	"log/slog"
	"net/http"

	"freightdesk/internal/delivery/http/response"
	"freightdesk/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AdminHandler holds dependencies for administrative handlers.
type AdminHandler struct {
	passwordUC usecase.PasswordUsecase
	logger     *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(passwordUC usecase.PasswordUsecase, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		passwordUC: passwordUC,
		logger:     logger,
	}
}

type forceResetResponse struct {
	Affected int64 `json:"affected"`
}

// ForcePasswordReset flags every non-exempt account for a forced password
// reset and reports how many accounts were affected.
func (h *AdminHandler) ForcePasswordReset(c echo.Context) error {
	output, err := h.passwordUC.ForceResetAll(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, forceResetResponse{
		Affected: output.Affected,
	}, "Password reset enforced")
}
