package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/ports"
)

type SessionHandler struct {
	sessions ports.SessionService
}

func NewSessionHandler(sessions ports.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type localeRequest struct {
	Locale string `json:"locale" validate:"required,oneof=en ru uz"`
}

type localeResponse struct {
	Locale string `json:"locale"`
}

// Current returns the session's public state.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  ports.SessionView
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	view, err := h.sessions.Current(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Logout clears every slot of the session and its cached queries.
//
// @Summary      Logout
// @Tags         session
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.sessions.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Locale returns the UI language.
//
// @Summary      Get locale
// @Tags         session
// @Produce      json
// @Success      200  {object}  localeResponse
// @Router       /locale [get]
func (h *SessionHandler) Locale(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	lng, err := h.sessions.Locale(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, localeResponse{Locale: lng})
}

// SetLocale changes the UI language sent to the backend.
//
// @Summary      Set locale
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      localeRequest  true  "Locale"
// @Success      200   {object}  localeResponse
// @Failure      422   {object}  map[string]any
// @Router       /locale [put]
func (h *SessionHandler) SetLocale(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req localeRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	if err := h.sessions.SetLocale(c.Request().Context(), sid, req.Locale); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, localeResponse{Locale: req.Locale})
}
