package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type AuthFlowHandler struct {
	flows ports.AuthFlowService
}

func NewAuthFlowHandler(flows ports.AuthFlowService) *AuthFlowHandler {
	return &AuthFlowHandler{flows: flows}
}

type openFlowRequest struct {
	Mode string `json:"mode" validate:"required,oneof=login register"`
}

// Emptiness is checked by the flow itself so the per-mode rules stay in one place.
type credentialsRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// Open starts a login or register flow, replacing any flow in progress.
//
// @Summary      Open auth flow
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      openFlowRequest  true  "Flow mode"
// @Success      201   {object}  ports.FlowView
// @Failure      422   {object}  map[string]any
// @Router       /auth/flow [post]
func (h *AuthFlowHandler) Open(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req openFlowRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	view, err := h.flows.Open(c.Request().Context(), sid, domain.FlowMode(req.Mode))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// State returns the flow in progress.
//
// @Summary      Get auth flow
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.FlowView
// @Failure      404  {object}  map[string]string
// @Router       /auth/flow [get]
func (h *AuthFlowHandler) State(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	view, err := h.flows.State(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SubmitCredentials runs step 1: login or register, then an OTP is sent.
//
// @Summary      Submit credentials
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Step 1 form"
// @Success      200   {object}  ports.FlowView
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Failure      502   {object}  map[string]string
// @Router       /auth/flow/credentials [post]
func (h *AuthFlowHandler) SubmitCredentials(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.flows.SubmitCredentials(c.Request().Context(), sid, domain.Credentials{
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ConfirmOTP runs step 2 and authenticates the session.
//
// @Summary      Confirm OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      otpRequest  true  "Verification code"
// @Success      200   {object}  ports.SessionView
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /auth/flow/otp [post]
func (h *AuthFlowHandler) ConfirmOTP(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	view, err := h.flows.ConfirmOTP(c.Request().Context(), sid, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Resend asks the backend for a new OTP once the countdown has run out.
//
// @Summary      Resend OTP
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.FlowView
// @Failure      429  {object}  map[string]any
// @Router       /auth/flow/resend [post]
func (h *AuthFlowHandler) Resend(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	view, err := h.flows.Resend(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Back returns to the credentials step keeping the typed values.
//
// @Summary      Back to credentials
// @Tags         auth
// @Produce      json
// @Success      200  {object}  ports.FlowView
// @Failure      409  {object}  map[string]string
// @Router       /auth/flow/back [post]
func (h *AuthFlowHandler) Back(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	view, err := h.flows.Back(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Cancel discards the flow and everything typed into it.
//
// @Summary      Cancel auth flow
// @Tags         auth
// @Success      204
// @Router       /auth/flow [delete]
func (h *AuthFlowHandler) Cancel(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.flows.Cancel(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
