package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type MerchantHandler struct {
	merchants ports.MerchantService
}

func NewMerchantHandler(merchants ports.MerchantService) *MerchantHandler {
	return &MerchantHandler{merchants: merchants}
}

type merchantApplyRequest struct {
	Name        string `json:"name" validate:"notblank,min=2"`
	PhoneNumber string `json:"phoneNumber" validate:"notblank,min=2"`
	BrandName   string `json:"brandName" validate:"notblank,min=2"`
	Business    string `json:"business" validate:"notblank,min=2"`
}

type merchantSignupRequest struct {
	FirstName   string `json:"firstName" validate:"notblank,min=2"`
	LastName    string `json:"lastName" validate:"notblank,min=2"`
	PhoneNumber string `json:"phoneNumber" validate:"notblank,min=2"`
	Password    string `json:"password" validate:"notblank,min=2"`
}

// Apply submits a "become a seller" application.
//
// @Summary      Merchant application
// @Tags         merchants
// @Accept       json
// @Produce      json
// @Param        body  body      merchantApplyRequest  true  "Application"
// @Success      201   {object}  domain.MerchantApplication
// @Failure      422   {object}  map[string]any
// @Router       /merchants/apply [post]
func (h *MerchantHandler) Apply(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req merchantApplyRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	app, err := h.merchants.Apply(c.Request().Context(), sid, domain.MerchantApplication{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		BrandName:   req.BrandName,
		Business:    req.Business,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// SignUp completes an invited merchant account.
//
// @Summary      Merchant sign-up
// @Tags         merchants
// @Accept       json
// @Param        token  path  string                 true  "Invitation token"
// @Param        body   body  merchantSignupRequest  true  "Account details"
// @Success      201
// @Failure      422  {object}  map[string]any
// @Router       /merchants/signup/{token} [post]
func (h *MerchantHandler) SignUp(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req merchantSignupRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	err = h.merchants.SignUp(c.Request().Context(), sid, c.Param("token"), domain.MerchantSignup{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}
