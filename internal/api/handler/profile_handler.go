package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type ProfileHandler struct {
	profile ports.ProfileService
}

func NewProfileHandler(profile ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

type reviewRequest struct {
	Product       string `json:"product"`
	Title         string `json:"title"`
	Rating        int    `json:"rating"`
	Review        string `json:"review"`
	IsRecommended bool   `json:"isRecommended"`
}

type addressRequest struct {
	Address   string `json:"address" validate:"notblank"`
	City      string `json:"city" validate:"notblank"`
	State     string `json:"state" validate:"notblank"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode" validate:"notblank"`
	IsDefault bool   `json:"isDefault"`
}

type defaultAddressRequest struct {
	IsDefault bool `json:"isDefault"`
}

// Purchases lists past orders.
//
// @Summary      Purchases
// @Tags         profile
// @Produce      json
// @Param        page   query     int  false  "Page, from 1"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  domain.Page[domain.Purchase]
// @Router       /profile/purchases [get]
func (h *ProfileHandler) Purchases(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	page, err := h.profile.Purchases(c.Request().Context(), sid, listParams(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Reviews lists the reviews written by the shopper.
//
// @Summary      My reviews
// @Tags         profile
// @Produce      json
// @Param        page   query     int  false  "Page, from 1"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  domain.Page[domain.Review]
// @Router       /profile/reviews [get]
func (h *ProfileHandler) Reviews(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	page, err := h.profile.Reviews(c.Request().Context(), sid, listParams(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// PostReview reviews a purchased product.
//
// @Summary      Post review
// @Tags         profile
// @Accept       json
// @Param        body  body  reviewRequest  true  "Review"
// @Success      201
// @Failure      422  {object}  map[string]any
// @Router       /profile/reviews [post]
func (h *ProfileHandler) PostReview(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	err = h.profile.PostReview(c.Request().Context(), sid, domain.ReviewInput{
		Product:       req.Product,
		Title:         req.Title,
		Rating:        req.Rating,
		Review:        req.Review,
		IsRecommended: req.IsRecommended,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// Addresses lists the saved delivery addresses.
//
// @Summary      Addresses
// @Tags         profile
// @Produce      json
// @Param        page   query     int  false  "Page, from 1"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  domain.Page[domain.Address]
// @Router       /profile/addresses [get]
func (h *ProfileHandler) Addresses(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	page, err := h.profile.Addresses(c.Request().Context(), sid, listParams(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// CreateAddress saves a new delivery address.
//
// @Summary      Create address
// @Tags         profile
// @Accept       json
// @Param        body  body  addressRequest  true  "Address"
// @Success      201
// @Failure      422  {object}  map[string]any
// @Router       /profile/addresses [post]
func (h *ProfileHandler) CreateAddress(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req addressRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	err = h.profile.CreateAddress(c.Request().Context(), sid, domain.AddressInput{
		Address:   req.Address,
		City:      req.City,
		State:     req.State,
		Country:   req.Country,
		ZipCode:   req.ZipCode,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// DeleteAddress removes a delivery address.
//
// @Summary      Delete address
// @Tags         profile
// @Param        id  path  string  true  "Address id"
// @Success      204
// @Router       /profile/addresses/{id} [delete]
func (h *ProfileHandler) DeleteAddress(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.profile.DeleteAddress(c.Request().Context(), sid, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDefaultAddress marks or unmarks the default delivery address.
//
// @Summary      Set default address
// @Tags         profile
// @Accept       json
// @Param        id    path  string                 true  "Address id"
// @Param        body  body  defaultAddressRequest  true  "Default flag"
// @Success      204
// @Router       /profile/addresses/{id}/default [put]
func (h *ProfileHandler) SetDefaultAddress(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req defaultAddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := h.profile.SetDefaultAddress(c.Request().Context(), sid, c.Param("id"), req.IsDefault); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
