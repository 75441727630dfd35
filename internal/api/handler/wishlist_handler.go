package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/ports"
)

type WishlistHandler struct {
	wishlist ports.WishlistService
}

func NewWishlistHandler(wishlist ports.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

type toggleResponse struct {
	Product string `json:"product"`
	IsLiked bool   `json:"isLiked"`
}

// Wishlist returns the liked products.
//
// @Summary      Get wishlist
// @Tags         wishlist
// @Produce      json
// @Success      200  {object}  domain.Page[domain.Product]
// @Router       /wishlist [get]
func (h *WishlistHandler) Wishlist(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	page, err := h.wishlist.Wishlist(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Toggle likes or unlikes a product.
//
// @Summary      Toggle wishlist
// @Tags         wishlist
// @Produce      json
// @Param        product  path      string  true  "Product id"
// @Success      200      {object}  toggleResponse
// @Router       /wishlist/{product}/toggle [post]
func (h *WishlistHandler) Toggle(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	product := c.Param("product")
	liked, err := h.wishlist.Toggle(c.Request().Context(), sid, product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toggleResponse{Product: product, IsLiked: liked})
}

// Clear empties the wishlist.
//
// @Summary      Clear wishlist
// @Tags         wishlist
// @Success      204
// @Router       /wishlist [delete]
func (h *WishlistHandler) Clear(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.wishlist.Clear(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
