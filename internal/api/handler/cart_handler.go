package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addToCartRequest struct {
	Product string `json:"product" validate:"notblank"`
}

// Cart returns the session's cart and its checkout total.
//
// @Summary      Get cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  ports.CartView
// @Failure      401  {object}  map[string]string
// @Router       /cart [get]
func (h *CartHandler) Cart(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	view, err := h.carts.Cart(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// AddItem puts one unit of a product in the cart, creating the cart on first use.
//
// @Summary      Add to cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      addToCartRequest  true  "Product id"
// @Success      201   {object}  ports.AddToCartResult
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]any
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	res, err := h.carts.AddItem(c.Request().Context(), sid, req.Product)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// RemoveItem drops a product line from the cart.
//
// @Summary      Remove cart line
// @Tags         cart
// @Param        product  path  string  true  "Product id"
// @Success      204
// @Failure      409  {object}  map[string]string
// @Router       /cart/items/{product} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.carts.RemoveItem(c.Request().Context(), sid, c.Param("product")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ChangeQuantity increments or decrements a cart line.
//
// @Summary      Change quantity
// @Tags         cart
// @Param        product  path  string  true  "Product id"
// @Param        action   path  string  true  "inc or dec"
// @Success      204
// @Failure      422  {object}  map[string]any
// @Router       /cart/items/{product}/{action} [put]
func (h *CartHandler) ChangeQuantity(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	action := domain.QuantityAction(c.Param("action"))
	if err := h.carts.ChangeQuantity(c.Request().Context(), sid, c.Param("product"), action); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveCart deletes the whole cart.
//
// @Summary      Delete cart
// @Tags         cart
// @Success      204
// @Router       /cart [delete]
func (h *CartHandler) RemoveCart(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	if err := h.carts.RemoveCart(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Checkout places an order for the cart total and forgets the cart.
//
// @Summary      Checkout
// @Tags         cart
// @Produce      json
// @Success      201  {object}  domain.Order
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]any
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	order, err := h.carts.Checkout(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, order)
}
