package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/core/domain"
	"github.com/greenhaven/storefront/internal/core/ports"
)

type CatalogHandler struct {
	catalog ports.CatalogService
}

func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Home returns the new, discounted and recommended product rails.
//
// @Summary      Home feeds
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  ports.HomeFeeds
// @Failure      502  {object}  map[string]string
// @Router       /catalog/home [get]
func (h *CatalogHandler) Home(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	feeds, err := h.catalog.Home(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feeds)
}

// Categories lists the catalog categories.
//
// @Summary      Categories
// @Tags         catalog
// @Produce      json
// @Success      200  {array}   domain.Category
// @Router       /catalog/categories [get]
func (h *CatalogHandler) Categories(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	categories, err := h.catalog.Categories(c.Request().Context(), sid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}

// Products lists one category page.
//
// @Summary      Category products
// @Tags         catalog
// @Produce      json
// @Param        slug    path      string  true   "Category slug"
// @Param        page    query     int     false  "Page, from 1"
// @Param        sortBy  query     string  false  "all, most-expensive or cheapest"
// @Param        min     query     number  false  "Minimum price"
// @Param        max     query     number  false  "Maximum price"
// @Param        rating  query     int     false  "Minimum rating"
// @Success      200     {object}  domain.ProductPage
// @Failure      422     {object}  map[string]any
// @Router       /catalog/{slug}/products [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	lo, err := queryFloat(c, "min")
	if err != nil {
		return err
	}
	hi, err := queryFloat(c, "max")
	if err != nil {
		return err
	}

	page, err := h.catalog.Products(c.Request().Context(), sid, domain.ProductFilter{
		ListParams: listParams(c),
		Category:   c.Param("slug"),
		SortBy:     c.QueryParam("sortBy"),
		Rating:     queryInt(c, "rating"),
		Min:        lo,
		Max:        hi,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// Product returns one product with its discount decoration.
//
// @Summary      Product details
// @Tags         catalog
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *CatalogHandler) Product(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	product, err := h.catalog.Product(c.Request().Context(), sid, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

// ProductReviews lists the published reviews of a product.
//
// @Summary      Product reviews
// @Tags         catalog
// @Produce      json
// @Param        id     path      string  true   "Product id"
// @Param        page   query     int     false  "Page, from 1"
// @Param        limit  query     int     false  "Rows per page"
// @Success      200    {object}  domain.Page[domain.Review]
// @Router       /products/{id}/reviews [get]
func (h *CatalogHandler) ProductReviews(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	reviews, err := h.catalog.ProductReviews(c.Request().Context(), sid, c.Param("id"), listParams(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}

// Search finds products by name.
//
// @Summary      Search products
// @Tags         catalog
// @Produce      json
// @Param        name  path      string  true  "Search text"
// @Success      200   {object}  domain.Page[domain.Product]
// @Router       /products/search/{name} [get]
func (h *CatalogHandler) Search(c echo.Context) error {
	sid, err := sessionID(c)
	if err != nil {
		return err
	}
	results, err := h.catalog.Search(c.Request().Context(), sid, c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}
