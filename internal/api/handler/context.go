package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/greenhaven/storefront/internal/api/middleware"
	"github.com/greenhaven/storefront/internal/core/domain"
)

// sessionID returns the session id injected by the Session middleware. An
// empty id means the middleware did not run, which is a wiring bug.
func sessionID(c echo.Context) (string, error) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return sid, nil
}

// bindValid binds the request body and runs the registered validator.
func bindValid(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// listParams reads page, limit and search from the query string. Missing or
// malformed numbers stay zero so the service applies its defaults.
func listParams(c echo.Context) domain.ListParams {
	return domain.ListParams{
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
		Search: c.QueryParam("search"),
	}
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func queryFloat(c echo.Context, name string) (*float64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, &domain.ValidationError{Fields: map[string]string{name: "Must be a number"}}
	}
	return &v, nil
}
