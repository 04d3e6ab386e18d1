package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pyconafrica/registration/internal/core/ports"
)

type CountryHandler struct {
	countries ports.CountryList
}

func NewCountryHandler(countries ports.CountryList) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// List returns the selectable countries ordered by name.
//
// @Summary      List countries
// @Tags         countries
// @Produce      json
// @Success      200  {object}  countriesResponse
// @Router       /countries [get]
func (h *CountryHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, countriesResponse{Countries: h.countries.Countries()})
}
