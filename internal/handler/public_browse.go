// Package handler exposes the HTTP handlers of the booking service.  This
// file holds the catalog pages that need no booking state: the home page
// with featured shows and the static about page.
package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-show-booking/internal/repository"
	"github.com/iliyamo/movie-show-booking/internal/service"
)

// FeaturedCount is how many shows the home page lists.
const FeaturedCount = 3

// PublicHandler serves the catalog pages.
type PublicHandler struct {
	Catalog *repository.ShowCatalog // static list of shows
	Flash   *Flasher                // pending messages shown on the home page
}

// NewPublicHandler constructs a PublicHandler and panics on nil dependencies.
func NewPublicHandler(catalog *repository.ShowCatalog, flash *Flasher) *PublicHandler {
	if catalog == nil || flash == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{Catalog: catalog, Flash: flash}
}

// Home handles GET /.  It returns the first FeaturedCount shows in catalog
// order together with any pending flash message.
func (h *PublicHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"featured": h.Catalog.Featured(FeaturedCount),
		"messages": h.Flash.Pop(c),
	})
}

// About handles GET /about with static information about the service.
func (h *PublicHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":        "Movie Show Booking",
		"description": fmt.Sprintf("Pick a show, book up to %d seats and get a confirmation reference. Bookings are kept in memory only.", service.MaxSeats),
		"shows":       len(h.Catalog.All()),
		"max_seats":   service.MaxSeats,
	})
}
