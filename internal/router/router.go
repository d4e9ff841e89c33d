package router // package router defines how HTTP routes are registered for the service

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movie-show-booking/internal/handler" // handlers that implement the booking pages
	"github.com/iliyamo/movie-show-booking/internal/metrics" // Prometheus exposition
)

// RegisterRoutes registers the operational endpoints: the liveness check
// (under both /health and the /healthz spelling used by orchestrators)
// and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.Health)
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterPublic registers the catalog pages.  Their output depends only
// on the static catalog, so they are the routes wrapped by the response
// cache middleware.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	e.GET("/", p.Home, cache)
	e.GET("/about", p.About, cache)
}

// RegisterBooking registers the booking form, submission and listing.
// Only submissions are rate limited; reads stay unthrottled.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, limiter echo.MiddlewareFunc) {
	e.GET("/book/:id", b.BookForm)
	e.POST("/book/:id", b.SubmitBooking, limiter)
	e.GET("/bookings", b.ListBookings)
}
