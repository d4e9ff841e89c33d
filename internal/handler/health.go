package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness endpoint for load balancers and orchestrators.  It
// always returns {"status": "ok"} with 200 and does not look at the
// catalog or the ledger, so it keeps answering whatever their state.
func Health(c echo.Context) error { // Health handler signature accepts an echo context and returns an error
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"}) // fixed payload; JSON writes application/json
}
