package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-show-booking/internal/model"
	"github.com/iliyamo/movie-show-booking/internal/repository"
	"github.com/iliyamo/movie-show-booking/internal/service"
)

// BookingHandler serves the booking form, submissions and the booking
// list.  All state lives in the injected service.
type BookingHandler struct {
	Service *service.BookingService
	Flash   *Flasher
}

// NewBookingHandler constructs a BookingHandler and panics on nil dependencies.
func NewBookingHandler(svc *service.BookingService, flash *Flasher) *BookingHandler {
	if svc == nil || flash == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, Flash: flash}
}

// seatRange describes the accepted seat count for clients building a form.
var seatRange = echo.Map{"min": service.MinSeats, "max": service.MaxSeats}

// formFields lists the fields a submission must carry.
var formFields = []string{"name", "email", "seats", "date"}

// lookupShow resolves the :id path parameter.  A malformed id is treated
// as an unknown show.
func (h *BookingHandler) lookupShow(c echo.Context) (model.Show, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return model.Show{}, repository.ErrShowNotFound
	}
	return h.Service.Show(id)
}

// showNotFound sends the caller back to the catalog with a message.
func (h *BookingHandler) showNotFound(c echo.Context) error {
	if err := h.Flash.Set(c, FlashDanger, "Show not found"); err != nil {
		c.Logger().Warnf("flash not set: %v", err)
	}
	return c.Redirect(http.StatusFound, "/")
}

// BookForm handles GET /book/:id and describes the form for the show.
func (h *BookingHandler) BookForm(c echo.Context) error {
	show, err := h.lookupShow(c)
	if err != nil {
		return h.showNotFound(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"state":  service.StateAwaitingInput,
		"show":   show,
		"fields": formFields,
		"seats":  seatRange,
	})
}

// SubmitBooking handles POST /book/:id.  Fields may be sent form-encoded,
// as multipart or as JSON.  An accepted booking is returned with 201; a
// rejected one re-prompts with 422 and the reason.
func (h *BookingHandler) SubmitBooking(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return h.showNotFound(c)
	}
	var form service.BookingForm
	if err := (&echo.DefaultBinder{}).BindBody(c, &form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	booking, err := h.Service.Submit(c.Request().Context(), id, form)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, repository.ErrShowNotFound):
			return h.showNotFound(c)
		case errors.As(err, &verr):
			show, _ := h.Service.Show(id)
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"state":  service.StateRejected,
				"error":  verr.Reason,
				"code":   errorCode(verr),
				"field":  verr.Field,
				"show":   show,
				"fields": formFields,
				"seats":  seatRange,
			})
		default:
			c.Logger().Errorf("booking submit failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not record booking"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"state":   service.StateAccepted,
		"booking": booking,
	})
}

// ListBookings handles GET /bookings and returns every booking in the
// order it was made.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	bookings := h.Service.Bookings()
	return c.JSON(http.StatusOK, echo.Map{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// errorCode maps a validation failure to its machine-readable code.
func errorCode(verr *service.ValidationError) string {
	if errors.Is(verr, service.ErrInvalidSeatCount) {
		return "invalid_seat_count"
	}
	return "missing_field"
}
