package handler

import (
	"net/http"

	"venueops/internal/dto"
	"venueops/internal/middleware"
	"venueops/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingsHandler struct{ svc service.BookingService }

func NewBookingsHandler(svc service.BookingService) *BookingsHandler {
	return &BookingsHandler{svc: svc}
}

// List godoc
// @Summary      List bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Derived status"
// @Param        health query string false "Health label"
// @Param        from   query string false "Start date lower bound (YYYY-MM-DD)"
// @Param        to     query string false "Start date upper bound (YYYY-MM-DD)"
// @Success      200  {object} dto.BookingListResponse
// @Router       /v1/bookings [get]
func (h *BookingsHandler) List(c *gin.Context) {
	var filter dto.BookingFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListBookings(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingsHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetBooking(c.Request.Context(), middleware.GetScope(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resources returns the booking's resource rows, generating them on first
// access or when ?force=true.
func (h *BookingsHandler) Resources(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetOrGenerateResources(c.Request.Context(), middleware.GetScope(c), id, queryBool(c, "force"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateResources godoc
// @Summary      Override resource quantities
// @Description  Applies manual quantities to a booking's resource rows. A null manual_qty clears the override. The whole batch is rejected if any row is invalid.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Booking ID"
// @Param        body body dto.UpdateResourcesRequest true "Overrides"
// @Success      200  {object} dto.ResourceListResponse
// @Failure      404  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/bookings/{id}/resources [put]
func (h *BookingsHandler) UpdateResources(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.UpdateResourcesRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateResources(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
