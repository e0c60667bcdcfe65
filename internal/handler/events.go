package handler

import (
	"net/http"

	"venueops/internal/middleware"
	"venueops/internal/service"

	"github.com/gin-gonic/gin"
)

type EventsHandler struct{ svc service.BookingService }

func NewEventsHandler(svc service.BookingService) *EventsHandler {
	return &EventsHandler{svc: svc}
}

// FinalizeMenu godoc
// @Summary      Finalize an event menu
// @Description  Deducts the event's menu from stock. Lines that could not be applied are reported in the body; the request itself still succeeds.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Event ID"
// @Param        force query bool   false "Re-run a finalized menu"
// @Success      200  {object} dto.FinalizeMenuResponse
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/events/{id}/menu/finalize [post]
func (h *EventsHandler) FinalizeMenu(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.FinalizeMenu(c.Request.Context(), middleware.GetScope(c), id, queryBool(c, "force"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
