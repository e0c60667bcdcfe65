package handler

import (
	"net/http"

	"venueops/internal/dto"
	"venueops/internal/middleware"
	"venueops/internal/service"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct{ ledger service.InventoryLedger }

func NewInventoryHandler(ledger service.InventoryLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

func (h *InventoryHandler) List(c *gin.Context) {
	var filter dto.InventoryFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.ledger.ListItems(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.ledger.LowStock(c.Request.Context(), middleware.GetScope(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.ledger.ListMovements(c.Request.Context(), middleware.GetScope(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  PURCHASE and RETURN add to stock, ADJUSTMENT sets an absolute level. Writes one movement.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Inventory item ID"
// @Param        body body dto.AdjustStockRequest true "Adjustment"
// @Success      200  {object} dto.InventoryItemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/inventory/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.ledger.AdjustStock(c.Request.Context(), middleware.GetScope(c), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
