package dto

import "github.com/shopspring/decimal"

// ResourceResponse is one booking resource row as shown to operators.
type ResourceResponse struct {
	ID               string           `json:"id"`
	InventoryItemID  string           `json:"inventory_item_id"`
	Name             string           `json:"name"`
	Category         string           `json:"category"`
	Unit             string           `json:"unit"`
	CalculatedQty    decimal.Decimal  `json:"calculated_qty"`
	ManualQty        *decimal.Decimal `json:"manual_qty"`
	IsManuallyEdited bool             `json:"is_manually_edited"`
	EffectiveQty     decimal.Decimal  `json:"effective_qty"`
	CurrentStock     decimal.Decimal  `json:"current_stock"`
	Shortage         decimal.Decimal  `json:"shortage"`
}

type ResourceListResponse struct {
	BookingID string             `json:"booking_id"`
	Resources []ResourceResponse `json:"resources"`
}

// ResourceUpdate sets or, with a null manual_qty, clears one override.
type ResourceUpdate struct {
	ResourceID string           `json:"resource_id" validate:"required,uuid"`
	ManualQty  *decimal.Decimal `json:"manual_qty"`
}

type UpdateResourcesRequest struct {
	Updates []ResourceUpdate `json:"updates" validate:"required,min=1,dive"`
}
