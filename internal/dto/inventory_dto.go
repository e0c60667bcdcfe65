package dto

import "github.com/shopspring/decimal"

type InventoryFilter struct {
	Category string `form:"category"`
	Name     string `form:"name"`
	Active   string `form:"active,default=true"` // true | false | all
}

type InventoryItemResponse struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	Reusable      bool            `json:"reusable"`
	Active        bool            `json:"active"`
	BelowMinimum  bool            `json:"below_minimum"`
}

// AdjustStockRequest is the body of POST /v1/inventory/:id/adjust.
// PURCHASE and RETURN add Quantity; ADJUSTMENT sets it as the new level.
type AdjustStockRequest struct {
	Type     string          `json:"type"     validate:"required,oneof=PURCHASE RETURN ADJUSTMENT"`
	Quantity decimal.Decimal `json:"quantity" validate:"min=0"`
	Notes    string          `json:"notes"    validate:"max=500"`
}

type MovementFilter struct {
	InventoryItemID string `form:"inventory_item_id" validate:"omitempty,uuid"`
	EventID         string `form:"event_id"          validate:"omitempty,uuid"`
	Type            string `form:"type"              validate:"omitempty,oneof=EVENT_DEDUCTION PURCHASE RETURN ADJUSTMENT"`
	Page            int    `form:"page,default=1"    validate:"min=1"`
	Limit           int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type StockMovementResponse struct {
	ID              string          `json:"id"`
	InventoryItemID string          `json:"inventory_item_id"`
	ItemName        string          `json:"item_name"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	StockBefore     decimal.Decimal `json:"stock_before"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	EventID         *string         `json:"event_id"`
	Notes           string          `json:"notes"`
	CreatedAt       string          `json:"created_at"`
}

type MovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}
