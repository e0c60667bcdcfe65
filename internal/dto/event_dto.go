package dto

import "github.com/shopspring/decimal"

// DeductionLine reports what happened to one inventory item during finalisation.
type DeductionLine struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	Required        decimal.Decimal `json:"required"`
	Deducted        decimal.Decimal `json:"deducted"`
	Shortfall       decimal.Decimal `json:"shortfall"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	Error           string          `json:"error,omitempty"`
}

type StockWarning struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	Remaining       decimal.Decimal `json:"remaining"`
	MinStockLevel   decimal.Decimal `json:"min_stock_level"`
}

type FinalizeMenuResponse struct {
	EventID      string          `json:"event_id"`
	BookingID    string          `json:"booking_id"`
	RunCount     int             `json:"run_count"`
	UpdatedItems []DeductionLine `json:"updated_items"`
	Warnings     []StockWarning  `json:"warnings"`
	Failed       int             `json:"failed"`
	// Retryable means nothing was deducted and the event is not marked finalized.
	Retryable bool `json:"retryable"`
}
