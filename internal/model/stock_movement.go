package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types.
const (
	MovementEventDeduction = "EVENT_DEDUCTION"
	MovementPurchase       = "PURCHASE"
	MovementReturn         = "RETURN"
	MovementAdjustment     = "ADJUSTMENT"
)

// StockMovement is the append-only ledger entry behind every stock change.
// Rows are never updated or deleted.
type StockMovement struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InventoryItemID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type            string          `gorm:"not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(14,3);not null"` // signed delta
	StockBefore     decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	StockAfter      decimal.Decimal `gorm:"type:decimal(14,3);not null"`
	EventID         *uuid.UUID      `gorm:"type:uuid;index"`
	Notes           string
	CreatedAt       time.Time

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}
