package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventory categories. STAFF and FURNITURE items are normally Reusable.
const (
	CategoryIngredient = "INGREDIENT"
	CategoryStaff      = "STAFF"
	CategoryFurniture  = "FURNITURE"
	CategoryOther      = "OTHER"
)

// InventoryItem is branch-owned stock shared by every booking that consumes it.
// CurrentStock only changes through a StockMovement.
type InventoryItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name          string          `gorm:"not null;index"`
	Category      string          `gorm:"not null;default:'INGREDIENT'"`
	Unit          string          `gorm:"not null;default:'unit'"`
	CurrentStock  decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	MinStockLevel decimal.Decimal `gorm:"type:decimal(14,3);not null;default:0"`
	CostPerUnit   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// Reusable items are planned per booking but never deducted on finalisation.
	Reusable  bool `gorm:"not null;default:false"`
	Active    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelowMinimum reports whether stock sits at or under the alert threshold.
func (i *InventoryItem) BelowMinimum() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStockLevel)
}
