package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"not null"`
	Active   bool      `gorm:"not null;default:true"`

	Ingredients []MenuItemIngredient `gorm:"foreignKey:MenuItemID"`
}

// MenuItemIngredient is the per-guest ratio linking a dish to the stock it consumes.
type MenuItemIngredient struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MenuItemID       uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_menu_item_ingredient;not null"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;uniqueIndex:idx_menu_item_ingredient;not null"`
	QuantityPerGuest decimal.Decimal `gorm:"type:decimal(12,4);not null"`

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID"`
}

// MenuSelection is a dish chosen for an event. Quantity counts plates, not
// ingredient volume.
type MenuSelection struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EventID    uuid.UUID `gorm:"type:uuid;not null;index"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity   int       `gorm:"not null;default:1"`

	MenuItem *MenuItem `gorm:"foreignKey:MenuItemID"`
}
