package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingResource is the planned requirement of one inventory item for one booking.
// CalculatedQty is owned by the planner; ManualQty and IsManuallyEdited are owned
// by operators and survive recalculation.
type BookingResource struct {
	ID               uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookingID        uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_booking_item;not null"`
	InventoryItemID  uuid.UUID        `gorm:"type:uuid;uniqueIndex:idx_booking_item;not null"`
	CalculatedQty    decimal.Decimal  `gorm:"type:decimal(14,3);not null;default:0"`
	ManualQty        *decimal.Decimal `gorm:"type:decimal(14,3)"`
	IsManuallyEdited bool             `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	InventoryItem *InventoryItem `gorm:"foreignKey:InventoryItemID;constraint:OnDelete:RESTRICT"`
}

// EffectiveQty is the quantity every downstream consumer must use: the manual
// override when one is set, else the calculated value.
func (r *BookingResource) EffectiveQty() decimal.Decimal {
	if r.IsManuallyEdited && r.ManualQty != nil {
		return *r.ManualQty
	}
	return r.CalculatedQty
}
