// Package planning turns menu selections and guest counts into per-item
// requirements and merges them into a booking's existing resource rows.
package planning

import (
	"venueops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QtyPlaces matches the scale of quantity columns so recomputation of an
// unchanged menu yields byte-identical values.
const QtyPlaces = 3

// Requirements maps inventory item id to required quantity.
type Requirements map[uuid.UUID]decimal.Decimal

func (r Requirements) add(itemID uuid.UUID, qty decimal.Decimal) {
	r[itemID] = r[itemID].Add(qty)
}

// ItemIDs returns the keys of r.
func (r Requirements) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	return ids
}

// GuestCount is the head count planning runs against: the event's when it has
// one, otherwise the booking's.
func GuestCount(b *model.Booking) int {
	if b.Event != nil && b.Event.GuestCount > 0 {
		return b.Event.GuestCount
	}
	return b.GuestCount
}

// MenuItemIDs returns the distinct menu items referenced by selections.
func MenuItemIDs(selections []model.MenuSelection) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(selections))
	ids := make([]uuid.UUID, 0, len(selections))
	for _, s := range selections {
		if seen[s.MenuItemID] {
			continue
		}
		seen[s.MenuItemID] = true
		ids = append(ids, s.MenuItemID)
	}
	return ids
}

// FromMenu sums quantityPerGuest × guests over every ingredient of every
// selected dish. A dish selected twice contributes twice.
func FromMenu(selections []model.MenuSelection, ingredients []model.MenuItemIngredient, guests int) Requirements {
	byMenuItem := make(map[uuid.UUID][]model.MenuItemIngredient)
	for _, ing := range ingredients {
		byMenuItem[ing.MenuItemID] = append(byMenuItem[ing.MenuItemID], ing)
	}

	g := decimal.NewFromInt(int64(guests))
	req := make(Requirements)
	for _, sel := range selections {
		for _, ing := range byMenuItem[sel.MenuItemID] {
			req.add(ing.InventoryItemID, ing.QuantityPerGuest.Mul(g))
		}
	}
	for id, qty := range req {
		req[id] = qty.Round(QtyPlaces)
	}
	return req
}
