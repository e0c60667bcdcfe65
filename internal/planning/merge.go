package planning

import (
	"sort"

	"venueops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Plan is the set of writes that brings a booking's resource rows in line with
// fresh requirements.
type Plan struct {
	// Upserts holds rows to insert (ID == uuid.Nil) or update.
	Upserts []model.BookingResource
	// Deletes holds ids of rows no longer required and never edited.
	Deletes []uuid.UUID
}

// Empty reports whether applying p would change nothing.
func (p Plan) Empty() bool { return len(p.Upserts) == 0 && len(p.Deletes) == 0 }

// Merge reconciles existing rows (keyed by inventory item) with req.
//
//   - a required item with a row gets its CalculatedQty refreshed; manual fields
//     are left as they are
//   - a required item without a row gets a new unedited row
//   - a row whose item is no longer required is deleted, unless it was manually
//     edited, in which case it stays with CalculatedQty 0
//
// Rows whose values would not change are left out of the plan.
func Merge(bookingID uuid.UUID, existing []model.BookingResource, req Requirements) Plan {
	var plan Plan
	seen := make(map[uuid.UUID]bool, len(existing))

	for _, row := range existing {
		seen[row.InventoryItemID] = true
		qty, ok := req[row.InventoryItemID]
		if !ok || !qty.IsPositive() {
			if !row.IsManuallyEdited {
				plan.Deletes = append(plan.Deletes, row.ID)
				continue
			}
			qty = decimal.Zero
		}
		if row.CalculatedQty.Equal(qty) {
			continue
		}
		row.CalculatedQty = qty
		plan.Upserts = append(plan.Upserts, row)
	}

	for itemID, qty := range req {
		if seen[itemID] || !qty.IsPositive() {
			continue
		}
		plan.Upserts = append(plan.Upserts, model.BookingResource{
			BookingID:       bookingID,
			InventoryItemID: itemID,
			CalculatedQty:   qty,
		})
	}

	sort.Slice(plan.Upserts, func(i, j int) bool {
		return plan.Upserts[i].InventoryItemID.String() < plan.Upserts[j].InventoryItemID.String()
	})
	sort.Slice(plan.Deletes, func(i, j int) bool {
		return plan.Deletes[i].String() < plan.Deletes[j].String()
	})
	return plan
}
