package planning

import (
	"strings"

	"venueops/internal/model"

	"github.com/shopspring/decimal"
)

// StructuralRule derives a requirement from the head count alone. Rules are
// resolved against branch inventory by item name and category.
type StructuralRule struct {
	ItemName string
	Category string
	Quantity func(guests int) decimal.Decimal
}

func perGuests(n int64) func(int) decimal.Decimal {
	return func(guests int) decimal.Decimal {
		return decimal.NewFromInt(int64(guests)).Div(decimal.NewFromInt(n)).Ceil()
	}
}

// DefaultStructuralRules: one waiter per 20 guests, one chair per guest, one
// table per 8 guests.
func DefaultStructuralRules() []StructuralRule {
	return []StructuralRule{
		{ItemName: "Waiters", Category: model.CategoryStaff, Quantity: perGuests(20)},
		{ItemName: "Chairs", Category: model.CategoryFurniture, Quantity: perGuests(1)},
		{ItemName: "Tables", Category: model.CategoryFurniture, Quantity: perGuests(8)},
	}
}

// RuleNames lists the item names the rules need resolved.
func RuleNames(rules []StructuralRule) []string {
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.ItemName)
	}
	return names
}

// ApplyStructural adds each rule's quantity to req for the matching item in
// items. Rules with no matching item are skipped.
func ApplyStructural(req Requirements, rules []StructuralRule, items []model.InventoryItem, guests int) {
	if guests <= 0 {
		return
	}
	for _, rule := range rules {
		for _, it := range items {
			if strings.EqualFold(it.Name, rule.ItemName) && it.Category == rule.Category {
				req.add(it.ID, rule.Quantity(guests).Round(QtyPlaces))
				break
			}
		}
	}
}
