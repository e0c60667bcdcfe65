package service

import (
	"context"

	"venueops/internal/model"
	"venueops/internal/planning"
	"venueops/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResourceUpdate sets an operator override on one resource row. A nil
// ManualQty clears the override.
type ResourceUpdate struct {
	ResourceID uuid.UUID
	ManualQty  *decimal.Decimal
}

// ResourcePlanner keeps a booking's resource rows in line with its menu and
// guest count without discarding operator overrides.
type ResourcePlanner interface {
	// Generate returns the stored rows untouched when they exist and force is
	// false; otherwise it recomputes requirements and merges them in.
	Generate(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, force bool) ([]model.BookingResource, error)
	Update(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, updates []ResourceUpdate) ([]model.BookingResource, error)
}

type resourcePlanner struct {
	bookings  repository.BookingRepository
	resources repository.BookingResourceRepository
	menus     repository.MenuRepository
	inventory repository.InventoryRepository
	rules     []planning.StructuralRule
}

func NewResourcePlanner(
	bookings repository.BookingRepository,
	resources repository.BookingResourceRepository,
	menus repository.MenuRepository,
	inventory repository.InventoryRepository,
	rules []planning.StructuralRule,
) ResourcePlanner {
	return &resourcePlanner{
		bookings:  bookings,
		resources: resources,
		menus:     menus,
		inventory: inventory,
		rules:     rules,
	}
}

func (p *resourcePlanner) Generate(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, force bool) ([]model.BookingResource, error) {
	var out []model.BookingResource
	err := runTx(ctx, p.bookings.DB(), func(tx *gorm.DB) error {
		// Locking the booking row serialises generation and overrides per booking.
		b, err := p.bookings.Lock(ctx, tx, scope, bookingID)
		if err != nil {
			return fromStorage(err, "booking")
		}
		existing, err := p.resources.ListByBooking(ctx, tx, bookingID)
		if err != nil {
			return storageErr(err)
		}
		if len(existing) > 0 && !force {
			out = existing
			return nil
		}

		req, err := p.requirements(ctx, tx, b)
		if err != nil {
			return err
		}
		plan := planning.Merge(bookingID, existing, req)
		if plan.Empty() {
			out = existing
			return nil
		}
		for i := range plan.Upserts {
			if err := p.resources.Save(ctx, tx, &plan.Upserts[i]); err != nil {
				return storageErr(err)
			}
		}
		if err := p.resources.Delete(ctx, tx, plan.Deletes); err != nil {
			return storageErr(err)
		}
		log.Info().
			Str("booking_id", bookingID.String()).
			Int("upserts", len(plan.Upserts)).
			Int("deletes", len(plan.Deletes)).
			Bool("force", force).
			Msg("booking resources generated")

		out, err = p.resources.ListByBooking(ctx, tx, bookingID)
		if err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// requirements derives menu ingredients plus structural items for b.
func (p *resourcePlanner) requirements(ctx context.Context, tx *gorm.DB, b *model.Booking) (planning.Requirements, error) {
	guests := planning.GuestCount(b)
	var selections []model.MenuSelection
	if b.Event != nil {
		selections = b.Event.MenuSelections
	}

	var ingredients []model.MenuItemIngredient
	if len(selections) > 0 {
		var err error
		ingredients, err = p.menus.Ingredients(ctx, tx, planning.MenuItemIDs(selections))
		if err != nil {
			return nil, storageErr(err)
		}
	}
	req := planning.FromMenu(selections, ingredients, guests)

	if len(p.rules) > 0 && guests > 0 {
		items, err := p.inventory.FindByNames(ctx, tx, b.BranchID, planning.RuleNames(p.rules))
		if err != nil {
			return nil, storageErr(err)
		}
		planning.ApplyStructural(req, p.rules, items, guests)
	}
	return req, nil
}

func (p *resourcePlanner) Update(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, updates []ResourceUpdate) ([]model.BookingResource, error) {
	var out []model.BookingResource
	err := runTx(ctx, p.bookings.DB(), func(tx *gorm.DB) error {
		if _, err := p.bookings.Lock(ctx, tx, scope, bookingID); err != nil {
			return fromStorage(err, "booking")
		}
		existing, err := p.resources.ListByBooking(ctx, tx, bookingID)
		if err != nil {
			return storageErr(err)
		}
		byID := make(map[uuid.UUID]*model.BookingResource, len(existing))
		for i := range existing {
			byID[existing[i].ID] = &existing[i]
		}

		// Validate everything before the first write.
		for _, u := range updates {
			if _, ok := byID[u.ResourceID]; !ok {
				return newErr(ErrInvalidOverride, "resource_not_owned")
			}
			if u.ManualQty != nil && u.ManualQty.IsNegative() {
				return newErr(ErrInvalidOverride, "negative_quantity")
			}
		}

		for _, u := range updates {
			row := byID[u.ResourceID]
			if u.ManualQty == nil {
				row.ManualQty = nil
				row.IsManuallyEdited = false
			} else {
				q := u.ManualQty.Round(planning.QtyPlaces)
				row.ManualQty = &q
				row.IsManuallyEdited = true
			}
			if err := p.resources.Save(ctx, tx, row); err != nil {
				return storageErr(err)
			}
		}
		log.Info().
			Str("booking_id", bookingID.String()).
			Int("updates", len(updates)).
			Msg("booking resource overrides applied")

		out, err = p.resources.ListByBooking(ctx, tx, bookingID)
		if err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
