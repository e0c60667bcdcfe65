package service_test

import (
	"context"
	"testing"

	"venueops/internal/model"
	"venueops/internal/repository"
	"venueops/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func TestGenerate_FirstRunBuildsMenuAndStructuralRows(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	chairs := f.inv.add(f.branch, "Chairs", model.CategoryFurniture, "500", "0", true)
	f.inv.add(uuid.New(), "Tables", model.CategoryFurniture, "50", "0", true) // other branch
	biryani := f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"})
	b := f.booking(40, biryani)

	rows, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.True(t, rowFor(rows, rice.ID).CalculatedQty.Equal(dec("10")))
	assert.True(t, rowFor(rows, chairs.ID).CalculatedQty.Equal(dec("40")))
	for _, r := range rows {
		assert.False(t, r.IsManuallyEdited)
		assert.Nil(t, r.ManualQty)
	}
}

func TestGenerate_WithoutForceIsIdempotent(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	b := f.booking(40, f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"}))

	first, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	saves := f.res.saves

	second, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, saves, f.res.saves, "no writes on an idempotent read")
}

func TestGenerate_ForceKeepsManualOverride(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	b := f.booking(40, f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"}))

	rows, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	manual := dec("12")
	_, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{
		{ResourceID: rows[0].ID, ManualQty: &manual},
	})
	require.NoError(t, err)

	// Guest count revised upward, then forced recalculation.
	f.bookings.bookings[b.ID].Event.GuestCount = 80
	rows, err = f.planner.Generate(ctx, repository.Unscoped(), b.ID, true)
	require.NoError(t, err)

	r := rowFor(rows, rice.ID)
	require.NotNil(t, r)
	assert.True(t, r.CalculatedQty.Equal(dec("20")))
	require.NotNil(t, r.ManualQty)
	assert.True(t, r.ManualQty.Equal(manual))
	assert.True(t, r.IsManuallyEdited)
	assert.True(t, r.EffectiveQty().Equal(manual))
}

func TestGenerate_DroppedDish(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	oil := f.inv.add(f.branch, "Oil", model.CategoryIngredient, "100", "5", false)
	paneer := f.inv.add(f.branch, "Paneer", model.CategoryIngredient, "100", "5", false)
	d1 := f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"})
	d2 := f.menus.dish(map[uuid.UUID]string{oil.ID: "0.01", paneer.ID: "0.1"})
	b := f.booking(10, d1, d2)

	rows, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	zero := decimal.Zero
	_, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{
		{ResourceID: rowFor(rows, paneer.ID).ID, ManualQty: &zero},
	})
	require.NoError(t, err)

	// d2 removed from the menu.
	ev := f.bookings.bookings[b.ID].Event
	ev.MenuSelections = ev.MenuSelections[:1]
	rows, err = f.planner.Generate(ctx, repository.Unscoped(), b.ID, true)
	require.NoError(t, err)

	assert.NotNil(t, rowFor(rows, rice.ID))
	assert.Nil(t, rowFor(rows, oil.ID), "unedited row of a dropped item is removed")
	kept := rowFor(rows, paneer.ID)
	require.NotNil(t, kept, "edited row is retained for visibility")
	assert.True(t, kept.CalculatedQty.IsZero())
	assert.True(t, kept.IsManuallyEdited)
}

func TestGenerate_OutOfScopeBookingIsNotFound(t *testing.T) {
	f := newFixture(false)
	b := f.booking(10)

	_, err := f.planner.Generate(ctx, repository.ForBranch(uuid.New()), b.ID, false)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Equal(t, "booking_not_found", service.Reason(err))

	_, err = f.planner.Generate(ctx, repository.Unscoped(), uuid.New(), false)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdate_Validation(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	b := f.booking(40, f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"}))
	other := f.booking(40, f.menus.dish(map[uuid.UUID]string{rice.ID: "0.5"}))

	rows, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	otherRows, err := f.planner.Generate(ctx, repository.Unscoped(), other.ID, false)
	require.NoError(t, err)

	q := dec("3")
	_, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{
		{ResourceID: otherRows[0].ID, ManualQty: &q},
	})
	assert.ErrorIs(t, err, service.ErrInvalidOverride)
	assert.Equal(t, "resource_not_owned", service.Reason(err))

	neg := dec("-1")
	_, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{
		{ResourceID: rows[0].ID, ManualQty: &q},
		{ResourceID: rows[0].ID, ManualQty: &neg},
	})
	assert.ErrorIs(t, err, service.ErrInvalidOverride)
	assert.Equal(t, "negative_quantity", service.Reason(err))

	// Nothing from the rejected batch was applied.
	after, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)
	assert.False(t, after[0].IsManuallyEdited)
}

func TestUpdate_NullClearsOverride(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "5", false)
	b := f.booking(40, f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25"}))
	rows, err := f.planner.Generate(ctx, repository.Unscoped(), b.ID, false)
	require.NoError(t, err)

	q := dec("7.5")
	rows, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{{ResourceID: rows[0].ID, ManualQty: &q}})
	require.NoError(t, err)
	require.True(t, rows[0].IsManuallyEdited)

	rows, err = f.planner.Update(ctx, repository.Unscoped(), b.ID, []service.ResourceUpdate{{ResourceID: rows[0].ID}})
	require.NoError(t, err)
	assert.False(t, rows[0].IsManuallyEdited)
	assert.Nil(t, rows[0].ManualQty)
	assert.True(t, rows[0].EffectiveQty().Equal(dec("10")))
}
