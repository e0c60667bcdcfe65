package service_test

import (
	"errors"
	"sync"
	"testing"

	"venueops/internal/dto"
	"venueops/internal/model"
	"venueops/internal/repository"
	"venueops/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selections(eventID uuid.UUID, dishes ...uuid.UUID) []model.MenuSelection {
	out := make([]model.MenuSelection, len(dishes))
	for i, d := range dishes {
		out[i] = model.MenuSelection{ID: uuid.New(), EventID: eventID, MenuItemID: d, Quantity: 1}
	}
	return out
}

func TestDeductForEvent_FloorsAtZeroAndWarnsOnce(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "8", "2", false)
	oil := f.inv.add(f.branch, "Oil", model.CategoryIngredient, "50", "5", false)
	d1 := f.menus.dish(map[uuid.UUID]string{rice.ID: "0.25", oil.ID: "0.1"})
	d2 := f.menus.dish(map[uuid.UUID]string{rice.ID: "0.05"})
	eventID := uuid.New()

	res, err := f.ledger.DeductForEvent(ctx, service.DeductionRequest{
		EventID:    eventID,
		MenuItems:  selections(eventID, d1, d2),
		GuestCount: 40,
	})
	require.NoError(t, err)
	require.Len(t, res.UpdatedItems, 2)
	assert.Equal(t, 1, res.RunCount)
	assert.Zero(t, res.Failed())

	// rice needs 12, only 8 on hand.
	assert.True(t, f.inv.stock(rice.ID).IsZero())
	assert.True(t, f.inv.stock(oil.ID).Equal(dec("46")))
	for _, l := range res.UpdatedItems {
		if l.Item.ID == rice.ID {
			assert.True(t, l.Required.Equal(dec("12")))
			assert.True(t, l.Deducted.Equal(dec("8")))
			assert.True(t, l.Shortfall.Equal(dec("4")))
		}
	}

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, rice.ID, res.Warnings[0].Item.ID)
	assert.True(t, res.Warnings[0].Remaining.IsZero())

	mv := f.movements.forItem(rice.ID)
	require.Len(t, mv, 1)
	assert.Equal(t, model.MovementEventDeduction, mv[0].Type)
	assert.True(t, mv[0].Quantity.Equal(dec("-8")))
	assert.True(t, mv[0].StockBefore.Sub(mv[0].StockAfter).Equal(mv[0].Quantity.Neg()))
	require.NotNil(t, mv[0].EventID)
	assert.Equal(t, eventID, *mv[0].EventID)
}

func TestDeductForEvent_UsesEffectiveQuantitiesAndSkipsReusable(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "0", false)
	oil := f.inv.add(f.branch, "Oil", model.CategoryIngredient, "100", "0", false)
	chairs := f.inv.add(f.branch, "Chairs", model.CategoryFurniture, "200", "0", true)
	zero, five := dec("0"), dec("5")

	res, err := f.ledger.DeductForEvent(ctx, service.DeductionRequest{
		EventID:    uuid.New(),
		GuestCount: 40,
		Resources: []model.BookingResource{
			{InventoryItemID: rice.ID, CalculatedQty: dec("10"), ManualQty: &five, IsManuallyEdited: true},
			{InventoryItemID: oil.ID, CalculatedQty: dec("4"), ManualQty: &zero, IsManuallyEdited: true},
			{InventoryItemID: chairs.ID, CalculatedQty: dec("40"), InventoryItem: chairs},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.UpdatedItems, 1)
	assert.True(t, f.inv.stock(rice.ID).Equal(dec("95")), "manual override wins")
	assert.True(t, f.inv.stock(oil.ID).Equal(dec("100")), "zero override deducts nothing")
	assert.True(t, f.inv.stock(chairs.ID).Equal(dec("200")), "reusable items are never deducted")
}

func TestDeductForEvent_DuplicateGuard(t *testing.T) {
	rice := func(f *fixture) *model.InventoryItem {
		return f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "0", false)
	}

	t.Run("second call rejected", func(t *testing.T) {
		f := newFixture(false)
		it := rice(f)
		req := service.DeductionRequest{
			EventID:    uuid.New(),
			GuestCount: 10,
			Resources:  []model.BookingResource{{InventoryItemID: it.ID, CalculatedQty: dec("10")}},
		}
		_, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)

		_, err = f.ledger.DeductForEvent(ctx, req)
		assert.ErrorIs(t, err, service.ErrDuplicateDeduction)
		assert.Equal(t, "already_finalized", service.Reason(err))

		req.Force = true
		_, err = f.ledger.DeductForEvent(ctx, req)
		assert.ErrorIs(t, err, service.ErrDuplicateDeduction, "force is ignored unless re-finalisation is enabled")
		assert.True(t, f.inv.stock(it.ID).Equal(dec("90")))
	})

	t.Run("forced re-run when enabled", func(t *testing.T) {
		f := newFixture(true)
		it := rice(f)
		req := service.DeductionRequest{
			EventID:    uuid.New(),
			GuestCount: 10,
			Resources:  []model.BookingResource{{InventoryItemID: it.ID, CalculatedQty: dec("10")}},
		}
		_, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)

		req.Force = true
		res, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 2, res.RunCount)
		assert.True(t, f.inv.stock(it.ID).Equal(dec("80")))
		assert.Len(t, f.movements.forItem(it.ID), 2)
	})
}

func TestDeductForEvent_ReleasesClaimWhenNothingApplied(t *testing.T) {
	t.Run("first run", func(t *testing.T) {
		f := newFixture(false)
		rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "0", false)
		f.inv.failSet[rice.ID] = errors.New("connection reset")
		req := service.DeductionRequest{
			EventID:   uuid.New(),
			Resources: []model.BookingResource{{InventoryItemID: rice.ID, CalculatedQty: dec("10")}},
		}

		res, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Released)
		assert.Equal(t, 0, res.RunCount)
		assert.False(t, f.finals.has(req.EventID))
		require.NoError(t, f.ledger.CheckFinalizable(ctx, req.EventID, false))

		delete(f.inv.failSet, rice.ID)
		res, err = f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)
		assert.False(t, res.Released)
		assert.Equal(t, 1, res.RunCount)
		assert.True(t, f.inv.stock(rice.ID).Equal(dec("90")))
	})

	t.Run("forced re-run restores the previous record", func(t *testing.T) {
		f := newFixture(true)
		rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "0", false)
		req := service.DeductionRequest{
			EventID:   uuid.New(),
			Resources: []model.BookingResource{{InventoryItemID: rice.ID, CalculatedQty: dec("10")}},
		}
		_, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)

		f.inv.failSet[rice.ID] = errors.New("connection reset")
		req.Force = true
		res, err := f.ledger.DeductForEvent(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.Released)
		assert.Equal(t, 1, res.RunCount)

		fin, err := f.finals.FindByEvent(ctx, nil, req.EventID)
		require.NoError(t, err)
		assert.Equal(t, 1, fin.RunCount)
		assert.Equal(t, 1, fin.LineCount)
		assert.ErrorIs(t, f.ledger.CheckFinalizable(ctx, req.EventID, false), service.ErrDuplicateDeduction)
	})
}

func TestDeductForEvent_LinesAreIndependent(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "100", "0", false)
	oil := f.inv.add(f.branch, "Oil", model.CategoryIngredient, "100", "0", false)
	f.inv.failSet[oil.ID] = errors.New("connection reset")

	res, err := f.ledger.DeductForEvent(ctx, service.DeductionRequest{
		EventID: uuid.New(),
		Resources: []model.BookingResource{
			{InventoryItemID: rice.ID, CalculatedQty: dec("10")},
			{InventoryItemID: oil.ID, CalculatedQty: dec("10")},
			{InventoryItemID: uuid.New(), CalculatedQty: dec("1")}, // deleted item
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed())
	assert.True(t, f.inv.stock(rice.ID).Equal(dec("90")))
	assert.True(t, f.inv.stock(oil.ID).Equal(dec("100")))
	assert.Empty(t, f.movements.forItem(oil.ID))

	for _, l := range res.UpdatedItems {
		switch l.Item.ID {
		case oil.ID:
			assert.ErrorIs(t, l.Err, service.ErrStorageFailure)
		case rice.ID:
			assert.NoError(t, l.Err)
		default:
			assert.ErrorIs(t, l.Err, service.ErrNotFound)
		}
	}
}

func TestDeductForEvent_ConcurrentEventsNeverOverdraw(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "50", "0", false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.DeductForEvent(ctx, service.DeductionRequest{
				EventID:   uuid.New(),
				Resources: []model.BookingResource{{InventoryItemID: rice.ID, CalculatedQty: dec("3")}},
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.True(t, f.inv.stock(rice.ID).IsZero())
	total := dec("0")
	for _, m := range f.movements.forItem(rice.ID) {
		total = total.Add(m.Quantity)
	}
	assert.True(t, total.Equal(dec("-50")), "every unit removed is traceable to a movement")
}

func TestAdjustStock(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "10", "5", false)

	resp, err := f.ledger.AdjustStock(ctx, repository.Unscoped(), rice.ID, dto.AdjustStockRequest{Type: model.MovementPurchase, Quantity: dec("15")})
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(dec("25")))
	assert.False(t, resp.BelowMinimum)

	resp, err = f.ledger.AdjustStock(ctx, repository.ForBranch(f.branch), rice.ID, dto.AdjustStockRequest{Type: model.MovementAdjustment, Quantity: dec("4")})
	require.NoError(t, err)
	assert.True(t, resp.CurrentStock.Equal(dec("4")))
	assert.True(t, resp.BelowMinimum)

	mv := f.movements.forItem(rice.ID)
	require.Len(t, mv, 2)
	assert.True(t, mv[1].Quantity.Equal(dec("-21")))

	_, err = f.ledger.AdjustStock(ctx, repository.Unscoped(), rice.ID, dto.AdjustStockRequest{Type: model.MovementReturn, Quantity: dec("-1")})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.ledger.AdjustStock(ctx, repository.ForBranch(uuid.New()), rice.ID, dto.AdjustStockRequest{Type: model.MovementPurchase, Quantity: dec("1")})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Len(t, f.movements.forItem(rice.ID), 2)
}

func TestLowStockAndMovements(t *testing.T) {
	f := newFixture(false)
	rice := f.inv.add(f.branch, "Rice", model.CategoryIngredient, "1", "5", false)
	f.inv.add(f.branch, "Oil", model.CategoryIngredient, "50", "5", false)

	low, err := f.ledger.LowStock(ctx, repository.Unscoped())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, rice.ID.String(), low[0].ID)

	_, err = f.ledger.ListMovements(ctx, repository.Unscoped(), dto.MovementFilter{EventID: "nope", Page: 1, Limit: 10})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	list, err := f.ledger.ListMovements(ctx, repository.Unscoped(), dto.MovementFilter{InventoryItemID: rice.ID.String(), Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, list.Total)
}
