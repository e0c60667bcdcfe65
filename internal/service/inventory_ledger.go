package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"venueops/internal/dto"
	"venueops/internal/infra"
	"venueops/internal/model"
	"venueops/internal/planning"
	"venueops/internal/repository"
	"venueops/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var tracer = otel.Tracer("venueops/service")

// DeductionRequest describes one finalisation run for an event.
type DeductionRequest struct {
	EventID    uuid.UUID
	BookingID  uuid.UUID
	MenuItems  []model.MenuSelection
	GuestCount int
	// Resources, when non-empty, are the booking's rows; their effective
	// quantities replace the menu-ratio computation.
	Resources []model.BookingResource
	Force     bool
}

// DeductionLine is the outcome for one inventory item. Lines are independent:
// a failed line carries Err and leaves every other line untouched.
type DeductionLine struct {
	Item       model.InventoryItem
	Required   decimal.Decimal
	Deducted   decimal.Decimal
	Shortfall  decimal.Decimal
	StockAfter decimal.Decimal
	Err        error
}

type StockWarning struct {
	Item      model.InventoryItem
	Remaining decimal.Decimal
}

type DeductionResult struct {
	RunCount     int
	UpdatedItems []DeductionLine
	Warnings     []StockWarning
	// Released is set when every line failed and the finalization record was
	// given back, so the event can be finalized again without force.
	Released bool
}

// Failed counts lines that could not be applied.
func (r *DeductionResult) Failed() int {
	n := 0
	for _, l := range r.UpdatedItems {
		if l.Err != nil {
			n++
		}
	}
	return n
}

// InventoryLedger is the only writer of inventory stock.
type InventoryLedger interface {
	// CheckFinalizable reports DuplicateDeduction when DeductForEvent would
	// reject the event, without changing anything.
	CheckFinalizable(ctx context.Context, eventID uuid.UUID, force bool) error
	DeductForEvent(ctx context.Context, req DeductionRequest) (*DeductionResult, error)
	AdjustStock(ctx context.Context, scope repository.Scope, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.InventoryItemResponse, error)
	ListItems(ctx context.Context, scope repository.Scope, filter dto.InventoryFilter) ([]dto.InventoryItemResponse, error)
	LowStock(ctx context.Context, scope repository.Scope) ([]dto.InventoryItemResponse, error)
	ListMovements(ctx context.Context, scope repository.Scope, filter dto.MovementFilter) (*dto.MovementListResponse, error)
}

// LedgerConfig carries the ledger's policy switches.
type LedgerConfig struct {
	AllowRefinalize bool
	Now             func() time.Time
}

type inventoryLedger struct {
	inventory  repository.InventoryRepository
	movements  repository.StockMovementRepository
	menus      repository.MenuRepository
	finals     repository.FinalizationRepository
	locker     infra.Locker
	dispatcher *worker.Dispatcher
	cfg        LedgerConfig
}

func NewInventoryLedger(
	inventory repository.InventoryRepository,
	movements repository.StockMovementRepository,
	menus repository.MenuRepository,
	finals repository.FinalizationRepository,
	locker infra.Locker,
	dispatcher *worker.Dispatcher,
	cfg LedgerConfig,
) InventoryLedger {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if locker == nil {
		locker = infra.NewKeyedMutex()
	}
	return &inventoryLedger{
		inventory:  inventory,
		movements:  movements,
		menus:      menus,
		finals:     finals,
		locker:     locker,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

func itemLockKey(id uuid.UUID) string { return "inventory_item:" + id.String() }

// ─── Deduction ──────────────────────────────────────────────────────────────

func (l *inventoryLedger) DeductForEvent(ctx context.Context, req DeductionRequest) (*DeductionResult, error) {
	ctx, span := tracer.Start(ctx, "InventoryLedger.DeductForEvent", trace.WithAttributes(
		attribute.String("event_id", req.EventID.String()),
		attribute.Int("guest_count", req.GuestCount),
		attribute.Bool("force", req.Force),
	))
	defer span.End()

	required, err := l.required(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	fin, prev, err := l.claimFinalization(ctx, req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	ids := required.ItemIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	result := &DeductionResult{RunCount: fin.RunCount}
	for _, id := range ids {
		line, skipped := l.deductLine(ctx, req.EventID, id, required[id])
		if skipped {
			continue
		}
		result.UpdatedItems = append(result.UpdatedItems, line)
		if line.Err != nil {
			log.Error().Err(line.Err).
				Str("event_id", req.EventID.String()).
				Str("item_id", id.String()).
				Msg("deduction line failed")
			continue
		}
		if line.StockAfter.LessThanOrEqual(line.Item.MinStockLevel) {
			result.Warnings = append(result.Warnings, StockWarning{Item: line.Item, Remaining: line.StockAfter})
		}
	}

	if n := len(result.UpdatedItems); n > 0 && result.Failed() == n {
		// Nothing was applied: give the claim back so a plain retry works.
		l.releaseClaim(ctx, fin, prev)
		result.RunCount = 0
		if prev != nil {
			result.RunCount = prev.RunCount
		}
		result.Released = true
		span.SetStatus(codes.Error, "no deduction line applied")
		return result, nil
	}

	fin.LineCount = len(result.UpdatedItems)
	fin.WarningCount = len(result.Warnings)
	if err := l.finals.Update(ctx, nil, fin); err != nil {
		log.Error().Err(err).Str("event_id", req.EventID.String()).Msg("finalization counters not saved")
	}

	span.SetAttributes(
		attribute.Int("lines", len(result.UpdatedItems)),
		attribute.Int("warnings", len(result.Warnings)),
		attribute.Int("failed", result.Failed()),
	)
	log.Info().
		Str("event_id", req.EventID.String()).
		Int("run", fin.RunCount).
		Int("lines", len(result.UpdatedItems)).
		Int("warnings", len(result.Warnings)).
		Int("failed", result.Failed()).
		Msg("event stock deducted")

	l.publish(ctx, req, result)
	return result, nil
}

// required computes per-item quantities from effective resource quantities
// when rows exist, else from menu ratios.
func (l *inventoryLedger) required(ctx context.Context, req DeductionRequest) (planning.Requirements, error) {
	if len(req.Resources) > 0 {
		out := make(planning.Requirements, len(req.Resources))
		for i := range req.Resources {
			row := &req.Resources[i]
			if row.InventoryItem != nil && row.InventoryItem.Reusable {
				continue
			}
			if qty := row.EffectiveQty(); qty.IsPositive() {
				out[row.InventoryItemID] = qty
			}
		}
		return out, nil
	}
	if len(req.MenuItems) == 0 {
		return planning.Requirements{}, nil
	}
	ingredients, err := l.menus.Ingredients(ctx, nil, planning.MenuItemIDs(req.MenuItems))
	if err != nil {
		return nil, storageErr(err)
	}
	return planning.FromMenu(req.MenuItems, ingredients, req.GuestCount), nil
}

func (l *inventoryLedger) repeatAllowed(force bool) error {
	if !force || !l.cfg.AllowRefinalize {
		return newErr(ErrDuplicateDeduction, "already_finalized")
	}
	return nil
}

func (l *inventoryLedger) CheckFinalizable(ctx context.Context, eventID uuid.UUID, force bool) error {
	_, err := l.finals.FindByEvent(ctx, nil, eventID)
	switch {
	case err == nil:
		return l.repeatAllowed(force)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return storageErr(err)
	}
}

// claimFinalization records this run, rejecting a repeat unless forced and
// re-finalisation is enabled. prev is the record as it stood before a forced
// re-run, nil for a first run.
func (l *inventoryLedger) claimFinalization(ctx context.Context, req DeductionRequest) (fin, prev *model.MenuFinalization, err error) {
	err = runTx(ctx, l.inventory.DB(), func(tx *gorm.DB) error {
		existing, err := l.finals.FindByEvent(ctx, tx, req.EventID)
		switch {
		case err == nil:
			if err := l.repeatAllowed(req.Force); err != nil {
				return err
			}
			before := *existing
			prev = &before
			existing.RunCount++
			existing.GuestCount = req.GuestCount
			existing.FinalizedAt = l.cfg.Now()
			if err := l.finals.Update(ctx, tx, existing); err != nil {
				return storageErr(err)
			}
			fin = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			fin = &model.MenuFinalization{
				EventID:     req.EventID,
				GuestCount:  req.GuestCount,
				RunCount:    1,
				FinalizedAt: l.cfg.Now(),
			}
			if err := l.finals.Create(ctx, tx, fin); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return newErr(ErrDuplicateDeduction, "already_finalized")
				}
				return storageErr(err)
			}
			return nil
		default:
			return storageErr(err)
		}
	})
	return fin, prev, err
}

// releaseClaim undoes claimFinalization: a first run's record is removed, a
// forced re-run's record is restored.
func (l *inventoryLedger) releaseClaim(ctx context.Context, fin, prev *model.MenuFinalization) {
	var err error
	if prev == nil {
		err = l.finals.Delete(ctx, nil, fin.EventID)
	} else {
		err = l.finals.Update(ctx, nil, prev)
	}
	if err != nil {
		log.Error().Err(err).Str("event_id", fin.EventID.String()).Msg("finalization claim not released")
		return
	}
	log.Warn().Str("event_id", fin.EventID.String()).Msg("no deduction line applied, finalization released")
}

// deductLine applies one item's deduction under its lock in its own
// transaction. Stock is floored at zero and the remainder reported as
// Shortfall. Reusable items are skipped.
func (l *inventoryLedger) deductLine(ctx context.Context, eventID, itemID uuid.UUID, qty decimal.Decimal) (DeductionLine, bool) {
	line := DeductionLine{Item: model.InventoryItem{ID: itemID}, Required: qty}

	release, err := l.locker.Acquire(ctx, itemLockKey(itemID))
	if err != nil {
		line.Err = storageErr(err)
		return line, false
	}
	defer release()

	skipped := false
	err = runTx(ctx, l.inventory.DB(), func(tx *gorm.DB) error {
		item, err := l.inventory.LockForUpdate(ctx, tx, itemID)
		if err != nil {
			return fromStorage(err, "inventory_item")
		}
		if item.Reusable {
			skipped = true
			return nil
		}
		line.Item = *item

		before := item.CurrentStock
		deduct := decimal.Min(qty, before)
		if deduct.IsNegative() {
			deduct = decimal.Zero
		}
		after := before.Sub(deduct)
		line.Deducted = deduct
		line.Shortfall = qty.Sub(deduct)
		line.StockAfter = after

		if !deduct.IsPositive() {
			return nil
		}
		if err := l.inventory.SetStock(ctx, tx, itemID, after); err != nil {
			return storageErr(err)
		}
		ev := eventID
		if err := l.movements.Create(ctx, tx, &model.StockMovement{
			InventoryItemID: itemID,
			Type:            model.MovementEventDeduction,
			Quantity:        deduct.Neg(),
			StockBefore:     before,
			StockAfter:      after,
			EventID:         &ev,
			Notes:           "event deduction",
		}); err != nil {
			return storageErr(err)
		}
		line.Item.CurrentStock = after
		return nil
	})
	if err != nil {
		line.Err = err
		line.Deducted = decimal.Zero
		line.StockAfter = decimal.Zero
		line.Shortfall = decimal.Zero
	}
	return line, skipped
}

func (l *inventoryLedger) publish(ctx context.Context, req DeductionRequest, res *DeductionResult) {
	for _, w := range res.Warnings {
		l.enqueueStockLow(ctx, w.Item, w.Remaining)
	}
	if err := l.dispatcher.EnqueueMenuFinalized(ctx, worker.MenuFinalizedPayload{
		EventID:   req.EventID.String(),
		BookingID: req.BookingID.String(),
		RunCount:  res.RunCount,
		Lines:     len(res.UpdatedItems),
		Warnings:  len(res.Warnings),
		Failures:  res.Failed(),
	}); err != nil {
		log.Warn().Err(err).Str("event_id", req.EventID.String()).Msg("menu.finalized not published")
	}
}

func (l *inventoryLedger) enqueueStockLow(ctx context.Context, item model.InventoryItem, remaining decimal.Decimal) {
	if err := l.dispatcher.EnqueueStockLow(ctx, worker.StockLowPayload{
		InventoryItemID: item.ID.String(),
		BranchID:        item.BranchID.String(),
		Name:            item.Name,
		CurrentStock:    remaining.String(),
		MinStockLevel:   item.MinStockLevel.String(),
	}); err != nil {
		log.Warn().Err(err).Str("item_id", item.ID.String()).Msg("stock.low not published")
	}
}

// ─── Manual movements ───────────────────────────────────────────────────────

func (l *inventoryLedger) AdjustStock(ctx context.Context, scope repository.Scope, itemID uuid.UUID, req dto.AdjustStockRequest) (*dto.InventoryItemResponse, error) {
	if req.Quantity.IsNegative() {
		return nil, newErr(ErrInvalidInput, "negative_quantity")
	}
	switch req.Type {
	case model.MovementPurchase, model.MovementReturn, model.MovementAdjustment:
	default:
		return nil, newErr(ErrInvalidInput, "unknown_movement_type")
	}
	// Scope check outside the lock: out-of-branch items are simply not found.
	if _, err := l.inventory.FindByID(ctx, scope, itemID); err != nil {
		return nil, fromStorage(err, "inventory_item")
	}

	release, err := l.locker.Acquire(ctx, itemLockKey(itemID))
	if err != nil {
		return nil, storageErr(err)
	}
	defer release()

	var updated model.InventoryItem
	err = runTx(ctx, l.inventory.DB(), func(tx *gorm.DB) error {
		item, err := l.inventory.LockForUpdate(ctx, tx, itemID)
		if err != nil {
			return fromStorage(err, "inventory_item")
		}
		before := item.CurrentStock
		qty := req.Quantity.Round(planning.QtyPlaces)
		after := before.Add(qty)
		if req.Type == model.MovementAdjustment {
			after = qty
		}
		if err := l.inventory.SetStock(ctx, tx, itemID, after); err != nil {
			return storageErr(err)
		}
		if err := l.movements.Create(ctx, tx, &model.StockMovement{
			InventoryItemID: itemID,
			Type:            req.Type,
			Quantity:        after.Sub(before),
			StockBefore:     before,
			StockAfter:      after,
			Notes:           req.Notes,
		}); err != nil {
			return storageErr(err)
		}
		item.CurrentStock = after
		updated = *item
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("item_id", itemID.String()).
		Str("type", req.Type).
		Str("stock", updated.CurrentStock.String()).
		Msg("stock adjusted")
	if updated.Active && updated.BelowMinimum() {
		l.enqueueStockLow(ctx, updated, updated.CurrentStock)
	}
	resp := toInventoryItemResponse(&updated)
	return &resp, nil
}

// ─── Reads ──────────────────────────────────────────────────────────────────

func (l *inventoryLedger) ListItems(ctx context.Context, scope repository.Scope, filter dto.InventoryFilter) ([]dto.InventoryItemResponse, error) {
	items, err := l.inventory.List(ctx, scope, repository.InventoryFilter{
		Category: filter.Category,
		Name:     filter.Name,
		Active:   filter.Active,
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return toInventoryItemResponses(items), nil
}

func (l *inventoryLedger) LowStock(ctx context.Context, scope repository.Scope) ([]dto.InventoryItemResponse, error) {
	items, err := l.inventory.LowStock(ctx, scope)
	if err != nil {
		return nil, storageErr(err)
	}
	return toInventoryItemResponses(items), nil
}

func (l *inventoryLedger) ListMovements(ctx context.Context, scope repository.Scope, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	f := repository.StockMovementFilter{Type: filter.Type, Page: filter.Page, Limit: filter.Limit}
	if filter.InventoryItemID != "" {
		id, err := uuid.Parse(filter.InventoryItemID)
		if err != nil {
			return nil, newErr(ErrInvalidInput, "invalid_inventory_item_id")
		}
		f.InventoryItemID = &id
	}
	if filter.EventID != "" {
		id, err := uuid.Parse(filter.EventID)
		if err != nil {
			return nil, newErr(ErrInvalidInput, "invalid_event_id")
		}
		f.EventID = &id
	}
	movements, total, err := l.movements.List(ctx, scope, f)
	if err != nil {
		return nil, storageErr(err)
	}
	data := make([]dto.StockMovementResponse, len(movements))
	for i := range movements {
		data[i] = toMovementResponse(&movements[i])
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func toInventoryItemResponse(it *model.InventoryItem) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:            it.ID.String(),
		BranchID:      it.BranchID.String(),
		Name:          it.Name,
		Category:      it.Category,
		Unit:          it.Unit,
		CurrentStock:  it.CurrentStock,
		MinStockLevel: it.MinStockLevel,
		CostPerUnit:   it.CostPerUnit,
		Reusable:      it.Reusable,
		Active:        it.Active,
		BelowMinimum:  it.BelowMinimum(),
	}
}

func toInventoryItemResponses(items []model.InventoryItem) []dto.InventoryItemResponse {
	out := make([]dto.InventoryItemResponse, len(items))
	for i := range items {
		out[i] = toInventoryItemResponse(&items[i])
	}
	return out
}

func toMovementResponse(m *model.StockMovement) dto.StockMovementResponse {
	r := dto.StockMovementResponse{
		ID:              m.ID.String(),
		InventoryItemID: m.InventoryItemID.String(),
		Type:            m.Type,
		Quantity:        m.Quantity,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt.Format(time.RFC3339),
	}
	if m.InventoryItem != nil {
		r.ItemName = m.InventoryItem.Name
	}
	if m.EventID != nil {
		s := m.EventID.String()
		r.EventID = &s
	}
	return r
}
