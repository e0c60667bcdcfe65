package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"venueops/internal/model"
	"venueops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ── Inventory ─────────────────────────────────────────────────────────────────

type stubInventoryRepo struct {
	mu       sync.Mutex
	items    map[uuid.UUID]*model.InventoryItem
	failSet  map[uuid.UUID]error
	setCalls int
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{
		items:   make(map[uuid.UUID]*model.InventoryItem),
		failSet: make(map[uuid.UUID]error),
	}
}

func (r *stubInventoryRepo) add(branch uuid.UUID, name, category, stock, min string, reusable bool) *model.InventoryItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	it := &model.InventoryItem{
		ID:            uuid.New(),
		BranchID:      branch,
		Name:          name,
		Category:      category,
		Unit:          "kg",
		CurrentStock:  dec(stock),
		MinStockLevel: dec(min),
		Reusable:      reusable,
		Active:        true,
	}
	r.items[it.ID] = it
	return it
}

func (r *stubInventoryRepo) stock(id uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].CurrentStock
}

func (r *stubInventoryRepo) get(id uuid.UUID) (*model.InventoryItem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok {
		return nil, false
	}
	cp := *it
	return &cp, true
}

func (r *stubInventoryRepo) FindByID(_ context.Context, scope repository.Scope, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.get(id)
	if !ok || !scope.Allows(it.BranchID) {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (r *stubInventoryRepo) FindByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	for _, id := range ids {
		if it, ok := r.get(id); ok {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) List(_ context.Context, scope repository.Scope, _ repository.InventoryFilter) ([]model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.InventoryItem
	for _, it := range r.items {
		if scope.Allows(it.BranchID) {
			out = append(out, *it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubInventoryRepo) LowStock(ctx context.Context, scope repository.Scope) ([]model.InventoryItem, error) {
	all, _ := r.List(ctx, scope, repository.InventoryFilter{})
	var out []model.InventoryItem
	for i := range all {
		if all[i].Active && all[i].BelowMinimum() {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) FindByNames(_ context.Context, _ *gorm.DB, branchID uuid.UUID, names []string) ([]model.InventoryItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.ToLower(n)] = true
	}
	var out []model.InventoryItem
	for _, it := range r.items {
		if it.BranchID == branchID && it.Active && want[strings.ToLower(it.Name)] {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (r *stubInventoryRepo) LockForUpdate(_ context.Context, _ *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	it, ok := r.get(id)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (r *stubInventoryRepo) SetStock(_ context.Context, _ *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failSet[id]; err != nil {
		return err
	}
	if stock.IsNegative() {
		return errors.New("check constraint violated")
	}
	r.setCalls++
	r.items[id].CurrentStock = stock
	return nil
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryRepository = (*stubInventoryRepo)(nil)

// ── Stock movements ───────────────────────────────────────────────────────────

type stubMovementRepo struct {
	mu        sync.Mutex
	movements []model.StockMovement
}

func (r *stubMovementRepo) Create(_ context.Context, _ *gorm.DB, m *model.StockMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) List(_ context.Context, _ repository.Scope, f repository.StockMovementFilter) ([]model.StockMovement, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.StockMovement
	for _, m := range r.movements {
		if f.InventoryItemID != nil && m.InventoryItemID != *f.InventoryItemID {
			continue
		}
		if f.EventID != nil && (m.EventID == nil || *m.EventID != *f.EventID) {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMovementRepo) forItem(id uuid.UUID) []model.StockMovement {
	out, _, _ := r.List(context.Background(), repository.Unscoped(), repository.StockMovementFilter{InventoryItemID: &id})
	return out
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Menu ──────────────────────────────────────────────────────────────────────

type stubMenuRepo struct {
	ingredients []model.MenuItemIngredient
}

func (r *stubMenuRepo) dish(ratios map[uuid.UUID]string) uuid.UUID {
	id := uuid.New()
	for itemID, q := range ratios {
		r.ingredients = append(r.ingredients, model.MenuItemIngredient{
			ID:               uuid.New(),
			MenuItemID:       id,
			InventoryItemID:  itemID,
			QuantityPerGuest: dec(q),
		})
	}
	return id
}

func (r *stubMenuRepo) Ingredients(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]model.MenuItemIngredient, error) {
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.MenuItemIngredient
	for _, ing := range r.ingredients {
		if want[ing.MenuItemID] {
			out = append(out, ing)
		}
	}
	return out, nil
}

var _ repository.MenuRepository = (*stubMenuRepo)(nil)

// ── Booking resources ─────────────────────────────────────────────────────────

type stubResourceRepo struct {
	rows      map[uuid.UUID]*model.BookingResource
	inventory *stubInventoryRepo
	saves     int
}

func newStubResourceRepo(inv *stubInventoryRepo) *stubResourceRepo {
	return &stubResourceRepo{rows: make(map[uuid.UUID]*model.BookingResource), inventory: inv}
}

func (r *stubResourceRepo) ListByBooking(_ context.Context, _ *gorm.DB, bookingID uuid.UUID) ([]model.BookingResource, error) {
	var out []model.BookingResource
	for _, row := range r.rows {
		if row.BookingID != bookingID {
			continue
		}
		cp := *row
		if row.ManualQty != nil {
			m := *row.ManualQty
			cp.ManualQty = &m
		}
		if it, ok := r.inventory.get(row.InventoryItemID); ok {
			cp.InventoryItem = it
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].InventoryItem, out[j].InventoryItem
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Name < b.Name
	})
	return out, nil
}

func (r *stubResourceRepo) Save(_ context.Context, _ *gorm.DB, row *model.BookingResource) error {
	r.saves++
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	cp := *row
	cp.InventoryItem = nil
	r.rows[row.ID] = &cp
	return nil
}

func (r *stubResourceRepo) Delete(_ context.Context, _ *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(r.rows, id)
	}
	return nil
}

var _ repository.BookingResourceRepository = (*stubResourceRepo)(nil)

// ── Bookings & events ─────────────────────────────────────────────────────────

type stubBookingRepo struct {
	bookings  map[uuid.UUID]*model.Booking
	resources *stubResourceRepo
}

func newStubBookingRepo(res *stubResourceRepo) *stubBookingRepo {
	return &stubBookingRepo{bookings: make(map[uuid.UUID]*model.Booking), resources: res}
}

func (r *stubBookingRepo) put(b *model.Booking) *model.Booking {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Event != nil {
		b.Event.BookingID = b.ID
	}
	r.bookings[b.ID] = b
	return b
}

func (r *stubBookingRepo) load(scope repository.Scope, id uuid.UUID) (*model.Booking, error) {
	b, ok := r.bookings[id]
	if !ok || !scope.Allows(b.BranchID) {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	cp.Resources, _ = r.resources.ListByBooking(context.Background(), nil, id)
	return &cp, nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, scope repository.Scope, id uuid.UUID) (*model.Booking, error) {
	return r.load(scope, id)
}

func (r *stubBookingRepo) List(_ context.Context, scope repository.Scope, f repository.BookingFilter) ([]model.Booking, error) {
	var out []model.Booking
	for id, b := range r.bookings {
		if !scope.Allows(b.BranchID) {
			continue
		}
		if f.From != nil && b.StartDate.Before(*f.From) {
			continue
		}
		if f.To != nil && b.StartDate.After(*f.To) {
			continue
		}
		cp, _ := r.load(scope, id)
		out = append(out, *cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingNumber < out[j].BookingNumber })
	return out, nil
}

func (r *stubBookingRepo) Lock(_ context.Context, _ *gorm.DB, scope repository.Scope, id uuid.UUID) (*model.Booking, error) {
	return r.load(scope, id)
}

func (r *stubBookingRepo) DB() *gorm.DB { return nil }

var _ repository.BookingRepository = (*stubBookingRepo)(nil)

type stubEventRepo struct {
	bookings *stubBookingRepo
}

func (r *stubEventRepo) FindByID(_ context.Context, scope repository.Scope, id uuid.UUID) (*model.Event, error) {
	for _, b := range r.bookings.bookings {
		if b.Event == nil || b.Event.ID != id {
			continue
		}
		if !scope.Allows(b.BranchID) {
			break
		}
		ev := *b.Event
		bk := *b
		bk.Event = nil
		ev.Booking = &bk
		return &ev, nil
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.EventRepository = (*stubEventRepo)(nil)

// ── Finalizations ─────────────────────────────────────────────────────────────

type stubFinalRepo struct {
	mu    sync.Mutex
	byEvt map[uuid.UUID]*model.MenuFinalization
}

func newStubFinalRepo() *stubFinalRepo {
	return &stubFinalRepo{byEvt: make(map[uuid.UUID]*model.MenuFinalization)}
}

func (r *stubFinalRepo) FindByEvent(_ context.Context, _ *gorm.DB, eventID uuid.UUID) (*model.MenuFinalization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.byEvt[eventID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *stubFinalRepo) Create(_ context.Context, _ *gorm.DB, f *model.MenuFinalization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEvt[f.EventID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.ID = uuid.New()
	cp := *f
	r.byEvt[f.EventID] = &cp
	return nil
}

func (r *stubFinalRepo) Update(_ context.Context, _ *gorm.DB, f *model.MenuFinalization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.byEvt[f.EventID] = &cp
	return nil
}

func (r *stubFinalRepo) Delete(_ context.Context, _ *gorm.DB, eventID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byEvt, eventID)
	return nil
}

func (r *stubFinalRepo) has(eventID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byEvt[eventID]
	return ok
}

var _ repository.FinalizationRepository = (*stubFinalRepo)(nil)
