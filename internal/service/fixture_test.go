package service_test

import (
	"time"

	"venueops/internal/infra"
	"venueops/internal/model"
	"venueops/internal/planning"
	"venueops/internal/service"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	branch    uuid.UUID
	inv       *stubInventoryRepo
	res       *stubResourceRepo
	bookings  *stubBookingRepo
	events    *stubEventRepo
	menus     *stubMenuRepo
	movements *stubMovementRepo
	finals    *stubFinalRepo

	planner service.ResourcePlanner
	ledger  service.InventoryLedger
	svc     service.BookingService
}

func newFixture(allowRefinalize bool) *fixture {
	f := &fixture{
		branch:    uuid.New(),
		inv:       newStubInventoryRepo(),
		menus:     &stubMenuRepo{},
		movements: &stubMovementRepo{},
		finals:    newStubFinalRepo(),
	}
	f.res = newStubResourceRepo(f.inv)
	f.bookings = newStubBookingRepo(f.res)
	f.events = &stubEventRepo{bookings: f.bookings}

	f.planner = service.NewResourcePlanner(f.bookings, f.res, f.menus, f.inv, planning.DefaultStructuralRules())
	f.ledger = service.NewInventoryLedger(f.inv, f.movements, f.menus, f.finals, infra.NewKeyedMutex(), nil,
		service.LedgerConfig{AllowRefinalize: allowRefinalize, Now: func() time.Time { return fixedNow }})
	f.svc = service.NewBookingService(f.bookings, f.events, f.planner, f.ledger,
		service.Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC})
	return f
}

// booking stores a future, unpaid booking with an event serving dishes.
func (f *fixture) booking(guests int, dishes ...uuid.UUID) *model.Booking {
	ev := &model.Event{ID: uuid.New(), GuestCount: guests}
	for _, d := range dishes {
		ev.MenuSelections = append(ev.MenuSelections, model.MenuSelection{ID: uuid.New(), EventID: ev.ID, MenuItemID: d, Quantity: 1})
	}
	return f.bookings.put(&model.Booking{
		BookingNumber: "BK-" + uuid.NewString()[:8],
		BranchID:      f.branch,
		GuestCount:    guests,
		TotalAmount:   dec("100000"),
		StartDate:     day("2026-06-01"),
		EndDate:       day("2026-06-02"),
		Status:        model.StatusTentative,
		Event:         ev,
	})
}

func rowFor(rows []model.BookingResource, itemID uuid.UUID) *model.BookingResource {
	for i := range rows {
		if rows[i].InventoryItemID == itemID {
			return &rows[i]
		}
	}
	return nil
}
