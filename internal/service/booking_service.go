package service

import (
	"context"
	"time"

	"venueops/internal/dto"
	"venueops/internal/lifecycle"
	"venueops/internal/model"
	"venueops/internal/planning"
	"venueops/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// BookingService is the facade the HTTP layer talks to: reads are enriched
// with derived status and health, writes go through the planner and ledger.
type BookingService interface {
	GetBooking(ctx context.Context, scope repository.Scope, id uuid.UUID) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, scope repository.Scope, filter dto.BookingFilter) (*dto.BookingListResponse, error)
	GetOrGenerateResources(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, force bool) (*dto.ResourceListResponse, error)
	UpdateResources(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, req dto.UpdateResourcesRequest) (*dto.ResourceListResponse, error)
	FinalizeMenu(ctx context.Context, scope repository.Scope, eventID uuid.UUID, force bool) (*dto.FinalizeMenuResponse, error)
}

// Clock supplies "today" in the business time zone.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

func (c Clock) today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

type bookingService struct {
	bookings repository.BookingRepository
	events   repository.EventRepository
	planner  ResourcePlanner
	ledger   InventoryLedger
	clock    Clock
}

func NewBookingService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	planner ResourcePlanner,
	ledger InventoryLedger,
	clock Clock,
) BookingService {
	return &bookingService{
		bookings: bookings,
		events:   events,
		planner:  planner,
		ledger:   ledger,
		clock:    clock,
	}
}

func (s *bookingService) GetBooking(ctx context.Context, scope repository.Scope, id uuid.UUID) (*dto.BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, scope, id)
	if err != nil {
		return nil, fromStorage(err, "booking")
	}
	resp := enrich(b, s.clock.today())
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, scope repository.Scope, filter dto.BookingFilter) (*dto.BookingListResponse, error) {
	var wantStatus lifecycle.Status
	if filter.Status != "" {
		st, ok := lifecycle.ParseStatus(filter.Status)
		if !ok {
			return nil, newErr(ErrInvalidInput, "invalid_status")
		}
		wantStatus = st
	}
	switch lifecycle.Label(filter.Health) {
	case "", lifecycle.LabelHealthy, lifecycle.LabelNeedsAttention, lifecycle.LabelHighRisk:
	default:
		return nil, newErr(ErrInvalidInput, "invalid_health_label")
	}

	var rf repository.BookingFilter
	if filter.From != "" {
		t, err := time.Parse(dateLayout, filter.From)
		if err != nil {
			return nil, newErr(ErrInvalidInput, "invalid_from_date")
		}
		rf.From = &t
	}
	if filter.To != "" {
		t, err := time.Parse(dateLayout, filter.To)
		if err != nil {
			return nil, newErr(ErrInvalidInput, "invalid_to_date")
		}
		rf.To = &t
	}

	bookings, err := s.bookings.List(ctx, scope, rf)
	if err != nil {
		return nil, storageErr(err)
	}

	// Status is derived, so filtering and paging happen after enrichment.
	today := s.clock.today()
	matched := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		r := enrich(&bookings[i], today)
		if wantStatus != "" && r.Status != string(wantStatus) {
			continue
		}
		if filter.Health != "" && r.HealthLabel != filter.Health {
			continue
		}
		matched = append(matched, r)
	}

	page, limit := filter.Page, filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	start := (page - 1) * limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return &dto.BookingListResponse{
		Data:  matched[start:end],
		Total: len(matched),
		Page:  page,
		Limit: limit,
	}, nil
}

func (s *bookingService) GetOrGenerateResources(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, force bool) (*dto.ResourceListResponse, error) {
	rows, err := s.planner.Generate(ctx, scope, bookingID, force)
	if err != nil {
		return nil, err
	}
	return toResourceList(bookingID, rows), nil
}

func (s *bookingService) UpdateResources(ctx context.Context, scope repository.Scope, bookingID uuid.UUID, req dto.UpdateResourcesRequest) (*dto.ResourceListResponse, error) {
	updates := make([]ResourceUpdate, len(req.Updates))
	for i, u := range req.Updates {
		id, err := uuid.Parse(u.ResourceID)
		if err != nil {
			return nil, newErr(ErrInvalidInput, "invalid_resource_id")
		}
		updates[i] = ResourceUpdate{ResourceID: id, ManualQty: u.ManualQty}
	}
	rows, err := s.planner.Update(ctx, scope, bookingID, updates)
	if err != nil {
		return nil, err
	}
	return toResourceList(bookingID, rows), nil
}

// FinalizeMenu refreshes the booking's resource rows from the current menu and
// deducts their effective quantities from stock.
func (s *bookingService) FinalizeMenu(ctx context.Context, scope repository.Scope, eventID uuid.UUID, force bool) (*dto.FinalizeMenuResponse, error) {
	ev, err := s.events.FindByID(ctx, scope, eventID)
	if err != nil {
		return nil, fromStorage(err, "event")
	}
	// A rejected repeat must not refresh the rows the first run deducted.
	if err := s.ledger.CheckFinalizable(ctx, ev.ID, force); err != nil {
		return nil, err
	}

	rows, err := s.planner.Generate(ctx, scope, ev.BookingID, true)
	if err != nil {
		return nil, err
	}

	guests := ev.GuestCount
	if ev.Booking != nil {
		b := *ev.Booking
		b.Event = ev
		guests = planning.GuestCount(&b)
	}
	res, err := s.ledger.DeductForEvent(ctx, DeductionRequest{
		EventID:    ev.ID,
		BookingID:  ev.BookingID,
		MenuItems:  ev.MenuSelections,
		GuestCount: guests,
		Resources:  rows,
		Force:      force,
	})
	if err != nil {
		return nil, err
	}
	return toFinalizeResponse(ev, res), nil
}

// ─── Mapping ────────────────────────────────────────────────────────────────

func enrich(b *model.Booking, today time.Time) dto.BookingResponse {
	status := lifecycle.DeriveStatus(bookingFacts(b), today)
	health := lifecycle.ScoreHealth(healthFacts(b))

	r := dto.BookingResponse{
		ID:            b.ID.String(),
		BookingNumber: b.BookingNumber,
		BranchID:      b.BranchID.String(),
		GuestCount:    b.GuestCount,
		TotalAmount:   b.TotalAmount,
		AdvanceAmount: b.AdvanceAmount,
		PaidAmount:    paymentFacts(b).Paid(),
		StartDate:     b.StartDate.Format(dateLayout),
		EndDate:       b.EndDate.Format(dateLayout),
		EventClosed:   b.EventClosed,
		Status:        string(status),
		StoredStatus:  b.Status,
		HealthScore:   health.Score,
		HealthLabel:   string(health.Label),
		Breakdown: dto.HealthBreakdown{
			Payment:   health.Breakdown.Payment,
			Vendor:    health.Breakdown.Vendor,
			Menu:      health.Breakdown.Menu,
			Guest:     health.Breakdown.Guest,
			Stock:     health.Breakdown.Stock,
			FollowUps: health.Breakdown.FollowUps,
		},
	}
	if b.Event != nil {
		id := b.Event.ID.String()
		r.EventID = &id
	}
	return r
}

func toResourceList(bookingID uuid.UUID, rows []model.BookingResource) *dto.ResourceListResponse {
	out := make([]dto.ResourceResponse, len(rows))
	for i := range rows {
		out[i] = toResourceResponse(&rows[i])
	}
	return &dto.ResourceListResponse{BookingID: bookingID.String(), Resources: out}
}

func toResourceResponse(r *model.BookingResource) dto.ResourceResponse {
	eff := r.EffectiveQty()
	resp := dto.ResourceResponse{
		ID:               r.ID.String(),
		InventoryItemID:  r.InventoryItemID.String(),
		CalculatedQty:    r.CalculatedQty,
		ManualQty:        r.ManualQty,
		IsManuallyEdited: r.IsManuallyEdited,
		EffectiveQty:     eff,
		Shortage:         decimal.Zero,
	}
	if it := r.InventoryItem; it != nil {
		resp.Name = it.Name
		resp.Category = it.Category
		resp.Unit = it.Unit
		resp.CurrentStock = it.CurrentStock
		if short := eff.Sub(it.CurrentStock); short.IsPositive() {
			resp.Shortage = short
		}
	}
	return resp
}

func toFinalizeResponse(ev *model.Event, res *DeductionResult) *dto.FinalizeMenuResponse {
	resp := &dto.FinalizeMenuResponse{
		EventID:      ev.ID.String(),
		BookingID:    ev.BookingID.String(),
		RunCount:     res.RunCount,
		UpdatedItems: make([]dto.DeductionLine, 0, len(res.UpdatedItems)),
		Warnings:     make([]dto.StockWarning, 0, len(res.Warnings)),
		Failed:       res.Failed(),
		Retryable:    res.Released,
	}
	for _, l := range res.UpdatedItems {
		line := dto.DeductionLine{
			InventoryItemID: l.Item.ID.String(),
			Name:            l.Item.Name,
			Unit:            l.Item.Unit,
			Required:        l.Required,
			Deducted:        l.Deducted,
			Shortfall:       l.Shortfall,
			StockAfter:      l.StockAfter,
		}
		if l.Err != nil {
			line.Error = Reason(l.Err)
			if line.Error == "" {
				line.Error = "storage_failure"
			}
		}
		resp.UpdatedItems = append(resp.UpdatedItems, line)
	}
	for _, w := range res.Warnings {
		resp.Warnings = append(resp.Warnings, dto.StockWarning{
			InventoryItemID: w.Item.ID.String(),
			Name:            w.Item.Name,
			Remaining:       w.Remaining,
			MinStockLevel:   w.Item.MinStockLevel,
		})
	}
	return resp
}
