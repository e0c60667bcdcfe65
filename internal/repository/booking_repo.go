package repository

import (
	"context"
	"errors"
	"time"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BookingFilter narrows List on stored columns. Status filtering is not here:
// status is derived after loading.
type BookingFilter struct {
	From *time.Time // start_date >= From
	To   *time.Time // start_date <= To
}

type BookingRepository interface {
	// FindByID loads the booking with everything enrichment needs: invoice,
	// event (menu selections, vendors), lead activities and resource rows.
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Booking, error)
	List(ctx context.Context, scope Scope, filter BookingFilter) ([]model.Booking, error)

	// Lock loads the booking and its event menu for planning. Inside a
	// transaction the booking row is locked FOR UPDATE, which serialises
	// resource generation and overrides per booking.
	Lock(ctx context.Context, tx *gorm.DB, scope Scope, id uuid.UUID) (*model.Booking, error)

	DB() *gorm.DB
}

type bookingRepo struct{ db *gorm.DB }

func NewBookingRepository(db *gorm.DB) BookingRepository { return &bookingRepo{db: db} }

func (r *bookingRepo) DB() *gorm.DB { return r.db }

func (r *bookingRepo) enriched(q *gorm.DB) *gorm.DB {
	return q.Preload("Invoice").
		Preload("Event.MenuSelections").
		Preload("Event.VendorBookings").
		Preload("Lead.Activities").
		Preload("Resources")
}

func (r *bookingRepo) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	q := scope.apply(r.db.WithContext(ctx), "branch_id")
	err := r.enriched(q).Where("id = ?", id).First(&b).Error
	return &b, err
}

func (r *bookingRepo) List(ctx context.Context, scope Scope, filter BookingFilter) ([]model.Booking, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&model.Booking{}), "branch_id")
	if filter.From != nil {
		q = q.Where("start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_date <= ?", *filter.To)
	}

	var bookings []model.Booking
	err := r.enriched(q).Order("start_date DESC").Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) Lock(ctx context.Context, tx *gorm.DB, scope Scope, id uuid.UUID) (*model.Booking, error) {
	var b model.Booking
	q := scope.apply(forUpdate(conn(ctx, r.db, tx), tx), "branch_id")
	if err := q.Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	// Preload in a second statement: FOR UPDATE cannot ride along with the
	// association queries gorm issues.
	var ev model.Event
	err := conn(ctx, r.db, tx).Preload("MenuSelections").Where("booking_id = ?", id).First(&ev).Error
	switch {
	case err == nil:
		b.Event = &ev
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return &b, nil
}
