package repository

import (
	"context"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventRepository interface {
	// FindByID loads the event with its menu selections. Branch scope is
	// checked through the owning booking.
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Event, error)
}

type eventRepo struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) EventRepository { return &eventRepo{db: db} }

func (r *eventRepo) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.Event, error) {
	var ev model.Event
	q := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = events.booking_id")
	q = scope.apply(q, "bookings.branch_id")
	err := q.Preload("MenuSelections").Preload("Booking").
		Where("events.id = ?", id).
		First(&ev).Error
	return &ev, err
}
