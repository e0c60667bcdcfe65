package repository

import (
	"context"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingResourceRepository interface {
	// ListByBooking returns the booking's rows with their inventory item loaded.
	ListByBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) ([]model.BookingResource, error)
	// Save inserts rows without an ID and updates the rest.
	Save(ctx context.Context, tx *gorm.DB, row *model.BookingResource) error
	Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type bookingResourceRepo struct{ db *gorm.DB }

func NewBookingResourceRepository(db *gorm.DB) BookingResourceRepository {
	return &bookingResourceRepo{db: db}
}

func (r *bookingResourceRepo) ListByBooking(ctx context.Context, tx *gorm.DB, bookingID uuid.UUID) ([]model.BookingResource, error) {
	var rows []model.BookingResource
	err := conn(ctx, r.db, tx).
		Joins("JOIN inventory_items ON inventory_items.id = booking_resources.inventory_item_id").
		Preload("InventoryItem").
		Where("booking_resources.booking_id = ?", bookingID).
		Order("inventory_items.category ASC, inventory_items.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *bookingResourceRepo) Save(ctx context.Context, tx *gorm.DB, row *model.BookingResource) error {
	db := conn(ctx, r.db, tx).Omit("InventoryItem")
	if row.ID == uuid.Nil {
		return db.Create(row).Error
	}
	return db.Model(&model.BookingResource{}).Where("id = ?", row.ID).Updates(map[string]interface{}{
		"calculated_qty":     row.CalculatedQty,
		"manual_qty":         row.ManualQty,
		"is_manually_edited": row.IsManuallyEdited,
	}).Error
}

func (r *bookingResourceRepo) Delete(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db, tx).Where("id IN ?", ids).Delete(&model.BookingResource{}).Error
}
