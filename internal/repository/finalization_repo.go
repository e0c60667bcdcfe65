package repository

import (
	"context"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FinalizationRepository stores the one-per-event menu finalisation marker.
type FinalizationRepository interface {
	// FindByEvent locks the record FOR UPDATE when called inside a transaction.
	FindByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*model.MenuFinalization, error)
	// Create fails with gorm.ErrDuplicatedKey when the event already has one.
	Create(ctx context.Context, tx *gorm.DB, f *model.MenuFinalization) error
	Update(ctx context.Context, tx *gorm.DB, f *model.MenuFinalization) error
	Delete(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error
}

type finalizationRepo struct{ db *gorm.DB }

func NewFinalizationRepository(db *gorm.DB) FinalizationRepository {
	return &finalizationRepo{db: db}
}

func (r *finalizationRepo) FindByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (*model.MenuFinalization, error) {
	var f model.MenuFinalization
	err := forUpdate(conn(ctx, r.db, tx), tx).Where("event_id = ?", eventID).First(&f).Error
	return &f, err
}

func (r *finalizationRepo) Create(ctx context.Context, tx *gorm.DB, f *model.MenuFinalization) error {
	return conn(ctx, r.db, tx).Create(f).Error
}

func (r *finalizationRepo) Update(ctx context.Context, tx *gorm.DB, f *model.MenuFinalization) error {
	return conn(ctx, r.db, tx).Save(f).Error
}

func (r *finalizationRepo) Delete(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("event_id = ?", eventID).Delete(&model.MenuFinalization{}).Error
}
