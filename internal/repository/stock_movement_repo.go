package repository

import (
	"context"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementFilter defines filters for listing stock movements.
type StockMovementFilter struct {
	InventoryItemID *uuid.UUID
	EventID         *uuid.UUID
	Type            string
	Page            int
	Limit           int
}

type StockMovementRepository interface {
	Create(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, scope Scope, filter StockMovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error {
	return conn(ctx, r.db, tx).Omit("InventoryItem").Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, scope Scope, filter StockMovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Joins("JOIN inventory_items ON inventory_items.id = stock_movements.inventory_item_id").
		Preload("InventoryItem")
	q = scope.apply(q, "inventory_items.branch_id")
	if filter.InventoryItemID != nil {
		q = q.Where("stock_movements.inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.EventID != nil {
		q = q.Where("stock_movements.event_id = ?", *filter.EventID)
	}
	if filter.Type != "" {
		q = q.Where("stock_movements.type = ?", filter.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("stock_movements.created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}
