package repository

import (
	"context"
	"strings"

	"venueops/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryFilter narrows List.
type InventoryFilter struct {
	Category string
	Name     string
	Active   string // "false" = inactive, "all" = both, anything else = active only
}

// InventoryRepository defines the data access contract for inventory items.
// Stock is only written through SetStock, always next to a StockMovement insert
// in the same transaction.
type InventoryRepository interface {
	FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.InventoryItem, error)
	FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.InventoryItem, error)
	List(ctx context.Context, scope Scope, filter InventoryFilter) ([]model.InventoryItem, error)
	// LowStock returns active items at or below their minimum, most depleted first.
	LowStock(ctx context.Context, scope Scope) ([]model.InventoryItem, error)
	// FindByNames resolves branch items by case-insensitive name.
	FindByNames(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, names []string) ([]model.InventoryItem, error)

	// Used inside transactions; callers must pass the tx instance.
	// LockForUpdate reads the item with SELECT … FOR UPDATE.
	LockForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error)
	SetStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) DB() *gorm.DB { return r.db }

func (r *inventoryRepo) FindByID(ctx context.Context, scope Scope, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := scope.apply(r.db.WithContext(ctx), "branch_id").Where("id = ?", id).First(&it).Error
	return &it, err
}

func (r *inventoryRepo) FindByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]model.InventoryItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.InventoryItem
	err := conn(ctx, r.db, tx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *inventoryRepo) List(ctx context.Context, scope Scope, filter InventoryFilter) ([]model.InventoryItem, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&model.InventoryItem{}), "branch_id")

	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}

	var items []model.InventoryItem
	err := q.Order("name ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) LowStock(ctx context.Context, scope Scope) ([]model.InventoryItem, error) {
	q := scope.apply(r.db.WithContext(ctx).Model(&model.InventoryItem{}), "branch_id")
	var items []model.InventoryItem
	err := q.Where("active = true AND current_stock <= min_stock_level").
		Order("(current_stock - min_stock_level) ASC").
		Find(&items).Error
	return items, err
}

func (r *inventoryRepo) FindByNames(ctx context.Context, tx *gorm.DB, branchID uuid.UUID, names []string) ([]model.InventoryItem, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lower := make([]string, len(names))
	for i, n := range names {
		lower[i] = strings.ToLower(n)
	}
	var items []model.InventoryItem
	err := conn(ctx, r.db, tx).
		Where("branch_id = ? AND active = true AND LOWER(name) IN ?", branchID, lower).
		Find(&items).Error
	return items, err
}

func (r *inventoryRepo) LockForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.InventoryItem, error) {
	var it model.InventoryItem
	err := forUpdate(conn(ctx, r.db, tx), tx).Where("id = ?", id).First(&it).Error
	return &it, err
}

func (r *inventoryRepo) SetStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, stock decimal.Decimal) error {
	return conn(ctx, r.db, tx).Model(&model.InventoryItem{}).
		Where("id = ?", id).
		Update("current_stock", stock).Error
}
