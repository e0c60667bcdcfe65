package repository

import (
	"context"

	"venueops/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuRepository interface {
	// Ingredients returns every per-guest ratio for the given dishes.
	Ingredients(ctx context.Context, tx *gorm.DB, menuItemIDs []uuid.UUID) ([]model.MenuItemIngredient, error)
}

type menuRepo struct{ db *gorm.DB }

func NewMenuRepository(db *gorm.DB) MenuRepository { return &menuRepo{db: db} }

func (r *menuRepo) Ingredients(ctx context.Context, tx *gorm.DB, menuItemIDs []uuid.UUID) ([]model.MenuItemIngredient, error) {
	if len(menuItemIDs) == 0 {
		return nil, nil
	}
	var out []model.MenuItemIngredient
	err := conn(ctx, r.db, tx).
		Where("menu_item_id IN ?", menuItemIDs).
		Find(&out).Error
	return out, err
}
