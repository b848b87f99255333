package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/gorm"
)

type InventoryCountRepository interface {
	Create(ctx context.Context, count *model.InventoryCount) error
	FindByRange(ctx context.Context, r DateRange, storeID string) ([]model.InventoryCount, error)
}

type inventoryCountRepo struct {
	db *gorm.DB
}

func NewInventoryCountRepo(db *gorm.DB) InventoryCountRepository {
	return &inventoryCountRepo{db}
}

func (r *inventoryCountRepo) Create(ctx context.Context, count *model.InventoryCount) error {
	return r.db.WithContext(ctx).Create(count).Error
}

// FindByRange orders by creation time so later counts of the same day come last.
func (r *inventoryCountRepo) FindByRange(ctx context.Context, rng DateRange, storeID string) ([]model.InventoryCount, error) {
	var counts []model.InventoryCount
	err := r.db.WithContext(ctx).
		Preload("RawMaterial").
		Scopes(inRange("date", rng, storeID)).
		Order("date ASC, created_at ASC").
		Find(&counts).Error
	return counts, err
}
