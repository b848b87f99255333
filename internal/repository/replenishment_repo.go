package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/gorm"
)

type ReplenishmentRepository interface {
	FindCompletedByRange(ctx context.Context, r DateRange, storeID string) ([]model.Replenishment, error)
}

type replenishmentRepo struct {
	db *gorm.DB
}

func NewReplenishmentRepo(db *gorm.DB) ReplenishmentRepository {
	return &replenishmentRepo{db}
}

// FindCompletedByRange loads completed receipts whose completion falls in r.
// The range is widened by a day on each side; the ledger assigns the local
// calendar date itself.
func (r *replenishmentRepo) FindCompletedByRange(ctx context.Context, rng DateRange, storeID string) ([]model.Replenishment, error) {
	var records []model.Replenishment
	db := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND completed_at IS NOT NULL", model.ReplenishmentCompleted).
		Where("completed_at >= ? AND completed_at < ?", rng.From.AddDate(0, 0, -1), rng.To.AddDate(0, 0, 2))
	if storeID != "" {
		db = db.Where("store_id = ?", storeID)
	}
	err := db.Order("completed_at ASC").Find(&records).Error
	return records, err
}
