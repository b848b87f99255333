package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/gorm"
)

type SalesRepository interface {
	FindByRange(ctx context.Context, r DateRange, storeID string) ([]model.SalesRecord, error)
}

type salesRepo struct {
	db *gorm.DB
}

func NewSalesRepo(db *gorm.DB) SalesRepository {
	return &salesRepo{db}
}

func (r *salesRepo) FindByRange(ctx context.Context, rng DateRange, storeID string) ([]model.SalesRecord, error) {
	var sales []model.SalesRecord
	err := r.db.WithContext(ctx).
		Scopes(inRange("date", rng, storeID)).
		Order("date ASC").
		Find(&sales).Error
	return sales, err
}
