package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/gorm"
)

type WasteRepository interface {
	FindByRange(ctx context.Context, r DateRange, storeID string) ([]model.WasteRecord, error)
}

type wasteRepo struct {
	db *gorm.DB
}

func NewWasteRepo(db *gorm.DB) WasteRepository {
	return &wasteRepo{db}
}

func (r *wasteRepo) FindByRange(ctx context.Context, rng DateRange, storeID string) ([]model.WasteRecord, error) {
	var waste []model.WasteRecord
	err := r.db.WithContext(ctx).
		Scopes(inRange("date", rng, storeID)).
		Order("date ASC").
		Find(&waste).Error
	return waste, err
}
