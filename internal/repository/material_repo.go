package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RawMaterialRepository interface {
	FindAll(ctx context.Context) ([]model.RawMaterial, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error)
}

type rawMaterialRepo struct {
	db *gorm.DB
}

func NewRawMaterialRepo(db *gorm.DB) RawMaterialRepository {
	return &rawMaterialRepo{db}
}

// FindAll includes inactive materials so historical counts still resolve.
func (r *rawMaterialRepo) FindAll(ctx context.Context) ([]model.RawMaterial, error) {
	var materials []model.RawMaterial
	err := r.db.WithContext(ctx).Order("name ASC").Find(&materials).Error
	return materials, err
}

func (r *rawMaterialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.RawMaterial, error) {
	var material model.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &material, nil
}
