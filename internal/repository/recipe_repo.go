package repository

import (
	"context"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"

	"gorm.io/gorm"
)

type RecipeRepository interface {
	FindAll(ctx context.Context) ([]model.Recipe, error)
}

type recipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) RecipeRepository {
	return &recipeRepo{db}
}

func orderedIngredients(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

func (r *recipeRepo) FindAll(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	err := r.db.WithContext(ctx).
		Preload("Ingredients", orderedIngredients).
		Order("product_name ASC").
		Find(&recipes).Error
	return recipes, err
}
