package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/reconcile"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/repository"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const reportKeyPrefix = "reconciliation:report:"

// ReportQuery is a reconciliation request as received from a client.
type ReportQuery struct {
	From          string `json:"from" validate:"required,day"`
	To            string `json:"to" validate:"required,day"`
	StoreID       string `json:"store_id" validate:"omitempty,max=64"`
	Resolution    string `json:"resolution" validate:"omitempty,oneof=daily weekly monthly"`
	PeriodInitial string `json:"period_initial" validate:"omitempty,oneof=carry_forward first_day_expected"`
}

func (q ReportQuery) cacheKey() string {
	return reportKeyPrefix + strings.Join([]string{q.From, q.To, q.StoreID, q.Resolution, q.PeriodInitial}, "|")
}

func (q ReportQuery) options(loc *time.Location) (reconcile.Options, error) {
	from, err := reconcile.ParseDay(q.From)
	if err != nil {
		return reconcile.Options{}, err
	}
	to, err := reconcile.ParseDay(q.To)
	if err != nil {
		return reconcile.Options{}, err
	}
	opts := reconcile.Options{
		From:       from,
		To:         to,
		StoreID:    q.StoreID,
		Resolution: reconcile.Resolution(q.Resolution),
		Location:   loc,
	}
	if opts.Resolution == "" {
		opts.Resolution = reconcile.Daily
	}
	if q.PeriodInitial == "carry_forward" {
		opts.PeriodInitial = reconcile.InitialCarryForward
	}
	return opts, nil
}

// ExplosionResult is the raw-material breakdown of a quantity of one recipe.
type ExplosionResult struct {
	RecipeID    string          `json:"recipe_id"`
	ProductName string          `json:"product_name"`
	Quantity    float64         `json:"quantity"`
	Mode        string          `json:"mode"`
	Components  []bom.Component `json:"components"`
	Warnings    []bom.Warning   `json:"warnings"`
}

// BOMValidation is the outcome of checking every recipe.
type BOMValidation struct {
	Valid    bool          `json:"valid"`
	Recipes  int           `json:"recipes"`
	Cycle    []string      `json:"cycle,omitempty"`
	Warnings []bom.Warning `json:"warnings"`
}

// ReportCache stores computed reports. Implementations must treat a disabled
// backend as a permanent miss.
type ReportCache interface {
	GetObject(ctx context.Context, key string, dest any) (bool, error)
	SetObject(ctx context.Context, key string, obj any) error
	Invalidate(ctx context.Context) error
}

type noCache struct{}

func (noCache) GetObject(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (noCache) SetObject(ctx context.Context, key string, obj any) error {
	return nil
}

func (noCache) Invalidate(ctx context.Context) error {
	return nil
}

// Repositories are the persistence collaborators a reconciliation reads.
type Repositories struct {
	Materials      repository.RawMaterialRepository
	Recipes        repository.RecipeRepository
	Sales          repository.SalesRepository
	Counts         repository.InventoryCountRepository
	Replenishments repository.ReplenishmentRepository
	Waste          repository.WasteRepository
}

type ReconciliationService interface {
	BuildReport(ctx context.Context, q ReportQuery) (*reconcile.Report, error)
	ExplodeRecipe(ctx context.Context, recipeID uuid.UUID, quantity float64, mode bom.Mode) (*ExplosionResult, error)
	ValidateBOM(ctx context.Context) (*BOMValidation, error)
}

type reconciliationService struct {
	repos Repositories
	cache ReportCache
	loc   *time.Location
	log   *logrus.Logger
}

func NewReconciliationService(repos Repositories, cache ReportCache, loc *time.Location) ReconciliationService {
	if loc == nil {
		loc = time.UTC
	}
	if cache == nil {
		cache = noCache{}
	}
	return &reconciliationService{
		repos: repos,
		cache: cache,
		loc:   loc,
		log:   logger.GetLogger(),
	}
}

func (s *reconciliationService) BuildReport(ctx context.Context, q ReportQuery) (*reconcile.Report, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	opts, err := q.options(s.loc)
	if err != nil {
		return nil, err
	}
	if opts.To.Before(opts.From) {
		return nil, reconcile.ErrInvalidRange
	}

	key := q.cacheKey()
	var cached reconcile.Report
	if found, err := s.cache.GetObject(ctx, key, &cached); err != nil {
		logger.LogError(s.log, "reconciliation_service.go", "BuildReport", "cache get", key, err)
	} else if found {
		return &cached, nil
	}

	in, err := s.loadInput(ctx, opts)
	if err != nil {
		return nil, err
	}

	report, err := reconcile.Compute(in, opts)
	if err != nil {
		var cyc *bom.CyclicBOMError
		if errors.As(err, &cyc) {
			logger.LogError(s.log, "reconciliation_service.go", "BuildReport", "Compute", cyc.Path, err)
		}
		return nil, err
	}

	if report.Diagnostics.HasWarnings() {
		s.log.WithFields(logrus.Fields{
			"store":                q.StoreID,
			"from":                 q.From,
			"to":                   q.To,
			"resolution":           opts.Resolution,
			"excluded_sales_units": report.Diagnostics.ExcludedSalesUnits,
			"excluded_products":    report.Diagnostics.ExcludedProductNames,
			"conversion_warnings":  report.Diagnostics.ConversionWarnings,
			"unresolved_refs":      report.Diagnostics.UnresolvedRefs,
			"duplicate_counts":     report.Diagnostics.DuplicateCounts,
		}).Warn("reconciliation degraded")
	}

	if err := s.cache.SetObject(ctx, key, report); err != nil {
		logger.LogError(s.log, "reconciliation_service.go", "BuildReport", "cache set", key, err)
	}
	return report, nil
}

// loadInput reads one snapshot covering the widened window.
func (s *reconciliationService) loadInput(ctx context.Context, opts reconcile.Options) (reconcile.Input, error) {
	from, to := reconcile.Window(opts)
	rng := repository.DateRange{From: from, To: to}

	var in reconcile.Input
	var err error
	if in.Materials, in.Recipes, err = s.loadCatalog(ctx); err != nil {
		return in, err
	}
	if in.Sales, err = s.repos.Sales.FindByRange(ctx, rng, opts.StoreID); err != nil {
		return in, fmt.Errorf("load sales: %w", err)
	}
	if in.Counts, err = s.repos.Counts.FindByRange(ctx, rng, opts.StoreID); err != nil {
		return in, fmt.Errorf("load inventory counts: %w", err)
	}
	if in.Replenishments, err = s.repos.Replenishments.FindCompletedByRange(ctx, rng, opts.StoreID); err != nil {
		return in, fmt.Errorf("load replenishments: %w", err)
	}
	if in.Waste, err = s.repos.Waste.FindByRange(ctx, rng, opts.StoreID); err != nil {
		return in, fmt.Errorf("load waste: %w", err)
	}
	return in, nil
}

func (s *reconciliationService) loadCatalog(ctx context.Context) ([]model.RawMaterial, []model.Recipe, error) {
	materials, err := s.repos.Materials.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load raw materials: %w", err)
	}
	recipes, err := s.repos.Recipes.FindAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load recipes: %w", err)
	}
	return materials, recipes, nil
}

func (s *reconciliationService) ExplodeRecipe(ctx context.Context, recipeID uuid.UUID, quantity float64, mode bom.Mode) (*ExplosionResult, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	materials, recipes, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	engine := bom.NewEngine(bom.NewCatalog(materials, recipes))
	recipe, ok := engine.Catalog().Recipe(recipeID.String())
	if !ok {
		return nil, ErrRecipeNotFound
	}

	exp, warnings, err := engine.Explode(recipe, quantity, mode)
	if err != nil {
		logger.LogError(s.log, "reconciliation_service.go", "ExplodeRecipe", "Explode", recipeID, err)
		return nil, err
	}
	if warnings == nil {
		warnings = []bom.Warning{}
	}

	return &ExplosionResult{
		RecipeID:    recipe.ID.String(),
		ProductName: recipe.ProductName,
		Quantity:    quantity,
		Mode:        mode.String(),
		Components:  exp.Components(),
		Warnings:    warnings,
	}, nil
}

func (s *reconciliationService) ValidateBOM(ctx context.Context) (*BOMValidation, error) {
	materials, recipes, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	engine := bom.NewEngine(bom.NewCatalog(materials, recipes))
	warnings, err := engine.Validate()
	result := &BOMValidation{Valid: true, Recipes: len(recipes), Warnings: warnings}
	if err != nil {
		var cyc *bom.CyclicBOMError
		if !errors.As(err, &cyc) {
			return nil, err
		}
		result.Valid = false
		result.Cycle = cyc.Path
	}
	return result, nil
}

// isNotFound reports a missing row.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
