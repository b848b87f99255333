package service

import (
	"context"
	"fmt"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/reconcile"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/repository"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/ws"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RecordCountRequest is a physical count typed in by an operator, in the
// material's stocking unit.
type RecordCountRequest struct {
	Date          string    `json:"date" validate:"required,day"`
	StoreID       string    `json:"store_id" validate:"required,max=64"`
	RawMaterialID uuid.UUID `json:"raw_material_id" validate:"uuid_required"`
	Quantity      *float64  `json:"quantity" validate:"required,gte=0"`
}

type CountQuery struct {
	From    string `json:"from" validate:"required,day"`
	To      string `json:"to" validate:"required,day"`
	StoreID string `json:"store_id" validate:"omitempty,max=64"`
}

// Operator is the authenticated user recording a count.
type Operator struct {
	ID   string
	Name string
}

// Notifier pushes live events to connected clients.
type Notifier interface {
	Publish(e ws.Event)
}

type InventoryCountService interface {
	RecordCount(ctx context.Context, req RecordCountRequest, op Operator) (*model.InventoryCount, error)
	ListCounts(ctx context.Context, q CountQuery) ([]model.InventoryCount, error)
}

type inventoryCountService struct {
	counts    repository.InventoryCountRepository
	materials repository.RawMaterialRepository
	cache     ReportCache
	notifier  Notifier
	log       *logrus.Logger
}

type noNotifier struct{}

func (noNotifier) Publish(ws.Event) {}

func NewInventoryCountService(counts repository.InventoryCountRepository, materials repository.RawMaterialRepository, cache ReportCache, notifier Notifier) InventoryCountService {
	if cache == nil {
		cache = noCache{}
	}
	if notifier == nil {
		notifier = noNotifier{}
	}
	return &inventoryCountService{
		counts:    counts,
		materials: materials,
		cache:     cache,
		notifier:  notifier,
		log:       logger.GetLogger(),
	}
}

func (s *inventoryCountService) RecordCount(ctx context.Context, req RecordCountRequest, op Operator) (*model.InventoryCount, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	date, err := reconcile.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}

	material, err := s.materials.FindByID(ctx, req.RawMaterialID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}

	count := &model.InventoryCount{
		Date:          date,
		StoreID:       req.StoreID,
		RawMaterialID: material.ID,
		Quantity:      model.Float(*req.Quantity),
		OperatorID:    op.ID,
		OperatorName:  op.Name,
	}
	count.CreatedBy = op.ID
	count.UpdatedBy = op.ID

	if err := s.counts.Create(ctx, count); err != nil {
		logger.LogError(s.log, "inventory_count_service.go", "RecordCount", "Create", req, err)
		return nil, err
	}
	count.RawMaterial = material

	// every cached report may cover this date
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.LogError(s.log, "inventory_count_service.go", "RecordCount", "cache invalidate", nil, err)
	}

	s.notifier.Publish(ws.Event{
		Type:    ws.EventInventoryCountRecorded,
		StoreID: count.StoreID,
		Payload: map[string]interface{}{
			"id":              count.ID,
			"date":            req.Date,
			"raw_material_id": material.ID,
			"material_name":   material.Name,
			"quantity":        *req.Quantity,
			"unit":            material.StockingUnit,
			"operator":        op.Name,
		},
		Message: fmt.Sprintf("%s counted %s of %s", op.Name, reconcile.FormatQuantity(*req.Quantity), material.Name),
	})
	s.notifier.Publish(ws.Event{Type: ws.EventReportInvalidated, StoreID: count.StoreID})

	return count, nil
}

func (s *inventoryCountService) ListCounts(ctx context.Context, q CountQuery) ([]model.InventoryCount, error) {
	if err := validate(q); err != nil {
		return nil, err
	}
	from, _ := reconcile.ParseDay(q.From)
	to, _ := reconcile.ParseDay(q.To)
	if to.Before(from) {
		return nil, reconcile.ErrInvalidRange
	}
	return s.counts.FindByRange(ctx, repository.DateRange{From: from, To: to}, q.StoreID)
}
