package model

import (
	"time"

	"github.com/google/uuid"
)

// SalesRecord is one day's sold units of a product in a store. Read-only input.
type SalesRecord struct {
	BaseModel
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	ProductName string    `gorm:"type:varchar(255);not null" json:"product_name"`
	StoreID     string    `gorm:"type:varchar(64);not null;index" json:"store_id"`
	UnitsSold   int       `gorm:"not null;default:0" json:"units_sold"`
}

func (SalesRecord) TableName() string {
	return "sales_records"
}

// InventoryCount is a physical stock count in the material's stocking unit.
type InventoryCount struct {
	BaseModel
	Date          time.Time    `gorm:"type:date;not null;index" json:"date"`
	StoreID       string       `gorm:"type:varchar(64);not null;index" json:"store_id"`
	RawMaterialID uuid.UUID    `gorm:"type:uuid;not null;index" json:"raw_material_id"`
	RawMaterial   *RawMaterial `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
	Quantity      *float64     `json:"quantity"`
	OperatorID    string       `gorm:"type:varchar(255)" json:"operator_id"`
	OperatorName  string       `gorm:"type:varchar(255)" json:"operator_name"`
}

func (InventoryCount) TableName() string {
	return "inventory_counts"
}

const ReplenishmentCompleted = "completed"

// Replenishment is a purchase-order receipt. Only completed receipts with a
// completion date take part in reconciliation.
type Replenishment struct {
	BaseModel
	StoreID     string              `gorm:"type:varchar(64);not null;index" json:"store_id"`
	Status      string              `gorm:"type:varchar(20);not null" json:"status"`
	CompletedAt *time.Time          `gorm:"index" json:"completed_at,omitempty"`
	Items       []ReplenishmentItem `gorm:"foreignKey:ReplenishmentID" json:"items"`
}

func (Replenishment) TableName() string {
	return "replenishments"
}

// Counts reports whether the receipt participates in reconciliation.
func (r *Replenishment) Counts() bool {
	return r.Status == ReplenishmentCompleted && r.CompletedAt != nil
}

type ReplenishmentItem struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	ReplenishmentID  uuid.UUID `gorm:"type:uuid;not null;index" json:"replenishment_id"`
	RawMaterialID    uuid.UUID `gorm:"type:uuid;not null" json:"raw_material_id"`
	QuantityReceived *float64  `json:"quantity_received"`
}

func (ReplenishmentItem) TableName() string {
	return "replenishment_items"
}

// WasteRecord is discarded material. Unit defaults to grams.
type WasteRecord struct {
	BaseModel
	Date          time.Time `gorm:"type:date;not null;index" json:"date"`
	StoreID       string    `gorm:"type:varchar(64);not null;index" json:"store_id"`
	RawMaterialID uuid.UUID `gorm:"type:uuid;not null" json:"raw_material_id"`
	Quantity      *float64  `json:"quantity"`
	Unit          string    `gorm:"type:varchar(20);default:'grams'" json:"unit"`
	Reason        string    `gorm:"type:text" json:"reason,omitempty"`
}

func (WasteRecord) TableName() string {
	return "waste_records"
}
