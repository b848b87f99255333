package model

import "github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"

// RawMaterial is a stocked ingredient counted in its StockingUnit.
type RawMaterial struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);not null;index" json:"name" validate:"required"`
	StockingUnit string `gorm:"type:varchar(20);not null" json:"stocking_unit" validate:"required"`

	// Weight or volume of one stocking unit (or of one piece inside a package)
	UnitSizeValue *float64 `json:"unit_size_value,omitempty"`
	UnitSizeUnit  string   `gorm:"type:varchar(20)" json:"unit_size_unit,omitempty"`

	// Pieces inside one stocking package
	UnitsPerPackage *int `json:"units_per_package,omitempty"`

	IsActive bool `gorm:"default:true" json:"is_active"`
}

func (RawMaterial) TableName() string {
	return "raw_materials"
}

// ConversionSpec exposes the unit metadata used by the converter.
func (m *RawMaterial) ConversionSpec() units.Spec {
	spec := units.Spec{
		Name:         m.Name,
		StockingUnit: units.Parse(m.StockingUnit),
	}
	if m.UnitSizeValue != nil && m.UnitSizeUnit != "" {
		spec.UnitSize = &units.Measure{Value: *m.UnitSizeValue, Unit: units.Parse(m.UnitSizeUnit)}
	}
	if m.UnitsPerPackage != nil {
		spec.UnitsPerPackage = *m.UnitsPerPackage
	}
	return spec
}
