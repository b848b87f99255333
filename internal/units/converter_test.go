package units

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	assert.Equal(t, Grams, Parse(" G "))
	assert.Equal(t, Kilograms, Parse("Kilo"))
	assert.Equal(t, Liters, Parse("litri"))
	assert.Equal(t, Pieces, Parse("pz"))
	assert.Equal(t, Packages, Parse("confezione"))
	assert.Equal(t, Unit("cups"), Parse("Cups"))
	assert.False(t, Parse("cups").Known())
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		from Unit
		to   Unit
		want float64
	}{
		{"grams to kg", 2000, Grams, Kilograms, 2},
		{"kg to grams", 1.5, Kilograms, Grams, 1500},
		{"ml to liters", 250, Milliliters, Liters, 0.25},
		{"liters to ml", 2, Liters, Milliliters, 2000},
		{"grams to ml unit density", 100, Grams, Milliliters, 100},
		{"kg to ml", 1, Kilograms, Milliliters, 1000},
		{"identity pieces", 3, Pieces, Pieces, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.qty, tt.from, tt.to)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestConvert_UnknownPair(t *testing.T) {
	got, err := Convert(5, Pieces, Grams)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConversion))
	assert.Equal(t, 5.0, got)
}

func TestToStockingUnit_MozzarellaBlock(t *testing.T) {
	spec := Spec{
		Name:         "Mozzarella",
		StockingUnit: Pieces,
		UnitSize:     &Measure{Value: 2.5, Unit: Kilograms},
	}
	got, err := ToStockingUnit(200*10, Grams, spec)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, got, 1e-9)
}

func TestToStockingUnit_Rules(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		from Unit
		spec Spec
		want float64
	}{
		{
			name: "pieces into packages",
			qty:  12,
			from: Pieces,
			spec: Spec{StockingUnit: Packages, UnitsPerPackage: 6},
			want: 2,
		},
		{
			name: "package of bottles",
			qty:  3000,
			from: Milliliters,
			spec: Spec{StockingUnit: Packages, UnitsPerPackage: 6, UnitSize: &Measure{Value: 1, Unit: Liters}},
			want: 0.5,
		},
		{
			name: "same unit is identity even with size metadata",
			qty:  2,
			from: Packages,
			spec: Spec{StockingUnit: Packages, UnitsPerPackage: 6, UnitSize: &Measure{Value: 1, Unit: Liters}},
			want: 2,
		},
		{
			name: "plain grams into kg",
			qty:  750,
			from: Grams,
			spec: Spec{StockingUnit: Kilograms},
			want: 0.75,
		},
		{
			name: "zero size is ignored",
			qty:  500,
			from: Grams,
			spec: Spec{StockingUnit: Kilograms, UnitSize: &Measure{Value: 0, Unit: Grams}},
			want: 0.5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToStockingUnit(tt.qty, tt.from, tt.spec)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestToStockingUnit_MissingMetadataFailsOpen(t *testing.T) {
	got, err := ToStockingUnit(300, Grams, Spec{Name: "Basil", StockingUnit: Pieces})

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "Basil", convErr.Material)
	assert.Equal(t, 300.0, got)
}

func TestTraceQuantity(t *testing.T) {
	q, u := TraceQuantity(0.2, Kilograms)
	assert.InDelta(t, 200, q, 1e-9)
	assert.Equal(t, Grams, u)

	q, u = TraceQuantity(2, Pieces)
	assert.Equal(t, 2.0, q)
	assert.Equal(t, Pieces, u)
}
