package units

// Measure is a quantity with its unit, e.g. the 2.5 kg of one mozzarella block.
type Measure struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Spec is the unit metadata of a raw material.
type Spec struct {
	Name            string
	StockingUnit    Unit
	UnitSize        *Measure // weight or volume of one stocking unit (or of one piece inside a package)
	UnitsPerPackage int
}

func (s Spec) size() *Measure {
	if s.UnitSize == nil || s.UnitSize.Value <= 0 {
		return nil
	}
	return s.UnitSize
}

// ToStockingUnit converts an ingredient quantity into the material's stocking unit.
//
// Rules, first match wins:
//  1. pieces of a material packed N per package -> quantity / N
//  2. same unit as stocking unit -> unchanged
//  3. package of N units of size W -> quantity (in W's unit) / (N * W)
//  4. size W alone -> quantity (in W's unit) / W
//  5. plain table conversion into the stocking unit
//
// On a *ConversionError the returned quantity is the input, unconverted.
func ToStockingUnit(quantity float64, from Unit, spec Spec) (float64, error) {
	if spec.UnitsPerPackage > 1 && from == Pieces {
		return quantity / float64(spec.UnitsPerPackage), nil
	}
	if from == spec.StockingUnit {
		return quantity, nil
	}

	if size := spec.size(); size != nil {
		converted, err := Convert(quantity, from, size.Unit)
		if err != nil {
			return quantity, withMaterial(err, spec.Name)
		}
		capacity := size.Value
		if spec.UnitsPerPackage > 0 {
			capacity = float64(spec.UnitsPerPackage) * size.Value
		}
		return converted / capacity, nil
	}

	converted, err := Convert(quantity, from, spec.StockingUnit)
	if err != nil {
		return quantity, withMaterial(err, spec.Name)
	}
	return converted, nil
}

// TraceQuantity keeps an ingredient quantity in its raw unit for cost and
// consumption breakdowns. It is not a pure passthrough: kilograms are
// rewritten as grams and liters as ml, so a breakdown never shows one material
// in two scales of the same dimension. Every other unit is returned unconverted.
func TraceQuantity(quantity float64, from Unit) (float64, Unit) {
	switch from {
	case Kilograms:
		return quantity * 1000, Grams
	case Liters:
		return quantity * 1000, Milliliters
	}
	return quantity, from
}

func withMaterial(err error, name string) error {
	if ce, ok := err.(*ConversionError); ok {
		ce.Material = name
		return ce
	}
	return err
}
