package reconcile

import "github.com/shopspring/decimal"

const (
	presentPlaces = 2
	notAvailable  = "N/A"
)

// PresentedRow is a LedgerRow rounded for display. Rounding happens here only;
// the ledger itself keeps full precision.
type PresentedRow struct {
	RawMaterialID string `json:"raw_material_id"`
	MaterialName  string `json:"material_name"`
	StoreID       string `json:"store_id"`
	Bucket        string `json:"bucket"`
	Unit          string `json:"unit"`
	Initial       string `json:"initial"`
	Consumed      string `json:"consumed"`
	Received      string `json:"received"`
	Waste         string `json:"waste"`
	Expected      string `json:"expected"`
	Final         string `json:"final"`
	Delta         string `json:"delta"`
	Theoretical   bool   `json:"theoretical"`
}

// Round rounds v half away from zero to two decimals.
func Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(presentPlaces).Float64()
	return f
}

// FormatQuantity renders v with two decimals.
func FormatQuantity(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(presentPlaces)
}

// Present renders rows for the end consumer. A theoretical final and an
// undefined delta are shown as N/A.
func Present(rows []LedgerRow) []PresentedRow {
	out := make([]PresentedRow, 0, len(rows))
	for _, r := range rows {
		p := PresentedRow{
			RawMaterialID: r.RawMaterialID,
			MaterialName:  r.MaterialName,
			StoreID:       r.StoreID,
			Bucket:        r.BucketKey,
			Unit:          string(r.Unit),
			Initial:       FormatQuantity(r.Initial),
			Consumed:      FormatQuantity(r.Consumed),
			Received:      FormatQuantity(r.Received),
			Waste:         FormatQuantity(r.Waste),
			Expected:      FormatQuantity(r.Expected),
			Final:         notAvailable,
			Delta:         notAvailable,
			Theoretical:   r.Theoretical,
		}
		if !r.Theoretical {
			p.Final = FormatQuantity(r.Final)
		}
		if r.Delta != nil {
			p.Delta = FormatQuantity(*r.Delta)
		}
		out = append(out, p)
	}
	return out
}
