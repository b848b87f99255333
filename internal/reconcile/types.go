package reconcile

import (
	"errors"
	"sort"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

var (
	ErrInvalidRange      = errors.New("end date cannot be before start date")
	ErrInvalidResolution = errors.New("resolution must be daily, weekly or monthly")
)

// Resolution is the ledger bucket size.
type Resolution string

const (
	Daily   Resolution = "daily"
	Weekly  Resolution = "weekly"
	Monthly Resolution = "monthly"
)

func (r Resolution) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// PeriodInitial selects where a period's opening stock comes from when no
// count exists on the day before the period.
type PeriodInitial int

const (
	// InitialFirstDayExpected uses the first day's expected stock.
	InitialFirstDayExpected PeriodInitial = iota
	// InitialCarryForward uses the daily layer's opening stock of the first day,
	// i.e. the previous day's final. Matches the daily lookback.
	InitialCarryForward
)

// Input is one immutable snapshot of everything a run reads.
type Input struct {
	Materials      []model.RawMaterial
	Recipes        []model.Recipe
	Sales          []model.SalesRecord
	Counts         []model.InventoryCount
	Replenishments []model.Replenishment
	Waste          []model.WasteRecord
}

type Options struct {
	From          time.Time // inclusive
	To            time.Time // inclusive
	StoreID       string    // empty = every store, one lane per store
	Resolution    Resolution
	PeriodInitial PeriodInitial
	Location      *time.Location // turns replenishment completion timestamps into dates
}

// LedgerRow is one (raw material, store, bucket) line of the reconciliation.
// Delta is nil when there is no physical count to compare with.
type LedgerRow struct {
	RawMaterialID      string     `json:"raw_material_id"`
	MaterialName       string     `json:"material_name"`
	StoreID            string     `json:"store_id"`
	BucketKey          string     `json:"bucket"`
	Unit               units.Unit `json:"unit"`
	Initial            float64    `json:"initial"`
	InitialTheoretical bool       `json:"initial_theoretical"`
	Consumed           float64    `json:"consumed"`
	Received           float64    `json:"received"`
	Waste              float64    `json:"waste"`
	Expected           float64    `json:"expected"`
	Final              float64    `json:"final"`
	Delta              *float64   `json:"delta"`
	Theoretical        bool       `json:"theoretical"`
}

// Diagnostics collects everything that degraded a run without aborting it.
type Diagnostics struct {
	ExcludedSalesUnits   int      `json:"excluded_sales_units"`
	ExcludedProductNames []string `json:"excluded_product_names"`
	ConversionWarnings   int      `json:"conversion_warnings"`
	UnresolvedRefs       []string `json:"unresolved_refs"`
	DuplicateCounts      int      `json:"duplicate_counts"`
}

// HasWarnings reports whether the caller should show a warning banner.
func (d Diagnostics) HasWarnings() bool {
	return d.ExcludedSalesUnits > 0 || len(d.ExcludedProductNames) > 0 ||
		d.ConversionWarnings > 0 || len(d.UnresolvedRefs) > 0 || d.DuplicateCounts > 0
}

func (d Diagnostics) merge(o Diagnostics) Diagnostics {
	return Diagnostics{
		ExcludedSalesUnits:   d.ExcludedSalesUnits + o.ExcludedSalesUnits,
		ExcludedProductNames: union(d.ExcludedProductNames, o.ExcludedProductNames),
		ConversionWarnings:   d.ConversionWarnings + o.ConversionWarnings,
		UnresolvedRefs:       union(d.UnresolvedRefs, o.UnresolvedRefs),
		DuplicateCounts:      d.DuplicateCounts + o.DuplicateCounts,
	}
}

// Report is the output of one run.
type Report struct {
	Resolution  Resolution  `json:"resolution"`
	From        string      `json:"from"`
	To          string      `json:"to"`
	StoreID     string      `json:"store_id,omitempty"`
	Rows        []LedgerRow `json:"rows"`
	Diagnostics Diagnostics `json:"diagnostics"`
}

func union(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
