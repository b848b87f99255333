package reconcile

import (
	"sort"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

// Compute reconciles theoretical consumption against physical counts for the
// requested range. in is read-only. Apart from invalid options the only error
// is a *bom.CyclicBOMError.
func Compute(in Input, opts Options) (*Report, error) {
	if opts.Resolution == "" {
		opts.Resolution = Daily
	}
	if !opts.Resolution.Valid() {
		return nil, ErrInvalidResolution
	}
	from, to := dayOf(opts.From), dayOf(opts.To)
	if to.Before(from) {
		return nil, ErrInvalidRange
	}

	lookback, windowEnd := Window(opts)
	windowStart := lookback.AddDate(0, 0, 1)
	in = filterStore(in, opts.StoreID)

	catalog := bom.NewCatalog(in.Materials, in.Recipes)
	engine := bom.NewEngine(catalog)

	consumed, diag, err := AggregateConsumption(in.Sales, engine)
	if err != nil {
		return nil, err
	}
	waste, wasteDiag := AggregateWaste(in.Waste, catalog)
	diag = diag.merge(wasteDiag)
	mv := movements{
		consumed: consumed,
		received: AggregateReplenishment(in.Replenishments, opts.Location),
		waste:    waste,
	}
	mv.counts, diag.DuplicateCounts = indexCounts(in.Counts)

	days := daysBetween(windowStart, windowEnd)
	lanes, unknown := activeLanes(catalog, mv, lookback, windowEnd)
	diag.UnresolvedRefs = union(diag.UnresolvedRefs, unknown)

	rows := []LedgerRow{}
	for _, l := range lanes {
		daily := buildDaily(l, days, mv)
		if opts.Resolution == Daily {
			rows = append(rows, daily...)
			continue
		}
		rows = append(rows, buildPeriods(daily, buckets(opts.Resolution, from, to), opts.PeriodInitial)...)
	}
	sortRows(rows)

	if diag.ExcludedProductNames == nil {
		diag.ExcludedProductNames = []string{}
	}
	if diag.UnresolvedRefs == nil {
		diag.UnresolvedRefs = []string{}
	}

	return &Report{
		Resolution:  opts.Resolution,
		From:        dayKey(from),
		To:          dayKey(to),
		StoreID:     opts.StoreID,
		Rows:        rows,
		Diagnostics: diag,
	}, nil
}

func filterStore(in Input, storeID string) Input {
	if storeID == "" {
		return in
	}
	out := Input{Materials: in.Materials, Recipes: in.Recipes}
	for _, s := range in.Sales {
		if s.StoreID == storeID {
			out.Sales = append(out.Sales, s)
		}
	}
	for _, c := range in.Counts {
		if c.StoreID == storeID {
			out.Counts = append(out.Counts, c)
		}
	}
	for _, r := range in.Replenishments {
		if r.StoreID == storeID {
			out.Replenishments = append(out.Replenishments, r)
		}
	}
	for _, w := range in.Waste {
		if w.StoreID == storeID {
			out.Waste = append(out.Waste, w)
		}
	}
	return out
}

// activeLanes returns every lane with a count or a movement between from and
// to, plus the material ids that are not in the catalog.
func activeLanes(catalog *bom.Catalog, mv movements, from, to time.Time) ([]lane, []string) {
	keys := map[LaneKey]struct{}{}
	for _, d := range daysBetween(from, to) {
		key := dayKey(d)
		for _, totals := range []DailyTotals{mv.consumed, mv.received, mv.waste} {
			for l := range totals[key] {
				keys[l] = struct{}{}
			}
		}
		for l, perDay := range mv.counts {
			if _, ok := perDay[key]; ok {
				keys[l] = struct{}{}
			}
		}
	}

	unknown := map[string]struct{}{}
	lanes := make([]lane, 0, len(keys))
	for k := range keys {
		mat, ok := catalog.Material(k.MaterialID)
		if !ok {
			unknown[k.MaterialID] = struct{}{}
			continue
		}
		lanes = append(lanes, lane{key: k, name: mat.Name, unit: units.Parse(mat.StockingUnit)})
	}
	return lanes, sortedKeys(unknown)
}

func sortRows(rows []LedgerRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.MaterialName != b.MaterialName {
			return a.MaterialName < b.MaterialName
		}
		if a.RawMaterialID != b.RawMaterialID {
			return a.RawMaterialID < b.RawMaterialID
		}
		if a.StoreID != b.StoreID {
			return a.StoreID < b.StoreID
		}
		return a.BucketKey < b.BucketKey
	})
}
