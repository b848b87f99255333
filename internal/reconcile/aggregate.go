package reconcile

import (
	"sort"
	"strings"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

// LaneKey identifies one reconciliation lane.
type LaneKey struct {
	MaterialID string
	StoreID    string
}

// DailyTotals maps a day key to per-lane quantities.
type DailyTotals map[string]map[LaneKey]float64

func (t DailyTotals) add(day string, lane LaneKey, qty float64) {
	perLane, ok := t[day]
	if !ok {
		perLane = make(map[LaneKey]float64)
		t[day] = perLane
	}
	perLane[lane] += qty
}

// At returns the quantity for a lane on a day, zero when absent.
func (t DailyTotals) At(day string, lane LaneKey) float64 {
	return t[day][lane]
}

type saleGroup struct {
	day      string
	storeID  string
	recipeID string
}

// AggregateConsumption explodes sales into stocking-unit consumption per day.
// Sales without a recipe are excluded and reported in the diagnostics; only a
// cyclic BOM returns an error.
func AggregateConsumption(sales []model.SalesRecord, engine *bom.Engine) (DailyTotals, Diagnostics, error) {
	var diag Diagnostics
	totals := DailyTotals{}
	excluded := map[string]struct{}{}

	// Units are summed per (day, store, recipe) first so each recipe is exploded once.
	groups := map[saleGroup]int{}
	recipes := map[string]*model.Recipe{}
	for _, s := range sales {
		recipe, ok := engine.Catalog().RecipeForProduct(s.ProductName)
		if !ok {
			diag.ExcludedSalesUnits += s.UnitsSold
			excluded[strings.TrimSpace(s.ProductName)] = struct{}{}
			continue
		}
		id := recipe.ID.String()
		recipes[id] = recipe
		groups[saleGroup{day: DayKey(s.Date), storeID: s.StoreID, recipeID: id}] += s.UnitsSold
	}
	diag.ExcludedProductNames = sortedKeys(excluded)

	recipeIDs := make([]string, 0, len(recipes))
	for id := range recipes {
		recipeIDs = append(recipeIDs, id)
	}
	sort.Strings(recipeIDs)

	perUnit := make(map[string]bom.Explosion, len(recipes))
	unresolved := map[string]struct{}{}
	for _, id := range recipeIDs {
		exp, warnings, err := engine.PerUnit(recipes[id], bom.StockingMode)
		if err != nil {
			return nil, Diagnostics{}, err
		}
		perUnit[id] = exp
		for _, w := range warnings {
			switch w.Kind {
			case bom.WarnConversion:
				diag.ConversionWarnings++
			case bom.WarnUnresolved, bom.WarnFinishedRef:
				unresolved[w.Ref] = struct{}{}
			}
		}
	}
	diag.UnresolvedRefs = sortedKeys(unresolved)

	for g, unitsSold := range groups {
		if unitsSold == 0 {
			continue
		}
		for _, c := range perUnit[g.recipeID].Scale(float64(unitsSold)) {
			totals.add(g.day, LaneKey{MaterialID: c.MaterialID, StoreID: g.storeID}, c.Quantity)
		}
	}

	return totals, diag, nil
}

// AggregateReplenishment sums received quantities per completion day. The
// quantities are already in the stocking unit.
func AggregateReplenishment(records []model.Replenishment, loc *time.Location) DailyTotals {
	if loc == nil {
		loc = time.UTC
	}
	totals := DailyTotals{}
	for _, r := range records {
		if !r.Counts() {
			continue
		}
		day := DayKey(r.CompletedAt.In(loc))
		for _, item := range r.Items {
			lane := LaneKey{MaterialID: item.RawMaterialID.String(), StoreID: r.StoreID}
			totals.add(day, lane, model.OrZero(item.QuantityReceived))
		}
	}
	return totals
}

// AggregateWaste sums waste per day in the material's stocking unit. Waste is
// reported next to the delta, never subtracted from the expected stock.
func AggregateWaste(records []model.WasteRecord, catalog *bom.Catalog) (DailyTotals, Diagnostics) {
	var diag Diagnostics
	totals := DailyTotals{}
	unresolved := map[string]struct{}{}

	for _, w := range records {
		materialID := w.RawMaterialID.String()
		qty := model.OrZero(w.Quantity)

		mat, ok := catalog.Material(materialID)
		if !ok {
			unresolved[materialID] = struct{}{}
			continue
		}
		from := units.Grams
		if w.Unit != "" {
			from = units.Parse(w.Unit)
		}
		converted, err := units.ToStockingUnit(qty, from, mat.ConversionSpec())
		if err != nil {
			diag.ConversionWarnings++
		}
		totals.add(DayKey(w.Date), LaneKey{MaterialID: materialID, StoreID: w.StoreID}, converted)
	}

	diag.UnresolvedRefs = sortedKeys(unresolved)
	return totals, diag
}

// countIndex holds the physical count chosen for each lane and day.
type countIndex map[LaneKey]map[string]float64

func (c countIndex) at(lane LaneKey, day string) (float64, bool) {
	v, ok := c[lane][day]
	return v, ok
}

// indexCounts keeps one count per (lane, day): the most recently created, with
// later input order breaking ties.
func indexCounts(counts []model.InventoryCount) (countIndex, int) {
	type pick struct {
		created time.Time
		qty     float64
	}
	picked := map[LaneKey]map[string]pick{}
	duplicates := 0

	for _, c := range counts {
		lane := LaneKey{MaterialID: c.RawMaterialID.String(), StoreID: c.StoreID}
		day := DayKey(c.Date)
		perDay, ok := picked[lane]
		if !ok {
			perDay = make(map[string]pick)
			picked[lane] = perDay
		}
		if existing, ok := perDay[day]; ok {
			duplicates++
			if c.CreatedAt.Before(existing.created) {
				continue
			}
		}
		perDay[day] = pick{created: c.CreatedAt, qty: model.OrZero(c.Quantity)}
	}

	idx := make(countIndex, len(picked))
	for lane, perDay := range picked {
		idx[lane] = make(map[string]float64, len(perDay))
		for day, p := range perDay {
			idx[lane][day] = p.qty
		}
	}
	return idx, duplicates
}
