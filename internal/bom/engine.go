package bom

import (
	"errors"
	"fmt"
	"sort"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

// Mode selects how leaf quantities are expressed.
type Mode int

const (
	// StockingMode converts every leaf into the material's stocking unit.
	StockingMode Mode = iota
	// TraceMode keeps ingredient units (grams stay grams) for cost breakdowns.
	TraceMode
)

func (m Mode) String() string {
	if m == TraceMode {
		return "trace"
	}
	return "stocking"
}

// ParseMode maps "trace" to TraceMode and anything else to StockingMode.
func ParseMode(s string) Mode {
	if s == "trace" {
		return TraceMode
	}
	return StockingMode
}

type cacheKey struct {
	recipeID string
	mode     Mode
}

type cached struct {
	exp      Explosion
	warnings []Warning
}

// Engine explodes recipes against one Catalog snapshot. It memoises per-unit
// explosions and is meant to live for a single computation; it is not safe for
// concurrent use.
type Engine struct {
	catalog *Catalog
	perUnit map[cacheKey]cached
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		perUnit: make(map[cacheKey]cached),
	}
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Explode expands multiplier units of recipe into raw-material quantities.
func (e *Engine) Explode(recipe *model.Recipe, multiplier float64, mode Mode) (Explosion, []Warning, error) {
	return e.explode(recipe, multiplier, mode, nil)
}

// PerUnit returns the memoised explosion of one unit of recipe.
func (e *Engine) PerUnit(recipe *model.Recipe, mode Mode) (Explosion, []Warning, error) {
	key := cacheKey{recipeID: recipe.ID.String(), mode: mode}
	if c, ok := e.perUnit[key]; ok {
		return c.exp, c.warnings, nil
	}
	exp, warnings, err := e.explode(recipe, 1, mode, nil)
	if err != nil {
		return nil, nil, err
	}
	e.perUnit[key] = cached{exp: exp, warnings: warnings}
	return exp, warnings, nil
}

// Validate explodes every recipe once. It returns the distinct warnings met
// and the first cycle found as a *CyclicBOMError.
func (e *Engine) Validate() ([]Warning, error) {
	warnings := []Warning{}
	seen := map[Warning]struct{}{}
	var cycle error
	for _, r := range e.catalog.Recipes() {
		_, ws, err := e.PerUnit(r, StockingMode)
		if err != nil {
			var cyc *CyclicBOMError
			if !errors.As(err, &cyc) {
				return nil, err
			}
			if cycle == nil {
				cycle = err
			}
			continue
		}
		// nested recipes repeat the warnings of their semi-finished parts
		for _, w := range ws {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			warnings = append(warnings, w)
		}
	}
	return warnings, cycle
}

func (e *Engine) explode(recipe *model.Recipe, multiplier float64, mode Mode, path []*model.Recipe) (Explosion, []Warning, error) {
	for i, seen := range path {
		if seen.ID == recipe.ID {
			names := make([]string, 0, len(path)-i+1)
			for _, r := range path[i:] {
				names = append(names, r.ProductName)
			}
			return nil, nil, &CyclicBOMError{Path: append(names, recipe.ProductName)}
		}
	}
	// full slice expression: siblings must not share the backing array
	path = append(path[:len(path):len(path)], recipe)

	acc := Explosion{}
	var warnings []Warning
	recipeID := recipe.ID.String()

	for _, ing := range canonicalOrder(recipe.Ingredients) {
		qty := model.OrZero(ing.Quantity) * multiplier

		sub, mat := e.catalog.Resolve(ing.TargetRef)
		var part Explosion
		switch {
		case sub != nil && sub.IsSemiFinished:
			subExp, subWarnings, err := e.explode(sub, qty, mode, path)
			if err != nil {
				return nil, nil, err
			}
			part = subExp
			warnings = append(warnings, subWarnings...)
		case sub != nil:
			warnings = append(warnings, Warning{
				Kind:     WarnFinishedRef,
				RecipeID: recipeID,
				Ref:      ing.TargetRef,
				Detail:   fmt.Sprintf("'%s' is not a semi-finished product", sub.ProductName),
			})
			continue
		case mat != nil:
			c, w := leaf(mat, qty, ing.Unit, mode)
			if w != nil {
				w.RecipeID = recipeID
				warnings = append(warnings, *w)
			}
			part = Explosion{c.key(): c}
		default:
			warnings = append(warnings, Warning{
				Kind:     WarnUnresolved,
				RecipeID: recipeID,
				Ref:      ing.TargetRef,
				Detail:   "ingredient reference matches no raw material or semi-finished product",
			})
			continue
		}

		acc = acc.Merge(part)
	}

	return acc, warnings, nil
}

// leaf computes one raw-material contribution. Unknown conversions fall back
// to the unconverted quantity and produce a warning.
func leaf(mat *model.RawMaterial, qty float64, unit string, mode Mode) (Component, *Warning) {
	spec := mat.ConversionSpec()
	from := units.Parse(unit)
	if unit == "" {
		from = spec.StockingUnit
	}

	c := Component{MaterialID: mat.ID.String(), Name: mat.Name}
	if mode == TraceMode {
		c.Quantity, c.Unit = units.TraceQuantity(qty, from)
		return c, nil
	}

	converted, err := units.ToStockingUnit(qty, from, spec)
	c.Quantity, c.Unit = converted, spec.StockingUnit
	if err != nil {
		return c, &Warning{Kind: WarnConversion, Ref: c.MaterialID, Detail: err.Error()}
	}
	return c, nil
}

// canonicalOrder sorts a copy of the ingredients so results do not depend on
// list order.
func canonicalOrder(in []model.Ingredient) []model.Ingredient {
	out := make([]model.Ingredient, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TargetRef != b.TargetRef {
			return a.TargetRef < b.TargetRef
		}
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		return model.OrZero(a.Quantity) < model.OrZero(b.Quantity)
	})
	return out
}
