package bom

import (
	"sort"
	"strings"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
)

// Catalog is the per-computation index of materials and recipes. References are
// resolved by id first; names are only a fallback alias.
type Catalog struct {
	materials     map[string]*model.RawMaterial
	recipes       map[string]*model.Recipe
	materialNames map[string]*model.RawMaterial
	recipeNames   map[string]*model.Recipe
	productNames  map[string]*model.Recipe
}

// NewCatalog indexes the given snapshot. The slices must not be mutated while
// the catalog is in use.
func NewCatalog(materials []model.RawMaterial, recipes []model.Recipe) *Catalog {
	c := &Catalog{
		materials:     make(map[string]*model.RawMaterial, len(materials)),
		recipes:       make(map[string]*model.Recipe, len(recipes)),
		materialNames: make(map[string]*model.RawMaterial, len(materials)),
		recipeNames:   make(map[string]*model.Recipe),
		productNames:  make(map[string]*model.Recipe),
	}

	for i := range materials {
		m := &materials[i]
		c.materials[m.ID.String()] = m
		name := NormalizeName(m.Name)
		if _, exists := c.materialNames[name]; !exists {
			c.materialNames[name] = m
		}
	}

	for i := range recipes {
		r := &recipes[i]
		c.recipes[r.ID.String()] = r
		name := NormalizeName(r.ProductName)
		// ingredient references prefer semi-finished recipes; a finished one is
		// still resolved so explode can report it
		if existing, exists := c.recipeNames[name]; !exists || (!existing.IsSemiFinished && r.IsSemiFinished) {
			c.recipeNames[name] = r
		}
		// Finished products win the sales lookup over semi-finished ones
		if existing, exists := c.productNames[name]; !exists || (existing.IsSemiFinished && !r.IsSemiFinished) {
			c.productNames[name] = r
		}
	}

	return c
}

// NormalizeName lower-cases a name and collapses whitespace.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Resolve looks up an ingredient reference. At most one of the results is non-nil.
func (c *Catalog) Resolve(ref string) (*model.Recipe, *model.RawMaterial) {
	key := strings.TrimSpace(ref)
	if r, ok := c.recipes[key]; ok {
		return r, nil
	}
	if m, ok := c.materials[key]; ok {
		return nil, m
	}
	name := NormalizeName(ref)
	if r, ok := c.recipeNames[name]; ok {
		return r, nil
	}
	if m, ok := c.materialNames[name]; ok {
		return nil, m
	}
	return nil, nil
}

// Material returns a raw material by id.
func (c *Catalog) Material(id string) (*model.RawMaterial, bool) {
	m, ok := c.materials[id]
	return m, ok
}

// Recipe returns a recipe by id.
func (c *Catalog) Recipe(id string) (*model.Recipe, bool) {
	r, ok := c.recipes[id]
	return r, ok
}

// RecipeForProduct finds the recipe of a sold product by name.
func (c *Catalog) RecipeForProduct(productName string) (*model.Recipe, bool) {
	r, ok := c.productNames[NormalizeName(productName)]
	return r, ok
}

// Recipes returns all recipes ordered by id.
func (c *Catalog) Recipes() []*model.Recipe {
	out := make([]*model.Recipe, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out
}
