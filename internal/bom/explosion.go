package bom

import (
	"sort"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

// Component is the consumed quantity of one raw material.
type Component struct {
	MaterialID string     `json:"raw_material_id"`
	Name       string     `json:"name"`
	Quantity   float64    `json:"quantity"`
	Unit       units.Unit `json:"unit"`
}

// Key identifies a component. In stocking mode every material has exactly one
// unit; trace mode keeps one entry per ingredient unit.
type Key struct {
	MaterialID string
	Unit       units.Unit
}

func (c Component) key() Key {
	return Key{MaterialID: c.MaterialID, Unit: c.Unit}
}

// Explosion maps components by material and unit. Values are never modified
// in place: Merge and Scale build new maps.
type Explosion map[Key]Component

// Quantity returns the amount of materialID expressed in unit.
func (e Explosion) Quantity(materialID string, unit units.Unit) float64 {
	return e[Key{MaterialID: materialID, Unit: unit}].Quantity
}

// Merge returns the per-key sum of e and other.
func (e Explosion) Merge(other Explosion) Explosion {
	out := make(Explosion, len(e)+len(other))
	for k, c := range e {
		out[k] = c
	}
	for k, c := range other {
		if existing, ok := out[k]; ok {
			existing.Quantity += c.Quantity
			out[k] = existing
			continue
		}
		out[k] = c
	}
	return out
}

// Scale returns e with every quantity multiplied by k.
func (e Explosion) Scale(k float64) Explosion {
	out := make(Explosion, len(e))
	for key, c := range e {
		c.Quantity *= k
		out[key] = c
	}
	return out
}

// Components returns the components ordered by name, id, then unit.
func (e Explosion) Components() []Component {
	out := make([]Component, 0, len(e))
	for _, c := range e {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		if out[i].MaterialID != out[j].MaterialID {
			return out[i].MaterialID < out[j].MaterialID
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}
