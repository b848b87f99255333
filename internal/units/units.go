package units

import (
	"errors"
	"fmt"
	"strings"
)

// Unit is a stocking or recipe unit of measure.
type Unit string

const (
	Grams       Unit = "grams"
	Kilograms   Unit = "kg"
	Milliliters Unit = "ml"
	Liters      Unit = "liters"
	Pieces      Unit = "pieces"
	Packages    Unit = "packages"
)

var ErrUnknownConversion = errors.New("unknown unit conversion")

// ConversionError reports a (from, to) pair missing from the conversion table.
type ConversionError struct {
	From     Unit
	To       Unit
	Material string
}

func (e *ConversionError) Error() string {
	if e.Material != "" {
		return fmt.Sprintf("cannot convert %s to %s for material '%s'", e.From, e.To, e.Material)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.To)
}

func (e *ConversionError) Unwrap() error {
	return ErrUnknownConversion
}

var aliases = map[string]Unit{
	"g":          Grams,
	"gr":         Grams,
	"gram":       Grams,
	"grams":      Grams,
	"grammi":     Grams,
	"kg":         Kilograms,
	"kilo":       Kilograms,
	"kilogram":   Kilograms,
	"kilograms":  Kilograms,
	"ml":         Milliliters,
	"milliliter": Milliliters,
	"millilitri": Milliliters,
	"l":          Liters,
	"lt":         Liters,
	"liter":      Liters,
	"liters":     Liters,
	"litre":      Liters,
	"litri":      Liters,
	"pz":         Pieces,
	"pcs":        Pieces,
	"piece":      Pieces,
	"pieces":     Pieces,
	"pezzi":      Pieces,
	"pack":       Packages,
	"pkg":        Packages,
	"package":    Packages,
	"packages":   Packages,
	"confezione": Packages,
	"confezioni": Packages,
}

// Parse normalizes a free-text unit. Unknown spellings are returned lower-cased
// so they still fail loudly in Convert.
func Parse(s string) Unit {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := aliases[key]; ok {
		return u
	}
	return Unit(key)
}

// Known reports whether u is one of the canonical units.
func (u Unit) Known() bool {
	switch u {
	case Grams, Kilograms, Milliliters, Liters, Pieces, Packages:
		return true
	}
	return false
}

type pair struct {
	from Unit
	to   Unit
}

// factor is applied as q * mul / div so that 1000-based steps stay exact.
type factor struct {
	mul float64
	div float64
}

// g <-> ml assumes unit density.
var table = map[pair]factor{
	{Grams, Grams}:             {1, 1},
	{Kilograms, Kilograms}:     {1, 1},
	{Milliliters, Milliliters}: {1, 1},
	{Liters, Liters}:           {1, 1},
	{Pieces, Pieces}:           {1, 1},
	{Packages, Packages}:       {1, 1},

	{Kilograms, Grams}:       {1000, 1},
	{Grams, Kilograms}:       {1, 1000},
	{Liters, Milliliters}:    {1000, 1},
	{Milliliters, Liters}:    {1, 1000},
	{Grams, Milliliters}:     {1, 1},
	{Milliliters, Grams}:     {1, 1},
	{Kilograms, Liters}:      {1, 1},
	{Liters, Kilograms}:      {1, 1},
	{Kilograms, Milliliters}: {1000, 1},
	{Milliliters, Kilograms}: {1, 1000},
	{Liters, Grams}:          {1000, 1},
	{Grams, Liters}:          {1, 1000},
}

// Convert applies the fixed conversion table. Pairs outside the table are
// rejected with a *ConversionError and the quantity is returned unchanged.
func Convert(quantity float64, from, to Unit) (float64, error) {
	f, ok := table[pair{from, to}]
	if !ok {
		return quantity, &ConversionError{From: from, To: to}
	}
	return quantity * f.mul / f.div, nil
}
