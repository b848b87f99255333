package bom

import (
	"errors"
	"strings"
)

var ErrCyclicBOM = errors.New("cyclic bill of materials")

// CyclicBOMError is returned when a recipe reaches itself through its ingredients.
// Path lists product names from the first repeated recipe back to itself.
type CyclicBOMError struct {
	Path []string
}

func (e *CyclicBOMError) Error() string {
	return ErrCyclicBOM.Error() + ": " + strings.Join(e.Path, " -> ")
}

func (e *CyclicBOMError) Unwrap() error {
	return ErrCyclicBOM
}

type WarningKind string

const (
	WarnConversion  WarningKind = "conversion"
	WarnUnresolved  WarningKind = "unresolved_ref"
	WarnFinishedRef WarningKind = "finished_product_ref"
)

// Warning is a non-fatal problem met while exploding a recipe.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	RecipeID string      `json:"recipe_id"`
	Ref      string      `json:"ref"`
	Detail   string      `json:"detail"`
}
