package service

import (
	"errors"
	"fmt"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/pkg/validator"
)

var (
	ErrRecipeNotFound   = errors.New("recipe not found")
	ErrMaterialNotFound = errors.New("raw material not found")
	ErrInvalidQuantity  = errors.New("quantity must be a positive number")
)

// ValidationError carries the field errors of a rejected request.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	first := e.Fields[0]
	return fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag)
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
