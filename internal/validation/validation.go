// Package validation checks request messages against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks structs against their validate tags.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the notblank rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Rejects values that are empty once surrounding whitespace is removed.
	v.RegisterValidation("notblank", validateNotBlank)

	return &Validator{validate: v}
}

// Validate returns nil if i satisfies its tags, otherwise an error naming the
// first offending field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return fmt.Errorf("invalid %s: failed %q", strings.ToLower(fe.Field()), fe.Tag())
	}
	return err
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
