package namechange

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Record represents one rename event: a player changed OldName to NewName.
type Record struct {
	OldName string `json:"oldName" validate:"required"`
	NewName string `json:"newName" validate:"required"`
}

// String returns "old -> new".
func (r Record) String() string {
	return fmt.Sprintf("%s -> %s", r.OldName, r.NewName)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names in errors, so messages match the payload the user sees.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports a record that fails schema validation.
type ValidationError struct {
	// Index is the position of the record in the validated list, -1 for a single record.
	Index  int
	Fields []string
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("record [%d]: missing required field(s): %s", e.Index, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("record: missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// Validate checks that both names are present.
func (r Record) Validate() error {
	return validateAt(r, -1)
}

// ValidateAll validates every record and returns the first failure.
func ValidateAll(records []Record) error {
	for i, r := range records {
		if err := validateAt(r, i); err != nil {
			return err
		}
	}
	return nil
}

func validateAt(r Record, index int) error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate record: %w", err)
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{Index: index, Fields: fields}
}
