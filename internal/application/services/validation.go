package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/domain/optional"
)

// dateLayouts are tried in order when parsing client timestamps
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput runs struct validation and converts failures into a
// ValidationError. Missing required fields are reported together, in field
// declaration order; otherwise the first malformed field is reported.
func validateInput(input interface{}) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate input: %w", err)
	}

	var missing []string
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		}
	}
	if len(missing) > 0 {
		return entities.NewMissingFieldsError(missing...)
	}

	fe := verrs[0]
	return entities.NewInvalidFieldError(fe.Field(), fmt.Sprint(fe.Value()))
}

// parseTimestamp parses an ISO-8601 timestamp or a bare date into UTC
func parseTimestamp(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, entities.NewInvalidFieldError(field, value)
}

// parseOptionalTimestamp treats nil and "" as no date
func parseOptionalTimestamp(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseTimestamp(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// mergeTimestamp applies a tri-state date field onto dst. Absent leaves dst
// alone; null or "" clears it; a value must parse.
func mergeTimestamp(field string, f optional.Field[string], dst **time.Time) error {
	if !f.IsSet() {
		return nil
	}
	value, ok := f.Value()
	if !ok {
		*dst = nil
		return nil
	}
	t, err := parseOptionalTimestamp(field, &value)
	if err != nil {
		return err
	}
	*dst = t
	return nil
}

// requiredString resolves a tri-state field that may not be cleared
func requiredString(field string, f optional.Field[string]) (string, bool, error) {
	if !f.IsSet() {
		return "", false, nil
	}
	value, ok := f.Value()
	if !ok {
		return "", false, entities.NewNullFieldError(field)
	}
	if value == "" {
		return "", false, entities.NewEmptyFieldError(field)
	}
	return value, true, nil
}
