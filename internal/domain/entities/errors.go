package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports missing or malformed payload fields
type ValidationError struct {
	Fields  []string
	Message string
}

// NewMissingFieldsError builds the combined error for absent required fields.
// Fields keep the order they are given in.
func NewMissingFieldsError(fields ...string) *ValidationError {
	noun := "fields"
	if len(fields) == 1 {
		noun = "field"
	}
	return &ValidationError{
		Fields:  fields,
		Message: fmt.Sprintf("Missing required %s: %s", noun, strings.Join(fields, ", ")),
	}
}

// NewInvalidFieldError reports a present field whose value cannot be used
func NewInvalidFieldError(field, value string) *ValidationError {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf("Invalid %s: %s", field, value),
	}
}

// NewNullFieldError reports a required field sent as null in a partial update
func NewNullFieldError(field string) *ValidationError {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf("Field cannot be null: %s", field),
	}
}

// NewEmptyFieldError reports a required field sent as an empty string
func NewEmptyFieldError(field string) *ValidationError {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf("Field cannot be empty: %s", field),
	}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ReferenceError reports a statusId or priorityId that resolves to nothing
type ReferenceError struct {
	Kind ReferenceKind
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("Invalid %s: %s", e.Kind.Field(), e.ID)
}

// NotFoundError reports an absent target row
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// GuardError reports a delete blocked by dependent tasks
type GuardError struct {
	Kind  ReferenceKind
	Count int64
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("Cannot delete %s: %d tasks are using it", e.Kind, e.Count)
}

// Resource names used in NotFoundError
const (
	ResourceTask     = "Task"
	ResourceUser     = "User"
	ResourceCategory = "Category"
)

// ErrTaskNotFound and friends build not-found errors for a given id
func ErrTaskNotFound(id string) error     { return &NotFoundError{Resource: ResourceTask, ID: id} }
func ErrUserNotFound(id string) error     { return &NotFoundError{Resource: ResourceUser, ID: id} }
func ErrCategoryNotFound(id string) error { return &NotFoundError{Resource: ResourceCategory, ID: id} }

// ErrReferenceNotFound builds the not-found error for a status or priority row
func ErrReferenceNotFound(kind ReferenceKind, id string) error {
	return &NotFoundError{Resource: kind.Resource(), ID: id}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsClientError reports whether err maps to a 4xx-class outcome rather than
// an unexpected store failure.
func IsClientError(err error) bool {
	var (
		ve *ValidationError
		re *ReferenceError
		nf *NotFoundError
		ge *GuardError
	)
	return errors.As(err, &ve) || errors.As(err, &re) || errors.As(err, &nf) || errors.As(err, &ge)
}

// Store constraint violations. Both surface to clients as persistence
// failures.
var (
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrUniqueViolation     = errors.New("unique violation")
)
