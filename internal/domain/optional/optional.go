// Package optional provides a tri-state field for partial-update payloads.
//
// A Field is unset when its key is absent from the JSON document, null when
// the key is present with a JSON null, and set when it carries a value.
// encoding/json only calls UnmarshalJSON for keys that are present, so the
// zero Field is "unset".
package optional

import (
	"bytes"
	"encoding/json"
)

// Field is an explicit unset / null / value wrapper
type Field[T any] struct {
	present bool
	null    bool
	value   T
}

// Of returns a Field holding v
func Of[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Null returns a Field that clears the stored value
func Null[T any]() Field[T] {
	return Field[T]{present: true, null: true}
}

// Unset returns a Field that leaves the stored value untouched
func Unset[T any]() Field[T] {
	return Field[T]{}
}

// IsSet reports whether the field was present in the payload, null or not
func (f Field[T]) IsSet() bool {
	return f.present
}

// IsNull reports whether the field was present with an explicit null
func (f Field[T]) IsNull() bool {
	return f.present && f.null
}

// HasValue reports whether the field was present with a non-null value
func (f Field[T]) HasValue() bool {
	return f.present && !f.null
}

// Value returns the carried value and whether there is one
func (f Field[T]) Value() (T, bool) {
	return f.value, f.HasValue()
}

// Ptr returns nil for null and a pointer to the value otherwise.
// It must only be called on a set field.
func (f Field[T]) Ptr() *T {
	if f.null {
		return nil
	}
	v := f.value
	return &v
}

// ApplyTo overwrites *dst when the field carries a value
func (f Field[T]) ApplyTo(dst *T) {
	if f.HasValue() {
		*dst = f.value
	}
}

// ApplyToPtr overwrites *dst when the field is set; null clears it
func (f Field[T]) ApplyToPtr(dst **T) {
	if f.present {
		*dst = f.Ptr()
	}
}

// UnmarshalJSON implements json.Unmarshaler
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.null = true
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

// MarshalJSON implements json.Marshaler. Unset fields encode as null; use
// omitempty-free structs only for debugging output.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.HasValue() {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
