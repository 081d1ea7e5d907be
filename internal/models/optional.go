package models

import (
	"bytes"
	"encoding/json"
)

// Optional holds a JSON field that may be absent, explicitly null, or set.
// The zero value is absent.
type Optional[T any] struct {
	Value T
	set   bool
	null  bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, set: true}
}

// Null returns a present Optional carrying JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true, null: true}
}

// Present reports whether the key appeared in the decoded document.
func (o Optional[T]) Present() bool { return o.set }

// IsNull reports whether the key appeared with a null value.
func (o Optional[T]) IsNull() bool { return o.set && o.null }

// Ptr returns nil for null or absent, otherwise a pointer to a copy of the value.
func (o Optional[T]) Ptr() *T {
	if !o.set || o.null {
		return nil
	}
	v := o.Value
	return &v
}

// UnmarshalJSON is only invoked by encoding/json when the key is present.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.Value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON renders absent and null alike as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set || o.null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
