package maintenance

import (
	"bytes"
	"encoding/json"
)

// Optional records whether a field was sent, and whether it was sent as null.
// The zero value means the field was absent from the payload.
type Optional[T any] struct {
	present bool
	valid   bool
	value   T
}

// Some returns a present, non-null field.
func Some[T any](v T) Optional[T] {
	return Optional[T]{present: true, valid: true, value: v}
}

// Null returns a field that was sent as an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// Present reports whether the field was part of the payload.
func (o Optional[T]) Present() bool { return o.present }

// IsNull reports whether the field was sent as null.
func (o Optional[T]) IsNull() bool { return o.present && !o.valid }

// Get returns the value and whether one was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// UnmarshalJSON is only invoked for keys present in the document,
// which is what makes absent and null distinguishable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.valid = false
		o.value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

// MarshalJSON writes null for absent and null fields.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
