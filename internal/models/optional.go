package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a request field that can be omitted, sent as null, or sent
// with a value. The zero Optional is omitted.
type Optional[T any] struct {
	present bool
	value   *T
}

// Set returns a present Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{present: true, value: &v}
}

// Null returns a present Optional without a value.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true}
}

// OptionalOf returns a present Optional: v's value, or null when v is nil.
func OptionalOf[T any](v *T) Optional[T] {
	if v == nil {
		return Null[T]()
	}

	return Set(*v)
}

func (o Optional[T]) Present() bool {
	return o.present
}

// Get returns a copy of the value, nil when absent or null.
func (o Optional[T]) Get() *T {
	if o.value == nil {
		return nil
	}
	v := *o.value

	return &v
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.value == nil {
		return []byte("null"), nil
	}

	return json.Marshal(*o.value)
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.value = &v

	return nil
}
