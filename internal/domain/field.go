package domain

import (
	"bytes"
	"encoding/json"
)

// Field is one optional attribute of a write payload. Set reports whether the
// key was present at all; a present key holding JSON null leaves Value nil,
// which clears the column.
type Field[T any] struct {
	Set   bool
	Value *T
}

// NewField returns a set field holding v.
func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// NullField returns a set field that clears its column.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// Assignment is a column/value pair taken from a write payload. Value is nil
// when the client sent an explicit null.
type Assignment struct {
	Column string
	Value  any
}

func appendField[T any](dst []Assignment, column string, f Field[T]) []Assignment {
	if !f.Set {
		return dst
	}
	if f.Value == nil {
		return append(dst, Assignment{Column: column})
	}
	return append(dst, Assignment{Column: column, Value: *f.Value})
}
