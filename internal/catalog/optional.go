package catalog

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Optional is a partial-update field. It tells an omitted key (Set false) apart from an
// explicit null (Set and Null) and from a value.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some is a present, non-null value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

// Null is an explicit null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

// Present reports whether the key carried a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Null = true
		o.Value = zero
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// validationValue is what struct tags see: nothing unless a value was sent. A sent value
// comes back as a pointer so omitempty still checks zero values (an empty name, category 0).
func (o Optional[T]) validationValue() interface{} {
	if !o.Present() {
		return nil
	}
	if d, ok := any(o.Value).(decimal.Decimal); ok {
		f, _ := d.Float64()
		return &f
	}
	v := o.Value
	return &v
}

type optionalField interface {
	validationValue() interface{}
}
