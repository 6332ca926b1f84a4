package measure

import (
	"encoding/json"
	"math"
	"strconv"
)

// Value is an optional measurement. The zero Value is absent.
type Value struct {
	v  float64
	ok bool
}

// Some returns a present Value. NaN is treated as absent.
func Some(v float64) Value {
	if math.IsNaN(v) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// None returns an absent Value.
func None() Value { return Value{} }

// FromPtr converts a decoded nullable field.
func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Some(*p)
}

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) { return v.v, v.ok }

// Valid reports whether the value is present.
func (v Value) Valid() bool { return v.ok }

// Or returns the value, or def when absent.
func (v Value) Or(def float64) float64 {
	if !v.ok {
		return def
	}
	return v.v
}

// String renders absent values as "-".
func (v Value) String() string {
	if !v.ok {
		return "-"
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	var p *float64
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*v = FromPtr(p)
	return nil
}
