package model

import (
	"bytes"
	"math"
	"strconv"
)

// Number is an optional metric value. The backend sends BigDecimal columns as
// JSON numbers; null, absent, and anything that is not a finite number all
// decode to the empty Number instead of failing the surrounding document.
type Number struct {
	value float64
	valid bool
}

// Num returns a set Number.
func Num(v float64) Number {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{value: v, valid: true}
}

// Float64 returns the value and whether it is set.
func (n Number) Float64() (float64, bool) {
	return n.value, n.valid
}

// Valid reports whether the value is set.
func (n Number) Valid() bool { return n.valid }

// Ptr returns the value as a pointer, nil when unset.
func (n Number) Ptr() *float64 {
	if !n.valid {
		return nil
	}
	v := n.value
	return &v
}

// MarshalJSON writes the value or null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.value, 'f', -1, 64), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Other shapes leave the
// Number unset and never return an error.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(string(raw))
		if err != nil {
			return nil
		}
		raw = bytes.TrimSpace([]byte(unquoted))
	}
	v, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil
	}
	*n = Num(v)
	return nil
}
