package styling

import (
	"math"
	"strconv"
)

// Value is a declaration value: either a string or a number.
// The zero value is the empty string.
type Value struct {
	str     string
	num     float64
	numeric bool
}

// String creates a string value, e.g. String("red")
func String(s string) Value {
	return Value{str: s}
}

// Number creates a numeric value, e.g. Number(12)
func Number(n float64) Value {
	return Value{num: n, numeric: true}
}

// IsNumber reports whether the value was given as a number
func (v Value) IsNumber() bool {
	return v.numeric
}

// Float returns the numeric value and whether v is numeric
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

// IsZero reports whether v is the number zero
func (v Value) IsZero() bool {
	return v.numeric && v.num == 0
}

// String returns the raw textual form of the value, without units
func (v Value) String() string {
	if !v.numeric {
		return v.str
	}
	return formatNumber(v.num)
}

// formatNumber renders the shortest decimal form. NaN and infinities have no
// CSS representation; NewObject rejects them, and here they render as their
// strconv names.
func formatNumber(n float64) string {
	if n == 0 {
		// folds -0 into 0
		return "0"
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
