package table

import (
	"math"
	"strconv"
)

// Num is a nullable float. The zero value is missing.
type Num struct {
	V  float64
	OK bool
}

// Some wraps a defined value. NaN and ±Inf collapse to missing.
func Some(v float64) Num {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Num{}
	}
	return Num{V: v, OK: true}
}

// Missing is the undefined Num.
var Missing = Num{}

// ParseNum parses a cleaned value; NA and non-numeric tokens are missing.
func ParseNum(s string) Num {
	if !IsNumeric(s) {
		return Num{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Num{}
	}
	return Some(v)
}

// Format renders the value with a fixed number of decimals, or NA.
// places < 0 uses the shortest representation. Values too large to scale
// are printed unrounded, never as infinity.
func (n Num) Format(places int) string {
	if !n.OK || math.IsNaN(n.V) || math.IsInf(n.V, 0) {
		return NA
	}
	v := n.V
	if places >= 0 {
		p := math.Pow10(places)
		if scaled := math.Round(v * p); !math.IsInf(scaled, 0) {
			v = scaled / p
		}
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}
