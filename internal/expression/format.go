package expression

import (
	"math"
	"strconv"
	"strings"
)

// FormatResult renders v for the display: integral values keep a trailing
// ".0", other values use the shortest round-trip digits, and exponent form
// is used when the decimal exponent is below -4 or at least 16.
func FormatResult(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if v != 0 {
		sci := strconv.FormatFloat(v, 'e', -1, 64)
		exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
		if err == nil && (exp < -4 || exp >= 16) {
			return sci
		}
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
