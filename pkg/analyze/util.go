package analyze

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type FormatFlag string

func (f FormatFlag) String() string {
	return string(f)
}

func (f *FormatFlag) Set(value string) error {
	if _, err := GetOutputter(value); err != nil {
		return fmt.Errorf("unknown format %q", value)
	}
	*f = FormatFlag(value)
	return nil
}

func (f FormatFlag) Type() string {
	return "string"
}

// FormatFloat renders f in shortest round-trip form. Integral values keep
// a ".0" suffix and very small or very large magnitudes use exponent form,
// so 50 prints as "50.0" and 1/3*100 as "33.33333333333333".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
