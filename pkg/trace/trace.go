package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// MarkerField in the first column marks a line that carries no access.
const MarkerField = "ST"

// HitFlag is the only flag value counted as a hit.
const HitFlag = "Hit"

const (
	nodeField    = 2
	latencyField = 5
	hitField     = 6

	minFields = hitField + 1
)

var (
	ErrEndOfData    = errors.New("end of data")
	ErrMarker       = errors.New("marker line")
	ErrTooFewFields = errors.New("too few fields")
	ErrBadLatency   = errors.New("invalid latency")
)

// Access is one traced memory access.
type Access struct {
	Node    string
	Latency int64
	Hit     bool
}

// ParseLine parses a data line. A line without fields yields ErrEndOfData
// and a line starting with MarkerField yields ErrMarker.
func ParseLine(line []byte) (Access, error) {
	fields := strings.FieldsFunc(string(line), isSeparator)
	if len(fields) == 0 {
		return Access{}, ErrEndOfData
	}
	if fields[0] == MarkerField {
		return Access{}, ErrMarker
	}
	if len(fields) < minFields {
		return Access{}, fmt.Errorf("%w: expected at least %d fields, got %d", ErrTooFewFields, minFields, len(fields))
	}

	latency, err := parseLatency(fields[latencyField])
	if err != nil {
		return Access{}, fmt.Errorf("%w %q: %w", ErrBadLatency, fields[latencyField], err)
	}
	return Access{
		Node:    fields[nodeField],
		Latency: latency,
		Hit:     fields[hitField] == HitFlag,
	}, nil
}

// isSeparator reports the runes between fields: Unicode spaces and the
// ASCII file, group, record and unit separators.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

// parseLatency parses a base-10 integer with an optional sign. Single
// underscores between digits group them ("1_000"); leading zeros do not
// change the base.
func parseLatency(s string) (int64, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || strings.HasPrefix(digits, "_") || strings.HasSuffix(digits, "_") ||
		strings.Contains(digits, "__") {
		return 0, &strconv.NumError{Func: "ParseInt", Num: s, Err: strconv.ErrSyntax}
	}
	return strconv.ParseInt(s[:len(s)-len(digits)]+strings.ReplaceAll(digits, "_", ""), 10, 64)
}
