package trace

import (
	"io"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taoky/memstat/pkg/fileiter"
)

func TestParseLine(t *testing.T) {
	type testCase struct {
		line     string
		expected Access
	}
	testCases := []testCase{
		{"X A N1 B C 10 Hit", Access{Node: "N1", Latency: 10, Hit: true}},
		{"X A N1 B C 20 Miss", Access{Node: "N1", Latency: 20}},
		{"X A N2 B C 5 hit", Access{Node: "N2", Latency: 5}},
		{"  X\tA  N3 B C -7 Hit extra fields  ", Access{Node: "N3", Latency: -7, Hit: true}},
		{"X A N4 B C +3 Hit", Access{Node: "N4", Latency: 3, Hit: true}},
		{"X\x1fA\x1cN5 B C 1_000 Hit", Access{Node: "N5", Latency: 1000, Hit: true}},
		{"X A N6 B C 010 Miss", Access{Node: "N6", Latency: 10}},
		{"X A N7 B C -2_5 Miss", Access{Node: "N7", Latency: -25}},
	}
	for _, c := range testCases {
		access, err := ParseLine([]byte(c.line))
		if assert.NoError(t, err, c.line) {
			assert.Equal(t, c.expected, access)
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	as := assert.New(t)

	_, err := ParseLine([]byte(""))
	as.ErrorIs(err, ErrEndOfData)
	_, err = ParseLine([]byte(" \t "))
	as.ErrorIs(err, ErrEndOfData)

	_, err = ParseLine([]byte("ST A N1 B C 10 Hit"))
	as.ErrorIs(err, ErrMarker)
	// Marker lines are skipped no matter how short
	_, err = ParseLine([]byte("ST"))
	as.ErrorIs(err, ErrMarker)

	_, err = ParseLine([]byte("X A N1 B C 10"))
	as.ErrorIs(err, ErrTooFewFields)

	_, err = ParseLine([]byte("X A N1 B C ten Hit"))
	as.ErrorIs(err, ErrBadLatency)
	as.ErrorIs(err, strconv.ErrSyntax)

	for _, latency := range []string{"1.5", "_1", "1_", "1__0", "+-1", "0x10", "+"} {
		_, err = ParseLine([]byte("X A N1 B C " + latency + " Hit"))
		as.ErrorIs(err, ErrBadLatency, latency)
	}

	_, err = ParseLine([]byte("\x1c\x1d \x1e\x1f"))
	as.ErrorIs(err, ErrEndOfData)
}

func scanAll(s *Scanner) ([]Access, error) {
	var res []Access
	for {
		a, err := s.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, a)
	}
}

func TestScanner(t *testing.T) {
	as := assert.New(t)
	s := NewScanner(fileiter.NewWithLines(
		"X A N9 B C 999 Hit",
		"X A N1 B C 10 Hit",
		"ST A N1 B C 10 Hit",
		"X A N2 B C 5 Miss",
		"",
		"X A N3 B C 1 Hit",
		"garbage",
	))
	res, err := scanAll(s)
	as.NoError(err)
	as.Equal([]Access{
		{Node: "N1", Latency: 10, Hit: true},
		{Node: "N2", Latency: 5},
	}, res)
	as.Equal(1, s.Markers())
	as.True(s.Halted())
	as.Equal(5, s.LineNo())

	_, err = s.Next()
	as.ErrorIs(err, io.EOF)
}

func TestScannerHeaderOnly(t *testing.T) {
	as := assert.New(t)
	s := NewScanner(fileiter.NewWithLines("header"))
	res, err := scanAll(s)
	as.NoError(err)
	as.Empty(res)
	as.False(s.Halted())
}

func TestScannerMissingHeader(t *testing.T) {
	_, err := NewScanner(fileiter.NewWithLines()).Next()
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestScannerMalformed(t *testing.T) {
	as := assert.New(t)
	s := NewScanner(fileiter.NewWithLines("header", "X A N1 B C 10 Hit", "X A N1"))
	_, err := s.Next()
	as.NoError(err)
	_, err = s.Next()
	as.ErrorIs(err, ErrTooFewFields)
	as.ErrorContains(err, "line 3")
	as.Equal("X A N1", string(s.Line()))
}
