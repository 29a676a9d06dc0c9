package trace

import (
	"errors"
	"fmt"
	"io"

	"github.com/taoky/memstat/pkg/fileiter"
)

var ErrMissingHeader = errors.New("missing header line")

// Scanner walks the data lines of a trace. The first line is always
// dropped as a header, marker lines are skipped and a line without
// fields ends the walk even if more lines follow.
type Scanner struct {
	iter fileiter.Iterator

	line    []byte
	lineNo  int
	markers int
	started bool
	halted  bool
}

func NewScanner(iter fileiter.Iterator) *Scanner {
	return &Scanner{iter: iter}
}

// Next returns the next access, or io.EOF when there is none left.
func (s *Scanner) Next() (Access, error) {
	if s.halted {
		return Access{}, io.EOF
	}
	if !s.started {
		s.started = true
		if _, err := s.nextLine(); err != nil {
			if errors.Is(err, io.EOF) {
				return Access{}, ErrMissingHeader
			}
			return Access{}, err
		}
	}
	for {
		line, err := s.nextLine()
		if err != nil {
			return Access{}, err
		}
		access, err := ParseLine(line)
		switch {
		case err == nil:
			return access, nil
		case errors.Is(err, ErrMarker):
			s.markers++
		case errors.Is(err, ErrEndOfData):
			s.halted = true
			return Access{}, io.EOF
		default:
			return Access{}, fmt.Errorf("line %d: %w", s.lineNo, err)
		}
	}
}

func (s *Scanner) nextLine() ([]byte, error) {
	line, err := s.iter.Next()
	if err != nil {
		return nil, err
	}
	s.line = line
	s.lineNo++
	return line, nil
}

// Line returns the raw text of the line last returned by Next. It is only
// valid until the following call to Next.
func (s *Scanner) Line() []byte {
	return s.line
}

// LineNo is the 1-based number of the last line read, header included.
func (s *Scanner) LineNo() int {
	return s.lineNo
}

func (s *Scanner) Markers() int {
	return s.markers
}

// Halted reports whether the walk stopped at a blank line.
func (s *Scanner) Halted() bool {
	return s.halted
}
