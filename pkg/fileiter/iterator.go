package fileiter

import (
	"bufio"
	"io"
)

// Iterator yields lines without their trailing newline.
// Next returns io.EOF once the input is exhausted.
type Iterator interface {
	Next() ([]byte, error)
}

type scannerIterator struct {
	scanner *bufio.Scanner
}

func NewWithScanner(r io.Reader) Iterator {
	// Prepare a large buffer
	const bufSz = 1024 * 1024
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, bufSz), bufSz)
	return &scannerIterator{scanner: scanner}
}

func (s *scannerIterator) Next() ([]byte, error) {
	if s.scanner.Scan() {
		return s.scanner.Bytes(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

type sliceIterator struct {
	lines [][]byte
}

// NewWithLines iterates over lines already held in memory.
func NewWithLines(lines ...string) Iterator {
	it := &sliceIterator{lines: make([][]byte, 0, len(lines))}
	for _, l := range lines {
		it.lines = append(it.lines, []byte(l))
	}
	return it
}

func (s *sliceIterator) Next() ([]byte, error) {
	if len(s.lines) == 0 {
		return nil, io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}
