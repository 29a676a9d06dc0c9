package analyze

import (
	"errors"
	"fmt"

	"github.com/taoky/memstat/pkg/trace"
)

var (
	ErrNoAccesses   = errors.New("node has no accesses")
	ErrHitsOverflow = errors.New("node has more hits than accesses")
	ErrLatencyRange = errors.New("latency sum out of int64 range")
)

type NodeStats struct {
	Accesses uint64
	Hits     uint64
	Latency  int64
}

func addLatency(x, y int64) (int64, error) {
	sum := x + y
	// Overflow flips the sign away from both operands
	if (x > 0 && y > 0 && sum < 0) || (x < 0 && y < 0 && sum >= 0) {
		return x, ErrLatencyRange
	}
	return sum, nil
}

// UpdateWith returns n with access a counted. n is returned unchanged
// with ErrLatencyRange when the latency sum would overflow.
func (n NodeStats) UpdateWith(a trace.Access) (NodeStats, error) {
	latency, err := addLatency(n.Latency, a.Latency)
	if err != nil {
		return n, err
	}
	n.Latency = latency
	n.Accesses += 1
	if a.Hit {
		n.Hits += 1
	}
	return n, nil
}

func (n NodeStats) MergeWith(other NodeStats) (NodeStats, error) {
	latency, err := addLatency(n.Latency, other.Latency)
	if err != nil {
		return n, err
	}
	n.Latency = latency
	n.Accesses += other.Accesses
	n.Hits += other.Hits
	return n, nil
}

// HitPercent is 100 * Hits / Accesses. It is 0 for a node without accesses;
// Validate rejects such nodes before anything is printed.
func (n NodeStats) HitPercent() float64 {
	if n.Accesses == 0 {
		return 0
	}
	return float64(n.Hits) / float64(n.Accesses) * 100
}

func (n NodeStats) AverageLatency() float64 {
	if n.Accesses == 0 {
		return 0
	}
	return float64(n.Latency) / float64(n.Accesses)
}

type NodeEntry struct {
	Node  string
	Stats NodeStats
}

// Report is the result of one aggregation run. Nodes are kept in the
// order their IDs were first seen.
type Report struct {
	Nodes []NodeEntry

	// Data lines counted
	Lines int
	// Marker lines skipped
	Markers int
	// Data lines rejected by the filter
	Filtered int
	// Set when a blank line ended the data early
	Halted bool
}

func (r *Report) Total() (NodeStats, error) {
	var total NodeStats
	for _, e := range r.Nodes {
		var err error
		if total, err = total.MergeWith(e.Stats); err != nil {
			return total, fmt.Errorf("total: %w", err)
		}
	}
	return total, nil
}

func (r *Report) Validate() error {
	for _, e := range r.Nodes {
		if e.Stats.Accesses == 0 {
			return fmt.Errorf("%s: %w", e.Node, ErrNoAccesses)
		}
		if e.Stats.Hits > e.Stats.Accesses {
			return fmt.Errorf("%s: %w", e.Node, ErrHitsOverflow)
		}
	}
	_, err := r.Total()
	return err
}
