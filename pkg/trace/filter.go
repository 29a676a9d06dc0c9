package trace

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
	"github.com/spf13/pflag"
)

type OutcomeFlag string

const (
	OutcomeAny  OutcomeFlag = "any"
	OutcomeHit  OutcomeFlag = "hit"
	OutcomeMiss OutcomeFlag = "miss"
)

func (o OutcomeFlag) String() string {
	return string(o)
}

func (o *OutcomeFlag) Set(value string) error {
	switch value {
	case "any", "all", "":
		*o = OutcomeAny
	case "hit", "hits":
		*o = OutcomeHit
	case "miss", "misses":
		*o = OutcomeMiss
	default:
		return errors.New(`must be one of "any", "hit" or "miss"`)
	}
	return nil
}

func (o OutcomeFlag) Type() string {
	return "string"
}

type Filter struct {
	Nodes    []glob.Glob
	Patterns []string
	Outcome  OutcomeFlag
}

func (f *Filter) InstallFlags(flags *pflag.FlagSet) {
	if f.Outcome == "" {
		f.Outcome = OutcomeAny
	}
	flags.Func("node", "Node ID glob pattern (can be specified multiple times)", f.AddNode)
	flags.Var(&f.Outcome, "outcome", "Only count accesses with this outcome (any|hit|miss)")
}

// AddNode compiles pattern and adds it to the accepted node patterns.
func (f *Filter) AddNode(pattern string) error {
	g, err := glob.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid node pattern %q: %w", pattern, err)
	}
	f.Nodes = append(f.Nodes, g)
	f.Patterns = append(f.Patterns, pattern)
	return nil
}

func (f *Filter) IsEmpty() bool {
	return len(f.Nodes) == 0 && (f.Outcome == "" || f.Outcome == OutcomeAny)
}

var (
	ErrNodeNoMatch    = errors.New("node does not match")
	ErrOutcomeNoMatch = errors.New("outcome does not match")
)

func (f *Filter) Match(a Access) error {
	if len(f.Nodes) > 0 {
		nodeMatch := false
		for _, g := range f.Nodes {
			if g.Match(a.Node) {
				nodeMatch = true
				break
			}
		}
		if !nodeMatch {
			return ErrNodeNoMatch
		}
	}
	switch f.Outcome {
	case OutcomeHit:
		if !a.Hit {
			return ErrOutcomeNoMatch
		}
	case OutcomeMiss:
		if a.Hit {
			return ErrOutcomeNoMatch
		}
	}
	return nil
}
