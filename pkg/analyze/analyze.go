package analyze

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/pflag"
	"github.com/taoky/memstat/pkg/fileiter"
	"github.com/taoky/memstat/pkg/trace"
	"github.com/taoky/memstat/pkg/util"
)

type Analyzer struct {
	Config AnalyzerConfig

	// node ID -> position in nodes
	index map[string]int
	nodes []NodeEntry

	lines    int
	markers  int
	filtered int
	halted   bool

	outputter Outputter
	logger    *log.Logger
	logCloser io.Closer
	stderr    io.Writer
}

type AnalyzerConfig struct {
	Filter     trace.Filter
	Format     FormatFlag
	LogOutput  string
	Progress   bool
	Verbose    bool
	CPUProfile string
	MemProfile string
}

func (c *AnalyzerConfig) InstallFlags(flags *pflag.FlagSet) {
	c.Filter.InstallFlags(flags)
	flags.VarP(&c.Format, "format", "f", "Report format (see \"memstat list formats\")")
	flags.StringVarP(&c.LogOutput, "outlog", "o", c.LogOutput, "Write logs to this file instead of stderr")
	flags.BoolVar(&c.Progress, "progress", c.Progress, "Show a progress bar while reading")
	flags.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Log a summary of skipped lines")
	flags.StringVar(&c.CPUProfile, "cpuprofile", c.CPUProfile, "Write CPU profile to file")
	flags.StringVar(&c.MemProfile, "memprofile", c.MemProfile, "Write allocation profile to file")
	flags.MarkHidden("cpuprofile")
	flags.MarkHidden("memprofile")
}

func DefaultConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Filter: trace.Filter{Outcome: trace.OutcomeAny},
		Format: "text",
	}
}

// NewAnalyzer creates an analyzer. Logs and the progress bar go to stderr
// unless the config redirects them.
func NewAnalyzer(c AnalyzerConfig, stderr io.Writer) (*Analyzer, error) {
	outputter, err := GetOutputter(string(c.Format))
	if err != nil {
		return nil, fmt.Errorf("invalid format: %w", err)
	}
	logger, logCloser := newLogger(c, stderr)
	return &Analyzer{
		Config:    c,
		index:     make(map[string]int),
		outputter: outputter,
		logger:    logger,
		logCloser: logCloser,
		stderr:    stderr,
	}, nil
}

func (a *Analyzer) Close() error {
	if a.logCloser == nil {
		return nil
	}
	return a.logCloser.Close()
}

func (a *Analyzer) RunLoop(iter fileiter.Iterator) error {
	s := trace.NewScanner(iter)
	for {
		access, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := a.handleAccess(access); err != nil {
			return fmt.Errorf("line %d: %w", s.LineNo(), err)
		}
	}
	a.markers += s.Markers()
	if s.Halted() {
		a.halted = true
		a.debugf("blank line %d ends the data", s.LineNo())
	}
	return nil
}

// AnalyzeFile aggregates filename. Errors from closing the file count,
// so a decompressor failing on a corrupt archive aborts the run.
func (a *Analyzer) AnalyzeFile(filename string) (err error) {
	var progress io.Writer
	if a.Config.Progress {
		progress = a.stderr
	}
	f, err := util.OpenFileWithProgress(filename, progress)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%s: %w", filename, cerr))
		}
	}()
	if err := a.RunLoop(fileiter.NewWithScanner(f)); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	a.debugf("%s: %d data lines, %d marker lines, %d filtered, %d nodes",
		filename, a.lines, a.markers, a.filtered, len(a.nodes))
	return nil
}

func (a *Analyzer) handleAccess(access trace.Access) error {
	if err := a.Config.Filter.Match(access); err != nil {
		a.filtered++
		return nil
	}

	i, ok := a.index[access.Node]
	if !ok {
		i = len(a.nodes)
		a.index[access.Node] = i
		a.nodes = append(a.nodes, NodeEntry{Node: access.Node})
	}
	stats, err := a.nodes[i].Stats.UpdateWith(access)
	if err != nil {
		return fmt.Errorf("node %s: %w", access.Node, err)
	}
	a.nodes[i].Stats = stats
	a.lines++
	return nil
}

func (a *Analyzer) debugf(format string, v ...any) {
	if a.Config.Verbose || a.Config.LogOutput != "" {
		a.logger.Printf(format, v...)
	}
}

// Report returns a snapshot of the accumulated stats.
func (a *Analyzer) Report() *Report {
	nodes := make([]NodeEntry, len(a.nodes))
	copy(nodes, a.nodes)
	return &Report{
		Nodes:    nodes,
		Lines:    a.lines,
		Markers:  a.markers,
		Filtered: a.filtered,
		Halted:   a.halted,
	}
}

func (a *Analyzer) PrintReport(w io.Writer) error {
	r := a.Report()
	if err := r.Validate(); err != nil {
		return err
	}
	return a.outputter.Print(w, r)
}
