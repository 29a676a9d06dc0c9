package grep

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"github.com/taoky/memstat/pkg/fileiter"
	"github.com/taoky/memstat/pkg/trace"
	"github.com/taoky/memstat/pkg/util"
)

type Grepper struct {
	f   *trace.Filter
	out io.Writer
}

type GrepperConfig struct {
	Filter *trace.Filter
}

func DefaultConfig() GrepperConfig {
	return GrepperConfig{
		Filter: &trace.Filter{Outcome: trace.OutcomeAny},
	}
}

func (c *GrepperConfig) InstallFlags(flags *pflag.FlagSet) {
	c.Filter.InstallFlags(flags)
}

func New(c GrepperConfig, w io.Writer) *Grepper {
	return &Grepper{
		f:   c.Filter,
		out: w,
	}
}

func (g *Grepper) IsEmpty() bool {
	return g.f.IsEmpty()
}

// RunLoop writes every data line accepted by the filter. Header, marker
// lines and everything after a blank line are never written.
func (g *Grepper) RunLoop(iter fileiter.Iterator) error {
	s := trace.NewScanner(iter)
	for {
		access, err := s.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := g.f.Match(access); err != nil {
			continue
		}
		if err := g.writeLine(s.Line()); err != nil {
			return err
		}
	}
}

func (g *Grepper) GrepFile(filename string) (err error) {
	f, err := util.OpenFile(filename)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("%s: %w", filename, cerr))
		}
	}()
	if err := g.RunLoop(fileiter.NewWithScanner(f)); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

func (g *Grepper) writeLine(line []byte) error {
	if _, err := g.out.Write(line); err != nil {
		return err
	}
	_, err := g.out.Write([]byte{'\n'})
	return err
}
