package analyze

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const (
	mappingSeparator = "====================="
	reportTerminator = "---------------------"
)

type Outputter interface {
	Print(w io.Writer, r *Report) error
}

type OutputterFunc func(w io.Writer, r *Report) error

func (f OutputterFunc) Print(w io.Writer, r *Report) error {
	return f(w, r)
}

type OutputMeta struct {
	Name        string
	Description string
	Hidden      bool
	// Name of the format this one is an alias of
	AliasOf string
	F       Outputter
}

var outputs = make(map[string]OutputMeta)

func RegisterOutput(meta OutputMeta) {
	outputs[meta.Name] = meta
}

func GetOutputter(name string) (Outputter, error) {
	meta, ok := outputs[name]
	if !ok {
		return nil, errors.New(name)
	}
	return meta.F, nil
}

func AllOutputs() []OutputMeta {
	res := make([]OutputMeta, 0, len(outputs))
	for _, meta := range outputs {
		res = append(res, meta)
	}
	return res
}

func init() {
	text := OutputterFunc(PrintText)
	RegisterOutput(OutputMeta{
		Name:        "text",
		Description: "Latency mapping followed by one line per node",
		F:           text,
	})
	RegisterOutput(OutputMeta{
		Name:        "txt",
		Description: "An alias for `text`",
		Hidden:      true,
		AliasOf:     "text",
		F:           text,
	})
	RegisterOutput(OutputMeta{
		Name:        "table",
		Description: "Aligned table with hit rate and average latency",
		F:           OutputterFunc(PrintTable),
	})
	RegisterOutput(OutputMeta{
		Name:        "json",
		Description: "JSON document",
		F:           OutputterFunc(PrintJSON),
	})
}

// PrintText writes the latency mapping, a separator, then one
// "<node>: <latency> (<hits>/<accesses>=<percent>%)" line per node.
func PrintText(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range r.Nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %d", e.Node, e.Stats.Latency)
	}
	b.WriteString("}\n")
	b.WriteString(mappingSeparator + "\n")
	for _, e := range r.Nodes {
		fmt.Fprintf(&b, "%s: %d (%d/%d=%s%%)\n", e.Node, e.Stats.Latency,
			e.Stats.Hits, e.Stats.Accesses, FormatFloat(e.Stats.HitPercent()))
	}
	b.WriteString(reportTerminator + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

var (
	colorGood = color.New(color.FgGreen)
	colorFair = color.New(color.FgYellow)
	colorPoor = color.New(color.FgRed)
)

func hitRateColor(percent float64) *color.Color {
	switch {
	case percent >= 90:
		return colorGood
	case percent >= 50:
		return colorFair
	default:
		return colorPoor
	}
}

func PrintTable(w io.Writer, r *Report) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeaderAutoWrap(tw.WrapNone),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignmentConfig(tw.CellAlignment{
			PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignRight},
		}),
		tablewriter.WithFooterAlignmentConfig(tw.CellAlignment{Global: tw.AlignRight}),
		tablewriter.WithPadding(tw.Padding{
			Right:     "  ",
			Overwrite: true,
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
	)
	table.Header("Node", "Latency", "Hits", "Accesses", "Hit %", "Avg")

	for _, e := range r.Nodes {
		percent := e.Stats.HitPercent()
		if err := table.Append([]string{
			e.Node,
			humanize.Comma(e.Stats.Latency),
			strconv.FormatUint(e.Stats.Hits, 10),
			strconv.FormatUint(e.Stats.Accesses, 10),
			hitRateColor(percent).Sprintf("%.2f", percent),
			strconv.FormatFloat(e.Stats.AverageLatency(), 'f', 2, 64),
		}); err != nil {
			return err
		}
	}

	total, err := r.Total()
	if err != nil {
		return err
	}
	table.Footer(
		"Total",
		humanize.Comma(total.Latency),
		strconv.FormatUint(total.Hits, 10),
		strconv.FormatUint(total.Accesses, 10),
		strconv.FormatFloat(total.HitPercent(), 'f', 2, 64),
		strconv.FormatFloat(total.AverageLatency(), 'f', 2, 64),
	)
	return table.Render()
}

type jsonNode struct {
	Node       string  `json:"node"`
	Latency    int64   `json:"latency"`
	Hits       uint64  `json:"hits"`
	Accesses   uint64  `json:"accesses"`
	HitPercent float64 `json:"hit_percent"`
}

type jsonReport struct {
	Nodes    []jsonNode `json:"nodes"`
	Total    jsonNode   `json:"total"`
	Lines    int        `json:"lines"`
	Markers  int        `json:"markers"`
	Filtered int        `json:"filtered"`
	Halted   bool       `json:"halted"`
}

func toJSONNode(node string, s NodeStats) jsonNode {
	return jsonNode{
		Node:       node,
		Latency:    s.Latency,
		Hits:       s.Hits,
		Accesses:   s.Accesses,
		HitPercent: s.HitPercent(),
	}
}

func PrintJSON(w io.Writer, r *Report) error {
	total, err := r.Total()
	if err != nil {
		return err
	}
	doc := jsonReport{
		Nodes:    make([]jsonNode, 0, len(r.Nodes)),
		Total:    toJSONNode("", total),
		Lines:    r.Lines,
		Markers:  r.Markers,
		Filtered: r.Filtered,
		Halted:   r.Halted,
	}
	for _, e := range r.Nodes {
		doc.Nodes = append(doc.Nodes, toJSONNode(e.Node, e.Stats))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
