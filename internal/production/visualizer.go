package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/comalice/calcx"
)

// DefaultVisualizer renders an engine chart.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the chart, highlighting the
// active state. Parallel edges between the same states are merged into one
// labelled edge.
func (v *DefaultVisualizer) ExportDOT(chart calcx.Chart, active string) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph Calculator {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, s := range chart.States {
		style := ""
		if s == active {
			style = ` style="rounded,filled" fillcolor=lightgreen`
		}
		if s == chart.Initial {
			style += ` peripheries=2`
		}
		fmt.Fprintf(&buf, "  %q [label=%q%s];\n", s, s, style)
	}

	for _, e := range collectEdges(chart) {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportJSON serializes the chart to JSON.
func (v *DefaultVisualizer) ExportJSON(chart calcx.Chart) ([]byte, error) {
	return json.MarshalIndent(chart, "", "  ")
}

// Edge represents a rendered transition edge.
type Edge struct {
	From  string
	To    string
	Label string
}

// collectEdges merges chart edges by (from, to), preserving first-seen order.
// Guarded events are suffixed with "?".
func collectEdges(chart calcx.Chart) []Edge {
	type key struct{ from, to string }
	labels := map[key][]string{}
	var order []key
	for _, e := range chart.Edges {
		k := key{e.From, e.To}
		if _, ok := labels[k]; !ok {
			order = append(order, k)
		}
		name := e.Event
		if e.Guarded {
			name += "?"
		}
		labels[k] = appendUnique(labels[k], name)
	}

	edges := make([]Edge, 0, len(order))
	for _, k := range order {
		l := labels[k]
		sort.Strings(l)
		edges = append(edges, Edge{From: k.from, To: k.to, Label: strings.Join(l, ", ")})
	}
	return edges
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}
