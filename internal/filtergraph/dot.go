package filtergraph

import (
	"fmt"
	"strings"
)

// DOT renders the graph in GraphViz dot syntax for debugging. Filter nodes
// become boxes labeled with their type and parameters; external bindings
// become ellipses at the boundary.
func DOT(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph FilterGraph {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=box, style=filled, fillcolor=lightblue];\n\n")

	for _, n := range g.nodes {
		label := n.Type
		if len(n.Params) > 0 {
			lines := make([]string, 0, len(n.Params))
			for _, p := range n.Params {
				lines = append(lines, fmt.Sprintf("%s=%v", p.Key, p.Value))
			}
			label = n.Type + "\\n" + strings.Join(lines, "\\n")
		}
		fmt.Fprintf(&sb, "  %q [label=%q];\n", n.Label, label)
	}

	for _, n := range g.nodes {
		for _, out := range n.outputs {
			fmt.Fprintf(&sb, "  %q -> %q [label=\"pad %d\"];\n", n.Label, out.node.Label, out.pad)
		}
	}

	for _, b := range g.inputs {
		fmt.Fprintf(&sb, "  %q [shape=ellipse, fillcolor=lightgreen];\n", b.name)
		fmt.Fprintf(&sb, "  %q -> %q [label=\"pad %d\"];\n", b.name, b.node.Label, b.pad)
	}
	for _, b := range g.outputs {
		fmt.Fprintf(&sb, "  %q [shape=ellipse, fillcolor=lightpink];\n", b.name+"_out")
		fmt.Fprintf(&sb, "  %q -> %q [label=\"pad %d\"];\n", b.node.Label, b.name+"_out", b.pad)
	}

	sb.WriteString("}\n")
	return sb.String()
}
