package filtergraph

import (
	"errors"
	"strings"
)

// topoSort orders nodes so that every node appears after the nodes whose
// output it consumes. The traversal is depth-first forward along outputs with
// a temporary mark for back-edge detection; since a node is appended only
// after all of its successors, the accumulated order is successors-first and
// gets reversed before returning.
//
// Seeds are the graph's sources: nodes with no inputs, and nodes bound to an
// external input. A second pass picks up disconnected components.
func topoSort(g *Graph) ([]*Node, error) {
	visited := make(map[*Node]bool, len(g.nodes))
	visiting := make(map[*Node]bool)
	order := make([]*Node, 0, len(g.nodes))

	var visit func(n *Node) error
	visit = func(n *Node) error {
		if visiting[n] {
			return errors.New("Graph contains a cycle")
		}
		if visited[n] {
			return nil
		}
		visiting[n] = true
		for _, out := range n.outputs {
			if err := visit(out.node); err != nil {
				return err
			}
		}
		delete(visiting, n)
		visited[n] = true
		order = append(order, n)
		return nil
	}

	for _, n := range g.nodes {
		if len(n.inputs) == 0 || g.boundAsInput(n) {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}
	for _, n := range g.nodes {
		if !visited[n] {
			if err := visit(n); err != nil {
				return nil, err
			}
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// serialize emits the graph as semicolon-joined filter stages in topological
// order. Callers must have validated the graph first.
func serialize(g *Graph) (string, error) {
	sorted, err := topoSort(g)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(sorted))
	for _, n := range sorted {
		if s := nodeString(n, g); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ";"), nil
}

// nodeString renders one stage wrapped in its resolved pad labels, e.g.
// "[0:v]format=pix_fmt=yuva420p[main]". A node with multiple consumers still
// emits a single output label: the format declares a label once and any
// number of stages may reference it.
//
// A node that resolves to no labels on either side serializes to nothing and
// is dropped. In particular the graph never invents an implicit output label
// for an unbound terminal node; binding the final stage with SetOutput is the
// caller's job (the effects layer does this for its graphs).
func nodeString(n *Node, g *Graph) string {
	var in strings.Builder
	for i := range n.inputs {
		if label := n.InputLabel(i); label != "" {
			in.WriteString("[")
			in.WriteString(label)
			in.WriteString("]")
		}
	}

	var out strings.Builder
	bound := false
	for _, b := range g.outputs {
		if b.node == n {
			out.WriteString("[")
			out.WriteString(b.name)
			out.WriteString("]")
			bound = true
		}
	}
	if !bound && len(n.outputs) > 0 {
		out.WriteString("[")
		out.WriteString(n.OutputLabel(0))
		out.WriteString("]")
	}

	if in.Len() == 0 && out.Len() == 0 {
		return ""
	}
	return in.String() + n.FilterString() + out.String()
}
