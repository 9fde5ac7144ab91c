package filtergraph

import "fmt"

// binding ties an external stream name to a pad on a node at the graph
// boundary. Bindings keep insertion order so serialization is deterministic.
type binding struct {
	name string
	node *Node
	pad  int
}

// Graph owns a collection of filter nodes plus the external input/output
// bindings at its boundary. Graphs are write-once: build with
// CreateNode/Connect/SetInput/SetOutput, then compile with FilterString.
// There is no deletion, and a graph must not be mutated concurrently.
type Graph struct {
	registry *Registry
	nodes    []*Node
	inputs   []binding
	outputs  []binding
}

// New creates an empty graph validated against reg. A nil reg selects the
// process-wide default registry.
func New(reg *Registry) *Graph {
	if reg == nil {
		reg = Default()
	}
	return &Graph{registry: reg}
}

// AddNode registers a node with the graph and returns it.
func (g *Graph) AddNode(n *Node) *Node {
	g.nodes = append(g.nodes, n)
	return n
}

// CreateNode constructs a node and adds it to the graph. An empty label
// auto-generates one. The node is returned for chaining.
func (g *Graph) CreateNode(filterType, label string, params Params) *Node {
	return g.AddNode(NewNode(filterType, label, params))
}

// Connect wires sourcePad on source into targetPad on target.
func (g *Graph) Connect(source, target *Node, sourcePad, targetPad int) *Graph {
	target.AddInput(source, targetPad, sourcePad)
	return g
}

// SetInput binds an external input stream (for example "0:v") to a pad on a
// node. The pad gets the stream name as its label, and an external-input
// placeholder is recorded on the node so arity rules treat the pad as fed.
// Rebinding a name clears the label override left on the displaced pad.
func (g *Graph) SetInput(name string, n *Node, pad int) *Graph {
	for _, b := range g.inputs {
		if b.name == name && (b.node != n || b.pad != pad) {
			delete(b.node.inputLabels, b.pad)
		}
	}
	g.inputs = setBinding(g.inputs, name, n, pad)
	n.SetInputLabel(pad, name)
	if pad >= len(n.inputs) {
		n.AddInput(nil, pad, 0)
	}
	return g
}

// SetOutput binds a named external output to a pad on a node. Rebinding a
// name clears the label override left on the displaced pad, so only the
// current binding ever declares the name.
func (g *Graph) SetOutput(name string, n *Node, pad int) *Graph {
	for _, b := range g.outputs {
		if b.name == name && (b.node != n || b.pad != pad) {
			delete(b.node.outputLabels, b.pad)
		}
	}
	g.outputs = setBinding(g.outputs, name, n, pad)
	n.SetOutputLabel(pad, name)
	return g
}

func setBinding(list []binding, name string, n *Node, pad int) []binding {
	for i := range list {
		if list[i].name == name {
			list[i] = binding{name, n, pad}
			return list
		}
	}
	return append(list, binding{name, n, pad})
}

func (g *Graph) boundAsInput(n *Node) bool {
	for _, b := range g.inputs {
		if b.node == n {
			return true
		}
	}
	return false
}

// Validate checks every node against the registry and then the graph
// structure: cycles, nodes that require inputs but have none and are not
// bound to an external input, and nodes exceeding their input limit. All
// problems are collected; nothing is raised.
func (g *Graph) Validate() []string {
	var errs []string
	for _, n := range g.nodes {
		errs = append(errs, n.Validate(g.registry)...)
	}
	errs = append(errs, g.validateStructure()...)
	return errs
}

func (g *Graph) validateStructure() []string {
	var errs []string

	if _, err := topoSort(g); err != nil {
		errs = append(errs, err.Error())
	}

	for _, n := range g.nodes {
		md, ok := g.registry.Metadata(n.Type)
		if !ok {
			continue
		}
		if md.MinInputs > 0 && len(n.inputs) == 0 && !g.boundAsInput(n) {
			errs = append(errs, fmt.Sprintf("Node '%s' has no inputs and is not connected to an external input", n.Label))
		}
		if md.MaxInputs != Unbounded && len(n.inputs) > md.MaxInputs {
			errs = append(errs, fmt.Sprintf("Node '%s' has %d inputs but max allowed is %d", n.Label, len(n.inputs), md.MaxInputs))
		}
	}
	return errs
}

// FilterString compiles the graph to ffmpeg filter_complex syntax. An empty
// graph compiles to "". An invalid graph returns *InvalidGraphError carrying
// every violation; no partial output is ever produced. The graph is left
// untouched, so the call can be repeated after further mutation.
func (g *Graph) FilterString() (string, error) {
	if len(g.nodes) == 0 {
		return "", nil
	}
	if problems := g.Validate(); len(problems) > 0 {
		return "", &InvalidGraphError{Problems: problems}
	}
	return serialize(g)
}
