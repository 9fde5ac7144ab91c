// Package filtergraph models an ffmpeg filter_complex pipeline as a directed
// graph of filter nodes. Graphs are built in memory, validated against a
// registry of known filter types, and compiled to the textual filtergraph
// syntax consumed by ffmpeg.
package filtergraph

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// padRef points at a numbered pad on another node. A nil node marks an
// external-input placeholder.
type padRef struct {
	node *Node
	pad  int
}

// Node is a single filter stage: a filter name, its ordered parameters, and
// the pad connections linking it to the rest of the graph.
//
// Label must be unique within a graph; when empty a label of the form
// "type_xxxxxxxx" is generated. Collisions between caller-supplied labels are
// not detected.
type Node struct {
	Type   string
	Label  string
	Params Params

	inputs  []padRef
	outputs []padRef

	inputLabels  map[int]string
	outputLabels map[int]string
}

// NewNode creates a detached filter node. Most callers should go through
// Graph.CreateNode instead so the node is owned by a graph.
func NewNode(filterType, label string, params Params) *Node {
	if label == "" {
		id := uuid.New()
		label = fmt.Sprintf("%s_%x", filterType, id[:4])
	}
	return &Node{
		Type:         filterType,
		Label:        label,
		Params:       params,
		inputLabels:  make(map[int]string),
		outputLabels: make(map[int]string),
	}
}

// AddInput connects a source pad to this node. This is the only code path
// that writes either side of a connection: the forward entry on this node and
// the reverse entry on source are created in the same call, so the two views
// cannot drift. A nil source records an external-input placeholder at
// padIndex instead.
//
// Pad slots are append-only. Callers wiring multiple pads are responsible for
// connecting them in increasing pad order; duplicate assignments are not
// detected.
func (n *Node) AddInput(source *Node, padIndex, sourcePad int) *Node {
	if source != nil {
		n.inputs = append(n.inputs, padRef{source, sourcePad})
		source.outputs = append(source.outputs, padRef{n, padIndex})
	} else {
		n.inputs = append(n.inputs, padRef{nil, padIndex})
	}
	return n
}

// SetInputLabel overrides the label used for one input pad.
func (n *Node) SetInputLabel(pad int, label string) *Node {
	n.inputLabels[pad] = label
	return n
}

// SetOutputLabel overrides the label used for one output pad.
func (n *Node) SetOutputLabel(pad int, label string) *Node {
	n.outputLabels[pad] = label
	return n
}

// InputLabel resolves the label for an input pad: the explicit override if
// set, otherwise the connected source's output label for the connecting pad.
// Empty when the pad is unconnected.
func (n *Node) InputLabel(pad int) string {
	if l, ok := n.inputLabels[pad]; ok {
		return l
	}
	if pad < len(n.inputs) {
		if src := n.inputs[pad]; src.node != nil {
			return src.node.OutputLabel(src.pad)
		}
	}
	return ""
}

// OutputLabel resolves the label for an output pad. It always returns a
// usable string: the explicit override if set, the node label for pad 0, or
// "<label>_outN" for higher pads. The serializer relies on this default.
func (n *Node) OutputLabel(pad int) string {
	if l, ok := n.outputLabels[pad]; ok {
		return l
	}
	if pad > 0 {
		return fmt.Sprintf("%s_out%d", n.Label, pad)
	}
	return n.Label
}

// NumInputs reports how many input pads are wired, external placeholders
// included.
func (n *Node) NumInputs() int { return len(n.inputs) }

// FilterString renders the stage without pad labels, e.g.
// "drawtext=text=Hello:fontsize=36". Parameters keep their insertion order.
func (n *Node) FilterString() string {
	if len(n.Params) == 0 {
		return n.Type
	}
	parts := make([]string, 0, len(n.Params))
	for _, p := range n.Params {
		parts = append(parts, p.Key+"="+escapeParam(p.Value))
	}
	return n.Type + "=" + strings.Join(parts, ":")
}

// Validate checks this node against the registry catalog. It returns
// diagnostics rather than failing on the first problem.
func (n *Node) Validate(reg *Registry) []string {
	return reg.ValidateNode(n)
}
