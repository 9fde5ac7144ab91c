package filtergraph

import (
	"fmt"
	"strings"
	"testing"
)

// For every connection A -> B in an acyclic graph, A must precede B in the
// processing order.
func TestTopologicalOrder(t *testing.T) {
	g := New(nil)
	src := g.CreateNode("movie", "src", Params{{"filename", "a.png"}})
	nodes := []*Node{src}
	prev := src
	for i := 0; i < 5; i++ {
		n := g.CreateNode("scale", fmt.Sprintf("s%d", i), nil)
		g.Connect(prev, n, 0, 0)
		nodes = append(nodes, n)
		prev = n
	}

	order, err := topoSort(g)
	if err != nil {
		t.Fatalf("topoSort failed: %v", err)
	}

	pos := make(map[*Node]int, len(order))
	for i, n := range order {
		pos[n] = i
	}
	for _, n := range nodes {
		for _, out := range n.outputs {
			if pos[n] >= pos[out.node] {
				t.Errorf("node %q (pos %d) must precede consumer %q (pos %d)",
					n.Label, pos[n], out.node.Label, pos[out.node])
			}
		}
	}
}

func TestTopologicalOrderDiamond(t *testing.T) {
	g := New(nil)
	src := g.CreateNode("movie", "src", Params{{"filename", "a.png"}})
	left := g.CreateNode("scale", "left", nil)
	right := g.CreateNode("rotate", "right", nil)
	join := g.CreateNode("overlay", "join", nil)
	g.Connect(src, left, 0, 0)
	g.Connect(src, right, 0, 0)
	g.Connect(left, join, 0, 0)
	g.Connect(right, join, 0, 1)

	order, err := topoSort(g)
	if err != nil {
		t.Fatalf("topoSort failed: %v", err)
	}
	pos := make(map[*Node]int)
	for i, n := range order {
		pos[n] = i
	}
	if pos[src] >= pos[left] || pos[src] >= pos[right] {
		t.Error("source must precede both branches")
	}
	if pos[left] >= pos[join] || pos[right] >= pos[join] {
		t.Error("both branches must precede the join")
	}
}

// The three-node chain scenario: format bound as external input 0:v feeding
// drawtext bound as output "out".
func TestChainSerialization(t *testing.T) {
	g := New(nil)
	format := g.CreateNode("format", "main_format", Params{{"pix_fmt", "yuva420p"}})
	g.SetInput("0:v", format, 0)

	drawtext := g.CreateNode("drawtext", "title", Params{
		{"text", "Hello"},
		{"fontsize", 36},
	})
	g.Connect(format, drawtext, 0, 0)
	g.SetOutput("out", drawtext, 0)

	got, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}
	want := "[0:v]format=pix_fmt=yuva420p[main_format];[main_format]drawtext=text=Hello:fontsize=36[out]"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

// Two movie sources feeding overlay pads 0 and 1.
func TestMultiPadOverlay(t *testing.T) {
	g := New(nil)
	a := g.CreateNode("movie", "bg", Params{{"filename", "background.png"}})
	b := g.CreateNode("movie", "fg", Params{{"filename", "foreground.png"}})
	ov := g.CreateNode("overlay", "composite", Params{{"x", 0}, {"y", 0}})
	g.Connect(a, ov, 0, 0)
	g.Connect(b, ov, 0, 1)
	g.SetOutput("out", ov, 0)

	if errs := g.Validate(); len(errs) != 0 {
		t.Fatalf("expected clean validation, got %v", errs)
	}

	got, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}

	if !strings.Contains(got, "[bg][fg]overlay=x=0:y=0[out]") {
		t.Errorf("overlay stage should consume both source labels: %q", got)
	}
	if !strings.Contains(got, "movie=filename=background.png[bg]") {
		t.Errorf("first source should declare its label: %q", got)
	}
	if !strings.Contains(got, "movie=filename=foreground.png[fg]") {
		t.Errorf("second source should declare its label: %q", got)
	}
}

// A node with fan-out emits one canonical output label that every consumer
// references.
func TestFanOutSharesLabel(t *testing.T) {
	g := New(nil)
	src := g.CreateNode("movie", "logo", Params{{"filename", "logo.png"}})
	left := g.CreateNode("scale", "small", nil)
	right := g.CreateNode("scale", "big", nil)
	g.Connect(src, left, 0, 0)
	g.Connect(src, right, 0, 0)
	g.SetOutput("a", left, 0)
	g.SetOutput("b", right, 0)

	got, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}

	if n := strings.Count(got, "movie=filename=logo.png[logo]"); n != 1 {
		t.Errorf("source label should be declared exactly once, got %d in %q", n, got)
	}
	if n := strings.Count(got, "[logo]"); n != 3 {
		t.Errorf("one declaration plus two references expected, got %d in %q", n, got)
	}
}

// The serializer never invents an implicit output label: a terminal node with
// no labels on either side is dropped.
func TestUnboundTerminalDropped(t *testing.T) {
	g := New(nil)
	g.CreateNode("buffer_src", "dangling", nil)

	got, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}
	if got != "" {
		t.Errorf("label-less node should serialize to nothing, got %q", got)
	}
}

func TestRepeatedSerializationIsStable(t *testing.T) {
	g := New(nil)
	format := g.CreateNode("format", "f", Params{{"pix_fmt", "yuv420p"}})
	g.SetInput("0:v", format, 0)
	g.SetOutput("out", format, 0)

	first, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}
	second, err := g.FilterString()
	if err != nil {
		t.Fatalf("second FilterString failed: %v", err)
	}
	if first != second {
		t.Errorf("repeated serialization should be identical: %q vs %q", first, second)
	}
}

func TestDisconnectedComponents(t *testing.T) {
	g := New(nil)
	a := g.CreateNode("movie", "one", Params{{"filename", "a.png"}})
	b := g.CreateNode("movie", "two", Params{{"filename", "b.png"}})
	g.SetOutput("x", a, 0)
	g.SetOutput("y", b, 0)

	got, err := g.FilterString()
	if err != nil {
		t.Fatalf("FilterString failed: %v", err)
	}
	if !strings.Contains(got, "[x]") || !strings.Contains(got, "[y]") {
		t.Errorf("both components should serialize: %q", got)
	}
}
