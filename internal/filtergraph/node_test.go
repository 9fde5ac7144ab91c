package filtergraph

import (
	"strings"
	"testing"
)

func TestFilterStringParamOrder(t *testing.T) {
	n := NewNode("drawtext", "title", Params{
		{"text", "Hello"},
		{"fontsize", 36},
		{"fontcolor", "white"},
	})

	got := n.FilterString()
	want := "drawtext=text=Hello:fontsize=36:fontcolor=white"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFilterStringNoParams(t *testing.T) {
	n := NewNode("hflip", "flip", nil)
	if got := n.FilterString(); got != "hflip" {
		t.Errorf("expected bare filter name, got %q", got)
	}
}

func TestEscapeParam(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"plain string", "white", "white"},
		{"int", 42, "42"},
		{"float", 0.8, "0.8"},
		{"negative float", -1.5, "-1.5"},
		{"bool", true, "true"},
		{"colon", "a:b", `'a\:b'`},
		{"comma", "a,b", `'a\,b'`},
		{"brackets", "[x]", `'\[x\]'`},
		{"backslash", `a\b`, `'a\\b'`},
		{"all specials", `a:b,c[d]e\f`, `'a\:b\,c\[d\]e\\f'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeParam(tt.value); got != tt.want {
				t.Errorf("escapeParam(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

// Reversing the escape must reproduce the original value exactly.
func TestEscapeRoundTrip(t *testing.T) {
	original := `text with : and , and [brackets] and \backslash`
	escaped := escapeParam(original)

	if !strings.HasPrefix(escaped, "'") || !strings.HasSuffix(escaped, "'") {
		t.Fatalf("expected quoted value, got %q", escaped)
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(escaped, "'"), "'")

	var sb strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			sb.WriteByte(inner[i])
			continue
		}
		sb.WriteByte(inner[i])
	}
	if sb.String() != original {
		t.Errorf("round trip produced %q, want %q", sb.String(), original)
	}
}

func TestAddInputMaintainsBothSides(t *testing.T) {
	a := NewNode("movie", "a", Params{{"filename", "x.png"}})
	b := NewNode("overlay", "b", nil)

	b.AddInput(a, 1, 0)

	if len(b.inputs) != 1 || b.inputs[0].node != a || b.inputs[0].pad != 0 {
		t.Errorf("target inputs not updated: %+v", b.inputs)
	}
	if len(a.outputs) != 1 || a.outputs[0].node != b || a.outputs[0].pad != 1 {
		t.Errorf("source outputs not updated: %+v", a.outputs)
	}
}

func TestAddInputExternalPlaceholder(t *testing.T) {
	n := NewNode("format", "fmt", Params{{"pix_fmt", "yuva420p"}})
	n.AddInput(nil, 0, 0)

	if n.NumInputs() != 1 {
		t.Fatalf("expected 1 input, got %d", n.NumInputs())
	}
	if got := n.InputLabel(0); got != "" {
		t.Errorf("placeholder without override should resolve empty, got %q", got)
	}
}

// With no explicit override, a consumer's input label equals the producer's
// output label for the connecting pad.
func TestLabelRoundTrip(t *testing.T) {
	a := NewNode("scale", "logo_scale", Params{{"width", 100}})
	b := NewNode("rotate", "logo_rotate", nil)
	b.AddInput(a, 0, 0)

	if got, want := b.InputLabel(0), a.OutputLabel(0); got != want {
		t.Errorf("input label %q does not match source output label %q", got, want)
	}
}

func TestLabelRoundTripHigherPad(t *testing.T) {
	a := NewNode("asplit", "split", nil)
	b := NewNode("showspectrum", "spec", nil)
	b.AddInput(a, 0, 1)

	if got, want := b.InputLabel(0), "split_out1"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOutputLabelDefaults(t *testing.T) {
	n := NewNode("scale", "myscale", nil)

	if got := n.OutputLabel(0); got != "myscale" {
		t.Errorf("pad 0 should use the node label, got %q", got)
	}
	if got := n.OutputLabel(2); got != "myscale_out2" {
		t.Errorf("pad 2 should use the _outN suffix, got %q", got)
	}

	n.SetOutputLabel(0, "custom")
	if got := n.OutputLabel(0); got != "custom" {
		t.Errorf("override should win, got %q", got)
	}
}

func TestInputLabelOverride(t *testing.T) {
	n := NewNode("format", "fmt", Params{{"pix_fmt", "yuva420p"}})
	n.AddInput(nil, 0, 0)
	n.SetInputLabel(0, "0:v")

	if got := n.InputLabel(0); got != "0:v" {
		t.Errorf("expected override label, got %q", got)
	}
}

func TestAutoLabelGeneration(t *testing.T) {
	a := NewNode("overlay", "", nil)
	b := NewNode("overlay", "", nil)

	if !strings.HasPrefix(a.Label, "overlay_") {
		t.Errorf("auto label should carry the filter type, got %q", a.Label)
	}
	if a.Label == b.Label {
		t.Errorf("auto labels should not collide: %q", a.Label)
	}
}
