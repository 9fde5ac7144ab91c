package filtergraph

import (
	"fmt"
	"math"

	"audioviz/pkg/util"
)

// Builders assemble common multi-node patterns on top of the graph
// primitives. Each returns the (entry, exit) pair of the chain so callers can
// keep composing, and skips every optional stage whose option is absent.
//
// Asset paths are checked for existence here, not in the graph model: a
// movie source with a missing file would only fail inside ffmpeg otherwise.

// LogoOverlayOptions configures LogoOverlay. X and Y take pixel offsets
// (int) or ffmpeg position expressions (string, e.g. "W-w-20").
type LogoOverlayOptions struct {
	X, Y     any
	Width    any     // explicit size; takes precedence over Scale
	Height   any
	Scale    float64 // uniform factor relative to source size; 0 keeps size
	Opacity  float64 // 0 or >=1 means fully opaque
	Rotation float64 // degrees
}

// LogoOverlay builds movie -> scale? -> rotate? -> alpha? -> overlay, with a
// format stage feeding the overlay's base pad. Returns the format node (to
// bind the main video input to) and the overlay node.
func LogoOverlay(g *Graph, logoPath string, opts LogoOverlayOptions) (entry, exit *Node, err error) {
	if !util.FileExists(logoPath) {
		return nil, nil, fmt.Errorf("logo file not found: %s", logoPath)
	}
	if opts.X == nil {
		opts.X = 10
	}
	if opts.Y == nil {
		opts.Y = 10
	}

	current := g.CreateNode("movie", "", Params{{"filename", logoPath}})

	if opts.Width != nil || opts.Height != nil {
		width, height := opts.Width, opts.Height
		if width == nil {
			width = -1 // keep aspect
		}
		if height == nil {
			height = -1
		}
		current = chain(g, current, g.CreateNode("scale", "", Params{
			{"width", width},
			{"height", height},
		}))
	} else if opts.Scale > 0 {
		current = chain(g, current, g.CreateNode("scale", "", Params{
			{"width", fmt.Sprintf("iw*%g", opts.Scale)},
			{"height", fmt.Sprintf("ih*%g", opts.Scale)},
		}))
	}

	if opts.Rotation != 0 {
		current = chain(g, current, g.CreateNode("rotate", "", Params{
			{"angle", opts.Rotation * math.Pi / 180},
		}))
	}

	if opts.Opacity > 0 && opts.Opacity < 1 {
		current = chain(g, current, g.CreateNode("colorchannelmixer", "", Params{
			{"aa", opts.Opacity},
		}))
	}

	format := g.CreateNode("format", "", Params{{"pix_fmt", "yuva420p"}})
	overlay := g.CreateNode("overlay", "", Params{
		{"x", opts.X},
		{"y", opts.Y},
		{"format", "rgb"},
		{"shortest", 1},
	})
	g.Connect(format, overlay, 0, 0)
	g.Connect(current, overlay, 0, 1)

	return format, overlay, nil
}

// TextOverlayOptions configures TextOverlay.
type TextOverlayOptions struct {
	FontFile     string
	X, Y         any
	Size         int    // default 24
	Color        string // default "white"
	Box          bool
	BoxColor     string // default "black"
	ShadowOffset []int  // [x, y]; nil for no shadow
	ShadowColor  string // default "black"
}

// TextOverlay builds format -> drawtext. Returns the format node and the
// drawtext node.
func TextOverlay(g *Graph, text string, opts TextOverlayOptions) (entry, exit *Node) {
	if opts.X == nil {
		opts.X = 10
	}
	if opts.Y == nil {
		opts.Y = 10
	}
	if opts.Size == 0 {
		opts.Size = 24
	}
	if opts.Color == "" {
		opts.Color = "white"
	}

	format := g.CreateNode("format", "", Params{{"pix_fmt", "yuva420p"}})

	params := Params{
		{"text", text},
		{"fontsize", opts.Size},
		{"fontcolor", opts.Color},
		{"x", opts.X},
		{"y", opts.Y},
	}
	if opts.FontFile != "" {
		params.Set("fontfile", opts.FontFile)
	}
	if opts.Box {
		boxColor := opts.BoxColor
		if boxColor == "" {
			boxColor = "black"
		}
		params.Set("box", 1)
		params.Set("boxcolor", boxColor)
	}
	if len(opts.ShadowOffset) == 2 {
		shadowColor := opts.ShadowColor
		if shadowColor == "" {
			shadowColor = "black"
		}
		params.Set("shadowx", opts.ShadowOffset[0])
		params.Set("shadowy", opts.ShadowOffset[1])
		params.Set("shadowcolor", shadowColor)
	}

	drawtext := g.CreateNode("drawtext", "", params)
	g.Connect(format, drawtext, 0, 0)

	return format, drawtext
}

// SpectrumOptions configures SpectrumVisualization.
type SpectrumOptions struct {
	Width  int    // default 640
	Height int    // default 480
	Mode   string // default "bar"
	Colors string // default "intensity"
}

// SpectrumVisualization builds asplit -> showspectrum -> format over the
// audio stream. The asplit entry must be bound to an audio input by the
// caller.
func SpectrumVisualization(g *Graph, opts SpectrumOptions) (entry, exit *Node) {
	if opts.Width == 0 {
		opts.Width = 640
	}
	if opts.Height == 0 {
		opts.Height = 480
	}
	if opts.Mode == "" {
		opts.Mode = "bar"
	}
	if opts.Colors == "" {
		opts.Colors = "intensity"
	}

	split := g.CreateNode("asplit", "", nil)
	spectrum := g.CreateNode("showspectrum", "", Params{
		{"size", fmt.Sprintf("%dx%d", opts.Width, opts.Height)},
		{"mode", opts.Mode},
		{"colors", opts.Colors},
	})
	g.Connect(split, spectrum, 0, 0)

	format := g.CreateNode("format", "", Params{{"pix_fmt", "yuva420p"}})
	g.Connect(spectrum, format, 0, 0)

	return split, format
}

// chain connects next's pad 0 to current's pad 0 and returns next.
func chain(g *Graph, current, next *Node) *Node {
	g.Connect(current, next, 0, 0)
	return next
}
