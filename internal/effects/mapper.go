package effects

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"audioviz/internal/audio"
	"audioviz/internal/filtergraph"
	"audioviz/internal/logging"
	"audioviz/pkg/util"
)

// Mapper translates effects into filter graph nodes, keeping a cursor on the
// current tail of the main video chain. The graph is seeded with a format
// node bound to the external video stream "0:v"; each added effect extends
// the chain and moves the cursor. Compile binds the tail to "out".
type Mapper struct {
	logger   zerolog.Logger
	graph    *filtergraph.Graph
	features *audio.Features
	current  *filtergraph.Node
}

// NewMapper creates a mapper over a fresh graph. features may be nil when no
// effect is reactive; reg nil selects the default registry.
func NewMapper(reg *filtergraph.Registry, features *audio.Features, logger zerolog.Logger) *Mapper {
	g := filtergraph.New(reg)
	base := g.CreateNode("format", "main_format", filtergraph.Params{{Key: "pix_fmt", Value: "yuva420p"}})
	g.SetInput("0:v", base, 0)

	return &Mapper{
		logger:   logging.WithComponent(logger, "effects"),
		graph:    g,
		features: features,
		current:  base,
	}
}

// Graph exposes the underlying graph, for DOT export and inspection.
func (m *Mapper) Graph() *filtergraph.Graph { return m.graph }

// AddLogo appends a logo overlay to the chain.
func (m *Mapper) AddLogo(l Logo) error {
	if l.ReactTo == "" {
		entry, exit, err := filtergraph.LogoOverlay(m.graph, l.Path, filtergraph.LogoOverlayOptions{
			X: l.X, Y: l.Y,
			Scale:    l.Scale,
			Opacity:  l.Opacity,
			Rotation: l.Rotation,
		})
		if err != nil {
			return err
		}
		m.graph.Connect(m.current, entry, 0, 0)
		m.current = exit
		m.logger.Debug().Str("path", l.Path).Msg("added static logo overlay")
		return nil
	}
	return m.addReactiveLogo(l)
}

// addReactiveLogo builds the logo branch by hand so the scale stage can carry
// a per-frame size expression driven by the feature series.
func (m *Mapper) addReactiveLogo(l Logo) error {
	if !util.FileExists(l.Path) {
		return fmt.Errorf("logo file not found: %s", l.Path)
	}
	series, times, err := m.series(l.ReactTo)
	if err != nil {
		return err
	}

	base := l.Scale
	if base <= 0 {
		base = 1
	}
	intensity := l.Intensity
	if intensity == 0 {
		intensity = 0.5
	}

	// Per-frame size factor: base scale pulsed by the series.
	factors := make([]float64, len(series))
	for i, v := range series {
		factors[i] = base * (1 + intensity*v)
	}
	expr := SeriesExpr(times, factors, defaultExprPoints)

	g := m.graph
	node := g.CreateNode("movie", "", filtergraph.Params{{Key: "filename", Value: l.Path}})
	node = connect(g, node, g.CreateNode("scale", "", filtergraph.Params{
		{Key: "width", Value: "iw*" + expr},
		{Key: "height", Value: "ih*" + expr},
		{Key: "eval", Value: "frame"},
	}))
	if l.Rotation != 0 {
		node = connect(g, node, g.CreateNode("rotate", "", filtergraph.Params{
			{Key: "angle", Value: l.Rotation * math.Pi / 180},
		}))
	}
	if l.Opacity > 0 && l.Opacity < 1 {
		node = connect(g, node, g.CreateNode("colorchannelmixer", "", filtergraph.Params{
			{Key: "aa", Value: l.Opacity},
		}))
	}

	x, y := l.X, l.Y
	if x == nil {
		x = 10
	}
	if y == nil {
		y = 10
	}
	format := g.CreateNode("format", "", filtergraph.Params{{Key: "pix_fmt", Value: "yuva420p"}})
	overlay := g.CreateNode("overlay", "", filtergraph.Params{
		{Key: "x", Value: x},
		{Key: "y", Value: y},
		{Key: "format", Value: "rgb"},
		{Key: "shortest", Value: 1},
	})
	g.Connect(format, overlay, 0, 0)
	g.Connect(node, overlay, 0, 1)

	g.Connect(m.current, format, 0, 0)
	m.current = overlay
	m.logger.Debug().
		Str("path", l.Path).
		Str("react_to", l.ReactTo).
		Msg("added reactive logo overlay")
	return nil
}

// AddText appends a text overlay. A reactive text fades with the series via
// drawtext's alpha expression.
func (m *Mapper) AddText(t Text) error {
	entry, exit := filtergraph.TextOverlay(m.graph, t.Content, filtergraph.TextOverlayOptions{
		FontFile: t.FontFile,
		X:        t.X,
		Y:        t.Y,
		Size:     t.Size,
		Color:    t.Color,
		Box:      t.Box,
		BoxColor: t.BoxColor,
	})

	if t.ReactTo != "" {
		series, times, err := m.series(t.ReactTo)
		if err != nil {
			return err
		}
		intensity := t.Intensity
		if intensity == 0 {
			intensity = 1
		}
		alpha := make([]float64, len(series))
		for i, v := range series {
			a := intensity * v
			if a > 1 {
				a = 1
			}
			alpha[i] = a
		}
		exit.Params.Set("alpha", SeriesExpr(times, alpha, defaultExprPoints))
	}

	m.graph.Connect(m.current, entry, 0, 0)
	m.current = exit
	m.logger.Debug().Str("text", t.Content).Msg("added text overlay")
	return nil
}

// AddSpectrum appends a spectrum visualization rendered from the external
// audio stream "0:a" and overlaid on the chain.
func (m *Mapper) AddSpectrum(s Spectrum) error {
	entry, exit := filtergraph.SpectrumVisualization(m.graph, filtergraph.SpectrumOptions{
		Width:  s.Width,
		Height: s.Height,
		Mode:   s.Mode,
		Colors: s.Colors,
	})
	m.graph.SetInput("0:a", entry, 0)

	branch := exit
	if s.Opacity > 0 && s.Opacity < 1 {
		branch = connect(m.graph, branch, m.graph.CreateNode("colorchannelmixer", "", filtergraph.Params{
			{Key: "aa", Value: s.Opacity},
		}))
	}

	x, y := s.X, s.Y
	if x == nil {
		x = 0
	}
	if y == nil {
		y = "H-h"
	}
	overlay := m.graph.CreateNode("overlay", "", filtergraph.Params{
		{Key: "x", Value: x},
		{Key: "y", Value: y},
		{Key: "shortest", Value: 1},
	})
	m.graph.Connect(m.current, overlay, 0, 0)
	m.graph.Connect(branch, overlay, 0, 1)

	m.current = overlay
	m.logger.Debug().Msg("added spectrum overlay")
	return nil
}

// Compile binds the chain tail to the external output "out" and compiles the
// graph. A graph that fails validation returns the structured error from the
// filtergraph package; nothing is ever handed to the transcoder in that case.
func (m *Mapper) Compile() (string, error) {
	m.graph.SetOutput("out", m.current, 0)
	return m.graph.FilterString()
}

func (m *Mapper) series(name string) (values, times []float64, err error) {
	if m.features == nil {
		return nil, nil, fmt.Errorf("no audio features available for reactive effect %q", name)
	}
	values, err = m.features.Series(name)
	if err != nil {
		return nil, nil, err
	}
	return values, m.features.Times, nil
}

func connect(g *filtergraph.Graph, current, next *filtergraph.Node) *filtergraph.Node {
	g.Connect(current, next, 0, 0)
	return next
}
