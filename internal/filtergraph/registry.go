package filtergraph

import (
	"fmt"
	"sync"
)

// Unbounded marks a filter type with no upper limit on input pads.
const Unbounded = -1

// Metadata describes the arity and parameter constraints for one filter
// type. The graph layer uses it for validation only; parameter semantics are
// left to ffmpeg.
type Metadata struct {
	MinInputs      int
	MaxInputs      int // Unbounded for no limit
	RequiredParams []string
	OptionalParams []string
}

// Registry is a read-mostly catalog of known filter types. Register
// everything at process start-up; concurrent reads from independently built
// graphs are safe once registration is done. It never executes or interprets
// filters.
type Registry struct {
	filters map[string]Metadata
}

// NewRegistry returns a registry pre-populated with the builtin filter
// definitions.
func NewRegistry() *Registry {
	r := &Registry{filters: make(map[string]Metadata)}
	r.registerBuiltins()
	return r
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register inserts or overwrites the catalog entry for filterType.
func (r *Registry) Register(filterType string, md Metadata) {
	r.filters[filterType] = md
}

// Metadata returns the catalog entry for filterType.
func (r *Registry) Metadata(filterType string) (Metadata, bool) {
	md, ok := r.filters[filterType]
	return md, ok
}

// ValidateNode checks a node against its catalog entry and returns one
// message per violation.
func (r *Registry) ValidateNode(n *Node) []string {
	md, ok := r.filters[n.Type]
	if !ok {
		return []string{fmt.Sprintf("Unknown filter type: %s", n.Type)}
	}

	var errs []string
	for _, param := range md.RequiredParams {
		if !n.Params.Has(param) {
			errs = append(errs, fmt.Sprintf("Missing required parameter '%s' for filter '%s'", param, n.Type))
		}
	}
	if len(n.inputs) < md.MinInputs {
		errs = append(errs, fmt.Sprintf("Filter '%s' requires at least %d inputs, got %d", n.Type, md.MinInputs, len(n.inputs)))
	}
	if md.MaxInputs != Unbounded && len(n.inputs) > md.MaxInputs {
		errs = append(errs, fmt.Sprintf("Filter '%s' accepts at most %d inputs, got %d", n.Type, md.MaxInputs, len(n.inputs)))
	}
	return errs
}

func (r *Registry) registerBuiltins() {
	r.Register("buffer_src", Metadata{MinInputs: 0, MaxInputs: 0})
	r.Register("format", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		RequiredParams: []string{"pix_fmt"},
	})
	r.Register("overlay", Metadata{
		MinInputs:      2,
		MaxInputs:      2,
		OptionalParams: []string{"x", "y", "format", "shortest", "repeatlast", "eval"},
	})
	r.Register("drawtext", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		RequiredParams: []string{"text"},
		OptionalParams: []string{
			"fontfile", "fontsize", "fontcolor", "x", "y", "alpha", "box",
			"boxcolor", "shadowx", "shadowy", "shadowcolor",
		},
	})
	r.Register("scale", Metadata{
		MinInputs: 1,
		MaxInputs: 1,
		OptionalParams: []string{
			"width", "height", "eval", "flags", "interl", "in_color_matrix",
			"out_color_matrix", "force_original_aspect_ratio",
		},
	})
	r.Register("movie", Metadata{
		MinInputs:      0,
		MaxInputs:      0,
		RequiredParams: []string{"filename"},
		OptionalParams: []string{"format", "seek_point", "stream_index"},
	})
	r.Register("colorchannelmixer", Metadata{
		MinInputs: 1,
		MaxInputs: 1,
		OptionalParams: []string{
			"rr", "rg", "rb", "ra", "gr", "gg", "gb", "ga",
			"br", "bg", "bb", "ba", "ar", "ag", "ab", "aa",
		},
	})
	r.Register("rotate", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		OptionalParams: []string{"angle", "out_w", "out_h", "fillcolor"},
	})
	r.Register("fade", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		RequiredParams: []string{"type"},
		OptionalParams: []string{"start_frame", "nb_frames", "alpha", "start_time", "duration"},
	})
	r.Register("fps", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		OptionalParams: []string{"fps", "round", "eof_action"},
	})
	r.Register("setpts", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		RequiredParams: []string{"expr"},
	})
	r.Register("asplit", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		OptionalParams: []string{"outputs"},
	})
	r.Register("showspectrum", Metadata{
		MinInputs:      1,
		MaxInputs:      1,
		OptionalParams: []string{"size", "mode", "colors", "scale", "slide"},
	})
}
