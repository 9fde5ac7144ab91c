// Package effects maps high-level overlay effects onto a filter graph,
// optionally driving their parameters from extracted audio features.
package effects

// Logo places an image overlay on the video. When ReactTo names a feature
// series, the logo pulses by scaling with the series over time.
type Logo struct {
	Path      string
	X, Y      any     // pixel offsets or ffmpeg position expressions
	Scale     float64 // base uniform scale; 0 keeps source size
	Opacity   float64 // 0 or >=1 means fully opaque
	Rotation  float64 // degrees
	ReactTo   string  // feature series name ("amplitude", "onsets", "bands.<name>")
	Intensity float64 // reaction strength; default 0.5
}

// Text draws a text overlay. When ReactTo is set, the text fades with the
// feature series via drawtext's alpha expression.
type Text struct {
	Content   string
	FontFile  string
	X, Y      any
	Size      int
	Color     string
	Box       bool
	BoxColor  string
	ReactTo   string
	Intensity float64 // scales the series before clamping to 0..1; default 1
}

// Spectrum overlays a live frequency spectrum rendered from the audio
// stream.
type Spectrum struct {
	Width, Height int
	Mode          string // showspectrum mode; default "bar"
	Colors        string // default "intensity"
	X, Y          any
	Opacity       float64
}
