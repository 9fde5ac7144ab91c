// Package ffmpeg wraps the external ffmpeg/ffprobe binaries: probing media,
// decoding audio for analysis, and rendering with a compiled filter graph.
// The binaries are treated as black boxes; this package only builds argument
// lists and streams their output.
package ffmpeg

import "time"

// MediaInfo contains metadata about a media file.
type MediaInfo struct {
	FilePath     string
	Duration     time.Duration
	Width        int
	Height       int
	FPS          float64
	Bitrate      int64
	VideoCodec   string
	HasAudio     bool
	AudioCodec   string
	AudioBitrate int64
}

// TotalFrames estimates the frame count from duration and frame rate.
func (i *MediaInfo) TotalFrames() int {
	return int(i.Duration.Seconds() * i.FPS)
}

// Progress represents one ffmpeg progress report.
type Progress struct {
	Frame   int
	FPS     float64
	Bitrate string
	Time    string
	Speed   string
}

// ProgressFunc receives progress reports during a run.
type ProgressFunc func(*Progress)

// RunOptions configures one ffmpeg invocation.
type RunOptions struct {
	Args            []string
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// Default encoding settings.
const (
	DefaultCRF        = 23
	DefaultPreset     = "medium"
	DefaultVideoCodec = "libx264"
	DefaultAudioCodec = "aac"
)

// RenderOptions configures a filter-graph render. FilterComplex is the
// compiled pipeline string; OutputLabel names the graph output to map into
// the output file.
type RenderOptions struct {
	Inputs        []string
	FilterComplex string
	OutputLabel   string // default "out"
	MapAudio      bool   // carry the first input's audio stream through
	Output        string
	VideoCodec    string
	AudioCodec    string
	CRF           int
	Preset        string
	FPS           float64
	ProgressFunc  ProgressFunc
}
