package audio

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"audioviz/internal/ffmpeg"
	"audioviz/internal/logging"
)

// Default analysis parameters.
const (
	DefaultSampleRate = 44100
	DefaultHopLength  = 512
	DefaultFrameSize  = 2048
)

// Extractor decodes a media file's soundtrack through ffmpeg and computes
// feature series from it.
type Extractor struct {
	logger     zerolog.Logger
	ffmpeg     *ffmpeg.Executor
	SampleRate int
	HopLength  int
	FrameSize  int
}

// NewExtractor creates an extractor with the default analysis parameters.
func NewExtractor(logger zerolog.Logger, exec *ffmpeg.Executor) *Extractor {
	return &Extractor{
		logger:     logging.WithComponent(logger, "audio"),
		ffmpeg:     exec,
		SampleRate: DefaultSampleRate,
		HopLength:  DefaultHopLength,
		FrameSize:  DefaultFrameSize,
	}
}

// ExtractFromFile decodes the soundtrack of input to mono PCM and computes
// its features. The input may be an audio file or a video with an audio
// stream.
func (e *Extractor) ExtractFromFile(ctx context.Context, input string) (*Features, error) {
	e.logger.Info().
		Str("input", input).
		Int("sample_rate", e.SampleRate).
		Int("hop_length", e.HopLength).
		Msg("extracting audio features")

	samples, err := e.ffmpeg.ExtractPCM(ctx, input, e.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio: %w", err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("no audio samples decoded from %s", input)
	}

	features := Compute(samples, e.SampleRate, e.HopLength, e.FrameSize)

	e.logger.Debug().
		Float64("duration", features.Duration).
		Int("frames", len(features.Amplitude)).
		Msg("audio features computed")

	return features, nil
}
