package ffmpeg

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractPCM decodes the first audio stream of input to mono float samples
// in -1..1 at the requested sample rate.
func (e *Executor) ExtractPCM(ctx context.Context, input string, sampleRate int) ([]float64, error) {
	e.logger.Info().
		Str("input", input).
		Int("sample_rate", sampleRate).
		Msg("decoding audio to PCM")

	args := []string{
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-",
	}

	raw, err := e.Output(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("pcm decode failed: %w", err)
	}

	samples := make([]float64, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float64(v) / math.MaxInt16
	}
	return samples, nil
}

// VolumeStats holds the results of a volumedetect pass.
type VolumeStats struct {
	MeanVolume float64 // dB
	MaxVolume  float64 // dB
}

// AnalyzeVolume runs ffmpeg's volumedetect filter over the input and parses
// the reported statistics.
func (e *Executor) AnalyzeVolume(ctx context.Context, input string) (*VolumeStats, error) {
	e.logger.Info().Str("input", input).Msg("analyzing volume")

	var lines []string
	opts := RunOptions{
		Args: []string{
			"-i", input,
			"-af", "volumedetect",
			"-f", "null",
			"-",
		},
		LogHandler: func(line string) {
			lines = append(lines, line)
		},
	}

	if err := e.Run(ctx, opts); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("volume analysis failed: %w", err)
	}

	stats := &VolumeStats{}
	for _, line := range lines {
		parseVolumeLine(line, "mean_volume:", &stats.MeanVolume)
		parseVolumeLine(line, "max_volume:", &stats.MaxVolume)
	}
	return stats, nil
}

func parseVolumeLine(line, key string, dst *float64) {
	idx := strings.Index(line, key)
	if idx < 0 {
		return
	}
	fmt.Sscanf(line[idx+len(key):], "%f", dst)
}
