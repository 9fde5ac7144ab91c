// Package audio extracts per-frame features from a soundtrack: RMS
// amplitude, onset flags, and frequency-band energies. The feature series
// drive audio-reactive overlay parameters.
package audio

import (
	"fmt"
	"math"
	"strings"
)

// Band is a named frequency range in Hz.
type Band struct {
	Name string
	Low  float64
	High float64
}

// DefaultBands is the standard analysis band table.
var DefaultBands = []Band{
	{"sub_bass", 20, 60},
	{"bass", 60, 250},
	{"low_mid", 250, 500},
	{"mid", 500, 2000},
	{"high_mid", 2000, 4000},
	{"presence", 4000, 6000},
	{"brilliance", 6000, 20000},
}

// Features holds the named time series computed from one soundtrack. All
// series share the same frame clock: frame i covers hop-length samples
// starting at Times[i].
type Features struct {
	Duration   float64
	SampleRate int
	HopLength  int
	FrameSize  int

	Times      []float64
	Amplitude  []float64 // RMS per frame
	Normalized []float64 // Amplitude scaled into 0..1
	Onsets     []bool    // sharp amplitude rises
	Bands      map[string][]float64
}

// onsetThreshold is the minimum rise in normalized amplitude between
// consecutive frames to count as an onset.
const onsetThreshold = 0.15

// Compute derives all feature series from mono samples in -1..1. It is pure
// computation, usable without a decoder in tests.
func Compute(samples []float64, sampleRate, hopLength, frameSize int) *Features {
	nFrames := 1 + len(samples)/hopLength

	f := &Features{
		Duration:   float64(len(samples)) / float64(sampleRate),
		SampleRate: sampleRate,
		HopLength:  hopLength,
		FrameSize:  frameSize,
		Times:      make([]float64, nFrames),
		Amplitude:  make([]float64, nFrames),
		Normalized: make([]float64, nFrames),
		Onsets:     make([]bool, nFrames),
		Bands:      make(map[string][]float64, len(DefaultBands)),
	}

	for i := 0; i < nFrames; i++ {
		f.Times[i] = float64(i*hopLength) / float64(sampleRate)
		f.Amplitude[i] = rms(frame(samples, i, hopLength, frameSize))
	}

	peak := 0.0
	for _, a := range f.Amplitude {
		if a > peak {
			peak = a
		}
	}
	if peak > 0 {
		for i, a := range f.Amplitude {
			f.Normalized[i] = a / peak
		}
	}

	for i := 1; i < nFrames; i++ {
		f.Onsets[i] = f.Normalized[i]-f.Normalized[i-1] > onsetThreshold
	}

	// Bands share one normalization factor so their relative energy stays
	// comparable.
	bandMax := 0.0
	for _, band := range DefaultBands {
		series := make([]float64, nFrames)
		// Geometric center frequency stands in for the whole band.
		center := math.Sqrt(band.Low * band.High)
		if center < float64(sampleRate)/2 {
			for i := 0; i < nFrames; i++ {
				series[i] = goertzel(frame(samples, i, hopLength, frameSize), sampleRate, center)
				if series[i] > bandMax {
					bandMax = series[i]
				}
			}
		}
		f.Bands[band.Name] = series
	}
	if bandMax > 0 {
		for _, series := range f.Bands {
			for i := range series {
				series[i] /= bandMax
			}
		}
	}

	return f
}

// Series looks up a feature series by name: "amplitude", "onsets", or
// "bands.<name>" (e.g. "bands.bass"). Onsets are returned as 0/1 values.
func (f *Features) Series(name string) ([]float64, error) {
	switch {
	case name == "amplitude":
		return f.Normalized, nil
	case name == "onsets":
		out := make([]float64, len(f.Onsets))
		for i, on := range f.Onsets {
			if on {
				out[i] = 1
			}
		}
		return out, nil
	case strings.HasPrefix(name, "bands."):
		band := strings.TrimPrefix(name, "bands.")
		series, ok := f.Bands[band]
		if !ok {
			return nil, fmt.Errorf("unknown frequency band: %s", band)
		}
		return series, nil
	default:
		return nil, fmt.Errorf("unknown feature: %s", name)
	}
}

// frame returns the analysis window starting at frame index i, clipped at the
// end of the signal.
func frame(samples []float64, i, hopLength, frameSize int) []float64 {
	start := i * hopLength
	if start >= len(samples) {
		return nil
	}
	end := start + frameSize
	if end > len(samples) {
		end = len(samples)
	}
	return samples[start:end]
}

func rms(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range window {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(window)))
}

// goertzel computes the power of one frequency in a window. Cheaper than a
// full FFT when only a handful of band centers are needed.
func goertzel(window []float64, sampleRate int, freq float64) float64 {
	if len(window) == 0 {
		return 0
	}
	omega := 2 * math.Pi * freq / float64(sampleRate)
	coeff := 2 * math.Cos(omega)

	var s0, s1, s2 float64
	for _, x := range window {
		s0 = x + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	return math.Sqrt(math.Abs(power)) / float64(len(window))
}
