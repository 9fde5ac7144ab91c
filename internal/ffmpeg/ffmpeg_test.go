package ffmpeg

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

func TestRenderArgs(t *testing.T) {
	args, err := renderArgs(RenderOptions{
		Inputs:        []string{"in.mp4"},
		FilterComplex: "[0:v]format=pix_fmt=yuva420p[out]",
		Output:        "out.mp4",
		MapAudio:      true,
	})
	if err != nil {
		t.Fatalf("renderArgs failed: %v", err)
	}

	joined := strings.Join(args, " ")
	for _, want := range []string{
		"-i in.mp4",
		"-filter_complex [0:v]format=pix_fmt=yuva420p[out]",
		"-map [out]",
		"-map 0:a?",
		"-c:v libx264",
		"-crf 23",
		"-preset medium",
		"-c:a aac",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %q in args: %q", want, joined)
		}
	}
	if args[len(args)-1] != "out.mp4" {
		t.Errorf("output path must be the final argument: %v", args)
	}
}

func TestRenderArgsMultipleInputs(t *testing.T) {
	args, err := renderArgs(RenderOptions{
		Inputs:        []string{"a.mp4", "b.png"},
		FilterComplex: "[0:v][1:v]overlay[out]",
		Output:        "out.mp4",
		OutputLabel:   "final",
	})
	if err != nil {
		t.Fatalf("renderArgs failed: %v", err)
	}

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-i a.mp4 -i b.png") {
		t.Errorf("both inputs expected in order: %q", joined)
	}
	if !strings.Contains(joined, "-map [final]") {
		t.Errorf("custom output label expected: %q", joined)
	}
}

func TestRenderArgsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts RenderOptions
	}{
		{"no inputs", RenderOptions{FilterComplex: "x", Output: "o.mp4"}},
		{"no output", RenderOptions{Inputs: []string{"a"}, FilterComplex: "x"}},
		{"no filter graph", RenderOptions{Inputs: []string{"a"}, Output: "o.mp4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := renderArgs(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	if e.ffmpegPath == "" || e.ffprobePath == "" {
		t.Error("binary paths should be resolved")
	}
}

func TestProbeMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	if _, err := e.Probe(context.Background(), "nonexistent.mp4"); err == nil {
		t.Error("Probe should fail for a missing file")
	}
}

func TestExtractPCMFromGeneratedTone(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	// Generate a short tone with ffmpeg itself.
	tone := t.TempDir() + "/tone.wav"
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-y", tone)
	if err := cmd.Run(); err != nil {
		t.Skipf("could not generate test tone: %v", err)
	}

	samples, err := e.ExtractPCM(context.Background(), tone, 44100)
	if err != nil {
		t.Fatalf("ExtractPCM failed: %v", err)
	}
	if len(samples) < 40000 {
		t.Errorf("expected roughly one second of samples, got %d", len(samples))
	}
	for _, s := range samples[:100] {
		if s < -1 || s > 1 {
			t.Fatalf("sample out of range: %f", s)
		}
	}
}

func TestParseVolumeLine(t *testing.T) {
	var stats VolumeStats
	parseVolumeLine("[Parsed_volumedetect_0 @ 0x55] mean_volume: -23.4 dB", "mean_volume:", &stats.MeanVolume)
	parseVolumeLine("[Parsed_volumedetect_0 @ 0x55] max_volume: -5.0 dB", "max_volume:", &stats.MaxVolume)
	parseVolumeLine("frame=100", "mean_volume:", &stats.MeanVolume)

	if stats.MeanVolume != -23.4 {
		t.Errorf("mean volume = %v, want -23.4", stats.MeanVolume)
	}
	if stats.MaxVolume != -5.0 {
		t.Errorf("max volume = %v, want -5.0", stats.MaxVolume)
	}
}

func TestAnalyzeVolumeOfGeneratedTone(t *testing.T) {
	skipIfNoFFmpeg(t)

	logger := zerolog.New(os.Stderr)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}

	tone := t.TempDir() + "/tone.wav"
	cmd := exec.Command("ffmpeg", "-f", "lavfi", "-i", "sine=frequency=440:duration=1", "-y", tone)
	if err := cmd.Run(); err != nil {
		t.Skipf("could not generate test tone: %v", err)
	}

	stats, err := e.AnalyzeVolume(context.Background(), tone)
	if err != nil {
		t.Fatalf("AnalyzeVolume failed: %v", err)
	}
	if stats.MaxVolume >= 0 || stats.MaxVolume < -60 {
		t.Errorf("implausible max volume for a sine tone: %v", stats.MaxVolume)
	}
	if stats.MeanVolume > stats.MaxVolume {
		t.Errorf("mean volume %v should not exceed max %v", stats.MeanVolume, stats.MaxVolume)
	}
}

func TestStreamOutputProgress(t *testing.T) {
	e := &Executor{logger: zerolog.Nop()}

	input := strings.NewReader(strings.Join([]string{
		"frame=100",
		"fps=30.0",
		"bitrate=1000kbits/s",
		"out_time=00:00:03.33",
		"speed=1.5x",
		"progress=continue",
		"frame=200",
		"progress=end",
	}, "\n"))

	var reports []*Progress
	e.streamOutput(input, func(p *Progress) {
		reports = append(reports, p)
	}, nil)

	if len(reports) != 2 {
		t.Fatalf("expected 2 progress reports, got %d", len(reports))
	}
	if reports[0].Frame != 100 || reports[0].Speed != "1.5x" {
		t.Errorf("unexpected first report: %+v", reports[0])
	}
	if reports[1].Frame != 200 {
		t.Errorf("unexpected second report: %+v", reports[1])
	}
}
