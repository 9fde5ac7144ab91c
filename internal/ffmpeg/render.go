package ffmpeg

import (
	"context"
	"fmt"
)

// Render runs ffmpeg with a compiled filter-graph string, mapping the named
// graph output into the output file. The filter string itself comes from the
// filtergraph package; this layer only assembles the command line.
func (e *Executor) Render(ctx context.Context, opts RenderOptions) error {
	args, err := renderArgs(opts)
	if err != nil {
		return fmt.Errorf("invalid render options: %w", err)
	}

	e.logger.Info().
		Strs("inputs", opts.Inputs).
		Str("output", opts.Output).
		Msg("starting filter graph render")

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("render output")
		},
	}
	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("render completed")
	return nil
}

// renderArgs builds the ffmpeg argument list for a filter-graph render.
func renderArgs(opts RenderOptions) ([]string, error) {
	if len(opts.Inputs) == 0 {
		return nil, fmt.Errorf("at least one input is required")
	}
	if opts.Output == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.FilterComplex == "" {
		return nil, fmt.Errorf("filter graph string is required")
	}

	outLabel := opts.OutputLabel
	if outLabel == "" {
		outLabel = "out"
	}

	var args []string
	for _, input := range opts.Inputs {
		args = append(args, "-i", input)
	}

	args = append(args, "-filter_complex", opts.FilterComplex)
	args = append(args, "-map", "["+outLabel+"]")
	if opts.MapAudio {
		args = append(args, "-map", "0:a?")
	}

	videoCodec := opts.VideoCodec
	if videoCodec == "" {
		videoCodec = DefaultVideoCodec
	}
	args = append(args, "-c:v", videoCodec)

	crf := opts.CRF
	if crf == 0 {
		crf = DefaultCRF
	}
	args = append(args, "-crf", fmt.Sprintf("%d", crf))

	preset := opts.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	args = append(args, "-preset", preset)

	audioCodec := opts.AudioCodec
	if audioCodec == "" {
		audioCodec = DefaultAudioCodec
	}
	args = append(args, "-c:a", audioCodec)

	if opts.FPS > 0 {
		args = append(args, "-r", fmt.Sprintf("%.2f", opts.FPS))
	}

	args = append(args, opts.Output)
	return args, nil
}
