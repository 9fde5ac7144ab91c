// Package pipeline orchestrates the full render workflow: probe the input,
// extract audio features, assemble the effect chain from config, compile the
// filter graph, and drive the transcoder.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"

	"audioviz/internal/audio"
	"audioviz/internal/config"
	"audioviz/internal/effects"
	"audioviz/internal/ffmpeg"
	"audioviz/internal/filtergraph"
	"audioviz/internal/logging"
	"audioviz/internal/overlays"
	"audioviz/pkg/util"
)

// Pipeline orchestrates the audio-reactive overlay workflow
type Pipeline struct {
	logger    zerolog.Logger
	cfg       *config.Config
	ffmpeg    *ffmpeg.Executor
	extractor *audio.Extractor
	assets    *overlays.Registry
}

// New creates a new pipeline instance
func New(logger zerolog.Logger, cfg *config.Config) (*Pipeline, error) {
	ffmpegExec, err := ffmpeg.New(logger, cfg.FFmpeg.Threads)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ffmpeg: %w", err)
	}

	extractor := audio.NewExtractor(logger, ffmpegExec)
	if cfg.Audio.SampleRate > 0 {
		extractor.SampleRate = cfg.Audio.SampleRate
	}
	if cfg.Audio.HopLength > 0 {
		extractor.HopLength = cfg.Audio.HopLength
	}
	if cfg.Audio.FrameSize > 0 {
		extractor.FrameSize = cfg.Audio.FrameSize
	}

	assets := overlays.NewRegistry()
	if err := assets.LoadMaps(cfg.Assets.Images, cfg.Assets.Fonts); err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	return &Pipeline{
		logger:    logging.WithComponent(logger, "pipeline"),
		cfg:       cfg,
		ffmpeg:    ffmpegExec,
		extractor: extractor,
		assets:    assets,
	}, nil
}

// Render runs the full render pipeline on the input video. Graph compilation
// failures abort before the transcoder is ever invoked.
func (p *Pipeline) Render(ctx context.Context, input string, opts RenderOptions) error {
	if input == "" {
		return fmt.Errorf("input path cannot be empty")
	}
	if !util.FileExists(input) {
		return fmt.Errorf("input file not found: %s", input)
	}
	if opts.Output == "" {
		return fmt.Errorf("output path cannot be empty")
	}

	p.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Int("effects", len(p.cfg.Effects)).
		Msg("starting render pipeline")

	info, err := p.ffmpeg.Probe(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to probe input: %w", err)
	}

	p.logger.Info().
		Dur("duration", info.Duration).
		Int("width", info.Width).
		Int("height", info.Height).
		Float64("fps", info.FPS).
		Bool("has_audio", info.HasAudio).
		Msg("input metadata extracted")

	filterStr, err := p.compileGraph(ctx, input, info.HasAudio)
	if err != nil {
		return err
	}

	if err := util.EnsureParentDir(opts.Output); err != nil {
		return err
	}

	p.logger.Debug().Str("filter_complex", filterStr).Msg("graph compiled")

	renderOpts := ffmpeg.RenderOptions{
		Inputs:        []string{input},
		FilterComplex: filterStr,
		Output:        opts.Output,
		MapAudio:      opts.MapAudio && info.HasAudio,
		CRF:           p.cfg.FFmpeg.CRF,
		Preset:        p.cfg.FFmpeg.Preset,
		FPS:           opts.FPS,
	}

	if opts.ShowProgress {
		bar := progressbar.NewOptions(info.TotalFrames(),
			progressbar.OptionSetDescription("rendering"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		renderOpts.ProgressFunc = func(pr *ffmpeg.Progress) {
			_ = bar.Set(pr.Frame)
		}
		defer func() { _ = bar.Finish() }()
	}

	if err := p.ffmpeg.Render(ctx, renderOpts); err != nil {
		return err
	}

	p.logger.Info().Str("output", opts.Output).Msg("render pipeline complete")
	return nil
}

// Analyze probes the input and summarizes its extracted audio features.
func (p *Pipeline) Analyze(ctx context.Context, input string) (*Report, error) {
	if input == "" {
		return nil, fmt.Errorf("input path cannot be empty")
	}

	info, err := p.ffmpeg.Probe(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to probe input: %w", err)
	}

	report := &Report{
		Input:    input,
		Duration: info.Duration.Seconds(),
		Width:    info.Width,
		Height:   info.Height,
		FPS:      info.FPS,
		HasAudio: info.HasAudio,
	}

	if !info.HasAudio {
		return report, nil
	}

	features, err := p.extractor.ExtractFromFile(ctx, input)
	if err != nil {
		return nil, err
	}

	stats, err := p.ffmpeg.AnalyzeVolume(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("volume analysis failed: %w", err)
	}
	report.MeanVolume = stats.MeanVolume
	report.MaxVolume = stats.MaxVolume

	report.Frames = len(features.Amplitude)
	for _, on := range features.Onsets {
		if on {
			report.OnsetCount++
		}
	}
	for _, band := range audio.DefaultBands {
		if _, ok := features.Bands[band.Name]; ok {
			report.Bands = append(report.Bands, band.Name)
		}
	}
	return report, nil
}

// Graph compiles the configured effect chain against the input and returns
// either the filter_complex string or, with dot set, a GraphViz rendering.
func (p *Pipeline) Graph(ctx context.Context, input string, dot bool) (string, error) {
	var hasAudio bool
	if input != "" {
		info, err := p.ffmpeg.Probe(ctx, input)
		if err != nil {
			return "", fmt.Errorf("failed to probe input: %w", err)
		}
		hasAudio = info.HasAudio
	}

	mapper, err := p.buildMapper(ctx, input, hasAudio)
	if err != nil {
		return "", err
	}
	if dot {
		// Bind the tail first so the export shows the output boundary.
		if _, err := mapper.Compile(); err != nil {
			return "", err
		}
		return filtergraph.DOT(mapper.Graph()), nil
	}
	return mapper.Compile()
}

func (p *Pipeline) compileGraph(ctx context.Context, input string, hasAudio bool) (string, error) {
	mapper, err := p.buildMapper(ctx, input, hasAudio)
	if err != nil {
		return "", err
	}
	filterStr, err := mapper.Compile()
	if err != nil {
		return "", fmt.Errorf("graph compilation failed: %w", err)
	}
	return filterStr, nil
}

// buildMapper assembles the effect chain from config. Audio features are only
// extracted when an effect actually reacts to them.
func (p *Pipeline) buildMapper(ctx context.Context, input string, hasAudio bool) (*effects.Mapper, error) {
	var features *audio.Features
	if p.needsFeatures() {
		if !hasAudio {
			return nil, fmt.Errorf("reactive effects configured but input has no audio stream")
		}
		f, err := p.extractor.ExtractFromFile(ctx, input)
		if err != nil {
			return nil, err
		}
		features = f
	}

	mapper := effects.NewMapper(nil, features, p.logger)
	for i, e := range p.cfg.Effects {
		if err := p.addEffect(mapper, e); err != nil {
			return nil, fmt.Errorf("effect %d (%s): %w", i, e.Type, err)
		}
	}
	return mapper, nil
}

func (p *Pipeline) needsFeatures() bool {
	for _, e := range p.cfg.Effects {
		if e.ReactTo != "" {
			return true
		}
	}
	return false
}

func (p *Pipeline) addEffect(m *effects.Mapper, e config.EffectConfig) error {
	switch e.Type {
	case "logo":
		path := e.Path
		if path == "" && e.Asset != "" {
			asset, ok := p.assets.Get(e.Asset)
			if !ok {
				return fmt.Errorf("unknown asset: %s", e.Asset)
			}
			path = asset.Path
		}
		return m.AddLogo(effects.Logo{
			Path:      path,
			X:         e.X,
			Y:         e.Y,
			Scale:     e.Scale,
			Opacity:   e.Opacity,
			Rotation:  e.Rotation,
			ReactTo:   e.ReactTo,
			Intensity: e.Intensity,
		})
	case "text":
		fontFile := ""
		fontName := e.Font
		if fontName == "" {
			fontName = p.cfg.Assets.DefaultFont
		}
		if fontName != "" {
			asset, ok := p.assets.Get(fontName)
			if !ok {
				return fmt.Errorf("unknown font asset: %s", fontName)
			}
			fontFile = asset.Path
		}
		return m.AddText(effects.Text{
			Content:   e.Text,
			FontFile:  fontFile,
			X:         e.X,
			Y:         e.Y,
			Size:      e.Size,
			Color:     e.Color,
			Box:       e.Box,
			BoxColor:  e.BoxColor,
			ReactTo:   e.ReactTo,
			Intensity: e.Intensity,
		})
	case "spectrum":
		return m.AddSpectrum(effects.Spectrum{
			Width:   e.Width,
			Height:  e.Height,
			Mode:    e.Mode,
			Colors:  e.Colors,
			X:       e.X,
			Y:       e.Y,
			Opacity: e.Opacity,
		})
	default:
		return fmt.Errorf("unknown effect type: %s", e.Type)
	}
}
