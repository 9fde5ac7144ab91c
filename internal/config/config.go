package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`

	// Audio analysis settings
	Audio AudioConfig `yaml:"audio"`

	// Named overlay assets (logos, fonts)
	Assets AssetConfig `yaml:"assets"`

	// Effect chain applied during render, in order
	Effects []EffectConfig `yaml:"effects"`
}

type FFmpegConfig struct {
	Threads int     `yaml:"threads"`
	Preset  string  `yaml:"preset"`
	CRF     int     `yaml:"crf"`
	FPS     float64 `yaml:"fps"`
}

type AudioConfig struct {
	SampleRate int `yaml:"sample_rate"`
	HopLength  int `yaml:"hop_length"`
	FrameSize  int `yaml:"frame_size"`
}

type AssetConfig struct {
	DefaultFont string            `yaml:"default_font"`
	Images      map[string]string `yaml:"images"`
	Fonts       map[string]string `yaml:"fonts"`
}

// EffectConfig describes one effect in the render chain. Type selects the
// effect ("logo", "text", "spectrum"); the remaining fields apply where they
// make sense for that type.
type EffectConfig struct {
	Type      string  `yaml:"type"`
	Asset     string  `yaml:"asset"` // named image asset; Path wins if both set
	Path      string  `yaml:"path"`
	Text      string  `yaml:"text"`
	Font      string  `yaml:"font"` // named font asset
	X         any     `yaml:"x"`
	Y         any     `yaml:"y"`
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Scale     float64 `yaml:"scale"`
	Opacity   float64 `yaml:"opacity"`
	Rotation  float64 `yaml:"rotation"`
	Size      int     `yaml:"size"`
	Color     string  `yaml:"color"`
	Box       bool    `yaml:"box"`
	BoxColor  string  `yaml:"box_color"`
	Mode      string  `yaml:"mode"`
	Colors    string  `yaml:"colors"`
	ReactTo   string  `yaml:"react_to"`
	Intensity float64 `yaml:"intensity"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		FFmpeg: FFmpegConfig{
			Threads: 0,
			Preset:  "medium",
			CRF:     23,
		},
		Audio: AudioConfig{
			SampleRate: 44100,
			HopLength:  512,
			FrameSize:  2048,
		},
		Assets: AssetConfig{
			Images: make(map[string]string),
			Fonts:  make(map[string]string),
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		"./config.yml",
		filepath.Join(os.Getenv("HOME"), ".audioviz", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
