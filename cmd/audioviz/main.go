package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"audioviz/internal/config"
	"audioviz/internal/logging"
	"audioviz/internal/pipeline"
	"audioviz/pkg/util"
)

var (
	cfgFile string
	verbose bool

	renderOutput     string
	renderFPS        float64
	renderNoAudio    bool
	renderNoProgress bool

	graphDOT bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "audioviz",
	Short: "audioviz - audio-reactive video overlay toolkit",
	Long:  "Renders logo, text, and spectrum overlays onto video, optionally driven by the soundtrack's amplitude, onsets, and frequency bands.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logging
		logging.Init(verbose)

		// Load config
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		// Store config in context
		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file path (required)")
	renderCmd.Flags().Float64Var(&renderFPS, "fps", 0, "output frame rate (default: source rate)")
	renderCmd.Flags().BoolVar(&renderNoAudio, "no-audio", false, "drop the source audio stream")
	renderCmd.Flags().BoolVar(&renderNoProgress, "no-progress", false, "disable the progress bar")
	_ = renderCmd.MarkFlagRequired("output")

	graphCmd.Flags().BoolVar(&graphDOT, "dot", false, "emit GraphViz DOT instead of filter_complex syntax")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(graphCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render [input video]",
	Short: "Render the configured effect chain onto a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		opts := pipeline.RenderOptions{
			Output:       renderOutput,
			FPS:          renderFPS,
			MapAudio:     !renderNoAudio,
			ShowProgress: !renderNoProgress,
		}

		start := time.Now()
		if err := pipe.Render(cmd.Context(), args[0], opts); err != nil {
			return err
		}

		log.Info().
			Str("output", renderOutput).
			Dur("elapsed", time.Since(start)).
			Msg("render complete")

		return nil
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [input video]",
	Short: "Probe a video and summarize its audio features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		report, err := pipe.Analyze(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("input:    %s\n", report.Input)
		fmt.Printf("duration: %s\n", util.FormatDuration(time.Duration(report.Duration*float64(time.Second))))
		fmt.Printf("video:    %dx%d @ %.2f fps\n", report.Width, report.Height, report.FPS)
		if report.HasAudio {
			fmt.Printf("frames:   %d analysis frames\n", report.Frames)
			fmt.Printf("onsets:   %d\n", report.OnsetCount)
			fmt.Printf("volume:   mean %.1f dB, peak %.1f dB\n", report.MeanVolume, report.MaxVolume)
			fmt.Printf("bands:    %s\n", strings.Join(report.Bands, ", "))
		} else {
			fmt.Println("audio:    none")
		}

		return nil
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph [input video]",
	Short: "Print the compiled filter graph for the configured effects",
	Long:  "Compiles the configured effect chain and prints the resulting filter_complex string without rendering. An input is only needed when an effect reacts to audio.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		pipe, err := pipeline.New(log.Logger, cfg)
		if err != nil {
			return err
		}

		input := ""
		if len(args) > 0 {
			input = args[0]
		}

		out, err := pipe.Graph(cmd.Context(), input, graphDOT)
		if err != nil {
			return err
		}

		fmt.Println(out)
		return nil
	},
}
