package cli

import (
	"github.com/spf13/cobra"

	"github.com/mgpai22/captioner/internal/config"
	"github.com/mgpai22/captioner/internal/ffmpeg"
	"github.com/mgpai22/captioner/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "captioner",
	Short: "Word-timed captions for videos",
	Long: `Captioner transcribes audio and video files into word-level timings,
groups them into caption segments, and renders animated captions as
subtitle scripts or burned into the video.

Settings are read from captioner.yaml (or --config) and CAPTIONER_*
environment variables; flags override both.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		ffmpeg.Configure(ffmpeg.Options{
			FFmpeg:   cfg.FFmpeg.FFmpegPath,
			FFprobe:  cfg.FFmpeg.FFprobePath,
			CacheDir: cfg.FFmpeg.CacheDir,
			Download: cfg.FFmpeg.Download,
		})
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Config file (default: ./captioner.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
}
