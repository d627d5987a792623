package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/rigi-cli/internal/config"
	"github.com/mj1618/rigi-cli/internal/observability"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/mj1618/rigi-cli/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// appConfig and logger are set up by the root command before any
	// subcommand runs.
	appConfig *config.Config
	logger    = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "rigi",
	Short: "Capture annotated screenshots for in-context translation",
	Long: `rigi scans an app's UI tree for texts that carry a hidden resource key,
captures the screen and writes a numbered screenshot plus an HTML page that
places every localized text at its on-screen position.

The UI tree is read from a snapshot file exported by the host app (--tree).
A matching bitmap can be supplied with --image; without one a wireframe is
rendered from the tree.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./rigi.yaml if present)")
	flags.String("format", "yaml", "Output format: yaml, json")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flags.String("tree", "", "UI tree snapshot file (.yaml, .yml or .json)")
	flags.String("image", "", "Screen bitmap matching the snapshot (.png, .jpg, .bmp, .webp)")
	flags.Float64("scale", 0, "Pixels per point for rendered bitmaps (default 1)")
	flags.String("out", "", "Output directory (overrides capture.output_dir)")

	rootCmd.PersistentPreRunE = setup
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		observability.Sync(logger)
	}
}

// setup loads the configuration, applies flag overrides and builds the
// logger. Flags always win over the config file and environment.
func setup(cmd *cobra.Command, args []string) error {
	format, _ := rootCmd.PersistentFlags().GetString("format")
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	output.OutputFormat = f
	output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

	path, _ := rootCmd.PersistentFlags().GetString("config")
	v, err := config.NewViper(path)
	if err != nil {
		return err
	}
	if err := v.BindPFlag("capture.output_dir", rootCmd.PersistentFlags().Lookup("out")); err != nil {
		return err
	}
	if err := v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		return err
	}
	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	appConfig = cfg

	l, err := observability.NewStderr(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	logger.Debug("configuration loaded", zap.String("file", v.ConfigFileUsed()), zap.String("output_dir", cfg.Capture.OutputDir))
	return nil
}
