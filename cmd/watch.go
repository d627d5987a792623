package cmd

import (
	"context"

	"github.com/mj1618/rigi-cli/internal/config"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture automatically whenever the active screen changes",
	Long: `Poll the UI tree on a timer and capture after the screen settles.

With the default "never" guard nothing is captured; set autoscan.guard to
boundary-changed (or pass --guard) to capture every time a different screen
becomes active. Runs until interrupted or until --duration elapses, then
prints the artifacts that were written.

Examples:
  rigi watch --tree live.yaml --guard boundary-changed
  rigi watch --tree live.yaml --guard boundary-changed --interval 2s --delay 1s --duration 1m`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().String("guard", "", "Capture guard: never, boundary-changed (overrides autoscan.guard)")
	watchCmd.Flags().Duration("interval", 0, "Polling interval (overrides autoscan.interval)")
	watchCmd.Flags().Duration("delay", 0, "Settle delay before each capture (overrides autoscan.delay)")
	watchCmd.Flags().Duration("duration", 0, "Stop after this long (0 = until interrupted)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	scan := appConfig.AutoScan
	if cmd.Flags().Changed("guard") {
		scan.Guard, _ = cmd.Flags().GetString("guard")
	}
	if cmd.Flags().Changed("interval") {
		scan.Interval, _ = cmd.Flags().GetDuration("interval")
	}
	if cmd.Flags().Changed("delay") {
		scan.Delay, _ = cmd.Flags().GetDuration("delay")
	}
	if err := scan.Validate(); err != nil {
		return err
	}
	duration, _ := cmd.Flags().GetDuration("duration")

	provider, p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	result := output.CaptureResult{OutputDir: appConfig.Capture.OutputDir, Artifacts: []*pipeline.Artifact{}}
	scanner := &pipeline.AutoScanner{
		Interval:      scan.Interval,
		Delay:         scan.Delay,
		ShouldCapture: pipeline.NeverCapture,
		Capture: func(ctx context.Context) error {
			art, err := p.Capture(ctx)
			if err != nil {
				return err
			}
			result.Artifacts = append(result.Artifacts, art)
			return nil
		},
		Logger: logger,
	}
	if scan.Guard == config.GuardBoundaryChanged {
		scanner.ShouldCapture = pipeline.BoundaryChanged(provider.Reader, appConfig.Capture.ExtraBoundaries)
	}

	logger.Info("watching",
		zap.String("guard", scan.Guard),
		zap.Duration("interval", scan.Interval),
		zap.Duration("delay", scan.Delay),
	)
	if err := scanner.Run(ctx); err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), result)
}
