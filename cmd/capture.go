package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/mj1618/rigi-cli/internal/pipeline"
	"github.com/spf13/cobra"
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Write a numbered screenshot and HTML annotation pair",
	Long: `Read the UI tree, collect every marked text that is visible on the active
screen and write <out>/<name>.html plus <out>/resources/img/<name>.png.

The first capture of a run clears the output directory. With --count the
snapshot is re-read before every capture, so an app that rewrites the tree
file between captures produces one pair per screen.

Examples:
  rigi capture --tree screen.yaml
  rigi capture --tree screen.json --image screen.png --out build/rigi
  rigi capture --tree screen.yaml --count 3 --every 2s`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)
	captureCmd.Flags().Int("count", 1, "Number of captures to take")
	captureCmd.Flags().Duration("every", 0, "Pause between captures when --count > 1")
	captureCmd.Flags().Bool("preview", false, "Also write a _preview.png with label boxes drawn in")
}

func runCapture(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	every, _ := cmd.Flags().GetDuration("every")
	if count < 1 {
		return fmt.Errorf("--count must be at least 1, got %d", count)
	}
	if every < 0 {
		return fmt.Errorf("--every must not be negative, got %v", every)
	}
	if cmd.Flags().Changed("preview") {
		appConfig.Capture.Preview, _ = cmd.Flags().GetBool("preview")
	}

	_, p, err := newPipeline(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	result := output.CaptureResult{OutputDir: appConfig.Capture.OutputDir, Artifacts: []*pipeline.Artifact{}}
	for i := range count {
		if i > 0 && every > 0 {
			select {
			case <-ctx.Done():
				return output.Fprint(cmd.OutOrStdout(), result)
			case <-time.After(every):
			}
		}
		art, err := p.Capture(ctx)
		if errors.Is(err, pipeline.ErrMissingCaptureTarget) {
			return fmt.Errorf("nothing to capture: %w", err)
		}
		if err != nil {
			return err
		}
		result.Artifacts = append(result.Artifacts, art)
	}
	return output.Fprint(cmd.OutOrStdout(), result)
}
