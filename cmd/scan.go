package cmd

import (
	"time"

	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the localized texts a capture would annotate",
	Long: `Run the label scan on the UI tree without capturing or writing anything.
Use --log-level debug to see why a marked text was skipped.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	provider, p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	snap, err := provider.Reader.ReadTree(cmd.Context())
	if err != nil {
		return err
	}
	labels := p.Scan(snap)
	return output.Fprint(cmd.OutOrStdout(), output.NewScanResult(time.Now(), snap, p.ActiveBoundary(snap), labels))
}
