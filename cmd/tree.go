package cmd

import (
	"time"

	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the UI tree in walk order",
	Long: `Print every node the scanner visits, in order, with its depth, bounds and
a breadcrumb path. Hidden subtrees are left out.`,
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().Bool("boundary-only", false, "Only print the subtree of the active screen")
}

func runTree(cmd *cobra.Command, args []string) error {
	boundaryOnly, _ := cmd.Flags().GetBool("boundary-only")

	provider, p, err := newPipeline(cmd)
	if err != nil {
		return err
	}
	snap, err := provider.Reader.ReadTree(cmd.Context())
	if err != nil {
		return err
	}
	return output.Fprint(cmd.OutOrStdout(), output.NewTreeResult(time.Now(), snap, p.ActiveBoundary(snap), boundaryOnly))
}
