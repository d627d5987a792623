package cmd

import (
	"fmt"
	"os"

	"github.com/mj1618/rigi-cli/internal/artifact"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE.html...",
	Short: "Print the metadata header of annotation pages",
	Long: `Read the metadata comment at the top of one or more generated HTML pages
and list the resource keys they annotate.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	results := make([]output.InspectResult, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		header, err := artifact.ParseHeader(string(data))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		results = append(results, output.InspectResult{File: path, Keys: header.Keys(), Header: header})
	}
	if len(results) == 1 {
		return output.Fprint(cmd.OutOrStdout(), results[0])
	}
	return output.Fprint(cmd.OutOrStdout(), results)
}
