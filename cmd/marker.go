package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/rigi-cli/internal/marker"
	"github.com/mj1618/rigi-cli/internal/output"
	"github.com/spf13/cobra"
)

var markerCmd = &cobra.Command{
	Use:   "marker",
	Short: "Encode or decode hidden resource keys",
}

var markerEncodeCmd = &cobra.Command{
	Use:   "encode KEY [TEXT]",
	Short: "Mark TEXT with KEY the way an instrumented app displays it",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runMarkerEncode,
}

var markerDecodeCmd = &cobra.Command{
	Use:   "decode [TEXT]",
	Short: "Recover the key and visible text from a marked string",
	Long:  "Recover the key and visible text from a marked string. Reads stdin when TEXT is omitted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMarkerDecode,
}

func init() {
	rootCmd.AddCommand(markerCmd)
	markerCmd.AddCommand(markerEncodeCmd)
	markerCmd.AddCommand(markerDecodeCmd)
	markerEncodeCmd.Flags().Bool("padded", false, "Wrap key characters in zero-width joiners")
}

func runMarkerEncode(cmd *cobra.Command, args []string) error {
	padded, _ := cmd.Flags().GetBool("padded")
	text := ""
	if len(args) == 2 {
		text = args[1]
	}

	encode := marker.Encode
	if padded {
		encode = marker.EncodePadded
	}
	encoded, err := encode(args[0], text)
	if err != nil {
		return err
	}
	result := output.NewMarkerResult(encoded)
	result.Encoded = encoded
	return output.Fprint(cmd.OutOrStdout(), result)
}

func runMarkerDecode(cmd *cobra.Command, args []string) error {
	var text string
	if len(args) == 1 {
		text = args[0]
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}
	return output.Fprint(cmd.OutOrStdout(), output.NewMarkerResult(text))
}
