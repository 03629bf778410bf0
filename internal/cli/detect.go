package cli

import (
	"errors"
	"fmt"

	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect [subtitle_file...]",
	Short: "Report the format of subtitle files",
	Long: `Detect the format of one or more subtitle files without converting them.

Formats are tried in the configured order (subtitle.parsers); the first
parser that accepts the file wins.

Examples:
  lekh detect movie.smi
  lekh detect *.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	var failed int
	for _, path := range args {
		sub, err := loadSubtitle(path)
		if errors.Is(err, subtitle.ErrUnrecognized) {
			fmt.Fprintf(out, "%s: unrecognized\n", path)
			failed++
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: %s (%d components)\n", path, sub.Format, len(sub.Components))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be loaded", failed, len(args))
	}
	return nil
}
