package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var streamsCmd = &cobra.Command{
	Use:   "streams [video_file]",
	Short: "List subtitle streams embedded in a video file",
	Long: `List the subtitle streams of a video file using ffprobe.

The index in the first column is what lekh extract --stream expects.

Examples:
  lekh streams movie.mkv`,
	Args: cobra.ExactArgs(1),
	RunE: runStreams,
}

func init() {
	rootCmd.AddCommand(streamsCmd)
}

func runStreams(cmd *cobra.Command, args []string) error {
	processor, err := newProcessor()
	if err != nil {
		return err
	}

	streams, err := processor.Streams(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to list streams: %w", err)
	}
	if len(streams) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no subtitle streams\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STREAM\tCODEC\tLANGUAGE\tTITLE\tFLAGS")
	for _, s := range streams {
		var flags string
		if s.Default {
			flags += "default "
		}
		if s.Forced {
			flags += "forced "
		}
		if !s.IsText() {
			flags += "bitmap"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			s.SubtitleIndex, s.Codec, s.Language, s.Title, flags)
	}
	return tw.Flush()
}
