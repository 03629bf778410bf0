package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/lekh/internal/filesystem"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert [subtitle_file]",
	Short: "Convert a subtitle file to another format",
	Long: `Convert a subtitle file to SRT, WebVTT, ASS or SAMI.

SRT, WebVTT and ASS hold a single track: pick it with --language or
--component. SAMI output keeps every component as its own class. Captions
without an end time get one predicted from their length.

Examples:
  lekh convert movie.smi -o movie.srt --language ENCC
  lekh convert movie.sub -o movie.vtt --fps 23.976
  lekh convert movie.txt --to sami`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().
		String("to", "", "Output format (srt, vtt, ass, sami); defaults to the output extension")
	addTrackFlags(convertCmd)
}

// outputFormat picks the target format from --to or the output path.
func outputFormat(to, outputPath string) (subtitle.Format, error) {
	if to != "" {
		switch f := subtitle.Format(strings.ToLower(to)); f {
		case subtitle.FormatSRT, subtitle.FormatVTT, subtitle.FormatASS, subtitle.FormatSAMI:
			return f, nil
		case "smi":
			return subtitle.FormatSAMI, nil
		default:
			return "", fmt.Errorf("invalid format %q: supported formats are srt, vtt, ass, sami", to)
		}
	}
	if outputPath == "" {
		return subtitle.FormatSRT, nil
	}
	return subtitle.GetFormatFromExtension(outputPath), nil
}

// derivedPath replaces the extension of input, adding tag before it.
func derivedPath(input, tag string, format subtitle.Format) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if tag != "" {
		base += "." + tag
	}
	return base + subtitle.GetExtensionForFormat(format)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	to, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := outputFormat(to, outputPath)
	if err != nil {
		return err
	}
	if outputPath == "" {
		outputPath = derivedPath(inputPath, "", format)
	}
	if filepath.Clean(outputPath) == filepath.Clean(inputPath) {
		return fmt.Errorf("output path %s would overwrite the input", outputPath)
	}

	sub, err := loadSubtitle(inputPath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if sub.IsEmpty() {
		return fmt.Errorf("subtitle file contains no captions")
	}

	track, err := trackOptions(cmd, sub)
	if err != nil {
		return err
	}

	logger.Infow("Converting subtitle",
		"input", inputPath,
		"output", outputPath,
		"from", sub.Format,
		"to", format,
		"component", track.Component,
	)

	writer, err := subtitle.NewWriter(format, filesystem.API(), track)
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(sub, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles converted successfully: %s\n", absOutput)
	return nil
}
