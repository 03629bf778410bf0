package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/filesystem"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/mgpai22/lekh/internal/video"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract an embedded subtitle stream from a video file",
	Long: `Extract a text subtitle stream from a video file and save it as a
subtitle file.

The stream is converted to SubRip by ffmpeg, parsed, and written in the
requested format. Bitmap streams (PGS, VobSub) cannot be extracted.

Examples:
  lekh extract movie.mkv
  lekh extract movie.mkv --stream 1 -o movie.en.vtt
  lekh extract movie.mkv -l eng --to sami`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		IntP("stream", "s", -1, "Subtitle stream index (see lekh streams); defaults to the first text stream")
	extractCmd.Flags().
		String("to", "", "Output format (srt, vtt, ass, sami)")
}

// pickStream chooses the stream to extract from --stream or --language.
func pickStream(streams []video.Stream, index int, language string) (video.Stream, error) {
	if len(streams) == 0 {
		return video.Stream{}, fmt.Errorf("video has no subtitle streams")
	}

	var (
		stream video.Stream
		ok     bool
	)
	switch {
	case index >= 0:
		stream, ok = lo.Find(streams, func(s video.Stream) bool {
			return s.SubtitleIndex == index
		})
		if !ok {
			return video.Stream{}, fmt.Errorf(
				"subtitle stream %d not found: video has %d subtitle streams",
				index,
				len(streams),
			)
		}
	case language != "":
		stream, ok = lo.Find(streams, func(s video.Stream) bool {
			return s.IsText() && strings.EqualFold(s.Language, language)
		})
		if !ok {
			return video.Stream{}, fmt.Errorf("no text subtitle stream in language %q", language)
		}
	default:
		stream, ok = lo.Find(streams, video.Stream.IsText)
		if !ok {
			return video.Stream{}, video.ErrBitmapSubtitle
		}
	}

	if !stream.IsText() {
		return video.Stream{}, fmt.Errorf("stream %d (%s): %w", stream.SubtitleIndex, stream.Codec, video.ErrBitmapSubtitle)
	}
	return stream, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	index, _ := cmd.Flags().GetInt("stream")
	language, _ := cmd.Flags().GetString("language")
	to, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	format, err := outputFormat(to, outputPath)
	if err != nil {
		return err
	}

	processor, err := newProcessor()
	if err != nil {
		return err
	}

	streams, err := processor.Streams(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("failed to list streams: %w", err)
	}
	stream, err := pickStream(streams, index, language)
	if err != nil {
		return err
	}

	if outputPath == "" {
		outputPath = derivedPath(videoPath, stream.Language, format)
	}

	logger.Infow("Extracting subtitle stream",
		"video", videoPath,
		"output", outputPath,
		"stream", stream.SubtitleIndex,
		"codec", stream.Codec,
		"language", stream.Language,
	)

	data, err := processor.ExtractSubtitle(ctx, videoPath, stream.SubtitleIndex)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	loader, err := config.Loader()
	if err != nil {
		return err
	}
	loader.Logger = logger.SugaredLogger
	loader.Encoding = "utf-8"
	sub, err := loader.Load(videoPath+".srt", data)
	if err != nil {
		return fmt.Errorf("failed to parse extracted subtitles: %w", err)
	}
	if len(sub.Components) > 0 && stream.Language != "" {
		sub.Components[0].Language = stream.Language
	}

	writer, err := subtitle.NewWriter(format, filesystem.API(), subtitle.TrackOptions{
		Predictor: config.Predictor(),
	})
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}
	if err := writer.Write(sub, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles extracted successfully: %s\n", absOutput)
	return nil
}
