package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/lekh/internal/ffmpeg"
)

// returned when a stream holds bitmap subtitles that cannot become text
var ErrBitmapSubtitle = errors.New("bitmap subtitle streams cannot be converted to text")

// subtitle stream inside a media container
type Stream struct {
	Index         int // absolute stream index
	SubtitleIndex int // position among subtitle streams, used for 0:s:N
	Codec         string
	Language      string
	Title         string
	Default       bool
	Forced        bool
}

// reports whether ffmpeg can turn the stream into SRT text
func (s Stream) IsText() bool {
	switch s.Codec {
	case "hdmv_pgs_subtitle", "dvd_subtitle", "dvb_subtitle", "xsub":
		return false
	}
	return true
}

// defines interface for reading subtitles out of media files
type Processor interface {
	// lists subtitle streams
	Streams(ctx context.Context, videoPath string) ([]Stream, error)

	// converts one subtitle stream to SRT and returns its bytes
	ExtractSubtitle(
		ctx context.Context,
		videoPath string,
		subtitleIndex int,
	) ([]byte, error)
}

// default implementation using ffmpeg and ffprobe
type DefaultProcessor struct {
	paths ffmpegbin.BinaryPaths
}

func NewProcessor(paths ffmpegbin.BinaryPaths) *DefaultProcessor {
	return &DefaultProcessor{paths: paths}
}

// lists subtitle streams
func (p *DefaultProcessor) Streams(
	ctx context.Context,
	videoPath string,
) ([]Stream, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	cmd := exec.CommandContext(ctx, p.paths.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseStreams(out.String())
}

func parseStreams(probe string) ([]Stream, error) {
	if !gjson.Valid(probe) {
		return nil, fmt.Errorf("failed to parse ffprobe output")
	}

	var streams []Stream
	for _, s := range gjson.Get(probe, "streams").Array() {
		if kind := s.Get("codec_type"); kind.Exists() && kind.String() != "subtitle" {
			continue
		}
		streams = append(streams, Stream{
			Index:         int(s.Get("index").Int()),
			SubtitleIndex: len(streams),
			Codec:         s.Get("codec_name").String(),
			Language:      s.Get("tags.language").String(),
			Title:         s.Get("tags.title").String(),
			Default:       s.Get("disposition.default").Int() == 1,
			Forced:        s.Get("disposition.forced").Int() == 1,
		})
	}
	return streams, nil
}

// extractArgs builds the ffmpeg command line for one subtitle stream.
func extractArgs(videoPath string, subtitleIndex int) []string {
	return ffmpeg.Input(videoPath).
		Output("pipe:", ffmpeg.KwArgs{
			"map":      fmt.Sprintf("0:s:%d", subtitleIndex),
			"f":        "srt",
			"loglevel": "error",
		}).
		GetArgs()
}

// converts one subtitle stream to SRT and returns its bytes
func (p *DefaultProcessor) ExtractSubtitle(
	ctx context.Context,
	videoPath string,
	subtitleIndex int,
) ([]byte, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}
	if subtitleIndex < 0 {
		return nil, fmt.Errorf("invalid subtitle stream index %d", subtitleIndex)
	}

	cmd := exec.CommandContext(ctx, p.paths.FFmpeg, extractArgs(videoPath, subtitleIndex)...)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("ffmpeg extraction failed: %w", err)
		}
		return nil, fmt.Errorf("ffmpeg extraction failed: %w: %s", err, msg)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("subtitle stream %d produced no text", subtitleIndex)
	}

	return out.Bytes(), nil
}
