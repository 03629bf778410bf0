package cli

import (
	"github.com/mgpai22/lekh/internal/config"
	ffmpegbin "github.com/mgpai22/lekh/internal/ffmpeg"
	"github.com/mgpai22/lekh/internal/video"
	"github.com/spf13/viper"
)

// swapped in tests
var newProcessor = func() (video.Processor, error) {
	paths, err := ffmpegbin.Locate(ffmpegbin.BinaryPaths{
		FFmpeg:  viper.GetString(config.FFmpegPath),
		FFprobe: viper.GetString(config.FFprobePath),
	})
	if err != nil {
		return nil, err
	}
	return video.NewProcessor(paths), nil
}
