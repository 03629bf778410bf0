// Package config wires viper to the lekh configuration file, LEKH_
// environment variables and the built in defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/lekh/internal/filesystem"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/spf13/viper"
)

const (
	AppName = "lekh"

	SubtitleEncoding         = "subtitle.encoding"
	SubtitleFallbackEncoding = "subtitle.fallback_encoding"
	SubtitleParsers          = "subtitle.parsers"
	SubtitleFPS              = "subtitle.fps"
	PredictPerChar           = "subtitle.predict.per_char"
	PredictMin               = "subtitle.predict.min"
	PredictMax               = "subtitle.predict.max"

	TranslateProvider    = "translate.provider"
	TranslateModel       = "translate.model"
	TranslateBatchSize   = "translate.batch_size"
	TranslateConcurrency = "translate.concurrency"

	FFmpegPath  = "ffmpeg.path"
	FFprobePath = "ffprobe.path"
)

// EnvKeyReplacer maps config keys to environment variable names.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Default holds the factory value of every key.
var Default = map[string]any{
	SubtitleEncoding:         "",
	SubtitleFallbackEncoding: "windows-1252",
	SubtitleParsers:          []string{"sami", "srt", "vtt", "ass", "microdvd", "tmplayer"},
	SubtitleFPS:              0.0,
	PredictPerChar:           80 * time.Millisecond,
	PredictMin:               1500 * time.Millisecond,
	PredictMax:               5 * time.Second,

	TranslateProvider:    "gemini",
	TranslateModel:       "",
	TranslateBatchSize:   50,
	TranslateConcurrency: 3,

	FFmpegPath:  "",
	FFprobePath: "",
}

// Dir returns the directory searched for config.yaml.
func Dir() string {
	if dir := os.Getenv("LEKH_CONFIG_DIR"); dir != "" {
		return dir
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, AppName)
}

// Setup loads defaults, environment bindings and the config file. An empty
// path searches Dir() for config.yaml; a missing file there is not an error.
func Setup(path string) error {
	viper.Reset()
	viper.SetFs(filesystem.API())
	viper.SetConfigType("yaml")
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.AddConfigPath(Dir())
	}

	viper.SetEnvPrefix(AppName)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.AutomaticEnv()

	viper.SetTypeByDefaultValue(true)
	for name, value := range Default {
		viper.SetDefault(name, value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Predictor builds the end time predictor for open ended captions.
func Predictor() subtitle.LengthPredictor {
	return subtitle.LengthPredictor{
		PerRune: viper.GetDuration(PredictPerChar),
		Min:     viper.GetDuration(PredictMin),
		Max:     viper.GetDuration(PredictMax),
	}
}

// Loader returns a subtitle loader configured from the current settings.
func Loader() (*subtitle.Loader, error) {
	parsers, err := subtitle.ParsersByName(viper.GetStringSlice(SubtitleParsers), Predictor())
	if err != nil {
		return nil, err
	}
	loader := subtitle.NewLoader(filesystem.API())
	loader.Parsers = parsers
	loader.Encoding = viper.GetString(SubtitleEncoding)
	loader.FallbackEncoding = viper.GetString(SubtitleFallbackEncoding)
	return loader, nil
}
