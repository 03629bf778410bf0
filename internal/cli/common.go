package cli

import (
	"fmt"
	"strings"

	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loads a subtitle file with the configured parsers and encodings
func loadSubtitle(path string) (*subtitle.Subtitle, error) {
	loader, err := config.Loader()
	if err != nil {
		return nil, err
	}
	loader.Logger = logger.SugaredLogger
	return loader.Open(path)
}

// adds the flags shared by commands that read one component
func addTrackFlags(cmd *cobra.Command) {
	cmd.Flags().
		IntP("component", "c", 0, "Component index when --language is not given")
	cmd.Flags().
		Float64("fps", 0, "Frame rate for frame based MicroDVD files (default from config)")
}

// componentIndex resolves --language or --component to a component index.
func componentIndex(cmd *cobra.Command, sub *subtitle.Subtitle) (int, error) {
	if len(sub.Components) == 0 {
		return 0, fmt.Errorf("%s: subtitle has no components", sub.Path)
	}

	language, _ := cmd.Flags().GetString("language")
	if language = strings.TrimSpace(language); language != "" {
		_, idx, ok := lo.FindIndexOf(sub.Components, func(c *subtitle.Component) bool {
			return strings.EqualFold(c.Language, language)
		})
		if !ok {
			return 0, fmt.Errorf(
				"no component labelled %q: available are %s",
				language,
				strings.Join(componentLabels(sub), ", "),
			)
		}
		return idx, nil
	}

	idx, _ := cmd.Flags().GetInt("component")
	if idx < 0 || idx >= len(sub.Components) {
		return 0, fmt.Errorf(
			"component index %d out of range: subtitle has %d components",
			idx,
			len(sub.Components),
		)
	}
	return idx, nil
}

// trackOptions builds writer options from the command flags and config.
func trackOptions(cmd *cobra.Command, sub *subtitle.Subtitle) (subtitle.TrackOptions, error) {
	idx, err := componentIndex(cmd, sub)
	if err != nil {
		return subtitle.TrackOptions{}, err
	}
	fps, _ := cmd.Flags().GetFloat64("fps")
	if fps <= 0 {
		fps = viper.GetFloat64(config.SubtitleFPS)
	}
	return subtitle.TrackOptions{
		Component: idx,
		FPS:       fps,
		Predictor: config.Predictor(),
	}, nil
}

func componentLabels(sub *subtitle.Subtitle) []string {
	return lo.Map(sub.Components, func(c *subtitle.Component, i int) string {
		if c.Language == "" {
			return fmt.Sprintf("#%d", i)
		}
		return c.Language
	})
}
