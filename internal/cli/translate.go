package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/filesystem"
	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/mgpai22/lekh/internal/translate"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate one component of a subtitle file to another language using AI.

Caption markup (italics, colors, line breaks) is kept around the translated
words. The translated captions keep the timing of the original ones.

The --overlay flag creates bilingual subtitles. SAMI output stores the
translation as a second language class; single track formats stack the
translated text above the original.

Examples:
  lekh translate movie.srt --target-language japanese
  lekh translate movie.smi -l KRCC --target-language en --overlay
  lekh translate movie.sub --fps 25 --target-language spanish -o translated.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		String("source-language", "", "Language of the original captions, passed to the model")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY env var)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", 0, "Number of captions per API request")
	translateCmd.Flags().
		String("to", "", "Output format (srt, vtt, ass, sami)")
	addTrackFlags(translateCmd)

	_ = translateCmd.MarkFlagRequired("target-language")
}

// flag value when set, otherwise the configured one
func stringSetting(cmd *cobra.Command, flag, key string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return viper.GetString(key)
}

func intSetting(cmd *cobra.Command, flag, key string) int {
	if v, _ := cmd.Flags().GetInt(flag); v != 0 {
		return v
	}
	return viper.GetInt(key)
}

// translatedFormat is the output format for a translation of sub.
func translatedFormat(to, outputPath string, sub *subtitle.Subtitle) (subtitle.Format, error) {
	if to != "" || outputPath != "" {
		return outputFormat(to, outputPath)
	}
	switch sub.Format {
	case subtitle.FormatSRT, subtitle.FormatVTT, subtitle.FormatASS, subtitle.FormatSAMI:
		return sub.Format, nil
	default:
		return subtitle.FormatSRT, nil
	}
}

// assembles the subtitle that gets written
func translatedSubtitle(
	sub *subtitle.Subtitle,
	original, translated *subtitle.Component,
	format subtitle.Format,
	overlay bool,
) *subtitle.Subtitle {
	out := &subtitle.Subtitle{Path: sub.Path, Format: sub.Format}
	switch {
	case !overlay:
		out.Components = []*subtitle.Component{translated}
	case format == subtitle.FormatSAMI:
		out.Components = []*subtitle.Component{original, translated}
	default:
		out.Components = []*subtitle.Component{translated.Merge(original)}
	}
	return out
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	sourceLang, _ := cmd.Flags().GetString("source-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	to, _ := cmd.Flags().GetString("to")
	outputPath, _ := cmd.Flags().GetString("output")

	model := stringSetting(cmd, "model", config.TranslateModel)
	provider := translate.Provider(stringSetting(cmd, "provider", config.TranslateProvider))
	concurrency := intSetting(cmd, "concurrency", config.TranslateConcurrency)
	batchSize := intSetting(cmd, "batch-size", config.TranslateBatchSize)

	if targetLang = strings.TrimSpace(targetLang); targetLang == "" {
		return fmt.Errorf("target language is required")
	}
	if sourceLang != "" && strings.EqualFold(strings.TrimSpace(sourceLang), targetLang) {
		return fmt.Errorf(
			"source language %q and target language %q cannot be the same",
			sourceLang,
			targetLang,
		)
	}

	if !isKnownProvider(provider) {
		return fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}
	if model != "" && !modelOverride && !isValidModel(provider, model) {
		return fmt.Errorf(
			"unsupported %s model %q: valid models are %s (use --model-override to bypass)",
			provider,
			model,
			strings.Join(providerModels[provider], ", "),
		)
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	logger.Infow("Parsing subtitle file", "input", subtitlePath)
	sub, err := loadSubtitle(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}

	track, err := trackOptions(cmd, sub)
	if err != nil {
		return err
	}
	original := sub.Components[track.Component]
	if len(original.Cues()) == 0 {
		return fmt.Errorf("subtitle component contains no captions")
	}
	if original.Mode == subtitle.TimeModeFrame && !(track.FPS > 0) {
		return fmt.Errorf("%w: set --fps or subtitle.fps before translating", subtitle.ErrFrameMode)
	}

	format, err := translatedFormat(to, outputPath, sub)
	if err != nil {
		return err
	}
	if outputPath == "" {
		tag := targetLang
		if overlay {
			tag += ".overlay"
		}
		outputPath = derivedPath(subtitlePath, tag, format)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"format", sub.Format,
		"component", original.Language,
		"target_language", targetLang,
		"overlay", overlay,
		"provider", provider,
		"model", model,
	)

	if sourceLang == "" {
		sourceLang = original.Language
	}
	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  sourceLang,
		TargetLanguage: targetLang,
		Model:          model,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	if ct, ok := translator.(*translate.CaptionTranslator); ok {
		model = ct.Model()
	}
	logger.Infow("Translating subtitles",
		"keys", original.Len(),
		"model", model,
		"concurrency", concurrency,
	)

	translated, err := translate.Component(ctx, translator, original, targetLang, concurrency)
	if err != nil {
		return err
	}

	logger.Infow("Translation complete", "keys", translated.Len())

	out := translatedSubtitle(sub, original, translated, format, overlay)
	writer, err := subtitle.NewWriter(format, filesystem.API(), subtitle.TrackOptions{
		FPS:       track.FPS,
		Predictor: track.Predictor,
	})
	if err != nil {
		return fmt.Errorf("failed to create subtitle writer: %w", err)
	}

	logger.Infow("Writing output file")
	if err := writer.Write(out, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	w := cmd.OutOrStdout()
	absOutput, _ := filepath.Abs(outputPath)
	fmt.Fprintf(w, "Subtitles translated successfully: %s\n", absOutput)
	fmt.Fprintf(w, "  Captions: %d\n", len(translated.Cues()))
	fmt.Fprintf(w, "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(w, "  Mode: bilingual overlay\n")
	}

	return nil
}
