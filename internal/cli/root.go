package cli

import (
	"github.com/mgpai22/lekh/internal/config"
	"github.com/mgpai22/lekh/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "lekh",
	Short: "Subtitle toolkit for SAMI, SubRip, MicroDVD and TMPlayer files",
	Long: `Lekh is a CLI tool that reads subtitle files in SAMI, SubRip, WebVTT,
ASS, MicroDVD and TMPlayer formats.

It detects formats, converts between them, translates captions with AI
providers and extracts text subtitles embedded in video files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)
		if err := config.Setup(configPath); err != nil {
			return err
		}
		return viper.BindPFlag(
			config.SubtitleEncoding,
			cmd.Root().PersistentFlags().Lookup("encoding"),
		)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default is $XDG_CONFIG_HOME/lekh/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Component language label (e.g., KRCC, ENCC, en)")
	rootCmd.PersistentFlags().
		StringP("encoding", "e", "", "Input character encoding (e.g., euc-kr, windows-1252)")
}
