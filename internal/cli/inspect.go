package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgpai22/lekh/internal/subtitle"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [subtitle_file]",
	Short: "Show the components and captions of a subtitle file",
	Long: `Parse a subtitle file and print its components with every caption key.

Keys are milliseconds for time based components and frame numbers for frame
based MicroDVD files. An entry without paragraphs marks the end of the
previous caption.

Examples:
  lekh inspect movie.smi
  lekh inspect movie.sub --format json
  lekh inspect movie.txt --format yaml --captions=false`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().
		StringP("format", "f", "text", "Output format (text, json, yaml)")
	inspectCmd.Flags().
		Bool("captions", true, "Include caption entries")
}

type captionReport struct {
	Key        int      `json:"key" yaml:"key"`
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
}

type componentReport struct {
	Language string          `json:"language" yaml:"language"`
	Mode     string          `json:"mode" yaml:"mode"`
	Keys     int             `json:"keys" yaml:"keys"`
	Cues     int             `json:"cues" yaml:"cues"`
	Captions []captionReport `json:"captions,omitempty" yaml:"captions,omitempty"`
}

type subtitleReport struct {
	Path       string            `json:"path" yaml:"path"`
	Format     subtitle.Format   `json:"format" yaml:"format"`
	Components []componentReport `json:"components" yaml:"components"`
}

func buildReport(sub *subtitle.Subtitle, withCaptions bool) subtitleReport {
	report := subtitleReport{
		Path:       sub.Path,
		Format:     sub.Format,
		Components: []componentReport{},
	}
	for _, comp := range sub.Components {
		cr := componentReport{
			Language: comp.Language,
			Mode:     comp.Mode.String(),
			Keys:     comp.Len(),
			Cues:     len(comp.Cues()),
		}
		if withCaptions {
			for _, key := range comp.Keys() {
				paragraphs, _ := comp.At(key)
				if paragraphs == nil {
					paragraphs = []string{}
				}
				cr.Captions = append(cr.Captions, captionReport{
					Key:        key,
					Paragraphs: paragraphs,
				})
			}
		}
		report.Components = append(report.Components, cr)
	}
	return report
}

func writeReport(w io.Writer, report subtitleReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(w, "%s (%s)\n", report.Path, report.Format)
		for i, comp := range report.Components {
			label := comp.Language
			if label == "" {
				label = "(unlabelled)"
			}
			fmt.Fprintf(w, "  [%d] %s: %s keys, %d entries, %d captions\n",
				i, label, comp.Mode, comp.Keys, comp.Cues)
			for _, c := range comp.Captions {
				if len(c.Paragraphs) == 0 {
					fmt.Fprintf(w, "      %8d  (end)\n", c.Key)
					continue
				}
				for _, p := range c.Paragraphs {
					fmt.Fprintf(w, "      %8d  %s\n", c.Key, p)
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid format %q: supported formats are text, json, yaml", format)
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	withCaptions, _ := cmd.Flags().GetBool("captions")

	sub, err := loadSubtitle(args[0])
	if err != nil {
		return err
	}

	logger.Debugw("Inspecting subtitle",
		"path", sub.Path,
		"format", sub.Format,
		"components", len(sub.Components),
	)

	return writeReport(cmd.OutOrStdout(), buildReport(sub, withCaptions), format)
}
