package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/funnelform/leadlens/internal/dataset"
	"github.com/funnelform/leadlens/internal/insights"
	"github.com/funnelform/leadlens/internal/pipeline"
	"github.com/funnelform/leadlens/internal/propensity"
	"github.com/funnelform/leadlens/internal/utils"
)

var (
	anaOutputPath string
	anaDelimiter  string
	anaSheetName  string
	anaSheetIndex int
	anaTop        int
	anaNoModel    bool
	anaJSON       bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a spreadsheet and report analytics, propensity scores, and insights",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var delimiter rune
		switch anaDelimiter {
		case "":
		case ",":
			delimiter = ','
		case ";":
			delimiter = ';'
		case "\t", "tab":
			delimiter = '\t'
		default:
			return fmt.Errorf("unsupported --delimiter: %s", anaDelimiter)
		}

		var table *dataset.Table
		var err error
		if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
			table, err = dataset.ReadXLSX(path, anaSheetName, anaSheetIndex)
		} else {
			table, err = dataset.ReadCSV(path, delimiter)
		}
		if err != nil {
			return err
		}

		top := anaTop
		if top == 0 && cfg != nil {
			top = cfg.TopCampaigns
		}
		opts := pipeline.Options{
			Source:       path,
			TopCampaigns: top,
			SkipModel:    anaNoModel,
			Generator:    newGenerator(),
		}
		if cfg != nil {
			opts.Training = propensity.Options{
				TestFraction: cfg.TrainTestFraction,
				Seed:         cfg.TrainSeed,
				MaxIter:      cfg.TrainMaxIter,
			}
		}
		out := pipeline.Run(cmd.Context(), table, opts)

		var rendered []byte
		if anaJSON {
			rendered, err = utils.PrettyJSON(out)
			if err != nil {
				return err
			}
		} else {
			rendered = []byte(out.Markdown())
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, rendered); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Println(string(rendered))
		return nil
	},
}

// newGenerator maps the configured provider to an insight generator. nil
// means template insights, which is also the silent fallback on any failure.
func newGenerator() insights.Generator {
	if cfg == nil {
		return nil
	}
	opts := insights.ClientOptions{
		Timeout:     time.Duration(cfg.HTTPTimeoutSec) * time.Second,
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond,
	}
	switch cfg.LLMProvider {
	case "anthropic":
		return insights.NewAnthropicWithOptions(cfg.AnthropicAPIKey, cfg.LLMModel, opts)
	case "openrouter":
		return insights.NewOpenRouterWithOptions(cfg.OpenRouterAPIKey, cfg.LLMModel, opts)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed from extension if omitted)")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 0, "campaign leaderboard length (default from config)")
	analyzeCmd.Flags().BoolVar(&anaNoModel, "no-model", false, "skip propensity modeling")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "emit the outcome as JSON instead of Markdown")
}
