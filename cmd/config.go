package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/funnelform/leadlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set LeadLens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("llm_provider: %s\n", cfg.LLMProvider)
		if cfg.LLMModel != "" {
			fmt.Printf("llm_model: %s\n", cfg.LLMModel)
		}
		fmt.Printf("anthropic_api_key: %s\n", mask(cfg.AnthropicAPIKey))
		fmt.Printf("openrouter_api_key: %s\n", mask(cfg.OpenRouterAPIKey))
		fmt.Printf("top_campaigns: %d\n", cfg.TopCampaigns)
		fmt.Printf("train_test_fraction: %.3f\n", cfg.TrainTestFraction)
		fmt.Printf("train_seed: %d\n", cfg.TrainSeed)
		fmt.Printf("train_max_iter: %d\n", cfg.TrainMaxIter)
		fmt.Printf("addr: %s\n", cfg.Addr)
		fmt.Printf("max_upload_bytes: %d\n", cfg.MaxUploadBytes)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "llm_provider":
			switch val {
			case "none", "anthropic", "openrouter":
				cfg.LLMProvider = val
			default:
				return fmt.Errorf("invalid llm_provider: %s (use none, anthropic or openrouter)", val)
			}
		case "llm_model":
			cfg.LLMModel = val
		case "anthropic_api_key":
			cfg.AnthropicAPIKey = val
		case "openrouter_api_key":
			cfg.OpenRouterAPIKey = val
		case "top_campaigns":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_campaigns: %v", val)
			}
			cfg.TopCampaigns = i
		case "train_test_fraction":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid fraction for train_test_fraction: %v", val)
			}
			cfg.TrainTestFraction = f
		case "train_seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for train_seed: %w", err)
			}
			cfg.TrainSeed = i
		case "train_max_iter":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for train_max_iter: %v", val)
			}
			cfg.TrainMaxIter = i
		case "addr":
			cfg.Addr = val
		case "max_upload_bytes":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_upload_bytes: %v", val)
			}
			cfg.MaxUploadBytes = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
