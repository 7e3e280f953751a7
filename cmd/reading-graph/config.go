package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Get or set repository configuration",
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the effective configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in .readinggraph/config.yaml.

Keys:
  ollama_url    Base URL of the Ollama server
  ollama_model  Model used for theme analysis
  rate_limit    Analysis calls per second during bulk enrichment
  listen_addr   Address the serve command binds to`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// ConfigResponse is the JSON form of the effective configuration.
type ConfigResponse struct {
	OllamaURL   string  `json:"ollama_url,omitempty"`
	OllamaModel string  `json:"ollama_model,omitempty"`
	RateLimit   float64 `json:"rate_limit"`
	ListenAddr  string  `json:"listen_addr"`
}

// ConfigUpdateResponse is the response for config set.
type ConfigUpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	if humanOutput {
		outputHuman("ollama_url:   %s\n", cfg.OllamaURL)
		outputHuman("ollama_model: %s\n", cfg.OllamaModel)
		outputHuman("rate_limit:   %g\n", cfg.EnrichRate())
		outputHuman("listen_addr:  %s\n", cfg.Addr())
		return nil
	}
	return outputJSON(ConfigResponse{
		OllamaURL:   cfg.OllamaURL,
		OllamaModel: cfg.OllamaModel,
		RateLimit:   cfg.EnrichRate(),
		ListenAddr:  cfg.Addr(),
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)

	key, value := args[0], args[1]
	switch key {
	case "ollama_url":
		cfg.OllamaURL = value
	case "ollama_model":
		cfg.OllamaModel = value
	case "rate_limit":
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate <= 0 {
			exitWithError(ExitDataError, "rate_limit must be a positive number, got %q", value)
		}
		cfg.RateLimit = rate
	case "listen_addr":
		cfg.ListenAddr = value
	default:
		exitWithError(ExitDataError, "unknown config key %q", key)
	}

	if err := cfg.Save(repoRoot); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		outputHuman("Set %s = %s\n", key, value)
		return nil
	}
	return outputJSON(ConfigUpdateResponse{Status: "updated", Key: key, Value: value})
}
