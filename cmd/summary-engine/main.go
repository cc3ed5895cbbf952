// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the summary-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/summary-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the summary-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "summary-engine",
	Short: "Evidence-grounded lay summaries for scientific documents",
	Long: `summary-engine turns a plain-text scientific document into a lay summary
whose every sentence cites the passages that support it. The document is
split into sentence-aligned passages, the most abstract-relevant passages
are ranked into an evidence pool, a generative model drafts the summary,
and each drafted sentence is verified against its cited evidence and
rewritten when unsupported.

The main surface is the summarize subcommand; chunk exposes the passage
splitter for inspection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file can provide DEEPINFRA_API_KEY in development setups.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./summary-engine.yaml or ~/.config/summary-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("summary-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "summary-engine"))
		}
	}

	viper.SetEnvPrefix("SUMMARY_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
