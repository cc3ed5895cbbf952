// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/summary-engine/internal/llm"
	"github.com/pdiddy/summary-engine/internal/pipeline"
	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "summary-engine/0.1"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize [file]",
	Short: "Generate a citation-grounded lay summary for a document",
	Long: `Summarize chunks a plain-text scientific document, ranks the passages
most relevant to its opening abstract into an evidence pool, drafts a lay
summary with a generative model, verifies every drafted sentence against
its cited passages, and writes the final payload as JSON.

The document is read from the given file, or from stdin when the file
is "-". Progress goes to stderr, the payload to stdout or --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().String("mode", "micro", "summary mode: micro or extended")
	summarizeCmd.Flags().String("language", "", `payload language tag (default "en")`)
	summarizeCmd.Flags().Int("window", 0, "passage window in bytes (default 1200)")
	summarizeCmd.Flags().Int("overlap", 0, "passage overlap in bytes (default 200)")
	summarizeCmd.Flags().Int("top-k", 0, "evidence passages ranked into the prompt (default 6)")
	summarizeCmd.Flags().Int("concurrency", 0, "parallel sentence verifications (default 4)")
	summarizeCmd.Flags().Bool("keep-going", false, "keep unverifiable sentences instead of failing")
	summarizeCmd.Flags().String("model", "", "chat model identifier (default "+llm.DefaultModel+")")
	summarizeCmd.Flags().String("base-url", "", "OpenAI-compatible API base URL (default DeepInfra)")
	summarizeCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 120s)")
	summarizeCmd.Flags().Int("max-retries", 0, "retries on rate-limited requests (default 5)")
	summarizeCmd.Flags().String("cache", "", "SQLite response cache path (caching off when empty)")
	summarizeCmd.Flags().String("format", "json", "payload format: json or yaml")
	summarizeCmd.Flags().String("out", "", "write the payload to this file instead of stdout")

	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
	}

	cfg := pipelineConfigFromFlags(cmd)

	apiKey := resolveAPIKey()
	if apiKey == "" {
		return fmt.Errorf("no API key: set DEEPINFRA_API_KEY or add .secrets/deepinfra-api-key")
	}

	backend := &llm.Backend{
		APIKey:     apiKey,
		Model:      cfg.LLM.Model,
		BaseURL:    cfg.LLM.BaseURL,
		UserAgent:  cfg.LLM.UserAgent,
		MaxRetries: cfg.LLM.MaxRetries,
		Client:     &http.Client{Timeout: cfg.LLM.Timeout},
	}
	if cfg.LLM.CachePath != "" {
		cache, err := llm.OpenCache(cfg.LLM.CachePath)
		if err != nil {
			return err
		}
		defer cache.Close()
		backend.Cache = cache
	}

	caps := pipeline.Capabilities{
		Generator:  backend,
		Entailment: backend,
		Rewriter:   backend,
	}

	payload, err := pipeline.Run(context.Background(), text, caps, cfg, os.Stderr)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	return writePayload(payload, format, outPath)
}

// pipelineConfigFromFlags assembles the pipeline configuration from the
// summarize flags.
func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	mode, _ := cmd.Flags().GetString("mode")
	language, _ := cmd.Flags().GetString("language")
	window, _ := cmd.Flags().GetInt("window")
	overlap, _ := cmd.Flags().GetInt("overlap")
	topK, _ := cmd.Flags().GetInt("top-k")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	keepGoing, _ := cmd.Flags().GetBool("keep-going")
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	cachePath, _ := cmd.Flags().GetString("cache")

	return types.PipelineConfig{
		Mode:     types.Mode(mode),
		Language: language,
		Chunking: types.ChunkingConfig{Window: window, Overlap: overlap},
		Ranking:  types.RankingConfig{TopK: topK},
		Verification: types.VerificationConfig{
			Concurrency:     concurrency,
			ContinueOnError: keepGoing,
		},
		LLM: types.LLMConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Model:      model,
			BaseURL:    baseURL,
			MaxRetries: maxRetries,
			CachePath:  cachePath,
		},
	}
}

// resolveAPIKey finds the chat API key: the deepinfra-api-key secret first,
// then the DEEPINFRA_API_KEY environment variable (which a .env file may
// provide).
func resolveAPIKey() string {
	if key := secretDefault("deepinfra-api-key", ""); key != "" {
		return key
	}
	return os.Getenv("DEEPINFRA_API_KEY")
}

// readDocument reads the document from path, or from stdin when path is "-".
func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading document: %w", err)
	}
	return string(data), nil
}

// writePayload writes the payload to stdout or to path in the given format.
func writePayload(payload types.SummaryPayload, format, path string) error {
	out := io.Writer(os.Stdout)
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "yaml":
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = out.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}
