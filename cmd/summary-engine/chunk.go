package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/summary-engine/internal/chunk"
	"github.com/pdiddy/summary-engine/internal/rank"
	"github.com/pdiddy/summary-engine/pkg/types"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Split a document into passages, optionally ranked by a query",
	Long: `Chunk splits a plain-text document into the sentence-aligned passages
the summarize pipeline works with, without calling any model. With --query,
passages are BM25-ranked against the query and only the top K are shown.

Useful for tuning --window and --overlap before a real run.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().Int("window", 0, "passage window in bytes (default 1200)")
	chunkCmd.Flags().Int("overlap", 0, "passage overlap in bytes (default 200)")
	chunkCmd.Flags().String("query", "", "rank passages against this query")
	chunkCmd.Flags().Int("top-k", 0, "passages to keep when ranking (default 6)")
	chunkCmd.Flags().Bool("json", false, "output passages as JSON")

	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return err
	}

	window, _ := cmd.Flags().GetInt("window")
	overlap, _ := cmd.Flags().GetInt("overlap")

	chunks, err := chunk.Split(text, types.ChunkingConfig{Window: window, Overlap: overlap})
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	if query != "" {
		topK, _ := cmd.Flags().GetInt("top-k")
		if topK == 0 {
			topK = rank.DefaultTopK
		}
		chunks = rank.TopK(chunks, query, topK, types.RankingConfig{})
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatChunkOutput(chunks, jsonOutput)
}

func formatChunkOutput(chunks []types.Chunk, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(chunks)
	}

	if len(chunks) == 0 {
		fmt.Println("No passages.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-7s  %-7s  %s\n", "ID", "Start", "End", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, c := range chunks {
		text := strings.ReplaceAll(c.Text, "\n", " ")
		if len(text) > 80 {
			text = text[:77] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-7d  %-7d  %s\n", c.ID, c.Start, c.End, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d passages\n", len(chunks))
	return nil
}
