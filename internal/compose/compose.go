// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose builds the generation request for a lay summary and
// parses the response into a structured, citation-annotated draft.
package compose

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	composeTemperature = 0.2
	composeMaxTokens   = 1200

	// abstractLimit caps the abstract embedded in the user prompt, in bytes.
	abstractLimit = 4000

	// evidenceLimit caps each rendered evidence passage, in bytes.
	evidenceLimit = 800
)

// Generator produces chat completions. The pipeline never owns a network
// client; tests substitute a deterministic fake.
type Generator interface {
	Generate(ctx context.Context, messages []types.ChatMessage, temperature float64, maxTokens int) (string, error)
}

// Result carries the parsed draft together with the deterministic
// post-processing computed alongside it for the finalizer.
type Result struct {
	Draft       types.Draft
	Reading     types.ReadingMetrics
	Disclaimers []string
}

// Compose sends one generation request built from the abstract and the
// ranked evidence pool, then parses the response into a draft. Reading
// metrics are computed over the drafted summary prose and disclaimer
// triggers are scanned from the abstract; neither involves the generator.
func Compose(ctx context.Context, gen Generator, mode types.Mode, abstract string, evidence []types.Chunk) (Result, error) {
	prompt, err := renderUserPrompt(mode, abstract, evidence)
	if err != nil {
		return Result{}, fmt.Errorf("rendering prompt: %w", err)
	}

	messages := []types.ChatMessage{
		{Role: types.RoleSystem, Content: systemPrompt},
		{Role: types.RoleUser, Content: prompt},
	}

	raw, err := gen.Generate(ctx, messages, composeTemperature, composeMaxTokens)
	if err != nil {
		return Result{}, fmt.Errorf("generating draft: %w", err)
	}

	draft, err := parseDraft(raw, mode)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Draft:       draft,
		Reading:     Readability(draft.LaySummary),
		Disclaimers: DetectDisclaimers(abstract),
	}, nil
}

// truncateBytes caps s at n bytes, backing off to a UTF-8 boundary so the
// cut never splits a multi-byte character.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
