// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the summarization stages end to end: chunk, rank,
// compose, verify, finalize.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pdiddy/summary-engine/internal/chunk"
	"github.com/pdiddy/summary-engine/internal/compose"
	"github.com/pdiddy/summary-engine/internal/finalize"
	"github.com/pdiddy/summary-engine/internal/rank"
	"github.com/pdiddy/summary-engine/internal/verify"
	"github.com/pdiddy/summary-engine/pkg/types"
)

// abstractLimit caps the leading slice of the document used as both the
// ranking query and the prompt abstract, in bytes.
const abstractLimit = 2000

// Capabilities bundles the generative functions the pipeline consumes. The
// pipeline never constructs a network client; callers inject one client
// for all three or separate fakes in tests.
type Capabilities struct {
	Generator  compose.Generator
	Entailment verify.EntailmentChecker
	Rewriter   verify.Rewriter
}

// Run summarizes one document. Progress lines go to w; the returned
// payload is complete or err is non-nil, never a partial mix. Every error
// carries the run id.
func Run(ctx context.Context, text string, caps Capabilities, cfg types.PipelineConfig, w io.Writer) (types.SummaryPayload, error) {
	runID := newRunID()

	if strings.TrimSpace(text) == "" {
		return types.SummaryPayload{}, fmt.Errorf("%s: document text is empty", runID)
	}
	if caps.Generator == nil || caps.Entailment == nil || caps.Rewriter == nil {
		return types.SummaryPayload{}, &types.ConfigError{Reason: "generator, entailment, and rewrite capabilities are all required"}
	}

	mode := cfg.Mode
	if mode == "" {
		mode = types.ModeMicro
	}
	if !mode.Valid() {
		return types.SummaryPayload{}, &types.ConfigError{Reason: fmt.Sprintf("unknown mode %q", mode)}
	}

	chunks, err := chunk.Split(text, cfg.Chunking)
	if err != nil {
		return types.SummaryPayload{}, fmt.Errorf("%s: chunking: %w", runID, err)
	}
	fmt.Fprintf(w, "chunked %s (%d passages)\n", runID, len(chunks))

	abstract := truncateBytes(text, abstractLimit)
	topK := cfg.Ranking.TopK
	if topK <= 0 {
		topK = rank.DefaultTopK
	}
	evidence := rank.TopK(chunks, abstract, topK, cfg.Ranking)
	fmt.Fprintf(w, "ranked %s (%d evidence passages)\n", runID, len(evidence))

	if err := ctx.Err(); err != nil {
		return types.SummaryPayload{}, fmt.Errorf("%s: %w", runID, err)
	}

	composed, err := compose.Compose(ctx, caps.Generator, mode, abstract, evidence)
	if err != nil {
		return types.SummaryPayload{}, fmt.Errorf("%s: composing: %w", runID, err)
	}
	fmt.Fprintf(w, "drafted %s (%d sentences)\n", runID, len(composed.Draft.Sentences))

	checked, err := verify.Check(ctx, composed.Draft, chunk.ByID(chunks), caps.Entailment, caps.Rewriter, cfg.Verification)
	if err != nil {
		return types.SummaryPayload{}, fmt.Errorf("%s: verifying: %w", runID, err)
	}
	for _, idx := range checked.Flagged {
		fmt.Fprintf(w, "warning %s: sentence %d left unverified\n", runID, idx)
	}
	fmt.Fprintf(w, "verified %s (%d sentences)\n", runID, len(checked.Draft.Sentences))

	payload := finalize.Assemble(checked.Draft, composed.Reading, composed.Disclaimers, finalize.Options{Language: cfg.Language})
	return payload, nil
}

// newRunID returns a short random identifier that correlates one
// document's progress lines and errors.
func newRunID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "sum_" + hex[:12]
}

// truncateBytes caps s at n bytes, backing off to a UTF-8 boundary.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
