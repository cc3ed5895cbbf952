// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify checks every draft sentence against its cited evidence
// and repairs unsupported claims with a single bounded rewrite.
package verify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const (
	// DefaultConcurrency bounds parallel sentence checks.
	DefaultConcurrency = 4

	// microSummaryLimit caps the recomputed micro summary, in bytes.
	microSummaryLimit = 1200
)

// EntailmentChecker judges whether evidence fully entails a claim.
type EntailmentChecker interface {
	Entails(ctx context.Context, evidence, claim string) (bool, error)
}

// Rewriter produces a replacement claim supported by the evidence.
type Rewriter interface {
	Rewrite(ctx context.Context, evidence, claim string) (string, error)
}

// Result holds the corrected draft. Flagged lists the indexes of sentences
// whose capability calls failed and which therefore kept their unverified
// text; it is only populated when the pass runs with ContinueOnError.
type Result struct {
	Draft   types.Draft
	Flagged []int
}

// Check verifies each sentence of the draft against the concatenation of
// its cited passages and returns a corrected copy; the input draft is
// never modified. An unsupported sentence is rewritten once, keeps its
// citations, and is not re-verified. Sentences are checked with bounded
// concurrency and every outcome lands in the sentence's original slot.
//
// After all sentences reach a terminal state, a micro draft's summary is
// recomputed from the corrected sentence texts. A capability failure is
// isolated to its own sentence: with cfg.ContinueOnError the sentence
// keeps its pre-verification text and its index appears in Result.Flagged,
// otherwise Check finishes the pass and returns the joined failures.
func Check(ctx context.Context, draft types.Draft, chunksByID map[int]types.Chunk, checker EntailmentChecker, rewriter Rewriter, cfg types.VerificationConfig) (Result, error) {
	workers := cfg.Concurrency
	if workers <= 0 {
		workers = DefaultConcurrency
	}

	out := draft
	out.Sentences = make([]types.SentenceClaim, len(draft.Sentences))
	copy(out.Sentences, draft.Sentences)

	errs := make([]error, len(out.Sentences))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i := range out.Sentences {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			fixed, err := checkSentence(ctx, out.Sentences[i], chunksByID, checker, rewriter)
			if err != nil {
				errs[i] = &types.VerificationError{Sentence: i, Err: err}
				return
			}
			out.Sentences[i] = fixed
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var flagged []int
	var failures []error
	for i, err := range errs {
		if err == nil {
			continue
		}
		flagged = append(flagged, i)
		failures = append(failures, err)
	}
	if len(failures) > 0 && !cfg.ContinueOnError {
		return Result{}, errors.Join(failures...)
	}

	if out.Mode == types.ModeMicro {
		texts := make([]string, len(out.Sentences))
		for i, s := range out.Sentences {
			texts[i] = strings.TrimSpace(s.Text)
		}
		out.LaySummary = truncateBytes(strings.Join(texts, " "), microSummaryLimit)
	}

	return Result{Draft: out, Flagged: flagged}, nil
}

// checkSentence runs the entailment judgment for one sentence and, when
// the claim is unsupported, a single rewrite. The rewritten text replaces
// the claim verbatim apart from whitespace trimming.
func checkSentence(ctx context.Context, s types.SentenceClaim, chunksByID map[int]types.Chunk, checker EntailmentChecker, rewriter Rewriter) (types.SentenceClaim, error) {
	claim := strings.TrimSpace(s.Text)
	evidence := evidenceText(s.Citations, chunksByID)

	entailed, err := checker.Entails(ctx, evidence, claim)
	if err != nil {
		return s, err
	}
	if entailed {
		return s, nil
	}

	rewritten, err := rewriter.Rewrite(ctx, evidence, claim)
	if err != nil {
		return s, err
	}
	s.Text = strings.TrimSpace(rewritten)
	return s, nil
}

// evidenceText concatenates the cited passages in citation order,
// newline-separated. Citation ids with no matching chunk are skipped.
func evidenceText(citations []int, chunksByID map[int]types.Chunk) string {
	var parts []string
	for _, id := range citations {
		if c, ok := chunksByID[id]; ok {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
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
