// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finalize assembles the terminal summary payload.
package finalize

import "github.com/pdiddy/summary-engine/pkg/types"

// DefaultLanguage tags payloads whose language is not configured.
const DefaultLanguage = "en"

// Options adjust payload assembly.
type Options struct {
	// Language overrides the payload language tag.
	Language string
}

// Assemble builds the payload from the verified draft, the reading metrics
// computed at composition time, and the detected disclaimers. Assembly is
// pure: equal inputs yield identical payloads, and no collection field is
// ever nil.
func Assemble(draft types.Draft, reading types.ReadingMetrics, disclaimers []string, opts Options) types.SummaryPayload {
	language := opts.Language
	if language == "" {
		language = DefaultLanguage
	}

	keywords := draft.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	jargon := draft.JargonDefinitions
	if jargon == nil {
		jargon = map[string]string{}
	}
	sentences := draft.Sentences
	if sentences == nil {
		sentences = []types.SentenceClaim{}
	}
	if disclaimers == nil {
		disclaimers = []string{}
	}

	return types.SummaryPayload{
		Mode:              draft.Mode,
		LaySummary:        draft.LaySummary,
		Headline:          draft.Headline,
		Keywords:          keywords,
		JargonDefinitions: jargon,
		Sentences:         sentences,
		ReadingLevel:      reading,
		Disclaimers:       disclaimers,
		Language:          language,
	}
}
